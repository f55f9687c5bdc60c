package tesseral

import (
	"fmt"
)

// Trsv solves the triangular system A·x = b in place: on return b holds x.
//
// A is treated as triangular according to upper; entries strictly on the
// other side of the diagonal are never read. When unit is set the diagonal
// is assumed to be 1 and is neither read nor written. There is no pivoting
// and no zero-diagonal check: a singular non-unit diagonal yields Inf or
// NaN per IEEE semantics, which is the specified behavior; callers
// guarantee regularity.
//
// If a provider registered an optimized binding for T (see RegisterTrsv),
// the call routes there; otherwise the default substitution runs.
func Trsv[T Scalar](upper, unit bool, a Matrix[T], b MutVector[T]) error {
	if a.Rows() != a.Cols() {
		return NewDimensionError("Trsv",
			fmt.Sprintf("coefficient matrix is %dx%d, want square", a.Rows(), a.Cols()))
	}
	if a.Rows() != b.Len() {
		return NewDimensionError("Trsv",
			fmt.Sprintf("matrix dimension %d does not match vector length %d", a.Rows(), b.Len()))
	}
	if a.Density() != Dense || b.Density() != Dense {
		return NewInvalidArgError("Trsv", "sparse operands have no kernel in this layer")
	}

	if fn, ok := optimizedTrsv[T](); ok {
		return fn(upper, unit, a, b)
	}
	trsvDefault(upper, unit, a, b)
	return nil
}

// trsvDefault is the portable substitution algorithm. Sequential by
// necessity: row i depends on every row resolved before it. O(n²).
func trsvDefault[T Scalar](upper, unit bool, a Matrix[T], b MutVector[T]) {
	n := a.Rows()
	if upper {
		// Backward substitution over the upper triangle.
		for i := n - 1; i >= 0; i-- {
			sum := b.At(i)
			for j := i + 1; j < n; j++ {
				sum -= a.At(i, j) * b.At(j)
			}
			if !unit {
				sum /= a.At(i, i)
			}
			b.Set(i, sum)
		}
		return
	}
	// Forward substitution over the lower triangle.
	for i := 0; i < n; i++ {
		sum := b.At(i)
		for j := 0; j < i; j++ {
			sum -= a.At(i, j) * b.At(j)
		}
		if !unit {
			sum /= a.At(i, i)
		}
		b.Set(i, sum)
	}
}
