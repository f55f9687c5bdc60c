// Package tesseral tolerance-based verification for floating-point comparisons
package tesseral

import (
	"math"
)

// ToleranceConfig defines tolerance parameters for floating-point comparison
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float64

	// ULPTol is the maximum allowed difference in ULPs (Units in Last Place)
	ULPTol int

	// CheckNaN determines if NaN values should be considered equal
	CheckNaN bool

	// CheckInf determines if Inf values should be considered equal
	CheckInf bool
}

// DefaultTolerance returns default tolerance configuration
func DefaultTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-7,
		RelTol:   1e-5,
		ULPTol:   4,
		CheckNaN: true,
		CheckInf: true,
	}
}

// StrictTolerance returns strict tolerance configuration for high precision
func StrictTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-9,
		RelTol:   1e-7,
		ULPTol:   1,
		CheckNaN: true,
		CheckInf: true,
	}
}

// RelaxedTolerance returns relaxed tolerance for accumulated operations
func RelaxedTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-5,
		RelTol:   1e-3,
		ULPTol:   16,
		CheckNaN: true,
		CheckInf: true,
	}
}

// NearEqual checks if two values are equal within tolerance
func NearEqual[T Scalar](a, b T, tol ToleranceConfig) bool {
	fa, fb := float64(a), float64(b)

	// Handle special cases
	if tol.CheckNaN && math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}

	if tol.CheckInf {
		if math.IsInf(fa, 1) && math.IsInf(fb, 1) {
			return true // Both +Inf
		}
		if math.IsInf(fa, -1) && math.IsInf(fb, -1) {
			return true // Both -Inf
		}
	}

	// Check if exactly equal (handles ±0)
	if fa == fb {
		return true
	}

	// Absolute difference
	diff := math.Abs(fa - fb)

	// Check absolute tolerance
	if diff <= tol.AbsTol {
		return true
	}

	// Check relative tolerance
	larger := math.Max(math.Abs(fa), math.Abs(fb))
	if diff <= larger*tol.RelTol {
		return true
	}

	// Check ULP difference at the operands' own precision
	if tol.ULPTol > 0 {
		if ULPDiff(a, b) <= tol.ULPTol {
			return true
		}
	}

	return false
}

// ULPDiff computes the difference in ULPs between two values at the
// precision of their element type
func ULPDiff[T Scalar](a, b T) int {
	switch x := any(a).(type) {
	case float32:
		return ulpDiff32(x, any(b).(float32))
	case float64:
		return ulpDiff64(x, any(b).(float64))
	default:
		// Defined types with a float underlying type compare at
		// float64 precision.
		return ulpDiff64(float64(a), float64(b))
	}
}

func ulpDiff32(a, b float32) int {
	// Convert to bits
	aBits := math.Float32bits(a)
	bBits := math.Float32bits(b)

	// Check for different signs
	if (aBits^bBits)&0x80000000 != 0 {
		// Different signs, can't use simple subtraction
		return math.MaxInt32
	}

	// Same sign, compute ULP difference
	if aBits > bBits {
		return int(aBits - bBits)
	}
	return int(bBits - aBits)
}

func ulpDiff64(a, b float64) int {
	aBits := math.Float64bits(a)
	bBits := math.Float64bits(b)

	if (aBits^bBits)&0x8000000000000000 != 0 {
		return math.MaxInt32
	}

	var diff uint64
	if aBits > bBits {
		diff = aBits - bBits
	} else {
		diff = bBits - aBits
	}
	if diff > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(diff)
}

// VerificationResult holds the outcome of a slice comparison
type VerificationResult struct {
	MaxAbsError float64
	NumErrors   int
	TotalItems  int
	FirstError  int // Index of first error, -1 if none
}

// VerifySlices compares two slices elementwise and returns detailed
// results. A length mismatch is reported as errors at the missing
// indices rather than read out of range.
func VerifySlices[T Scalar](got, want []T, tol ToleranceConfig) VerificationResult {
	n := min(len(got), len(want))
	total := max(len(got), len(want))
	res := VerificationResult{TotalItems: total, FirstError: -1}
	for i := 0; i < n; i++ {
		diff := math.Abs(float64(got[i]) - float64(want[i]))
		if diff > res.MaxAbsError && !math.IsNaN(diff) {
			res.MaxAbsError = diff
		}
		if !NearEqual(got[i], want[i], tol) {
			res.NumErrors++
			if res.FirstError < 0 {
				res.FirstError = i
			}
		}
	}
	if total > n {
		res.NumErrors += total - n
		if res.FirstError < 0 {
			res.FirstError = n
		}
	}
	return res
}

// Passed reports whether the comparison found no mismatches
func (r VerificationResult) Passed() bool {
	return r.NumErrors == 0
}
