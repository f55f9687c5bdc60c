package tesseral

// TrsvFunc is the calling contract of an optimized triangular-solve
// binding. It carries the same pre- and postconditions as the default
// algorithm: a is square and triangular per upper, b is overwritten with
// the solution, and when unit is set the diagonal is never touched.
type TrsvFunc[T Scalar] func(upper, unit bool, a Matrix[T], b MutVector[T]) error

// The binding slots. One per element type, nil when no provider opted in.
// Providers register from an init function, before any solve runs, so the
// slots are read without locking on the hot path.
var (
	trsvF32 TrsvFunc[float32]
	trsvF64 TrsvFunc[float64]
)

// RegisterTrsv installs an optimized triangular-solve binding for element
// type T, replacing any previous one. Intended to be called from a
// provider package's init. Passing nil clears the slot.
func RegisterTrsv[T Scalar](fn TrsvFunc[T]) {
	switch f := any(fn).(type) {
	case TrsvFunc[float32]:
		trsvF32 = f
	case TrsvFunc[float64]:
		trsvF64 = f
	}
}

// HasOptimizedTrsv reports whether an optimized binding is registered for
// element type T. Absence of a registration means false.
func HasOptimizedTrsv[T Scalar]() bool {
	_, ok := optimizedTrsv[T]()
	return ok
}

// optimizedTrsv resolves the binding slot for T. The type switch
// monomorphizes away; there is no per-element dispatch cost.
func optimizedTrsv[T Scalar]() (TrsvFunc[T], bool) {
	var zero T
	switch any(zero).(type) {
	case float32:
		if trsvF32 != nil {
			return any(trsvF32).(TrsvFunc[T]), true
		}
	case float64:
		if trsvF64 != nil {
			return any(trsvF64).(TrsvFunc[T]), true
		}
	}
	return nil, false
}
