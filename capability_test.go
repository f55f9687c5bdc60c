package tesseral

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapabilityDefaultsToAbsent(t *testing.T) {
	require.False(t, HasOptimizedTrsv[float32]())
	require.False(t, HasOptimizedTrsv[float64]())
}

func TestRegisterTrsvRoutesDispatch(t *testing.T) {
	calls := 0
	RegisterTrsv[float64](func(upper, unit bool, a Matrix[float64], b MutVector[float64]) error {
		calls++
		// Delegate to the default so results stay comparable.
		trsvDefault(upper, unit, a, b)
		return nil
	})
	defer RegisterTrsv[float64](nil)

	require.True(t, HasOptimizedTrsv[float64]())
	require.False(t, HasOptimizedTrsv[float32](), "registration must be per element type")

	a := MatrixFromRows([][]float64{
		{2, 0},
		{3, 4},
	})
	b := VectorOf[float64](4, 23)
	require.NoError(t, Trsv(false, false, a, b))
	require.Equal(t, 1, calls, "optimized binding was not selected")
	require.Equal(t, []float64{2, 4.25}, b.Data())
}

// Optimized and default paths must agree on identical inputs.
func TestOptimizedMatchesDefault(t *testing.T) {
	RegisterTrsv[float64](func(upper, unit bool, a Matrix[float64], b MutVector[float64]) error {
		trsvDefault(upper, unit, a, b)
		return nil
	})
	defer RegisterTrsv[float64](nil)

	a := MatrixFromRows([][]float64{
		{4, 0, 0},
		{-1, 2, 0},
		{3, 5, -2},
	})
	mk := func() *DenseVector[float64] { return VectorOf[float64](8, 3, 10) }

	for _, unit := range []bool{false, true} {
		viaBinding := mk()
		require.NoError(t, Trsv(false, unit, a, viaBinding))

		RegisterTrsv[float64](nil)
		viaDefault := mk()
		require.NoError(t, Trsv(false, unit, a, viaDefault))
		RegisterTrsv[float64](func(upper, unit bool, a Matrix[float64], b MutVector[float64]) error {
			trsvDefault(upper, unit, a, b)
			return nil
		})

		require.Equal(t, viaDefault.Data(), viaBinding.Data(), "unit=%v", unit)
	}
}

// Dimension checks run before the capability lookup, so a registered
// binding never sees malformed operands.
func TestDimensionCheckPrecedesBinding(t *testing.T) {
	RegisterTrsv[float64](func(upper, unit bool, a Matrix[float64], b MutVector[float64]) error {
		t.Fatal("binding called with mismatched dimensions")
		return nil
	})
	defer RegisterTrsv[float64](nil)

	a := NewDenseMatrix[float64](2, 3, RowMajor, Host)
	b := NewDenseVector[float64](2, Host)
	err := Trsv(false, false, a, b)
	require.True(t, IsDimensionError(err))
}
