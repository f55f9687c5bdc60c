package tesseral

import (
	"math"
	"testing"
)

func TestNearEqual(t *testing.T) {
	tol := DefaultTolerance()

	if !NearEqual(1.0, 1.0+1e-9, tol) {
		t.Error("tiny absolute difference rejected")
	}
	if !NearEqual(1e6, 1e6*(1+1e-6), tol) {
		t.Error("tiny relative difference rejected")
	}
	if NearEqual(1.0, 1.1, tol) {
		t.Error("large difference accepted")
	}
	if !NearEqual(math.NaN(), math.NaN(), tol) {
		t.Error("NaN pair rejected with CheckNaN set")
	}
	if !NearEqual(math.Inf(1), math.Inf(1), tol) {
		t.Error("+Inf pair rejected with CheckInf set")
	}
	if NearEqual(math.Inf(1), math.Inf(-1), tol) {
		t.Error("opposite infinities accepted")
	}
	if !NearEqual(float32(0.1)+float32(0.2), float32(0.3), tol) {
		t.Error("float32 rounding rejected")
	}
}

func TestVerifySlices(t *testing.T) {
	got := []float64{1, 2, 3.5, 4}
	want := []float64{1, 2, 3, 4}
	res := VerifySlices(got, want, StrictTolerance())
	if res.Passed() {
		t.Fatal("mismatch not reported")
	}
	if res.NumErrors != 1 || res.FirstError != 2 {
		t.Errorf("NumErrors=%d FirstError=%d, want 1 and 2", res.NumErrors, res.FirstError)
	}
	if res.MaxAbsError != 0.5 {
		t.Errorf("MaxAbsError=%v, want 0.5", res.MaxAbsError)
	}

	if !VerifySlices(want, want, StrictTolerance()).Passed() {
		t.Error("identical slices reported as mismatched")
	}
}

func TestULPDiff(t *testing.T) {
	if d := ULPDiff(float32(1.0), math.Nextafter32(1.0, 2.0)); d != 1 {
		t.Errorf("adjacent float32 ULP diff = %d, want 1", d)
	}
	if d := ULPDiff(1.0, math.Nextafter(1.0, 2.0)); d != 1 {
		t.Errorf("adjacent float64 ULP diff = %d, want 1", d)
	}
	if d := ULPDiff(1.0, 1.0); d != 0 {
		t.Errorf("identical values ULP diff = %d, want 0", d)
	}
	// Opposite signs cannot be compared by bit distance.
	if d := ULPDiff(1.0, -1.0); d != math.MaxInt32 {
		t.Errorf("opposite signs ULP diff = %d, want MaxInt32", d)
	}
	if d := ULPDiff(float32(1.0), float32(1.5)); d <= 4 {
		t.Errorf("distant values ULP diff = %d, want large", d)
	}
}

func TestNearEqualULP(t *testing.T) {
	// Abs and rel tolerances off: only the ULP check can accept.
	tol := ToleranceConfig{ULPTol: 4}

	a := float32(1.0)
	b := a
	for i := 0; i < 3; i++ {
		b = math.Nextafter32(b, 2.0)
	}
	if !NearEqual(a, b, tol) {
		t.Error("3 ULPs apart rejected with ULPTol=4")
	}
	for i := 0; i < 4; i++ {
		b = math.Nextafter32(b, 2.0)
	}
	if NearEqual(a, b, tol) {
		t.Error("7 ULPs apart accepted with ULPTol=4")
	}

	// Presets carry a ULP budget alongside abs/rel.
	if DefaultTolerance().ULPTol != 4 || StrictTolerance().ULPTol != 1 || RelaxedTolerance().ULPTol != 16 {
		t.Errorf("preset ULPTol = %d/%d/%d, want 4/1/16",
			DefaultTolerance().ULPTol, StrictTolerance().ULPTol, RelaxedTolerance().ULPTol)
	}
}

func TestVerifySlicesLengthMismatch(t *testing.T) {
	got := []float64{1, 2, 3}
	want := []float64{1, 2}
	res := VerifySlices(got, want, StrictTolerance())
	if res.Passed() {
		t.Fatal("length mismatch reported as passing")
	}
	if res.NumErrors != 1 || res.FirstError != 2 || res.TotalItems != 3 {
		t.Errorf("NumErrors=%d FirstError=%d TotalItems=%d, want 1, 2, 3",
			res.NumErrors, res.FirstError, res.TotalItems)
	}

	// Symmetric case: want longer than got.
	res = VerifySlices(want, got, StrictTolerance())
	if res.Passed() || res.FirstError != 2 {
		t.Errorf("short got: NumErrors=%d FirstError=%d, want a mismatch at 2",
			res.NumErrors, res.FirstError)
	}
}
