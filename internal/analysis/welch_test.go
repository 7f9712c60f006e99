package analysis

import (
	"math"
	"testing"
)

func TestWelchTTest_KnownCase(t *testing.T) {
	// Equal group sizes and variances: t = 3/sqrt(2/3), df = 4.
	res := WelchTTest([]float64{4, 5, 6}, []float64{1, 2, 3})

	wantT := 3 / math.Sqrt(2.0/3.0)
	if math.Abs(res.T-wantT) > 1e-9 {
		t.Errorf("t = %g, want %g", res.T, wantT)
	}
	if math.Abs(res.DF-4) > 1e-9 {
		t.Errorf("df = %g, want 4", res.DF)
	}
	if res.PValue < 0.015 || res.PValue > 0.03 {
		t.Errorf("p = %g, want roughly 0.021", res.PValue)
	}
}

func TestWelchTTest_EqualGroups(t *testing.T) {
	res := WelchTTest([]float64{1, 2, 3}, []float64{1, 2, 3})
	if res.T != 0 {
		t.Errorf("t = %g, want 0 for identical groups", res.T)
	}
	if math.Abs(res.PValue-1) > 1e-12 {
		t.Errorf("p = %g, want 1 for identical groups", res.PValue)
	}
}

// TestWelchTTest_DegenerateVariance covers the zero-variance conventions:
// constant equal groups are maximally insignificant, constant separated
// groups are maximally significant.
func TestWelchTTest_DegenerateVariance(t *testing.T) {
	res := WelchTTest([]float64{1, 1, 1}, []float64{1, 1, 1})
	if res.PValue != 1.0 {
		t.Errorf("constant equal groups: p = %g, want 1.0", res.PValue)
	}
	if res.T != 0 {
		t.Errorf("constant equal groups: t = %g, want 0", res.T)
	}

	res = WelchTTest([]float64{5, 5, 5}, []float64{1, 1, 1})
	if res.PValue != 0 {
		t.Errorf("constant separated groups: p = %g, want 0", res.PValue)
	}
	if !math.IsInf(res.T, 1) {
		t.Errorf("constant separated groups: t = %g, want +Inf", res.T)
	}

	res = WelchTTest([]float64{1, 1, 1}, []float64{5, 5, 5})
	if !math.IsInf(res.T, -1) {
		t.Errorf("reversed constant groups: t = %g, want -Inf", res.T)
	}
}

// TestWelchTTest_Symmetric verifies swapping the groups negates the statistic
// but leaves the two-tailed p-value unchanged.
func TestWelchTTest_Symmetric(t *testing.T) {
	a := []float64{10.2, 11.5, 9.8, 10.9}
	b := []float64{3.1, 2.8, 3.5}

	fwd := WelchTTest(a, b)
	rev := WelchTTest(b, a)

	if math.Abs(fwd.T+rev.T) > 1e-9 {
		t.Errorf("t not antisymmetric: %g vs %g", fwd.T, rev.T)
	}
	if math.Abs(fwd.PValue-rev.PValue) > 1e-12 {
		t.Errorf("p changed under group swap: %g vs %g", fwd.PValue, rev.PValue)
	}
	if fwd.PValue >= 0.01 {
		t.Errorf("p = %g, expected clear separation below 0.01", fwd.PValue)
	}
}

// TestWelchTTest_OneZeroVarianceGroup checks the df reduction when only one
// group carries spread.
func TestWelchTTest_OneZeroVarianceGroup(t *testing.T) {
	res := WelchTTest([]float64{4, 5, 6}, []float64{1, 1, 1})
	if math.IsNaN(res.T) || math.IsNaN(res.PValue) || math.IsNaN(res.DF) {
		t.Fatalf("NaN leaked from a zero-variance group: %+v", res)
	}
	// Only group A contributes, which reduces to df = n1 - 1.
	if math.Abs(res.DF-2) > 1e-9 {
		t.Errorf("df = %g, want 2", res.DF)
	}
	if res.PValue < 0 || res.PValue > 1 {
		t.Errorf("p = %g outside [0, 1]", res.PValue)
	}
}
