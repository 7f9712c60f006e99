package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// WelchResult holds the outcome of a Welch two-sample t-test.
type WelchResult struct {
	T      float64 // t-statistic
	DF     float64 // Welch-Satterthwaite degrees of freedom
	PValue float64 // two-tailed p-value
}

// WelchTTest compares the means of two groups without assuming equal
// variances. Degenerate variance is handled by definition rather than
// propagating NaN: when both groups are constant and equal the p-value is 1.0,
// and when they are constant but separated it is 0.
func WelchTTest(groupA, groupB []float64) WelchResult {
	n1 := float64(len(groupA))
	n2 := float64(len(groupB))

	mean1 := mean(groupA)
	mean2 := mean(groupB)
	var1 := sampleVariance(groupA)
	var2 := sampleVariance(groupB)

	se2 := var1/n1 + var2/n2
	if se2 == 0 || math.IsNaN(se2) {
		if mean1 == mean2 {
			return WelchResult{T: 0, DF: math.Max(n1+n2-2, 1), PValue: 1.0}
		}
		t := math.Inf(1)
		if mean1 < mean2 {
			t = math.Inf(-1)
		}
		return WelchResult{T: t, DF: math.Max(n1+n2-2, 1), PValue: 0}
	}

	t := (mean1 - mean2) / math.Sqrt(se2)

	// Welch-Satterthwaite approximation. A zero-variance group contributes
	// nothing to the denominator, which reduces to the exact single-group df.
	den := 0.0
	if var1 > 0 && n1 > 1 {
		den += math.Pow(var1/n1, 2) / (n1 - 1)
	}
	if var2 > 0 && n2 > 1 {
		den += math.Pow(var2/n2, 2) / (n2 - 1)
	}
	df := se2 * se2 / den

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - tDist.CDF(math.Abs(t))) // Two-tailed test
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	return WelchResult{T: t, DF: df, PValue: p}
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return m
}

// sampleVariance returns the unbiased variance, treating groups too small to
// estimate spread as constant.
func sampleVariance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	v, err := stats.SampleVariance(data)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
