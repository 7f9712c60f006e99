package analysis

import (
	"math"
	"sort"
)

// BenjaminiHochberg returns FDR-adjusted p-values (q-values) for the complete
// set of raw p-values. The correction factor uses the global n, so it must be
// computed once over the full gene set, never per subset.
//
// Ranks are assigned ascending by p-value with a stable tie-break on input
// position; BH is invariant to tie order among exactly-equal values. Adjusted
// values are made monotone by a cumulative minimum walked from the largest
// rank down to the smallest, then clipped to [0, 1]. Each input position
// receives the adjusted value of its own rank. O(n log n), dominated by the
// sort.
func BenjaminiHochberg(pvalues []float64) []float64 {
	n := len(pvalues)
	adjusted := make([]float64, n)
	if n == 0 {
		return adjusted
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return pvalues[order[i]] < pvalues[order[j]]
	})

	// Cumulative minimum in descending rank order. The running minimum stays
	// unclipped; only the assigned values are clipped.
	running := math.Inf(1)
	for k := n - 1; k >= 0; k-- {
		idx := order[k]
		candidate := pvalues[idx] * float64(n) / float64(k+1)
		if candidate < running {
			running = candidate
		}
		v := running
		if v > 1 {
			v = 1
		}
		if v < 0 {
			v = 0
		}
		adjusted[idx] = v
	}
	return adjusted
}
