package analysis

import (
	"math"
	"sort"
	"testing"
)

// TestBenjaminiHochberg_UniformLadder checks the closed-form case where every
// candidate p*n/rank collapses to the same value.
func TestBenjaminiHochberg_UniformLadder(t *testing.T) {
	// p_k = 0.001 * k for k = 1..10, so p_k * 10 / k = 0.01 for every rank.
	pvalues := make([]float64, 10)
	for i := range pvalues {
		pvalues[i] = 0.001 * float64(i+1)
	}

	adjusted := BenjaminiHochberg(pvalues)
	for i, q := range adjusted {
		if math.Abs(q-0.01) > 1e-12 {
			t.Errorf("adjusted[%d] = %g, want 0.01", i, q)
		}
	}
}

func TestBenjaminiHochberg_KnownValues(t *testing.T) {
	pvalues := []float64{0.01, 0.04, 0.03, 0.005}
	expected := []float64{0.02, 0.04, 0.04, 0.02}

	adjusted := BenjaminiHochberg(pvalues)
	if len(adjusted) != len(expected) {
		t.Fatalf("expected %d adjusted values, got %d", len(expected), len(adjusted))
	}
	for i := range expected {
		if math.Abs(adjusted[i]-expected[i]) > 1e-12 {
			t.Errorf("adjusted[%d] = %g, want %g", i, adjusted[i], expected[i])
		}
	}
}

// TestBenjaminiHochberg_Monotone verifies that adjusted values never decrease
// when walked in ascending raw p-value order.
func TestBenjaminiHochberg_Monotone(t *testing.T) {
	pvalues := []float64{0.8, 0.001, 0.2, 0.049, 0.3, 0.002, 0.65, 0.04, 0.0005, 0.11}
	adjusted := BenjaminiHochberg(pvalues)

	order := make([]int, len(pvalues))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return pvalues[order[i]] < pvalues[order[j]]
	})
	for k := 1; k < len(order); k++ {
		if adjusted[order[k]] < adjusted[order[k-1]] {
			t.Errorf("adjusted values not monotone at rank %d: %g < %g",
				k+1, adjusted[order[k]], adjusted[order[k-1]])
		}
	}

	for i, q := range adjusted {
		if q < pvalues[i] {
			t.Errorf("adjusted[%d] = %g below raw p-value %g", i, q, pvalues[i])
		}
		if q < 0 || q > 1 {
			t.Errorf("adjusted[%d] = %g outside [0, 1]", i, q)
		}
	}
}

// TestBenjaminiHochberg_LargestUnchanged verifies the largest p-value maps to
// itself: at rank n the correction factor is exactly 1.
func TestBenjaminiHochberg_LargestUnchanged(t *testing.T) {
	pvalues := []float64{0.02, 0.7, 0.004, 0.31}
	adjusted := BenjaminiHochberg(pvalues)
	if math.Abs(adjusted[1]-0.7) > 1e-12 {
		t.Errorf("largest p-value adjusted to %g, want 0.7", adjusted[1])
	}
}

func TestBenjaminiHochberg_ClippedToOne(t *testing.T) {
	adjusted := BenjaminiHochberg([]float64{0.6, 0.9})
	// Rank 1 candidate is 0.6*2 = 1.2, pulled down to the rank 2 value 0.9.
	if adjusted[0] != 0.9 || adjusted[1] != 0.9 {
		t.Errorf("adjusted = %v, want [0.9 0.9]", adjusted)
	}

	adjusted = BenjaminiHochberg([]float64{0.9, 0.95})
	// Both candidates exceed 1 and must be clipped.
	for i, q := range adjusted {
		if q > 1 {
			t.Errorf("adjusted[%d] = %g exceeds 1", i, q)
		}
	}
}

func TestBenjaminiHochberg_TiesGetEqualValues(t *testing.T) {
	pvalues := []float64{0.03, 0.01, 0.03, 0.2}
	adjusted := BenjaminiHochberg(pvalues)
	if adjusted[0] != adjusted[2] {
		t.Errorf("tied p-values adjusted differently: %g vs %g", adjusted[0], adjusted[2])
	}
}

func TestBenjaminiHochberg_Empty(t *testing.T) {
	if got := BenjaminiHochberg(nil); len(got) != 0 {
		t.Errorf("expected empty result for empty input, got %v", got)
	}
}
