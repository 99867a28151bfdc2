package weights

import (
	"math"
	"testing"
)

// TestFindMax1NNDist_UniformGrid checks the max-1NN guarantee: a
// distance-band threshold at or above the max 1NN distance yields no
// isolates.
func TestFindMax1NNDist_UniformGrid(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 0, 0, 0}
	d, err := FindMax1NNDist(xs, ys, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d-1.0) > 1e-9 {
		t.Errorf("FindMax1NNDist() = %v, want 1.0", d)
	}

	g, err := BuildDistanceBand(xs, ys, DistanceBandOptions{Threshold: d})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < g.N(); i++ {
		if g.IsIsolate(i) {
			t.Errorf("observation %d: expected no isolates at max-1NN threshold", i)
		}
	}
}

func TestFindMax1NNDist_SinglePoint(t *testing.T) {
	d, err := FindMax1NNDist([]float64{0}, []float64{0}, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Errorf("expected 0 for n<2, got %v", d)
	}
}

// TestEstAvgNumNeighThresh_Monotonic exercises the Monte-Carlo estimator:
// a wider threshold must never yield a lower estimated average neighbor
// count than a narrower one, on a dense uniform grid.
func TestEstAvgNumNeighThresh_Monotonic(t *testing.T) {
	n := 50
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		ys[i] = 0
	}
	small, err := EstAvgNumNeighThresh(xs, ys, false, false, 1.5, 500, 1)
	if err != nil {
		t.Fatal(err)
	}
	large, err := EstAvgNumNeighThresh(xs, ys, false, false, 5.0, 500, 1)
	if err != nil {
		t.Fatal(err)
	}
	if large < small {
		t.Errorf("expected wider threshold to yield >= neighbors: small=%v large=%v", small, large)
	}
}

// TestEstThreshForAvgNumNeigh_ConvergesReasonably checks where the
// binary search stops. Halving [0, 29] tries 14.5, 7.25, 3.625 and
// 1.8125; 3.625 (about 5.6 neighbors on average, 6 for interior points)
// is the closest to the target, and the next midpoint (about 1.9) does
// not improve on it, so the search stops and returns 3.625.
func TestEstThreshForAvgNumNeigh_ConvergesReasonably(t *testing.T) {
	n := 30
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		ys[i] = 0
	}
	const target = 4.0
	th, err := EstThreshForAvgNumNeigh(xs, ys, false, false, target, 500, 2)
	if err != nil {
		t.Fatal(err)
	}
	if th != 3.625 {
		t.Errorf("EstThreshForAvgNumNeigh() = %v, want 3.625", th)
	}
	got, err := EstAvgNumNeighThresh(xs, ys, false, false, th, 2000, 3)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-5.6) > 0.2 {
		t.Errorf("threshold %v estimates avg neighbors %v, want near 5.6", th, got)
	}
}
