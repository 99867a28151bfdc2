package weights

import (
	"math"
	"testing"
)

// TestDistanceBand_Inclusion exercises invariant 3: every edge respects
// distance(i,j) <= th, and every non-edge has distance(i,j) > th.
func TestDistanceBand_Inclusion(t *testing.T) {
	xs := []float64{0, 1, 2, 10}
	ys := []float64{0, 0, 0, 0}
	const th = 1.5
	g, err := BuildDistanceBand(xs, ys, DistanceBandOptions{Threshold: th})
	if err != nil {
		t.Fatal(err)
	}
	n := len(xs)
	for i := 0; i < n; i++ {
		nbrSet := map[int]bool{}
		for _, e := range g.Row(i) {
			nbrSet[e.Neighbor] = true
		}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := math.Abs(xs[i] - xs[j])
			isNbr := nbrSet[j]
			if isNbr && d > th {
				t.Errorf("edge (%d,%d) has distance %v > threshold %v", i, j, d, th)
			}
			if !isNbr && d <= th {
				t.Errorf("non-edge (%d,%d) has distance %v <= threshold %v", i, j, d, th)
			}
		}
	}
}

// TestDistanceBand_S3 exercises scenario S3: threshold equal to
// find_max_1nn_dist on the unit-circle configuration leaves no isolates,
// with mean neighbor count >= 2.
func TestDistanceBand_S3(t *testing.T) {
	const n = 10
	xs, ys := unitCircle(n)
	th, err := FindMax1NNDist(xs, ys, false, false)
	if err != nil {
		t.Fatal(err)
	}
	g, err := BuildDistanceBand(xs, ys, DistanceBandOptions{Threshold: th})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if g.IsIsolate(i) {
			t.Errorf("point %d: unexpected isolate at threshold %v", i, th)
		}
	}
	stats := g.GetNbrStats()
	if stats.Mean < 2 {
		t.Errorf("expected mean neighbor count >= 2, got %v", stats.Mean)
	}
}

func TestFindMax1NNDist_EmptyAndSingleton(t *testing.T) {
	if d, err := FindMax1NNDist(nil, nil, false, false); err != nil || d != 0 {
		t.Errorf("expected 0, nil for empty input, got %v, %v", d, err)
	}
	if d, err := FindMax1NNDist([]float64{1}, []float64{1}, false, false); err != nil || d != 0 {
		t.Errorf("expected 0, nil for singleton input, got %v, %v", d, err)
	}
}

func TestEstThreshForAvgNumNeigh_UnitCircleNearTarget(t *testing.T) {
	const n = 40
	xs, ys := unitCircle(n)
	got, err := EstThreshForAvgNumNeigh(xs, ys, false, false, 4, 40, 1)
	if err != nil {
		t.Fatal(err)
	}
	avg, err := EstAvgNumNeighThresh(xs, ys, false, false, got, 200, 2)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(avg-4) > 2 {
		t.Errorf("expected average neighbor count near 4 at estimated threshold %v, got %v", got, avg)
	}
}
