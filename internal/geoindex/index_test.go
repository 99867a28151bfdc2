package geoindex

import (
	"math"
	"testing"
)

func TestBuild_Empty(t *testing.T) {
	idx, err := Build(Planar, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("expected empty index, got len %d", idx.Len())
	}
}

func TestNearestK_UnitCircle(t *testing.T) {
	// 10 points evenly spaced on a unit circle; each point's two nearest
	// neighbors (excluding itself) should be its immediate angular
	// neighbors (scenario S2 from the spec).
	const n = 10
	pts := make([][]float64, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / n
		pts[i] = []float64{math.Cos(theta), math.Sin(theta)}
	}
	idx, err := Build(Planar, pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < n; i++ {
		ids, err := idx.NearestK(pts[i], 3) // self + 2 neighbors
		if err != nil {
			t.Fatalf("NearestK(%d): %v", i, err)
		}
		if len(ids) != 3 {
			t.Fatalf("expected 3 results, got %d", len(ids))
		}
		want := map[int]bool{i: true, (i + 1) % n: true, (i - 1 + n) % n: true}
		for _, id := range ids {
			if !want[id] {
				t.Errorf("point %d: unexpected neighbor %d", i, id)
			}
		}
	}
}

func TestBoxIntersect(t *testing.T) {
	pts := [][]float64{{0, 0}, {5, 5}, {10, 10}, {-5, -5}}
	idx, err := Build(Planar, pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids, err := idx.BoxIntersect([]float64{-1, -1}, []float64{6, 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := map[int]bool{}
	for _, id := range ids {
		got[id] = true
	}
	if !got[0] || !got[1] || got[2] || got[3] {
		t.Errorf("unexpected box-intersect result: %v", ids)
	}
}

func TestDistance_Planar(t *testing.T) {
	idx, _ := Build(Planar, [][]float64{{0, 0}})
	d := idx.Distance([]float64{0, 0}, []float64{3, 4})
	if math.Abs(d-5) > 1e-9 {
		t.Errorf("expected 5, got %v", d)
	}
}
