package weights

import (
	"testing"

	"github.com/banshee-data/geoda-core/internal/geom"
)

// square returns an axis-aligned unit square polygon with lower-left
// corner at (x, y).
func square(x, y float64) *geom.PolygonContents {
	pts := []geom.Point{
		{X: x, Y: y}, {X: x + 1, Y: y}, {X: x + 1, Y: y + 1}, {X: x, Y: y + 1}, {X: x, Y: y},
	}
	return &geom.PolygonContents{Points: pts, Parts: []int{0}}
}

// grid3x3 builds a 3x3 grid of unit squares, row-major, for scenario S1.
func grid3x3() []*geom.PolygonContents {
	polys := make([]*geom.PolygonContents, 0, 9)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			polys = append(polys, square(float64(col), float64(row)))
		}
	}
	return polys
}

func assertSymmetric(t *testing.T, g interface {
	N() int
	GetNeighbors(int) []int
}) {
	t.Helper()
	for i := 0; i < g.N(); i++ {
		for _, j := range g.GetNeighbors(i) {
			found := false
			for _, back := range g.GetNeighbors(j) {
				if back == i {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("asymmetry: %d lists %d but not vice versa", i, j)
			}
		}
	}
}

// TestQueenGrid3x3 exercises scenario S1 for queen weights.
func TestQueenGrid3x3(t *testing.T) {
	g, err := BuildQueen(grid3x3(), ContiguityOptions{Order: 1, PrecisionThreshold: 0})
	if err != nil {
		t.Fatal(err)
	}
	assertSymmetric(t, g)

	corners := []int{0, 2, 6, 8}
	edges := []int{1, 3, 5, 7}
	center := 4
	for _, c := range corners {
		if n := g.NumNeighbors(c); n != 3 {
			t.Errorf("corner %d: expected 3 neighbors, got %d", c, n)
		}
	}
	for _, e := range edges {
		if n := g.NumNeighbors(e); n != 5 {
			t.Errorf("edge %d: expected 5 neighbors, got %d", e, n)
		}
	}
	if n := g.NumNeighbors(center); n != 8 {
		t.Errorf("center: expected 8 neighbors, got %d", n)
	}
}

// TestRookGrid3x3 exercises scenario S1 for rook weights.
func TestRookGrid3x3(t *testing.T) {
	g, err := BuildRook(grid3x3(), ContiguityOptions{Order: 1, PrecisionThreshold: 0})
	if err != nil {
		t.Fatal(err)
	}
	assertSymmetric(t, g)

	corners := []int{0, 2, 6, 8}
	edges := []int{1, 3, 5, 7}
	center := 4
	for _, c := range corners {
		if n := g.NumNeighbors(c); n != 2 {
			t.Errorf("corner %d: expected 2 neighbors, got %d", c, n)
		}
	}
	for _, e := range edges {
		if n := g.NumNeighbors(e); n != 3 {
			t.Errorf("edge %d: expected 3 neighbors, got %d", e, n)
		}
	}
	if n := g.NumNeighbors(center); n != 4 {
		t.Errorf("center: expected 4 neighbors, got %d", n)
	}
}

func TestQueenVsRookDiffer(t *testing.T) {
	polys := grid3x3()
	queen, err := BuildQueen(polys, ContiguityOptions{Order: 1})
	if err != nil {
		t.Fatal(err)
	}
	rook, err := BuildRook(polys, ContiguityOptions{Order: 1})
	if err != nil {
		t.Fatal(err)
	}
	if queen.NumNeighbors(4) == rook.NumNeighbors(4) {
		t.Error("expected queen center to have strictly more neighbors than rook center")
	}
}

func TestHigherOrderContiguity(t *testing.T) {
	polys := grid3x3()
	g, err := BuildRook(polys, ContiguityOptions{Order: 2, IncludeLowerOrder: true})
	if err != nil {
		t.Fatal(err)
	}
	assertSymmetric(t, g)
	// order-2-inclusive from the center (4) should reach every other cell
	// in this 3x3 rook-adjacency grid.
	if g.NumNeighbors(4) != 8 {
		t.Errorf("expected center to reach all 8 others at order<=2, got %d", g.NumNeighbors(4))
	}
}

func TestPrecisionThresholdSnapping(t *testing.T) {
	a := square(0, 0)
	b := &geom.PolygonContents{
		Points: []geom.Point{{X: 1.0000001, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1.0000001, Y: 1}, {X: 1.0000001, Y: 0}},
		Parts:  []int{0},
	}
	exact, err := BuildQueen([]*geom.PolygonContents{a, b}, ContiguityOptions{Order: 1, PrecisionThreshold: 0})
	if err != nil {
		t.Fatal(err)
	}
	if exact.NumNeighbors(0) != 0 {
		t.Errorf("expected no shared vertex at exact precision, got %d neighbors", exact.NumNeighbors(0))
	}

	snapped, err := BuildQueen([]*geom.PolygonContents{a, b}, ContiguityOptions{Order: 1, PrecisionThreshold: 3})
	if err != nil {
		t.Fatal(err)
	}
	if snapped.NumNeighbors(0) != 1 {
		t.Errorf("expected a shared vertex after snapping to 3 decimals, got %d neighbors", snapped.NumNeighbors(0))
	}
}
