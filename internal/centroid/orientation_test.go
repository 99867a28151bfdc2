package centroid

import (
	"testing"

	"github.com/banshee-data/geoda-core/internal/geom"
)

func square(ccw bool) []geom.Point {
	if ccw {
		return []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}
	}
	return []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}}
}

func TestIsCCW_ExactOrientations(t *testing.T) {
	if !IsCCW(square(true)) {
		t.Error("expected exact CCW ring to be detected as CCW")
	}
	if IsCCW(square(false)) {
		t.Error("expected exact CW ring to be detected as not CCW")
	}
}

func TestIsCCW_DegenerateRing(t *testing.T) {
	// A-B-A configuration: fewer than 3 distinct points.
	ring := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}
	if IsCCW(ring) {
		t.Error("expected A-B-A ring to report not CCW")
	}
}

func TestIsCCW_TooFewPoints(t *testing.T) {
	if IsCCW([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}) {
		t.Error("expected fewer than 3 points to report not CCW")
	}
}

func TestOrientationIndex_BasicTurns(t *testing.T) {
	left := OrientationIndex(geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 0}, geom.Point{X: 1, Y: 1})
	if left != Left {
		t.Errorf("expected Left, got %v", left)
	}
	right := OrientationIndex(geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 0}, geom.Point{X: 1, Y: -1})
	if right != Right {
		t.Errorf("expected Right, got %v", right)
	}
	straight := OrientationIndex(geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 0}, geom.Point{X: 2, Y: 0})
	if straight != Straight {
		t.Errorf("expected Straight, got %v", straight)
	}
}

func TestOrientationIndex_NearCollinearFallsBackToExact(t *testing.T) {
	// Differences on the order of 1e-16 defeat the float64 filter; the
	// extended-precision fallback must still return a definite answer.
	p1 := geom.Point{X: 0, Y: 0}
	p2 := geom.Point{X: 1, Y: 1}
	q := geom.Point{X: 2, Y: 2 + 1e-16}
	idx := OrientationIndex(p1, p2, q)
	if idx != Left && idx != Straight {
		t.Errorf("expected Left or Straight for near-collinear triple, got %v", idx)
	}
}
