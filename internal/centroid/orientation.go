package centroid

import (
	"math/big"

	"github.com/banshee-data/geoda-core/internal/geom"
)

// Orientation is the sign of a triple's turn direction.
type Orientation int

const (
	Right    Orientation = -1
	Straight Orientation = 0
	Left     Orientation = 1
	// failure marks an orientation filter result that fell through to the
	// extended-precision fallback. It is never returned to callers.
	failure Orientation = 2
)

// dpSafeEpsilon bounds the floating-point orientation filter's error.
const dpSafeEpsilon = 1e-15

// precisionBits sets the math/big.Float significand width used for the
// extended-precision fallback. 106 bits is the minimum the algorithm
// requires (double-double equivalent); this module uses a comfortable
// margin above that floor.
const precisionBits = 160

func orientationSign(x float64) Orientation {
	switch {
	case x < 0:
		return Right
	case x > 0:
		return Left
	default:
		return Straight
	}
}

// OrientationIndex classifies the turn from p1->p2->q as Right, Left, or
// Straight. It uses a fast floating-point filter and falls back to
// extended-precision arithmetic only when the filter is inconclusive.
func OrientationIndex(p1, p2, q geom.Point) Orientation {
	if idx := orientationIndexFilter(p1, p2, q); idx != failure {
		return idx
	}
	return orientationIndexExact(p1, p2, q)
}

// orientationIndexFilter is JTS/GEOS's fast double-precision orientation
// test. It returns failure when the result is too close to zero to trust.
func orientationIndexFilter(pa, pb, pc geom.Point) Orientation {
	detleft := (pa.X - pc.X) * (pb.Y - pc.Y)
	detright := (pa.Y - pc.Y) * (pb.X - pc.X)
	det := detleft - detright

	var detsum float64
	switch {
	case detleft > 0:
		if detright <= 0 {
			return orientationSign(det)
		}
		detsum = detleft + detright
	case detleft < 0:
		if detright >= 0 {
			return orientationSign(det)
		}
		detsum = -detleft - detright
	default:
		return orientationSign(det)
	}

	errbound := dpSafeEpsilon * detsum
	if det >= errbound || -det >= errbound {
		return orientationSign(det)
	}
	return failure
}

// orientationIndexExact recomputes the orientation determinant with
// math/big.Float at precisionBits of significand, avoiding the
// cancellation error that defeats the float64 filter.
func orientationIndexExact(p1, p2, q geom.Point) Orientation {
	bf := func(v float64) *big.Float { return new(big.Float).SetPrec(precisionBits).SetFloat64(v) }
	sub := func(a, b *big.Float) *big.Float { return new(big.Float).SetPrec(precisionBits).Sub(a, b) }
	mul := func(a, b *big.Float) *big.Float { return new(big.Float).SetPrec(precisionBits).Mul(a, b) }

	dx1 := sub(bf(p2.X), bf(p1.X))
	dy1 := sub(bf(p2.Y), bf(p1.Y))
	dx2 := sub(bf(q.X), bf(p2.X))
	dy2 := sub(bf(q.Y), bf(p2.Y))

	mx1y2 := mul(dx1, dy2)
	my1x2 := mul(dy1, dx2)
	d := sub(mx1y2, my1x2)

	switch d.Sign() {
	case -1:
		return Right
	case 1:
		return Left
	default:
		return Straight
	}
}

// IsCCW reports whether a closed ring (pts[0] == pts[len(pts)-1]) is
// oriented counter-clockwise. Degenerate rings (fewer than 3 distinct
// points, or an A-B-A configuration) are treated as not CCW rather than
// raising an error.
func IsCCW(pts []geom.Point) bool {
	nPts := len(pts)
	if nPts < 3 {
		return false
	}

	hiIndex := 0
	hiPt := pts[0]
	for i := 1; i < nPts; i++ {
		if pts[i].Y > hiPt.Y {
			hiPt = pts[i]
			hiIndex = i
		}
	}

	iPrev := hiIndex
	for {
		if iPrev == 0 {
			iPrev = nPts
		}
		iPrev--
		if !pts[iPrev].Equals(hiPt) || iPrev == hiIndex {
			break
		}
	}

	iNext := hiIndex
	for {
		iNext = (iNext + 1) % nPts
		if !pts[iNext].Equals(hiPt) || iNext == hiIndex {
			break
		}
	}

	prev := pts[iPrev]
	next := pts[iNext]

	if prev.Equals(hiPt) || next.Equals(hiPt) || prev.Equals(next) {
		// Degenerate ring: does not contain 3 distinct points.
		return false
	}

	disc := OrientationIndex(prev, hiPt, next)
	if disc == Straight {
		// Collinear: CCW iff prev is to the right of next on the x axis.
		return prev.X > next.X
	}
	return disc == Left
}
