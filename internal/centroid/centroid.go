// Package centroid computes a robust polygon centroid using the same
// triangle-decomposition algorithm as JTS/GEOS, falling back to a
// length-weighted midpoint or a plain vertex mean for degenerate rings.
package centroid

import "github.com/banshee-data/geoda-core/internal/geom"

// accumulator mirrors the three-pass fallback chain: signed-area weighted
// triangle centroids, then line-length weighted midpoints, then a plain
// vertex mean.
type accumulator struct {
	areaBasePt    geom.Point
	cg3           geom.Point
	lineCentSum   geom.Point
	ptCentSum     geom.Point
	areasum2      float64
	totalLength   float64
	ptCount       int
}

// Compute returns the centroid of poly along with true if it could be
// determined from the geometry. Compute never fails outright: a
// zero-area polygon falls back to a length-weighted midpoint, and a
// zero-length polygon falls back to a vertex mean.
func Compute(poly *geom.PolygonContents) (geom.Point, bool) {
	var acc accumulator
	acc.addShell(poly)
	for i := 1; i < poly.NumParts(); i++ {
		start, end := poly.Ring(i)
		acc.addHole(poly.Points, start, end-1)
	}
	return acc.result()
}

func (a *accumulator) result() (geom.Point, bool) {
	switch {
	case abs(a.areasum2) > 0:
		return geom.Point{X: a.cg3.X / 3 / a.areasum2, Y: a.cg3.Y / 3 / a.areasum2}, true
	case a.totalLength > 0:
		return geom.Point{X: a.lineCentSum.X / a.totalLength, Y: a.lineCentSum.Y / a.totalLength}, true
	case a.ptCount > 0:
		return geom.Point{X: a.ptCentSum.X / float64(a.ptCount), Y: a.ptCentSum.Y / float64(a.ptCount)}, true
	default:
		return geom.Point{}, false
	}
}

func (a *accumulator) addShell(poly *geom.PolygonContents) {
	_, end := poly.Ring(0)
	if end > 0 {
		a.areaBasePt = poly.Points[0]
	}
	isPositiveArea := !IsCCW(poly.Points[0:end])
	for i := 0; i < end-1; i++ {
		a.addTriangle(a.areaBasePt, poly.Points[i], poly.Points[i+1], isPositiveArea)
	}
	a.addLineSegments(poly.Points, 0, end-1)
}

// addHole takes end as the index of the ring's closing (duplicate) point,
// matching the original algorithm's indexing convention for interior
// rings, which is one off from addShell's.
func (a *accumulator) addHole(pts []geom.Point, start, end int) {
	ring := pts[start : end+1]
	isPositiveArea := IsCCW(ring)
	for i := start; i < end; i++ {
		a.addTriangle(a.areaBasePt, pts[i], pts[i+1], isPositiveArea)
	}
	a.addLineSegments(pts, start, end)
}

func (a *accumulator) addTriangle(p0, p1, p2 geom.Point, isPositiveArea bool) {
	sign := -1.0
	if isPositiveArea {
		sign = 1.0
	}
	cx := p0.X + p1.X + p2.X
	cy := p0.Y + p1.Y + p2.Y
	a2 := (p1.X-p0.X)*(p2.Y-p0.Y) - (p2.X-p0.X)*(p1.Y-p0.Y)
	a.cg3.X += sign * a2 * cx
	a.cg3.Y += sign * a2 * cy
	a.areasum2 += sign * a2
}

func (a *accumulator) addLineSegments(pts []geom.Point, start, end int) {
	npts := end - start + 1
	var lineLen float64
	for i := start; i < end; i++ {
		segLen := pts[i].Distance(pts[i+1])
		if segLen == 0 {
			continue
		}
		lineLen += segLen
		midX := (pts[i].X + pts[i+1].X) / 2
		midY := (pts[i].Y + pts[i+1].Y) / 2
		a.lineCentSum.X += segLen * midX
		a.lineCentSum.Y += segLen * midY
	}
	a.totalLength += lineLen
	if lineLen == 0 && npts > 0 {
		a.addPoint(pts[start])
	}
}

func (a *accumulator) addPoint(pt geom.Point) {
	a.ptCount++
	a.ptCentSum.X += pt.X
	a.ptCentSum.Y += pt.Y
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
