package geom

// PolygonContents is an ordered sequence of points together with a parts
// index: the first part is the exterior ring, subsequent parts are holes.
// Each ring is closed (its first point equals its last point).
type PolygonContents struct {
	Points []Point
	// Parts holds the starting index, into Points, of each ring. Parts[0]
	// is always 0 (the exterior ring starts at the first point).
	Parts []int
}

// NumParts returns the number of rings (1 exterior + holes).
func (p *PolygonContents) NumParts() int {
	if len(p.Parts) == 0 {
		return 1
	}
	return len(p.Parts)
}

// Ring returns the [start, end) slice bounds, into Points, of ring i.
func (p *PolygonContents) Ring(i int) (start, end int) {
	if len(p.Parts) == 0 {
		return 0, len(p.Points)
	}
	start = p.Parts[i]
	if i+1 < len(p.Parts) {
		end = p.Parts[i+1]
	} else {
		end = len(p.Points)
	}
	return start, end
}

// Bounds returns the axis-aligned bounding box of the polygon as
// (minX, minY, maxX, maxY). It returns ok=false for an empty polygon.
func (p *PolygonContents) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	if len(p.Points) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = p.Points[0].X, p.Points[0].Y
	maxX, maxY = minX, minY
	for _, pt := range p.Points[1:] {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	return minX, minY, maxX, maxY, true
}
