// Package geoindex wraps a bulk-loaded R-tree (github.com/dhconnelly/rtreego)
// over three point universes: planar 2D, lon/lat (stored as radians, with
// great-circle distance), and 3D unit-sphere (chord distance, bijective
// with great-circle distance). The tree is built once in a single-producer
// phase and is safe for concurrent read-only queries thereafter.
package geoindex

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/banshee-data/geoda-core/internal/geom"
)

// Kind selects the coordinate universe an Index was built over.
type Kind int

const (
	Planar Kind = iota
	LonLatRadians
	UnitSphere3D
)

func (k Kind) dims() int {
	if k == UnitSphere3D {
		return 3
	}
	return 2
}

const (
	minChildren = 25
	maxChildren = 50
	// tolerance inflates each point into a degenerate rectangle so rtreego
	// (which indexes rectangles, not bare points) can hold it.
	tolerance = 1e-9
)

// item adapts a single indexed point to rtreego.Spatial.
type item struct {
	id    int
	coord rtreego.Point
	rect  *rtreego.Rect
}

func (it *item) Bounds() *rtreego.Rect { return it.rect }

// Index is a bulk-loaded, read-only-after-build spatial index.
type Index struct {
	kind Kind
	tree *rtreego.Rtree
	n    int
}

// Build indexes pts (already converted to the coordinate universe implied
// by kind: XY for Planar, (lonRad, latRad) for LonLatRadians, (x,y,z) for
// UnitSphere3D) and returns an immutable Index. Points are converted to
// rtreego items in parallel, then inserted sequentially since rtreego's
// tree is not safe for concurrent writers — mirroring the
// prepare-in-parallel/insert-sequentially bulk-load pattern used
// throughout the reference R-tree wrappers this package is grounded on.
func Build(kind Kind, pts [][]float64) (*Index, error) {
	idx := &Index{kind: kind, tree: rtreego.NewTree(kind.dims(), minChildren, maxChildren), n: len(pts)}
	if len(pts) == 0 {
		return idx, nil
	}

	items := make([]*item, len(pts))
	numWorkers := runtime.NumCPU()
	if numWorkers > len(pts) {
		numWorkers = len(pts)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	batch := (len(pts) + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	var buildErr error
	var errMu sync.Mutex
	for w := 0; w < numWorkers; w++ {
		start := w * batch
		end := start + batch
		if start >= len(pts) {
			break
		}
		if end > len(pts) {
			end = len(pts)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if len(pts[i]) != kind.dims() {
					errMu.Lock()
					buildErr = fmt.Errorf("geoindex: point %d has %d dims, want %d", i, len(pts[i]), kind.dims())
					errMu.Unlock()
					return
				}
				p := rtreego.Point(append([]float64(nil), pts[i]...))
				items[i] = &item{id: i, coord: p, rect: p.ToRect(tolerance)}
			}
		}(start, end)
	}
	wg.Wait()

	if buildErr != nil {
		return nil, buildErr
	}
	for _, it := range items {
		idx.tree.Insert(it)
	}
	return idx, nil
}

// Len returns the number of indexed points.
func (idx *Index) Len() int { return idx.n }

// NearestK returns the IDs of the k points nearest to query, including
// query's own point if it was indexed (callers that need self excluded
// should request k+1 and drop a matching id).
func (idx *Index) NearestK(query []float64, k int) ([]int, error) {
	if len(query) != idx.kind.dims() {
		return nil, fmt.Errorf("geoindex: query has %d dims, want %d", len(query), idx.kind.dims())
	}
	if k <= 0 {
		return nil, nil
	}
	if k > idx.n {
		k = idx.n
	}
	results := idx.tree.NearestNeighbors(k, rtreego.Point(query))
	ids := make([]int, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.(*item).id)
	}
	return ids, nil
}

// BoxIntersect returns the IDs of all points within the axis-aligned box
// [min, max] (one value per dimension).
func (idx *Index) BoxIntersect(min, max []float64) ([]int, error) {
	if len(min) != idx.kind.dims() || len(max) != idx.kind.dims() {
		return nil, fmt.Errorf("geoindex: box dims mismatch, want %d", idx.kind.dims())
	}
	lengths := make([]float64, len(min))
	for i := range min {
		lengths[i] = max[i] - min[i]
	}
	rect, err := rtreego.NewRect(rtreego.Point(min), lengths)
	if err != nil {
		return nil, fmt.Errorf("geoindex: invalid box: %w", err)
	}
	results := idx.tree.SearchIntersect(rect)
	ids := make([]int, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.(*item).id)
	}
	return ids, nil
}

// Distance computes the appropriate distance metric between two points in
// this index's coordinate universe: Euclidean for Planar and
// UnitSphere3D, great-circle radians for LonLatRadians.
func (idx *Index) Distance(a, b []float64) float64 {
	switch idx.kind {
	case LonLatRadians:
		return greatCircleRadians(a[0], a[1], b[0], b[1])
	case UnitSphere3D:
		return geom.ChordDistance(
			geom.SpherePoint{X: a[0], Y: a[1], Z: a[2]},
			geom.SpherePoint{X: b[0], Y: b[1], Z: b[2]},
		)
	default:
		dx, dy := a[0]-b[0], a[1]-b[1]
		return math.Sqrt(dx*dx + dy*dy)
	}
}

func greatCircleRadians(lon1, lat1, lon2, lat2 float64) float64 {
	return geom.GreatCircleKm(
		lon1*180/math.Pi, lat1*180/math.Pi,
		lon2*180/math.Pi, lat2*180/math.Pi,
	) / geom.EarthRadiusKm
}
