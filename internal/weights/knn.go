package weights

import (
	"fmt"
	"math"

	"github.com/banshee-data/geoda-core/internal/geoindex"
	"github.com/banshee-data/geoda-core/internal/geom"
	"github.com/banshee-data/geoda-core/internal/graph"
)

// KNNOptions configures k-nearest-neighbor weight construction.
type KNNOptions struct {
	K                  int
	IsArc              bool
	IsMile             bool
	IsInverse          bool
	Power              float64
	Kernel             Kernel
	Bandwidth          float64 // <=0 means "use the max observed 1NN...kNN distance"
	AdaptiveBandwidth  bool
	UseKernelDiagonals bool
}

// buildPointIndex converts xs/ys into the coordinate universe implied by
// isArc and returns the index plus the points in index space, so
// callers can issue further queries against the same coordinates.
func buildPointIndex(xs, ys []float64, isArc bool) (*geoindex.Index, [][]float64, error) {
	n := len(xs)
	if len(ys) != n {
		return nil, nil, fmt.Errorf("weights: x/y length mismatch: %d vs %d", n, len(ys))
	}
	pts := make([][]float64, n)
	kind := geoindex.Planar
	if isArc {
		kind = geoindex.UnitSphere3D
		for i := range xs {
			sp := geom.LonLatToSphere(xs[i], ys[i])
			pts[i] = []float64{sp.X, sp.Y, sp.Z}
		}
	} else {
		for i := range xs {
			pts[i] = []float64{xs[i], ys[i]}
		}
	}
	idx, err := geoindex.Build(kind, pts)
	if err != nil {
		return nil, nil, err
	}
	return idx, pts, nil
}

// realDistance converts an index-space distance (chord units when isArc)
// into real-world units (km or mi), per is_arc/is_mile.
func realDistance(indexDist float64, isArc, isMile bool) float64 {
	if !isArc {
		return indexDist
	}
	radians := geom.ArcRadiansFromChord(indexDist)
	if isMile {
		return radians * geom.EarthRadiusMi
	}
	return radians * geom.EarthRadiusKm
}

type rawEdge struct {
	j    int
	dist float64
}

// BuildKNN builds a k-nearest-neighbor weighted graph over the given
// coordinates (x/y pairs, or lon/lat degree pairs when opts.IsArc).
func BuildKNN(xs, ys []float64, opts KNNOptions) (*graph.Graph, error) {
	if opts.K <= 0 {
		return nil, fmt.Errorf("weights: k must be >= 1, got %d", opts.K)
	}
	if opts.Kernel != KernelNone && !ValidKernel(opts.Kernel) {
		return nil, fmt.Errorf("weights: unknown kernel %q", opts.Kernel)
	}
	n := len(xs)
	g := graph.New(n, graph.KindKNN, false)
	if n == 0 {
		g.Finalize("")
		return g, nil
	}

	idx, pts, err := buildPointIndex(xs, ys, opts.IsArc)
	if err != nil {
		return nil, err
	}

	rows := make([][]rawEdge, n)
	maxDist := 0.0
	for i := 0; i < n; i++ {
		ids, err := idx.NearestK(pts[i], opts.K+1)
		if err != nil {
			return nil, err
		}
		row := make([]rawEdge, 0, opts.K)
		for _, j := range ids {
			if j == i {
				continue
			}
			d := realDistance(idx.Distance(pts[i], pts[j]), opts.IsArc, opts.IsMile)
			row = append(row, rawEdge{j: j, dist: d})
			if d > maxDist {
				maxDist = d
			}
			if len(row) == opts.K {
				break
			}
		}
		rows[i] = row
	}

	bandwidth := opts.Bandwidth
	if bandwidth <= 0 {
		bandwidth = maxDist
	}

	for i, row := range rows {
		rowMax := 0.0
		for _, e := range row {
			if e.dist > rowMax {
				rowMax = e.dist
			}
		}
		for _, e := range row {
			w, err := weightFor(e.dist, rowMax, bandwidth, opts.IsInverse, opts.Power, opts.Kernel, opts.AdaptiveBandwidth)
			if err != nil {
				return nil, err
			}
			if err := g.AddEdge(i, e.j, w); err != nil {
				return nil, err
			}
		}
		if opts.Kernel != KernelNone {
			selfW := 1.0
			if opts.UseKernelDiagonals {
				selfW, _ = Apply(opts.Kernel, 0)
			}
			if err := g.AddSelfLoop(i, selfW); err != nil {
				return nil, err
			}
		}
	}
	g.Finalize("")
	return g, nil
}

// weightFor applies the shared inverse-distance / bandwidth-normalize /
// kernel pipeline described in §4.4, steps 1-3 (the diagonal policy,
// step 4, is applied by the caller since it concerns self-loops only).
func weightFor(dist, rowMax, bandwidth float64, isInverse bool, power float64, kernel Kernel, adaptive bool) (float64, error) {
	w := dist
	if isInverse {
		w = math.Pow(dist, power)
	}
	if kernel == KernelNone {
		return w, nil
	}
	if adaptive && rowMax > 0 {
		w = w / rowMax
	} else if bandwidth > 0 {
		w = w / bandwidth
	}
	return Apply(kernel, w)
}
