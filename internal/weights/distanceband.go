package weights

import (
	"fmt"

	"github.com/banshee-data/geoda-core/internal/geoindex"
	"github.com/banshee-data/geoda-core/internal/geom"
	"github.com/banshee-data/geoda-core/internal/graph"
)

// DistanceBandOptions configures distance-band (and, with a kernel set,
// kernel-bandwidth) weight construction.
type DistanceBandOptions struct {
	Threshold          float64
	IsArc              bool
	IsMile             bool
	IsInverse          bool
	Power              float64
	Kernel             Kernel
	Bandwidth          float64 // <=0 defaults to Threshold
	UseKernelDiagonals bool
}

// BuildDistanceBand builds a weighted graph connecting every pair of
// observations within real-world distance Threshold of each other (box
// prefilter via the spatial index, exact distance check on candidates).
func BuildDistanceBand(xs, ys []float64, opts DistanceBandOptions) (*graph.Graph, error) {
	if opts.Threshold <= 0 {
		return nil, fmt.Errorf("weights: distance threshold must be > 0, got %v", opts.Threshold)
	}
	if opts.Kernel != KernelNone && !ValidKernel(opts.Kernel) {
		return nil, fmt.Errorf("weights: unknown kernel %q", opts.Kernel)
	}
	n := len(xs)
	g := graph.New(n, graph.KindDistanceBand, false)
	if n == 0 {
		g.Finalize("")
		return g, nil
	}

	idx, pts, err := buildPointIndex(xs, ys, opts.IsArc)
	if err != nil {
		return nil, err
	}

	indexThreshold := opts.Threshold
	if opts.IsArc {
		radians := opts.Threshold / geom.EarthRadiusKm
		if opts.IsMile {
			radians = opts.Threshold / geom.EarthRadiusMi
		}
		indexThreshold = geom.ChordFromArcRadians(radians)
	}

	bandwidth := opts.Bandwidth
	if bandwidth <= 0 {
		bandwidth = opts.Threshold
	}

	for i := 0; i < n; i++ {
		candidates, err := boxCandidates(idx, pts[i], indexThreshold)
		if err != nil {
			return nil, err
		}
		var row []rawEdge
		for _, j := range candidates {
			if j == i {
				continue
			}
			d := realDistance(idx.Distance(pts[i], pts[j]), opts.IsArc, opts.IsMile)
			if d <= opts.Threshold {
				row = append(row, rawEdge{j: j, dist: d})
			}
		}
		rowMax := 0.0
		for _, e := range row {
			if e.dist > rowMax {
				rowMax = e.dist
			}
		}
		for _, e := range row {
			w, err := weightFor(e.dist, rowMax, bandwidth, opts.IsInverse, opts.Power, opts.Kernel, false)
			if err != nil {
				return nil, err
			}
			if err := g.AddEdge(i, e.j, w); err != nil {
				return nil, err
			}
		}
		if opts.Kernel != KernelNone && opts.UseKernelDiagonals {
			selfW, _ := Apply(opts.Kernel, 0)
			if err := g.AddSelfLoop(i, selfW); err != nil {
				return nil, err
			}
		}
	}
	g.Finalize("")
	return g, nil
}

func boxCandidates(idx *geoindex.Index, center []float64, radius float64) ([]int, error) {
	min := make([]float64, len(center))
	max := make([]float64, len(center))
	for d := range center {
		min[d] = center[d] - radius
		max[d] = center[d] + radius
	}
	return idx.BoxIntersect(min, max)
}
