// Package graph implements the two mutually convertible neighbor-list
// representations shared by the weights builder and the LISA statistics:
// a binary (Gal-form) contiguity list and a weighted (Gwt-form) neighbor
// list. Both are modeled as an owning slice of rows, each row an ordered
// sequence of (neighbor index, weight) pairs — no cross-row aliasing, all
// reads by index, matching the pointer-free translation of the original
// pointer-heavy neighbor arrays.
package graph

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Kind records how a Graph's weights were derived; it is informational
// only and does not change graph semantics.
type Kind int

const (
	KindQueen Kind = iota
	KindRook
	KindKNN
	KindDistanceBand
	KindKernelKNN
	KindKernelBand
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindQueen:
		return "queen"
	case KindRook:
		return "rook"
	case KindKNN:
		return "knn"
	case KindDistanceBand:
		return "distance_band"
	case KindKernelKNN:
		return "kernel_knn"
	case KindKernelBand:
		return "kernel_band"
	default:
		return "custom"
	}
}

// Edge is one (neighbor, weight) entry in a row.
type Edge struct {
	Neighbor int
	Weight   float64
}

// Graph is a neighbor list over N observations. IsBinary graphs ignore
// edge weights (AddEdge stores 1.0 for every edge, whatever weight it
// is given); a
// binary Graph is the Gal-form of §3, a non-binary Graph is the
// Gwt-form.
type Graph struct {
	rows        [][]Edge
	isBinary    bool
	isSymmetric bool
	kind        Kind
	uid         string
}

// New returns an empty Graph over n observations.
func New(n int, kind Kind, isBinary bool) *Graph {
	return &Graph{rows: make([][]Edge, n), isBinary: isBinary, kind: kind}
}

// N returns the number of observations.
func (g *Graph) N() int { return len(g.rows) }

// IsBinary reports whether this graph is a Gal-form binary contiguity
// list (edge weights are not meaningful).
func (g *Graph) IsBinary() bool { return g.isBinary }

// Kind returns the weights-builder variant that produced this graph.
func (g *Graph) Kind() Kind { return g.kind }

// UID returns the opaque identifier assigned at Finalize, or "" if the
// graph has not been finalized.
func (g *Graph) UID() string { return g.uid }

// AddEdge appends a (j, weight) neighbor to row i. Self-loops are always
// rejected here, matching §3's "no self-loops unless explicitly
// permitted" invariant (kernel diagonals are the one permitted case, and
// those go through AddSelfLoop).
func (g *Graph) AddEdge(i, j int, weight float64) error {
	if i < 0 || i >= len(g.rows) || j < 0 || j >= len(g.rows) {
		return fmt.Errorf("graph: index out of bounds [0,%d): i=%d j=%d", len(g.rows), i, j)
	}
	if i == j {
		return fmt.Errorf("graph: self-loop rejected for observation %d", i)
	}
	for _, e := range g.rows[i] {
		if e.Neighbor == j {
			return fmt.Errorf("graph: duplicate neighbor %d for observation %d", j, i)
		}
	}
	w := weight
	if g.isBinary {
		w = 1
	}
	g.rows[i] = append(g.rows[i], Edge{Neighbor: j, Weight: w})
	return nil
}

// AddSelfLoop appends a self-loop to row i with the given weight. Only
// kernel-diagonal weights use this; ordinary construction never does.
func (g *Graph) AddSelfLoop(i int, weight float64) error {
	if i < 0 || i >= len(g.rows) {
		return fmt.Errorf("graph: index out of bounds [0,%d): i=%d", len(g.rows), i)
	}
	g.rows[i] = append(g.rows[i], Edge{Neighbor: i, Weight: weight})
	return nil
}

// GetNeighbors returns the neighbor indices of observation i, in
// insertion order.
func (g *Graph) GetNeighbors(i int) []int {
	row := g.rows[i]
	out := make([]int, len(row))
	for k, e := range row {
		out[k] = e.Neighbor
	}
	return out
}

// Row returns the raw (neighbor, weight) edges of observation i.
func (g *Graph) Row(i int) []Edge { return g.rows[i] }

// NumNeighbors returns len(Row(i)).
func (g *Graph) NumNeighbors(i int) int { return len(g.rows[i]) }

// IsIsolate reports whether observation i has no neighbors.
func (g *Graph) IsIsolate(i int) bool { return len(g.rows[i]) == 0 }

// SpatialLag returns, for every observation i, Σⱼ wᵢⱼ xⱼ, row-standardized
// by the row's weight sum unless standardized is false. Binary graphs
// treat every edge as weight 1. Isolates get a lag of 0.
func (g *Graph) SpatialLag(x []float64, standardized bool) ([]float64, error) {
	if len(x) != len(g.rows) {
		return nil, fmt.Errorf("graph: value vector length %d != num obs %d", len(x), len(g.rows))
	}
	lag := make([]float64, len(g.rows))
	for i, row := range g.rows {
		if len(row) == 0 {
			continue
		}
		vals := make([]float64, len(row))
		wsum := 0.0
		for k, e := range row {
			vals[k] = x[e.Neighbor]
			wsum += e.Weight
		}
		sum := floats.Dot(weightsOf(row), vals)
		if standardized && wsum != 0 {
			lag[i] = sum / wsum
		} else {
			lag[i] = sum
		}
	}
	return lag, nil
}

func weightsOf(row []Edge) []float64 {
	w := make([]float64, len(row))
	for i, e := range row {
		w[i] = e.Weight
	}
	return w
}

// Update removes every observation flagged undefined from every other
// row's neighbor list and clears its own row, then the caller should
// call Finalize again to refresh Descriptor stats. Matches §4.3's
// Update(undefs) contract.
func (g *Graph) Update(undefs []bool) error {
	if len(undefs) != len(g.rows) {
		return fmt.Errorf("graph: undefs length %d != num obs %d", len(undefs), len(g.rows))
	}
	for i := range g.rows {
		if undefs[i] {
			g.rows[i] = nil
			continue
		}
		filtered := g.rows[i][:0:0]
		for _, e := range g.rows[i] {
			if !undefs[e.Neighbor] {
				filtered = append(filtered, e)
			}
		}
		g.rows[i] = filtered
	}
	return nil
}

// NbrStats summarizes neighbor-count distribution and sparsity.
type NbrStats struct {
	Min, Max     int
	Mean, Median float64
	Sparsity     float64
}

// GetNbrStats computes min/max/mean/median neighbor count and sparsity
// (non-zero cells / N²). Isolates are included in the distribution (as
// zero-count rows), never causing a division by zero.
func (g *Graph) GetNbrStats() NbrStats {
	n := len(g.rows)
	if n == 0 {
		return NbrStats{}
	}
	counts := make([]int, n)
	total := 0
	for i, row := range g.rows {
		counts[i] = len(row)
		total += len(row)
	}
	sorted := append([]int(nil), counts...)
	sort.Ints(sorted)

	stats := NbrStats{
		Min:      sorted[0],
		Max:      sorted[n-1],
		Mean:     float64(total) / float64(n),
		Sparsity: float64(total) / (float64(n) * float64(n)),
	}
	if n%2 == 1 {
		stats.Median = float64(sorted[n/2])
	} else {
		stats.Median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}
	return stats
}

// Descriptor is the immutable-until-Update snapshot of a finalized
// weights graph, per §3's "Weights descriptor".
type Descriptor struct {
	Kind        Kind
	IsSymmetric bool
	Stats       NbrStats
	NumObs      int
	UID         string
}

// Finalize computes and stores the graph's symmetry flag and stats,
// assigning it the given uid. It returns the resulting Descriptor.
func (g *Graph) Finalize(uid string) Descriptor {
	g.uid = uid
	g.isSymmetric = g.checkSymmetric()
	return Descriptor{
		Kind:        g.kind,
		IsSymmetric: g.isSymmetric,
		Stats:       g.GetNbrStats(),
		NumObs:      len(g.rows),
		UID:         uid,
	}
}

// IsSymmetric reports whether the graph is known to be symmetric; valid
// only after Finalize.
func (g *Graph) IsSymmetric() bool { return g.isSymmetric }

func (g *Graph) checkSymmetric() bool {
	has := func(i, j int) bool {
		for _, e := range g.rows[i] {
			if e.Neighbor == j {
				return true
			}
		}
		return false
	}
	for i, row := range g.rows {
		for _, e := range row {
			if !has(e.Neighbor, i) {
				return false
			}
		}
	}
	return true
}
