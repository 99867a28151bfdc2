package weights

import (
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/geoda-core/internal/geom"
	"github.com/banshee-data/geoda-core/internal/graph"
)

// edgeKey is a canonicalized undirected edge between two snapped points:
// the lexicographically smaller endpoint first, so a-b and b-a hash
// identically.
type edgeKey struct {
	a, b geom.Point
}

func snapPoint(p geom.Point, precisionThreshold float64) geom.Point {
	// Open question #2: non-positive precision_threshold means exact
	// match, no rounding.
	if precisionThreshold <= 0 {
		return p
	}
	decimals := int(precisionThreshold)
	scale := math.Pow(10, float64(decimals))
	return geom.Point{
		X: math.Round(p.X*scale) / scale,
		Y: math.Round(p.Y*scale) / scale,
	}
}

func canonicalEdge(a, b geom.Point) edgeKey {
	if a.X < b.X || (a.X == b.X && a.Y < b.Y) {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

// ContiguityOptions configures queen/rook construction.
type ContiguityOptions struct {
	Order              int     // contiguity order, >= 1
	IncludeLowerOrder  bool
	PrecisionThreshold float64 // decimal places for vertex/edge snapping; <=0 means exact
}

// BuildQueen builds a queen contiguity graph: two polygons are neighbors
// iff they share at least one vertex (after optional snapping).
func BuildQueen(polys []*geom.PolygonContents, opts ContiguityOptions) (*graph.Graph, error) {
	return buildContiguity(polys, opts, true)
}

// BuildRook builds a rook contiguity graph: two polygons are neighbors
// iff they share at least one edge (two consecutive vertices).
func BuildRook(polys []*geom.PolygonContents, opts ContiguityOptions) (*graph.Graph, error) {
	return buildContiguity(polys, opts, false)
}

func buildContiguity(polys []*geom.PolygonContents, opts ContiguityOptions, queen bool) (*graph.Graph, error) {
	n := len(polys)
	if opts.Order < 1 {
		return nil, fmt.Errorf("weights: contiguity order must be >= 1, got %d", opts.Order)
	}

	first, err := firstOrderPairs(polys, opts, queen)
	if err != nil {
		return nil, err
	}

	kind := graph.KindRook
	if queen {
		kind = graph.KindQueen
	}

	if opts.Order == 1 {
		return graphFromPairs(n, kind, first)
	}
	return higherOrder(n, kind, first, opts.Order, opts.IncludeLowerOrder)
}

// firstOrderPairs returns, for every polygon i, the set of order-1
// contiguous neighbors, via vertex hashing (queen) or edge hashing
// (rook), at the configured snapping precision.
func firstOrderPairs(polys []*geom.PolygonContents, opts ContiguityOptions, queen bool) ([]map[int]bool, error) {
	n := len(polys)
	pairs := make([]map[int]bool, n)
	for i := range pairs {
		pairs[i] = map[int]bool{}
	}

	if queen {
		buckets := map[geom.Point][]int{}
		for i, poly := range polys {
			if poly == nil {
				continue
			}
			for _, p := range ringVertices(poly) {
				key := snapPoint(p, opts.PrecisionThreshold)
				buckets[key] = append(buckets[key], i)
			}
		}
		for _, owners := range buckets {
			linkAll(pairs, owners)
		}
		return pairs, nil
	}

	buckets := map[edgeKey][]int{}
	for i, poly := range polys {
		if poly == nil {
			continue
		}
		for _, e := range ringEdges(poly, opts.PrecisionThreshold) {
			buckets[e] = append(buckets[e], i)
		}
	}
	for _, owners := range buckets {
		linkAll(pairs, owners)
	}
	return pairs, nil
}

func linkAll(pairs []map[int]bool, owners []int) {
	if len(owners) < 2 {
		return
	}
	for _, a := range owners {
		for _, b := range owners {
			if a != b {
				pairs[a][b] = true
			}
		}
	}
}

// ringVertices returns every ring vertex of poly, including each ring's
// closing point (a duplicate of its first vertex).
func ringVertices(poly *geom.PolygonContents) []geom.Point {
	var out []geom.Point
	for r := 0; r < poly.NumParts(); r++ {
		start, end := poly.Ring(r)
		for i := start; i < end; i++ {
			out = append(out, poly.Points[i])
		}
	}
	return out
}

func ringEdges(poly *geom.PolygonContents, precision float64) []edgeKey {
	var out []edgeKey
	for r := 0; r < poly.NumParts(); r++ {
		start, end := poly.Ring(r)
		n := end - start
		if n < 2 {
			continue
		}
		for i := 0; i < n; i++ {
			a := snapPoint(poly.Points[start+i], precision)
			b := snapPoint(poly.Points[start+(i+1)%n], precision)
			if a == b {
				// A zero-length edge (such as closing point -> first
				// point) is a single vertex, not a shared edge.
				continue
			}
			out = append(out, canonicalEdge(a, b))
		}
	}
	return out
}

func graphFromPairs(n int, kind graph.Kind, pairs []map[int]bool) (*graph.Graph, error) {
	g := graph.New(n, kind, true)
	for i, nbrs := range pairs {
		sorted := sortedKeys(nbrs)
		for _, j := range sorted {
			if err := g.AddEdge(i, j, 1); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// higherOrder computes order-k contiguity by BFS over the order-1
// adjacency. includeLowerOrder=true unions hops 1..order; false keeps
// only nodes at shortest-path distance exactly order.
func higherOrder(n int, kind graph.Kind, first []map[int]bool, order int, includeLowerOrder bool) (*graph.Graph, error) {
	result := make([]map[int]bool, n)
	for i := range result {
		result[i] = map[int]bool{}
	}

	for i := 0; i < n; i++ {
		dist := map[int]int{i: 0}
		frontier := []int{i}
		for step := 1; step <= order; step++ {
			var next []int
			for _, u := range frontier {
				for v := range first[u] {
					if _, seen := dist[v]; !seen {
						dist[v] = step
						next = append(next, v)
					}
				}
			}
			frontier = next
			if len(frontier) == 0 {
				break
			}
		}
		for v, d := range dist {
			if v == i || d == 0 {
				continue
			}
			if includeLowerOrder && d <= order {
				result[i][v] = true
			} else if !includeLowerOrder && d == order {
				result[i][v] = true
			}
		}
	}
	return graphFromPairs(n, kind, result)
}
