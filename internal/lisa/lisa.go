// Package lisa computes Local Indicators of Spatial Association: local
// Moran's I, Getis-Ord G and G*, local Geary, local Join Count, quantile
// LISA, and empirical-Bayes local Moran, each backed by the conditional
// permutation engine in internal/permute for pseudo p-values and
// significance categories.
package lisa

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/geoda-core/internal/graph"
	"github.com/banshee-data/geoda-core/internal/permute"
)

// sigCutoffs is the fixed significance ladder from §4.6.
var sigCutoffs = []float64{0.05, 0.01, 0.001, 0.0001}

// SigCategory returns the largest k such that p <= cutoffs[k-1], 0 if
// none.
func SigCategory(p float64) int {
	cat := 0
	for i, c := range sigCutoffs {
		if p <= c {
			cat = i + 1
		}
	}
	return cat
}

// PseudoPValue computes (R+1)/(P+1).
func PseudoPValue(r, p int) float64 {
	return float64(r+1) / float64(p+1)
}

// Options configures a LISA run, shared across all six statistics.
type Options struct {
	SignificanceCutoff float64 // informational; the full ladder is always evaluated
	Permutations       int     // default 999
	Method             permute.Method
	Seed               uint64
	NumWorkers         int
}

func (o Options) normalized() Options {
	if o.Permutations <= 0 {
		o.Permutations = 999
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = 1
	}
	if o.Method == "" {
		o.Method = permute.MethodComplete
	}
	return o
}

// Result is the per-observation and global output bundle described in
// §6's LisaResult.
type Result struct {
	IsValid   bool
	Statistic []float64 // lisa_vec
	Lag       []float64 // lag_vec
	PValue    []float64 // sig_local_vec
	SigCat    []int     // sig_cat_vec
	Cluster   []int     // cluster_vec
	NumNbrs   []int     // nn_vec
	Labels    []string
	Colors    []string
}

func invalid() Result {
	return Result{IsValid: false}
}

// standardize returns z = (x - mean) / sd. If sd is 0 (constant x), z is
// all zeros.
func standardize(x []float64) []float64 {
	mean := stat.Mean(x, nil)
	sd := stat.StdDev(x, nil)
	z := make([]float64, len(x))
	if sd == 0 {
		return z
	}
	for i, v := range x {
		z[i] = (v - mean) / sd
	}
	return z
}

// weightedSum computes Σ wᵢⱼ vals[j] over j in nbrs, where vals is
// indexed by observation id (not by position in nbrs).
func weightedSum(nbrs []int, weights []float64, vals []float64) float64 {
	sum := 0.0
	for k, j := range nbrs {
		sum += weights[k] * vals[j]
	}
	return sum
}

func rowWeights(g *graph.Graph, i int) ([]int, []float64) {
	row := g.Row(i)
	nbrs := make([]int, len(row))
	w := make([]float64, len(row))
	for k, e := range row {
		nbrs[k] = e.Neighbor
		w[k] = e.Weight
	}
	return nbrs, w
}

// runPermutation is the shared driver for all six statistics: it
// computes the true local statistic for every observation, then the
// permuted reference distribution via internal/permute, and assembles
// pseudo p-values, significance categories, and cluster labels via the
// statistic-specific callbacks.
func runPermutation(
	g *graph.Graph,
	undef []bool,
	opts Options,
	trueStat func(i int) (value, lag float64),
	permStat func(i int, surrogate []int) float64,
	extremeCount func(trueVal float64, permVals []float64) int,
	classify func(i int, trueVal, lag, p, permMean float64, sig bool) int,
) Result {
	opts = opts.normalized()
	n := g.N()
	res := Result{
		IsValid:   true,
		Statistic: make([]float64, n),
		Lag:       make([]float64, n),
		PValue:    make([]float64, n),
		SigCat:    make([]int, n),
		Cluster:   make([]int, n),
		NumNbrs:   make([]int, n),
	}

	ks := make([]int, n)
	for i := 0; i < n; i++ {
		res.NumNbrs[i] = g.NumNeighbors(i)
		ks[i] = g.NumNeighbors(i)
		if undef != nil && undef[i] {
			ks[i] = 0
		}
		v, lag := trueStat(i)
		res.Statistic[i] = v
		res.Lag[i] = lag
	}

	engine := permute.New(n, opts.Seed, opts.Method)
	permVals, err := engine.ParallelRun(ks, opts.Permutations, opts.NumWorkers, permStat)
	if err != nil {
		return invalid()
	}

	for i := 0; i < n; i++ {
		permMean := meanOf(permVals[i])
		if (undef != nil && undef[i]) || g.IsIsolate(i) {
			res.SigCat[i] = 0
			res.Cluster[i] = classify(i, res.Statistic[i], res.Lag[i], 1.0, permMean, false)
			continue
		}
		r := extremeCount(res.Statistic[i], permVals[i])
		p := PseudoPValue(r, opts.Permutations)
		res.PValue[i] = p
		cat := SigCategory(p)
		res.SigCat[i] = cat
		res.Cluster[i] = classify(i, res.Statistic[i], res.Lag[i], p, permMean, cat > 0)
	}
	return res
}

func validateInputs(g *graph.Graph, x []float64) error {
	if g.N() == 0 {
		return fmt.Errorf("lisa: empty graph")
	}
	if len(x) != g.N() {
		return fmt.Errorf("lisa: value vector length %d != num obs %d", len(x), g.N())
	}
	return nil
}

func isNaN(v float64) bool { return math.IsNaN(v) }

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
