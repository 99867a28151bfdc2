package lisa

import (
	"fmt"

	"github.com/banshee-data/geoda-core/internal/graph"
)

// Join Count cluster codes.
const (
	JoinNotSignificant = 0
	JoinDetected       = 1
	JoinUndefined      = 2
	JoinIsolated       = 3
)

var joinLabels = []string{"Not significant", "Join", "Undefined", "Isolated"}
var joinColors = []string{"white", "blue", "grey", "dark-grey"}

// LocalJoinCount computes local join count statistics on a binary
// {0,1} vector: Jᵢ = xᵢ · Σⱼ wᵢⱼ xⱼ. Significance is only meaningful
// for xᵢ=1 observations; xᵢ=0 observations are reported at category 0
// regardless of their permutation result.
func LocalJoinCount(g *graph.Graph, x []float64, undef []bool, opts Options) Result {
	if err := validateInputs(g, x); err != nil {
		return invalid()
	}
	for _, v := range x {
		if v != 0 && v != 1 {
			return invalid()
		}
	}
	return localJoinCountOn(g, x, undef, opts)
}

func localJoinCountOn(g *graph.Graph, x []float64, undef []bool, opts Options) Result {
	n := g.N()
	rowNbrs := make([][]int, n)
	rowW := make([][]float64, n)
	for i := 0; i < n; i++ {
		rowNbrs[i], rowW[i] = rowWeights(g, i)
	}

	trueStat := func(i int) (float64, float64) {
		lag := weightedSum(rowNbrs[i], rowW[i], x)
		return x[i] * lag, lag
	}
	permStat := func(i int, surrogate []int) float64 {
		return x[i] * weightedSum(surrogate, rowW[i], x)
	}
	extreme := func(trueVal float64, permVals []float64) int {
		r := 0
		for _, v := range permVals {
			if v >= trueVal {
				r++
			}
		}
		return r
	}
	classify := func(i int, val, lag, p, permMean float64, sig bool) int {
		if undef != nil && undef[i] {
			return JoinUndefined
		}
		if g.IsIsolate(i) {
			return JoinIsolated
		}
		if x[i] != 1 || !sig {
			return JoinNotSignificant
		}
		return JoinDetected
	}

	res := runPermutation(g, undef, opts, trueStat, permStat, extreme, classify)
	if res.IsValid {
		res.Labels = joinLabels
		res.Colors = joinColors
		// xᵢ=0 observations never carry a meaningful significance test.
		for i, v := range x {
			if v != 1 {
				res.SigCat[i] = 0
				res.PValue[i] = 1
			}
		}
	}
	return res
}

func requirePositive(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("lisa: %s must be >= 1, got %d", name, v)
	}
	return nil
}
