package lisa

import (
	"math"

	"github.com/banshee-data/geoda-core/internal/graph"
)

// Moran cluster codes, per §4.6.
const (
	MoranHH         = 1
	MoranLL         = 2
	MoranLH         = 3
	MoranHL         = 4
	MoranUndefined  = 5
	MoranIsolated   = 6
)

var moranLabels = []string{"Not significant", "High-High", "Low-Low", "Low-High", "High-Low", "Undefined", "Isolated"}
var moranColors = []string{"white", "red", "blue", "light-blue", "light-red", "grey", "dark-grey"}

// LocalMoran computes univariate local Moran's I with conditional
// permutation inference.
func LocalMoran(g *graph.Graph, x []float64, undef []bool, opts Options) Result {
	if err := validateInputs(g, x); err != nil {
		return invalid()
	}
	return localMoranOn(g, standardize(x), undef, opts)
}

func localMoranOn(g *graph.Graph, z []float64, undef []bool, opts Options) Result {
	n := g.N()
	rowNbrs := make([][]int, n)
	rowW := make([][]float64, n)
	for i := 0; i < n; i++ {
		rowNbrs[i], rowW[i] = rowWeights(g, i)
	}

	trueStat := func(i int) (float64, float64) {
		lag := weightedSum(rowNbrs[i], rowW[i], z)
		return z[i] * lag, lag
	}
	permStat := func(i int, surrogate []int) float64 {
		lag := weightedSum(surrogate, rowW[i], z)
		return z[i] * lag
	}
	extreme := func(trueVal float64, permVals []float64) int {
		r := 0
		absTrue := math.Abs(trueVal)
		for _, v := range permVals {
			if math.Abs(v) >= absTrue {
				r++
			}
		}
		return r
	}
	classify := func(i int, val, lag, p, permMean float64, sig bool) int {
		if undef != nil && undef[i] {
			return MoranUndefined
		}
		if g.IsIsolate(i) {
			return MoranIsolated
		}
		if !sig {
			return 0
		}
		switch {
		case z[i] > 0 && lag > 0:
			return MoranHH
		case z[i] < 0 && lag < 0:
			return MoranLL
		case z[i] < 0 && lag > 0:
			return MoranLH
		case z[i] > 0 && lag < 0:
			return MoranHL
		default:
			return 0
		}
	}

	res := runPermutation(g, undef, opts, trueStat, permStat, extreme, classify)
	if res.IsValid {
		res.Labels = moranLabels
		res.Colors = moranColors
	}
	return res
}
