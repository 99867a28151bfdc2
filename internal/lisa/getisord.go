package lisa

import "github.com/banshee-data/geoda-core/internal/graph"

// Getis-Ord cluster codes.
const (
	GNotSignificant = 0
	GHigh           = 1
	GLow            = 2
	GUndefined      = 3
	GIsolated       = 4
)

var gLabels = []string{"Not significant", "High", "Low", "Undefined", "Isolated"}
var gColors = []string{"white", "red", "blue", "grey", "dark-grey"}

// LocalG computes Getis-Ord local G: the numerator sums only true
// neighbors, the denominator sums every other observation (self
// excluded from both sums). This is distinct from LocalGStar, which
// includes the observation itself in both sums — the source's
// local_gstar wrongly delegated to the same implementation as local_g
// (§9, open question 1); this package keeps the two separate.
func LocalG(g *graph.Graph, x []float64, undef []bool, opts Options) Result {
	if err := validateInputs(g, x); err != nil {
		return invalid()
	}
	return getisOrd(g, x, undef, opts, false)
}

// LocalGStar computes Getis-Ord local G*, including the observation
// itself in both the numerator and the denominator.
func LocalGStar(g *graph.Graph, x []float64, undef []bool, opts Options) Result {
	if err := validateInputs(g, x); err != nil {
		return invalid()
	}
	return getisOrd(g, x, undef, opts, true)
}

func getisOrd(g *graph.Graph, x []float64, undef []bool, opts Options, star bool) Result {
	n := g.N()
	rowNbrs := make([][]int, n)
	rowW := make([][]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		rowNbrs[i], rowW[i] = rowWeights(g, i)
		total += x[i]
	}

	denomFor := func(i int) float64 {
		if star {
			return total
		}
		return total - x[i]
	}
	numerFor := func(i int, nbrs []int, w []float64) float64 {
		sum := weightedSum(nbrs, w, x)
		if star {
			sum += x[i] // self term with weight 1, added even when the row already carries a self-loop edge
		}
		return sum
	}

	trueStat := func(i int) (float64, float64) {
		denom := denomFor(i)
		if denom == 0 {
			return 0, 0
		}
		numer := numerFor(i, rowNbrs[i], rowW[i])
		val := numer / denom
		lag := weightedSum(rowNbrs[i], rowW[i], x)
		return val, lag
	}
	permStat := func(i int, surrogate []int) float64 {
		denom := denomFor(i)
		if denom == 0 {
			return 0
		}
		numer := numerFor(i, surrogate, rowW[i])
		return numer / denom
	}
	extreme := func(trueVal float64, permVals []float64) int {
		mean := meanOf(permVals)
		r := 0
		if trueVal >= mean {
			for _, v := range permVals {
				if v >= trueVal {
					r++
				}
			}
		} else {
			for _, v := range permVals {
				if v <= trueVal {
					r++
				}
			}
		}
		return r
	}
	classify := func(i int, val, lag, p, permMean float64, sig bool) int {
		if undef != nil && undef[i] {
			return GUndefined
		}
		if g.IsIsolate(i) {
			return GIsolated
		}
		if !sig {
			return GNotSignificant
		}
		if val >= permMean {
			return GHigh
		}
		return GLow
	}

	res := runPermutation(g, undef, opts, trueStat, permStat, extreme, classify)
	if res.IsValid {
		res.Labels = gLabels
		res.Colors = gColors
	}
	return res
}
