package lisa

import "github.com/banshee-data/geoda-core/internal/graph"

// Geary shares Moran's cluster codes and palette, per §4.6.
const (
	GearyHH        = MoranHH
	GearyLL        = MoranLL
	GearyLH        = MoranLH
	GearyHL        = MoranHL
	GearyUndefined = MoranUndefined
	GearyIsolated  = MoranIsolated
)

// LocalGeary computes local Geary's C on standardized x: Cᵢ = Σⱼ wᵢⱼ
// (zᵢ-zⱼ)². Low Cᵢ indicates positive local association, so the
// permutation test is one-sided on the lower tail, the opposite of
// Moran's two-sided |I| rule.
func LocalGeary(g *graph.Graph, x []float64, undef []bool, opts Options) Result {
	if err := validateInputs(g, x); err != nil {
		return invalid()
	}
	z := standardize(x)
	n := g.N()
	rowNbrs := make([][]int, n)
	rowW := make([][]float64, n)
	for i := 0; i < n; i++ {
		rowNbrs[i], rowW[i] = rowWeights(g, i)
	}

	localC := func(i int, nbrs []int, w []float64) float64 {
		sum := 0.0
		for k, j := range nbrs {
			d := z[i] - z[j]
			sum += w[k] * d * d
		}
		return sum
	}

	trueStat := func(i int) (float64, float64) {
		lag := weightedSum(rowNbrs[i], rowW[i], z)
		return localC(i, rowNbrs[i], rowW[i]), lag
	}
	permStat := func(i int, surrogate []int) float64 {
		return localC(i, surrogate, rowW[i])
	}
	extreme := func(trueVal float64, permVals []float64) int {
		r := 0
		for _, v := range permVals {
			if v <= trueVal {
				r++
			}
		}
		return r
	}
	classify := func(i int, val, lag, p, permMean float64, sig bool) int {
		if undef != nil && undef[i] {
			return GearyUndefined
		}
		if g.IsIsolate(i) {
			return GearyIsolated
		}
		if !sig {
			return 0
		}
		switch {
		case z[i] > 0 && lag > 0:
			return GearyHH
		case z[i] < 0 && lag < 0:
			return GearyLL
		case z[i] < 0 && lag > 0:
			return GearyLH
		case z[i] > 0 && lag < 0:
			return GearyHL
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
