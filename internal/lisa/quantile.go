package lisa

import (
	"fmt"
	"sort"

	"github.com/banshee-data/geoda-core/internal/graph"
)

// QuantileLISA bins x into k quantile groups of (as near as possible)
// equal size, flags observations in the selected quantile (1-indexed,
// 1=lowest) as 1, and runs LocalJoinCount on the resulting binary
// vector.
func QuantileLISA(g *graph.Graph, x []float64, undef []bool, k, quantile int, opts Options) (Result, error) {
	if err := validateInputs(g, x); err != nil {
		return invalid(), err
	}
	if err := requirePositive("k", k); err != nil {
		return invalid(), err
	}
	if quantile < 1 || quantile > k {
		return invalid(), fmt.Errorf("lisa: quantile %d out of range [1,%d]", quantile, k)
	}

	n := len(x)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })

	group := make([]int, n)
	for rank, idx := range order {
		group[idx] = rank*k/n + 1
		if group[idx] > k {
			group[idx] = k
		}
	}

	binary := make([]float64, n)
	for i, grp := range group {
		if grp == quantile {
			binary[i] = 1
		}
	}

	return localJoinCountOn(g, binary, undef, opts), nil
}
