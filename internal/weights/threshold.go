package weights

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/banshee-data/geoda-core/internal/geom"
)

// FindMax1NNDist returns the maximum, over all points, of the distance
// to that point's single nearest neighbor. Any distance-band threshold
// at or above this value guarantees no isolates.
func FindMax1NNDist(xs, ys []float64, isArc, isMile bool) (float64, error) {
	n := len(xs)
	if n < 2 {
		return 0, nil
	}
	idx, pts, err := buildPointIndex(xs, ys, isArc)
	if err != nil {
		return 0, err
	}
	maxDist := 0.0
	for i := 0; i < n; i++ {
		ids, err := idx.NearestK(pts[i], 2)
		if err != nil {
			return 0, err
		}
		for _, j := range ids {
			if j == i {
				continue
			}
			d := realDistance(idx.Distance(pts[i], pts[j]), isArc, isMile)
			if d > maxDist {
				maxDist = d
			}
		}
	}
	return maxDist, nil
}

// EstAvgNumNeighThresh Monte-Carlo estimates the average neighbor count
// a distance-band graph at threshold th would produce, by sampling
// trials random query points and box-querying with radius th.
func EstAvgNumNeighThresh(xs, ys []float64, isArc, isMile bool, th float64, trials int, seed uint64) (float64, error) {
	n := len(xs)
	if n == 0 || trials <= 0 {
		return 0, nil
	}
	idx, pts, err := buildPointIndex(xs, ys, isArc)
	if err != nil {
		return 0, err
	}
	indexThreshold := th
	if isArc {
		radians := th / geom.EarthRadiusKm
		if isMile {
			radians = th / geom.EarthRadiusMi
		}
		indexThreshold = geom.ChordFromArcRadians(radians)
	}

	rng := rand.New(rand.NewSource(int64(seed)))
	total := 0
	for t := 0; t < trials; t++ {
		i := rng.Intn(n)
		candidates, err := boxCandidates(idx, pts[i], indexThreshold)
		if err != nil {
			return 0, err
		}
		count := 0
		for _, j := range candidates {
			if j == i {
				continue
			}
			if realDistance(idx.Distance(pts[i], pts[j]), isArc, isMile) <= th {
				count++
			}
		}
		total += count
	}
	return float64(total) / float64(trials), nil
}

// EstThreshForAvgNumNeigh binary-searches, over [0, bounding box
// diagonal], for the threshold producing a Monte-Carlo average neighbor
// count closest to avgN, stopping after 20 iterations or once the
// estimate stops improving.
func EstThreshForAvgNumNeigh(xs, ys []float64, isArc, isMile bool, avgN float64, trials int, seed uint64) (float64, error) {
	n := len(xs)
	if n == 0 {
		return 0, nil
	}
	minX, minY, maxX, maxY, ok := boundsOf(xs, ys)
	if !ok {
		return 0, fmt.Errorf("weights: cannot estimate threshold for empty point set")
	}
	diag := geom.Point{X: minX, Y: minY}.Distance(geom.Point{X: maxX, Y: maxY})
	if isArc {
		diag = geom.GreatCircleKm(minX, minY, maxX, maxY)
		if isMile {
			diag = geom.GreatCircleMi(minX, minY, maxX, maxY)
		}
	}

	lo, hi := 0.0, diag
	best := hi
	bestDiff := math.Inf(1)
	for iter := 0; iter < 20; iter++ {
		mid := (lo + hi) / 2
		if mid <= 0 {
			break
		}
		avg, err := EstAvgNumNeighThresh(xs, ys, isArc, isMile, mid, trials, seed+uint64(iter))
		if err != nil {
			return 0, err
		}
		diff := math.Abs(avg - avgN)
		if diff < bestDiff {
			bestDiff = diff
			best = mid
		} else if iter > 0 {
			break
		}
		if avg < avgN {
			lo = mid
		} else {
			hi = mid
		}
	}
	return best, nil
}

func boundsOf(xs, ys []float64) (minX, minY, maxX, maxY float64, ok bool) {
	if len(xs) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, maxX = xs[0], xs[0]
	minY, maxY = ys[0], ys[0]
	for i := 1; i < len(xs); i++ {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}
	return minX, minY, maxX, maxY, true
}
