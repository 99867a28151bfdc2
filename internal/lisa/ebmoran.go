package lisa

import (
	"fmt"

	"github.com/banshee-data/geoda-core/internal/graph"
)

// EmpiricalBayesRates applies the Assunção-Reis (1999) moment-based
// shrinkage estimator to event/base-population rates: each area's crude
// rate is pulled toward the global rate by a factor that depends on the
// estimated between-area variance, dampening the high-variance noise
// in areas with small base populations before they feed into local
// Moran.
func EmpiricalBayesRates(events, base []float64) ([]float64, error) {
	n := len(events)
	if len(base) != n {
		return nil, fmt.Errorf("lisa: events/base length mismatch: %d vs %d", n, len(base))
	}
	var sumO, sumN float64
	for i := range events {
		if base[i] < 0 || events[i] < 0 {
			return nil, fmt.Errorf("lisa: events and base populations must be non-negative")
		}
		sumO += events[i]
		sumN += base[i]
	}
	if sumN == 0 {
		return nil, fmt.Errorf("lisa: total base population is zero")
	}
	P := sumO / sumN

	var weightedSqDev float64
	for i := range events {
		if base[i] == 0 {
			continue
		}
		pi := events[i] / base[i]
		d := pi - P
		weightedSqDev += base[i] * d * d
	}
	b := weightedSqDev/sumN - P*(1-P)*(float64(n)/sumN)
	if b < 0 {
		b = 0
	}

	z := make([]float64, n)
	for i := range events {
		if base[i] == 0 {
			z[i] = P
			continue
		}
		pi := events[i] / base[i]
		a := b / (b + P*(1-P)/base[i])
		z[i] = a*pi + (1-a)*P
	}
	return z, nil
}

// LocalMoranEB runs local Moran's I on event/base-population rates after
// Assunção-Reis empirical-Bayes smoothing.
func LocalMoranEB(g *graph.Graph, events, base []float64, undef []bool, opts Options) (Result, error) {
	smoothed, err := EmpiricalBayesRates(events, base)
	if err != nil {
		return invalid(), err
	}
	if err := validateInputs(g, smoothed); err != nil {
		return invalid(), err
	}
	return localMoranOn(g, standardize(smoothed), undef, opts), nil
}
