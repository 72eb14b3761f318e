// Package contact derives a foot-ground contact likelihood signal from
// world-space foot heights. A foot counts as grounded when it is both low
// (near the bottom of its height range) and still (near-zero vertical
// velocity); the two clamped scores multiply into a [0,1] likelihood which
// is then smoothed.
package contact

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/gaitfit/internal/config"
)

// Weights converts a per-sample foot height sequence into a smoothed
// contact likelihood sequence of the same length. An empty input returns
// nil. All thresholds come from the tuning config.
func Weights(heights []float64, cfg config.Tuning) []float64 {
	n := len(heights)
	if n == 0 {
		return nil
	}

	sorted := make([]float64, n)
	copy(sorted, heights)
	sort.Float64s(sorted)

	yMin := stat.Quantile(cfg.HeightPercentileLow, stat.Empirical, sorted, nil)
	yMax := stat.Quantile(cfg.HeightPercentileHigh, stat.Empirical, sorted, nil)

	heightRange := yMax - yMin
	if heightRange < cfg.HeightRangeFloor {
		heightRange = cfg.HeightRangeFloor
	}
	heightThresh := heightRange * cfg.HeightThresholdFactor
	if heightThresh < cfg.HeightThresholdFloor {
		heightThresh = cfg.HeightThresholdFloor
	}

	// Finite-difference velocity proxy, scaled by the sampling rate so the
	// threshold is independent of sample count.
	velocities := make([]float64, n)
	velMax := 0.0
	for i := 1; i < n; i++ {
		velocities[i] = (heights[i] - heights[i-1]) * float64(n)
		if a := math.Abs(velocities[i]); a > velMax {
			velMax = a
		}
	}
	velThresh := velMax * cfg.VelThresholdFactor
	if velThresh < cfg.VelThresholdFloor {
		velThresh = cfg.VelThresholdFloor
	}

	weights := make([]float64, n)
	for i := range heights {
		h := clamp01(1 - (heights[i]-yMin)/heightThresh)
		v := clamp01(1 - math.Abs(velocities[i])/velThresh)
		weights[i] = h * v
	}

	return smooth(weights, cfg.SmoothHalfWindow)
}

// smooth applies a centered moving average with the given half-window. The
// window shrinks at the boundaries instead of wrapping.
func smooth(values []float64, halfWindow int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		start := i - halfWindow
		if start < 0 {
			start = 0
		}
		end := i + halfWindow + 1
		if end > len(values) {
			end = len(values)
		}
		out[i] = stat.Mean(values[start:end], nil)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
