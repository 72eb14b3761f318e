package contact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gaitfit/internal/config"
)

func TestWeightsEmptyInput(t *testing.T) {
	assert.Nil(t, Weights(nil, config.Defaults()))
}

func TestWeightsConstantSignalIsFlatAndFinite(t *testing.T) {
	heights := make([]float64, 120)
	for i := range heights {
		heights[i] = 0.3
	}

	w := Weights(heights, config.Defaults())
	require.Len(t, w, len(heights))

	// Zero range and zero velocity: the range floor guards the division,
	// every sample looks grounded, and nothing is NaN.
	for i, v := range w {
		require.False(t, math.IsNaN(v), "NaN at %d", i)
		assert.InDelta(t, 1.0, v, 1e-9, "sample %d", i)
	}
}

func TestWeightsSinusoidPeaksAtLowSlow(t *testing.T) {
	// One gait cycle per second at 60fps over 2s. The foot is lowest and
	// slowest at the trough of the sine.
	const n = 120
	heights := make([]float64, n)
	for i := range heights {
		heights[i] = 0.5 + 0.5*math.Sin(2*math.Pi*float64(i)/60)
	}

	w := Weights(heights, config.Defaults())
	require.Len(t, w, n)

	for i, v := range w {
		assert.GreaterOrEqual(t, v, 0.0, "sample %d", i)
		assert.LessOrEqual(t, v, 1.0, "sample %d", i)
	}

	// Trough of the first cycle (i=45) must score far higher than the
	// crest (i=15).
	assert.Greater(t, w[45], w[15]+0.3)
}

func TestWeightsRespectsTunedWindow(t *testing.T) {
	heights := make([]float64, 40)
	for i := range heights {
		if i == 20 {
			heights[i] = -1 // single-sample spike
		}
	}

	cfg := config.Defaults()
	cfg.SmoothHalfWindow = 0
	sharp := Weights(heights, cfg)

	cfg.SmoothHalfWindow = 5
	smoothed := Weights(heights, cfg)

	// The spike moves fast, so unsmoothed contact drops to zero there;
	// smoothing fills the dropout from its still neighbours.
	assert.InDelta(t, 0.0, sharp[20], 1e-12)
	assert.Greater(t, smoothed[20], 0.5)
	assert.Less(t, smoothed[17], sharp[17])
}

func TestSmoothShrinksAtBoundaries(t *testing.T) {
	in := []float64{1, 0, 0, 0, 0, 0}
	out := smooth(in, 2)

	// First sample averages over [0,3), not a wrapped window.
	assert.InDelta(t, 1.0/3.0, out[0], 1e-12)
	assert.InDelta(t, 0.25, out[1], 1e-12)
	assert.InDelta(t, 0.2, out[2], 1e-12)
	assert.InDelta(t, 0.0, out[5], 1e-12)
}
