package fourier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformPhase(n int) []float64 {
	phase := make([]float64, n)
	for i := range phase {
		phase[i] = float64(i) / float64(n)
	}
	return phase
}

func TestFitConstantSignal(t *testing.T) {
	const c = 3.75
	phase := uniformPhase(128)
	values := make([]float64, len(phase))
	for i := range values {
		values[i] = c
	}

	for _, order := range []int{0, 1, 4, 8} {
		coeffs := Fit(phase, values, order)
		require.Len(t, coeffs, 1+2*order, "order %d", order)
		assert.InDelta(t, c, coeffs[0], 1e-12, "order %d", order)
		for i := 1; i < len(coeffs); i++ {
			assert.InDelta(t, 0, coeffs[i], 1e-10, "order %d coeff %d", order, i)
		}
	}
}

func TestFitOrderZeroIsMean(t *testing.T) {
	phase := uniformPhase(60)
	values := make([]float64, 60)
	sum := 0.0
	for i := range values {
		values[i] = float64(i % 7)
		sum += values[i]
	}

	coeffs := Fit(phase, values, 0)
	require.Len(t, coeffs, 1)
	assert.InDelta(t, sum/60, coeffs[0], 1e-12)
}

func TestFitRecoversHarmonics(t *testing.T) {
	// values = 2 + 0.5 cos(2πφ) - 1.5 sin(2πφ) + 0.25 sin(4πφ)
	phase := uniformPhase(240)
	values := make([]float64, len(phase))
	for i, p := range phase {
		values[i] = 2 + 0.5*math.Cos(2*math.Pi*p) - 1.5*math.Sin(2*math.Pi*p) + 0.25*math.Sin(4*math.Pi*p)
	}

	coeffs := Fit(phase, values, 3)
	require.Len(t, coeffs, 7)
	assert.InDelta(t, 2.0, coeffs[0], 1e-9)
	assert.InDelta(t, 0.5, coeffs[1], 1e-9)
	assert.InDelta(t, -1.5, coeffs[2], 1e-9)
	assert.InDelta(t, 0.0, coeffs[3], 1e-9)
	assert.InDelta(t, 0.25, coeffs[4], 1e-9)
	assert.InDelta(t, 0.0, coeffs[5], 1e-9)
	assert.InDelta(t, 0.0, coeffs[6], 1e-9)
}

func TestFitEmptyInput(t *testing.T) {
	coeffs := Fit(nil, nil, 4)
	assert.Equal(t, make([]float64, 9), coeffs)
}

func TestFitMismatchedLengths(t *testing.T) {
	coeffs := Fit(uniformPhase(10), make([]float64, 9), 2)
	assert.Equal(t, make([]float64, 5), coeffs)
}

func TestEvalRoundTrip(t *testing.T) {
	phase := uniformPhase(240)
	values := make([]float64, len(phase))
	for i, p := range phase {
		values[i] = 1 + math.Cos(2*math.Pi*p) + 0.3*math.Sin(6*math.Pi*p)
	}

	coeffs := Fit(phase, values, 4)
	for i, p := range phase {
		assert.InDelta(t, values[i], Eval(coeffs, p), 1e-6, "phase %f", p)
	}
}

func TestEvalDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, Eval(nil, 0.5))
	assert.Equal(t, 7.0, Eval([]float64{7}, 0.25))
}
