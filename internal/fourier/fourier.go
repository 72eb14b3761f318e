// Package fourier projects sampled channel curves onto a finite
// trigonometric basis indexed by gait phase. The projection is a direct
// discrete inner product, not a solver: phase samples need not be uniform,
// and the coefficients stay well defined even for degenerate inputs.
package fourier

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Fit returns the coefficient set [a0, a1, b1, ..., ak, bk] of the order-k
// series approximating values as a function of phase. phase and values must
// be parallel; an empty input yields all-zero coefficients.
func Fit(phase, values []float64, order int) []float64 {
	out := make([]float64, 1+2*order)
	n := len(phase)
	if n == 0 || len(values) != n {
		return out
	}

	out[0] = stat.Mean(values, nil)

	twoOverN := 2.0 / float64(n)
	for m := 1; m <= order; m++ {
		freq := 2 * math.Pi * float64(m)
		var cosSum, sinSum float64
		for i, p := range phase {
			angle := freq * p
			cosSum += values[i] * math.Cos(angle)
			sinSum += values[i] * math.Sin(angle)
		}
		out[2*m-1] = cosSum * twoOverN
		out[2*m] = sinSum * twoOverN
	}
	return out
}

// Eval reconstructs the fitted series at the given phase. It is the
// runtime-side inverse of Fit, used here for reports and tests.
func Eval(coeffs []float64, phi float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	v := coeffs[0]
	for m := 1; 2*m < len(coeffs); m++ {
		angle := 2 * math.Pi * float64(m) * phi
		v += coeffs[2*m-1]*math.Cos(angle) + coeffs[2*m]*math.Sin(angle)
	}
	return v
}
