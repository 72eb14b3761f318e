// Package phase estimates a normalized cyclic gait phase for a sampled
// clip. Several strategies compete in a fixed priority order: foot-contact
// rising edges are the most trustworthy, raw foot-height minima come next,
// autocorrelation of the height signal after that, and normalized clip time
// is the unconditional fallback. The first strategy to produce a phase
// wins, and a stride-correction pass then reinterprets near-two-cycle clips
// as a single stride.
package phase

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/gaitfit/internal/config"
	"github.com/banshee-data/gaitfit/internal/monitoring"
)

// Mode labels, one per strategy. Stride correction appends StrideSuffix.
const (
	ModeNormalizedTime   = "normalized_time"
	ModeLeftFootContact  = "left_foot_contact"
	ModeRightFootContact = "right_foot_contact"
	ModeLeftFootMin      = "left_foot_min"
	ModeRightFootMin     = "right_foot_min"
	ModeLeftFootAuto     = "left_foot_auto"
	ModeRightFootAuto    = "right_foot_auto"
	StrideSuffix         = "_stride"
)

// Signals is the shared input every strategy sees. Contact weights and foot
// heights may be empty (no skeleton, or feet not found); strategies that
// need them simply fail and the cascade moves on.
type Signals struct {
	Times    []float64 // sample times, uniform over [0, Duration)
	Duration float64   // clip duration, seconds

	LeftContact  []float64
	RightContact []float64
	LeftHeight   []float64
	RightHeight  []float64
}

// Result is a phase estimate: one phase value in [0,1) per sample time, the
// estimated cycle duration in seconds, and the label of the strategy that
// produced it.
type Result struct {
	Phase         []float64
	CycleDuration float64
	Mode          string
}

type strategy struct {
	mode string
	run  func(Signals, config.Tuning) (Result, bool)
}

// Estimate runs the strategy cascade and applies stride correction to the
// winner. It always returns a usable result; the normalized-time fallback
// cannot fail.
func Estimate(sig Signals, cfg config.Tuning) Result {
	strategies := []strategy{
		{ModeLeftFootContact, func(s Signals, c config.Tuning) (Result, bool) {
			return contactStrategy(s.Times, s.LeftContact, ModeLeftFootContact, c)
		}},
		{ModeRightFootContact, func(s Signals, c config.Tuning) (Result, bool) {
			return contactStrategy(s.Times, s.RightContact, ModeRightFootContact, c)
		}},
		{ModeLeftFootMin, func(s Signals, c config.Tuning) (Result, bool) {
			return minimaStrategy(s, s.LeftHeight, ModeLeftFootMin, ModeLeftFootAuto, c)
		}},
		{ModeRightFootMin, func(s Signals, c config.Tuning) (Result, bool) {
			return minimaStrategy(s, s.RightHeight, ModeRightFootMin, ModeRightFootAuto, c)
		}},
		{ModeLeftFootAuto, func(s Signals, c config.Tuning) (Result, bool) {
			return autocorrStrategy(s.Times, s.LeftHeight, ModeLeftFootAuto, c)
		}},
	}

	res := Result{Mode: ModeNormalizedTime, CycleDuration: sig.Duration}
	found := false
	for _, st := range strategies {
		if r, ok := st.run(sig, cfg); ok {
			res = r
			found = true
			break
		}
		monitoring.Logf("phase: strategy %s produced no result, falling through", st.mode)
	}
	if !found {
		res.Phase = normalizedPhase(len(sig.Times))
	}

	return strideCorrect(res, sig, cfg)
}

// normalizedPhase is the unconditional fallback: phase advances linearly
// with sample index.
func normalizedPhase(n int) []float64 {
	phase := make([]float64, n)
	for i := range phase {
		phase[i] = float64(i) / float64(n)
	}
	return phase
}

// contactStrategy derives phase from rising-edge crossings of a contact
// likelihood signal. The threshold adapts downward when the signal never
// reaches the configured value.
func contactStrategy(times, weights []float64, mode string, cfg config.Tuning) (Result, bool) {
	if len(times) == 0 || len(weights) != len(times) {
		return Result{}, false
	}
	maxW := floats.Max(weights)
	if maxW <= 0 {
		return Result{}, false
	}
	threshold := cfg.ContactThreshold
	if maxW < threshold {
		threshold = maxW * cfg.ContactThresholdFrac
	}

	var events []float64
	for i := 1; i < len(weights); i++ {
		if weights[i-1] < threshold && weights[i] >= threshold {
			events = append(events, times[i])
		}
	}

	return phaseFromEvents(times, events, mode, cfg)
}

// minimaStrategy derives phase from local minima of a raw foot-height
// signal. When the detected cycle is much shorter than the clip, the
// minima were probably double-counting steps, so an autocorrelation
// refinement on the same signal is preferred if it succeeds.
func minimaStrategy(sig Signals, heights []float64, mode, refineMode string, cfg config.Tuning) (Result, bool) {
	events := minimaEvents(sig.Times, heights, cfg)
	res, ok := phaseFromEvents(sig.Times, events, mode, cfg)
	if !ok {
		return Result{}, false
	}
	if res.CycleDuration < sig.Duration*cfg.MinimaRefineFraction {
		if refined, ok := autocorrStrategy(sig.Times, heights, refineMode, cfg); ok {
			return refined, true
		}
	}
	return res, true
}

// minimaEvents finds local minima that dip into the bottom of the height
// range, enforcing a minimum spacing to suppress noise-induced doubles.
func minimaEvents(times, values []float64, cfg config.Tuning) []float64 {
	if len(values) < 3 || len(times) != len(values) {
		return nil
	}
	vMin := floats.Min(values)
	vMax := floats.Max(values)
	if vMax-vMin <= cfg.MinimaRangeFloor {
		return nil
	}
	threshold := vMin + (vMax-vMin)*cfg.MinimaDepthFraction

	minSpacing := (times[len(times)-1] - times[0]) / float64(len(times)) * cfg.MinimaSpacingFactor
	var events []float64
	lastT := math.Inf(-1)
	for i := 1; i < len(values)-1; i++ {
		if values[i] <= values[i-1] && values[i] <= values[i+1] && values[i] <= threshold {
			if times[i]-lastT >= minSpacing {
				events = append(events, times[i])
				lastT = times[i]
			}
		}
	}
	return events
}

// phaseFromEvents converts a sorted event-time list into a phase array.
// The period is the mean gap between adjacent events, unless the mean
// every-other-event gap is markedly larger: that captures asymmetric
// two-beat gaits where only one foot's events are reliably detected.
func phaseFromEvents(times, events []float64, mode string, cfg config.Tuning) (Result, bool) {
	if len(events) < 2 {
		return Result{}, false
	}

	adjacent := make([]float64, len(events)-1)
	for i := range adjacent {
		adjacent[i] = events[i+1] - events[i]
	}
	period := stat.Mean(adjacent, nil)

	if len(events) >= 3 {
		skip := make([]float64, len(events)-2)
		for i := range skip {
			skip[i] = events[i+2] - events[i]
		}
		if avgSkip := stat.Mean(skip, nil); avgSkip > period*cfg.SkipGapFactor {
			period = avgSkip
		}
	}
	if period <= 0 {
		return Result{}, false
	}

	phase := make([]float64, len(times))
	eventIndex := 0
	for i, t := range times {
		for eventIndex+1 < len(events) && t >= events[eventIndex+1] {
			eventIndex++
		}
		phi := (t - events[eventIndex]) / period
		phase[i] = phi - math.Floor(phi)
	}
	return Result{Phase: phase, CycleDuration: period, Mode: mode}, true
}

// autocorrStrategy recovers the cycle duration as the lag maximising the
// unnormalized autocorrelation of the centered signal. Among lags within
// the tie fraction of the best correlation the largest is preferred,
// biasing toward the true period over its harmonics.
func autocorrStrategy(times, values []float64, mode string, cfg config.Tuning) (Result, bool) {
	if len(times) < 4 || len(values) != len(times) {
		return Result{}, false
	}
	duration := times[len(times)-1] - times[0]
	if duration <= 0 {
		return Result{}, false
	}

	n := len(values)
	centered := make([]float64, n)
	copy(centered, values)
	mean := stat.Mean(centered, nil)
	for i := range centered {
		centered[i] -= mean
	}
	if floats.Dot(centered, centered) <= cfg.AutocorrVarFloor {
		return Result{}, false
	}

	dt := duration / float64(n)
	minLag := int(math.Round(cfg.AutocorrMinLagSec / math.Max(dt, 1e-6)))
	if minLag < 2 {
		minLag = 2
	}
	maxLag := int(math.Round(cfg.AutocorrMaxLagFrac * float64(n)))
	if maxLag > n-2 {
		maxLag = n - 2
	}
	if minLag > maxLag {
		return Result{}, false
	}

	corrs := make([]float64, maxLag-minLag+1)
	bestCorr := math.Inf(-1)
	bestLag := 0
	for lag := minLag; lag <= maxLag; lag++ {
		corr := floats.Dot(centered[:n-lag], centered[lag:])
		corrs[lag-minLag] = corr
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	// Among lags within the tie band of the best correlation, prefer the
	// largest. When the best correlation is negative the band is empty and
	// the plain argmax stands.
	tie := bestCorr * cfg.AutocorrTieFraction
	for lag := minLag; lag <= maxLag; lag++ {
		if corrs[lag-minLag] >= tie && lag > bestLag {
			bestLag = lag
		}
	}
	if bestLag <= 0 {
		return Result{}, false
	}

	period := float64(bestLag) * dt
	phase := make([]float64, len(times))
	for i, t := range times {
		phase[i] = math.Mod(t-times[0], period) / period
	}
	return Result{Phase: phase, CycleDuration: period, Mode: mode}, true
}

// strideCorrect reinterprets a clip containing roughly two cycles as one
// full stride: the cycle becomes the whole clip and phase advances
// linearly across it.
func strideCorrect(res Result, sig Signals, cfg config.Tuning) Result {
	if res.CycleDuration <= 0 || sig.Duration <= 0 {
		return res
	}
	ratio := sig.Duration / res.CycleDuration
	if ratio < cfg.StrideRatioLow || ratio > cfg.StrideRatioHigh {
		return res
	}

	monitoring.Logf("phase: cycle %0.3fs vs clip %0.3fs (ratio %0.2f), treating clip as one stride",
		res.CycleDuration, sig.Duration, ratio)

	res.CycleDuration = sig.Duration
	res.Mode += StrideSuffix
	phase := make([]float64, len(sig.Times))
	for i, t := range sig.Times {
		phase[i] = math.Mod(t, sig.Duration) / sig.Duration
	}
	res.Phase = phase
	return res
}
