// Package fbxtext extracts per-bone animation curves from ASCII FBX source
// text. It is deliberately best-effort: FBX exports routinely contain curve
// and connection records that cannot be joined up, and those are dropped
// rather than treated as errors.
package fbxtext

import "sort"

// AnimationCurve is an immutable keyframe track for one (bone, channel,
// axis) triple. Times are seconds, non-decreasing. A curve with no keys, or
// with mismatched array lengths, degenerates to its default value.
type AnimationCurve struct {
	Times   []float64
	Values  []float64
	Default float64
}

// ConstantCurve returns a keyless curve that samples to v everywhere.
func ConstantCurve(v float64) *AnimationCurve {
	return &AnimationCurve{Default: v}
}

// Sample evaluates the curve at time t using linear interpolation, clamping
// to the first and last key outside the keyed range.
func (c *AnimationCurve) Sample(t float64) float64 {
	if len(c.Times) == 0 || len(c.Times) != len(c.Values) {
		return c.Default
	}
	if t <= c.Times[0] {
		return c.Values[0]
	}
	if t >= c.Times[len(c.Times)-1] {
		return c.Values[len(c.Values)-1]
	}

	// First key strictly after t; interpolate against its predecessor.
	hi := sort.SearchFloat64s(c.Times, t)
	if c.Times[hi] == t {
		return c.Values[hi]
	}
	lo := hi - 1

	span := c.Times[hi] - c.Times[lo]
	if span < 1e-6 {
		span = 1e-6
	}
	a := (t - c.Times[lo]) / span
	return c.Values[lo] + (c.Values[hi]-c.Values[lo])*a
}

// Channel groups the per-axis curves of one transform channel. Nil entries
// mean the axis was never authored and holds its rest value.
type Channel struct {
	X *AnimationCurve
	Y *AnimationCurve
	Z *AnimationCurve
}

// Axis returns the curve for the named axis ("x", "y" or "z").
func (ch *Channel) Axis(axis string) *AnimationCurve {
	switch axis {
	case "x":
		return ch.X
	case "y":
		return ch.Y
	case "z":
		return ch.Z
	}
	return nil
}

func (ch *Channel) setAxis(axis string, c *AnimationCurve) {
	switch axis {
	case "x":
		ch.X = c
	case "y":
		ch.Y = c
	case "z":
		ch.Z = c
	}
}

// BoneAnimation holds the authored curves for one bone.
type BoneAnimation struct {
	Translation Channel
	Rotation    Channel
}

// ChannelByName returns the named channel group ("translation" or
// "rotation").
func (b *BoneAnimation) ChannelByName(name string) *Channel {
	if name == "rotation" {
		return &b.Rotation
	}
	return &b.Translation
}
