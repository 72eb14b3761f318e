// Package pipeline runs one complete fit: parse the animation curves,
// sample them on a uniform grid, derive foot contacts, estimate a gait
// phase and project every authored channel onto the Fourier basis.
package pipeline

import (
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/gaitfit/internal/config"
	"github.com/banshee-data/gaitfit/internal/contact"
	"github.com/banshee-data/gaitfit/internal/fbxtext"
	"github.com/banshee-data/gaitfit/internal/fourier"
	"github.com/banshee-data/gaitfit/internal/fsutil"
	"github.com/banshee-data/gaitfit/internal/kinematics"
	"github.com/banshee-data/gaitfit/internal/math3d"
	"github.com/banshee-data/gaitfit/internal/monitoring"
	"github.com/banshee-data/gaitfit/internal/payload"
	"github.com/banshee-data/gaitfit/internal/phase"
	"github.com/banshee-data/gaitfit/internal/skeleton"
)

// Options configures one fit run.
type Options struct {
	AnimPath string // ASCII FBX source, required
	Name     string // clip name recorded in the payload
	FPS      int    // sampling rate of the evaluation grid
	Order    int    // Fourier series order

	// Skeleton enables foot kinematics, contact detection and the
	// contact-driven phase strategies. Nil falls back to curve-only
	// fitting with time-based phase.
	Skeleton *skeleton.Skeleton

	// InPlace pins the root's horizontal translation to its rest value
	// during kinematics, stripping root motion before contact detection.
	InPlace bool

	Tuning config.Tuning
	FS     fsutil.FileSystem
}

// Diagnostics exposes the intermediate per-sample signals of a fit for
// reporting. It is only populated when requested.
type Diagnostics struct {
	Times        []float64
	LeftHeight   []float64
	RightHeight  []float64
	LeftContact  []float64
	RightContact []float64
	Phase        []float64
}

// Fit executes the full pipeline and returns the payload ready to
// serialize. diag is non-nil when wantDiag is set.
func Fit(opts Options, wantDiag bool) (*payload.Payload, *Diagnostics, error) {
	if opts.FPS <= 0 {
		return nil, nil, fmt.Errorf("sample fps must be positive, got %d", opts.FPS)
	}
	if opts.Order < 0 {
		return nil, nil, fmt.Errorf("fourier order must be non-negative, got %d", opts.Order)
	}

	text, err := opts.FS.ReadFile(opts.AnimPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read animation file: %w", err)
	}

	anims, duration := fbxtext.Parse(string(text), opts.Tuning.FBXTimeScale, opts.Tuning.MinDuration)
	monitoring.Logf("pipeline: parsed %d animated bones, duration %.3fs", len(anims), duration)

	times := sampleGrid(duration, opts.FPS)

	sig := phase.Signals{Times: times, Duration: duration}
	if opts.Skeleton != nil {
		eval := kinematics.New(opts.Skeleton, anims, opts.Tuning, opts.InPlace)
		if left, right, ok := eval.FootPositions(times); ok {
			sig.LeftHeight = heights(left)
			sig.RightHeight = heights(right)
			sig.LeftContact = contact.Weights(sig.LeftHeight, opts.Tuning)
			sig.RightContact = contact.Weights(sig.RightHeight, opts.Tuning)
		}
	}

	res := phase.Estimate(sig, opts.Tuning)
	monitoring.Logf("pipeline: phase mode %s, cycle duration %.3fs", res.Mode, res.CycleDuration)

	p := &payload.Payload{
		Version:   payload.Version,
		Name:      opts.Name,
		Duration:  duration,
		Order:     opts.Order,
		SampleFPS: opts.FPS,
		Phase:     payload.Phase{Mode: res.Mode, CycleDuration: res.CycleDuration},
		Units:     payload.DefaultUnits(),
		Bones:     fitBones(anims, times, res.Phase, opts.Order),
	}
	if len(sig.LeftContact) > 0 && len(sig.RightContact) > 0 {
		p.Contacts = &payload.Contacts{
			Left:      fourier.Fit(res.Phase, sig.LeftContact, opts.Order),
			Right:     fourier.Fit(res.Phase, sig.RightContact, opts.Order),
			Threshold: opts.Tuning.ContactThreshold,
		}
	}

	var diag *Diagnostics
	if wantDiag {
		diag = &Diagnostics{
			Times:        times,
			LeftHeight:   sig.LeftHeight,
			RightHeight:  sig.RightHeight,
			LeftContact:  sig.LeftContact,
			RightContact: sig.RightContact,
			Phase:        res.Phase,
		}
	}
	return p, diag, nil
}

// sampleGrid builds the uniform evaluation grid. The last sample stops
// short of the duration so a full cycle never double-counts its seam.
func sampleGrid(duration float64, fps int) []float64 {
	n := int(math.Round(duration * float64(fps)))
	if n < 2 {
		n = 2
	}
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) / float64(n) * duration
	}
	return times
}

// fitBones projects every authored curve axis onto the Fourier basis.
// Bones are fitted in sorted name order so log output and any later
// diffing of payloads is deterministic.
func fitBones(anims map[string]*fbxtext.BoneAnimation, times, phi []float64, order int) map[string]*payload.Bone {
	names := make([]string, 0, len(anims))
	for name := range anims {
		names = append(names, name)
	}
	sort.Strings(names)

	bones := make(map[string]*payload.Bone, len(names))
	for _, name := range names {
		anim := anims[name]
		bones[name] = &payload.Bone{
			Translation: fitChannel(&anim.Translation, times, phi, order),
			Rotation:    fitChannel(&anim.Rotation, times, phi, order),
		}
	}
	return bones
}

func fitChannel(ch *fbxtext.Channel, times, phi []float64, order int) payload.Channels {
	return payload.Channels{
		X: fitCurve(ch.X, times, phi, order),
		Y: fitCurve(ch.Y, times, phi, order),
		Z: fitCurve(ch.Z, times, phi, order),
	}
}

// fitCurve samples one axis curve on the grid and projects it. A nil curve
// means the axis was never authored and stays nil in the payload.
func fitCurve(c *fbxtext.AnimationCurve, times, phi []float64, order int) []float64 {
	if c == nil {
		return nil
	}
	values := make([]float64, len(times))
	for i, t := range times {
		values[i] = c.Sample(t)
	}
	return fourier.Fit(phi, values, order)
}

func heights(positions []math3d.Vector3) []float64 {
	out := make([]float64, len(positions))
	for i, p := range positions {
		out[i] = p.Y
	}
	return out
}
