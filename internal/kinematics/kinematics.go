// Package kinematics reconstructs world-space bone positions from animation
// curves and a skeleton rest pose. Only the bones on the ancestor chains of
// the two feet are evaluated; the whole skeleton never needs to be posed.
package kinematics

import (
	"sort"

	"github.com/banshee-data/gaitfit/internal/config"
	"github.com/banshee-data/gaitfit/internal/fbxtext"
	"github.com/banshee-data/gaitfit/internal/math3d"
	"github.com/banshee-data/gaitfit/internal/monitoring"
	"github.com/banshee-data/gaitfit/internal/skeleton"
)

// Evaluator poses a skeleton against a set of animation curves.
type Evaluator struct {
	skel    *skeleton.Skeleton
	anims   map[string]*fbxtext.BoneAnimation
	cfg     config.Tuning
	inPlace bool
	rootFix math3d.Matrix44
}

// New builds an evaluator. When inPlace is set, the root's horizontal
// translation is pinned to its rest value at every sample, stripping root
// motion so the clip can be phase-fit without translational drift.
func New(skel *skeleton.Skeleton, anims map[string]*fbxtext.BoneAnimation, cfg config.Tuning, inPlace bool) *Evaluator {
	return &Evaluator{
		skel:    skel,
		anims:   anims,
		cfg:     cfg,
		inPlace: inPlace,
		// Fixed rotation prepended to the root's animated rotation to
		// correct the source asset's facing convention.
		rootFix: math3d.RotationXYZDegrees(0, cfg.RootYawFixDegrees, 0),
	}
}

// FootPositions returns the world positions of the configured left and
// right foot bones at every sample time. ok is false when either foot is
// missing from the skeleton; contact detection is skipped in that case.
func (e *Evaluator) FootPositions(times []float64) (left, right []math3d.Vector3, ok bool) {
	leftIdx := e.skel.Index(e.cfg.LeftFootBone)
	rightIdx := e.skel.Index(e.cfg.RightFootBone)
	if leftIdx < 0 || rightIdx < 0 {
		monitoring.Logf("kinematics: feet %q/%q not found in skeleton, skipping contact detection",
			e.cfg.LeftFootBone, e.cfg.RightFootBone)
		return nil, nil, false
	}

	needed := chainUnion(e.skel, leftIdx, rightIdx)

	left = make([]math3d.Vector3, len(times))
	right = make([]math3d.Vector3, len(times))
	world := make(map[int]math3d.Matrix44, len(needed))

	for s, t := range times {
		for _, i := range needed {
			local := e.localTransform(i, t)
			if p := e.skel.Parents[i]; p >= 0 {
				world[i] = world[p].Mul(local)
			} else {
				world[i] = local
			}
		}
		left[s] = math3d.Vector3{}.Transform(world[leftIdx])
		right[s] = math3d.Vector3{}.Transform(world[rightIdx])
	}
	return left, right, true
}

// localTransform builds the bone's local matrix at time t: translation of
// rest plus the scaled delta of the animated translation off the raw rest
// value, rotated by the pre-rotation composed with the animated rotation.
func (e *Evaluator) localTransform(i int, t float64) math3d.Matrix44 {
	anim := e.anims[e.skel.Names[i]]
	var trans, rot *fbxtext.Channel
	if anim != nil {
		trans = &anim.Translation
		rot = &anim.Rotation
	}

	restRaw := e.skel.Translations[i]
	scale := e.skel.Scale

	// The root's rest translation is treated as origin; child bones keep
	// their scaled rest offset.
	var rest [3]float64
	if i != 0 {
		rest = [3]float64{restRaw[0] * scale, restRaw[1] * scale, restRaw[2] * scale}
	}

	var pos [3]float64
	for a := 0; a < 3; a++ {
		animated := sampleAxis(trans, a, t, restRaw[a])
		pos[a] = rest[a] + (animated-restRaw[a])*scale
	}
	if i == 0 && e.inPlace {
		pos[0] = rest[0]
		pos[2] = rest[2]
	}

	pre := e.skel.PreRotations[i]
	r := math3d.RotationXYZDegrees(pre[0], pre[1], pre[2]).
		Mul(math3d.RotationXYZDegrees(
			sampleAxis(rot, 0, t, 0),
			sampleAxis(rot, 1, t, 0),
			sampleAxis(rot, 2, t, 0)))
	if i == 0 {
		r = e.rootFix.Mul(r)
	}

	return math3d.Translation(pos[0], pos[1], pos[2]).Mul(r)
}

// sampleAxis samples one axis curve of a channel, holding the default when
// the axis was never authored.
func sampleAxis(ch *fbxtext.Channel, axis int, t, def float64) float64 {
	if ch == nil {
		return def
	}
	var c *fbxtext.AnimationCurve
	switch axis {
	case 0:
		c = ch.X
	case 1:
		c = ch.Y
	default:
		c = ch.Z
	}
	if c == nil {
		return def
	}
	return c.Sample(t)
}

// chainUnion returns the union of the ancestor chains of the given bones,
// sorted into topological order.
func chainUnion(skel *skeleton.Skeleton, indices ...int) []int {
	seen := make(map[int]bool)
	for _, idx := range indices {
		for _, i := range skel.AncestorChain(idx) {
			seen[i] = true
		}
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
