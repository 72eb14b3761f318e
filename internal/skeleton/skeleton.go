// Package skeleton loads the bone hierarchy and rest pose the kinematics
// evaluator needs. The primary format is a small versioned JSON schema; a
// legacy loader extracts the same data from the Swift source file the
// original asset workflow embeds it in. Only this package knows about the
// legacy format.
package skeleton

import "fmt"

// Vec3 is a rest-pose translation or pre-rotation triple.
type Vec3 [3]float64

// Skeleton is an ordered bone list in topological order: every bone's
// parent index is strictly less than its own index and the root's parent
// is -1. Pre-rotations are Euler degrees applied X then Y then Z. Scale is
// a single factor shared by the whole skeleton.
type Skeleton struct {
	Names        []string `json:"names"`
	Parents      []int    `json:"parents"`
	Translations []Vec3   `json:"translations"`
	PreRotations []Vec3   `json:"pre_rotations"`
	Scale        float64  `json:"scale"`
}

// Validate enforces the structural invariants the single-pass kinematics
// evaluator depends on. A violation is a fatal configuration error: the
// resource is authored, not measured, so inconsistency means author error.
func (s *Skeleton) Validate() error {
	n := len(s.Names)
	if n == 0 {
		return fmt.Errorf("skeleton has no bones")
	}
	if len(s.Parents) != n || len(s.Translations) != n || len(s.PreRotations) != n {
		return fmt.Errorf("skeleton arrays mismatch: names=%d parents=%d translations=%d pre_rotations=%d",
			n, len(s.Parents), len(s.Translations), len(s.PreRotations))
	}
	for i, p := range s.Parents {
		if p < -1 || p >= i {
			return fmt.Errorf("bone %d (%s): parent index %d violates topological order", i, s.Names[i], p)
		}
	}
	if s.Scale <= 0 {
		return fmt.Errorf("skeleton scale must be positive, got %v", s.Scale)
	}
	return nil
}

// Index returns the index of the named bone, or -1 if absent.
func (s *Skeleton) Index(name string) int {
	for i, n := range s.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// AncestorChain returns the bone indices from the root down to and
// including the named bone index.
func (s *Skeleton) AncestorChain(index int) []int {
	var chain []int
	for i := index; i >= 0; i = s.Parents[i] {
		chain = append(chain, i)
	}
	// Reverse into root-first order.
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	return chain
}
