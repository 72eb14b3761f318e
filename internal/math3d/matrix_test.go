package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func vecNear(t *testing.T, got, want Vector3) {
	t.Helper()
	if math.Abs(got.X-want.X) > eps || math.Abs(got.Y-want.Y) > eps || math.Abs(got.Z-want.Z) > eps {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTranslationMovesPoint(t *testing.T) {
	p := Vector3{1, 2, 3}
	vecNear(t, p.Transform(Translation(10, -2, 0.5)), Vector3{11, 0, 3.5})
}

func TestIdentityIsNeutral(t *testing.T) {
	m := Identity().Mul(Translation(1, 2, 3)).Mul(Identity())
	vecNear(t, Vector3{}.Transform(m), Vector3{1, 2, 3})
}

func TestRotationXYZDegrees(t *testing.T) {
	tests := []struct {
		name       string
		rx, ry, rz float64
		in         Vector3
		want       Vector3
	}{
		{"zero angles", 0, 0, 0, Vector3{1, 2, 3}, Vector3{1, 2, 3}},
		// Row-vector convention: +90 about Z maps +y onto +x.
		{"z 90 maps y to x", 0, 0, 90, Vector3{0, 1, 0}, Vector3{1, 0, 0}},
		{"x 90 maps z to y", 90, 0, 0, Vector3{0, 0, 1}, Vector3{0, 1, 0}},
		{"y 90 maps x to z", 0, 90, 0, Vector3{1, 0, 0}, Vector3{0, 0, 1}},
		{"y 180 flips x and z", 0, 180, 0, Vector3{1, 0, 1}, Vector3{-1, 0, -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vecNear(t, tc.in.Transform(RotationXYZDegrees(tc.rx, tc.ry, tc.rz)), tc.want)
		})
	}
}

func TestRotationComposesSingleAxisFactors(t *testing.T) {
	// The composite must equal the product of the single-axis rotations
	// in the fixed Rz * Ry * Rx factor order.
	composite := RotationXYZDegrees(30, 45, 60)
	stepwise := RotationXYZDegrees(0, 0, 60).
		Mul(RotationXYZDegrees(0, 45, 0)).
		Mul(RotationXYZDegrees(30, 0, 0))

	p := Vector3{0.3, -1.2, 2.5}
	vecNear(t, p.Transform(composite), p.Transform(stepwise))
}

func TestMulAssociativity(t *testing.T) {
	a := RotationXYZDegrees(10, 20, 30)
	b := Translation(1, 2, 3)
	c := RotationXYZDegrees(0, 90, 0)

	p := Vector3{1, 1, 1}
	vecNear(t, p.Transform(a.Mul(b).Mul(c)), p.Transform(a.Mul(b.Mul(c))))
}
