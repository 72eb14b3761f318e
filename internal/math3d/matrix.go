// Package math3d provides the small amount of affine math the kinematics
// evaluator needs. Matrices use the FBX row-vector convention: translation
// lives in the fourth row and points transform as p' = p * M, so composite
// transforms read left to right in source order.
package math3d

import (
	"fmt"
	"math"
)

// Matrix44 is a 4x4 affine transform. Row-major storage.
type Matrix44 struct {
	m11, m12, m13, m14 float64
	m21, m22, m23, m24 float64
	m31, m32, m33, m34 float64
	m41, m42, m43, m44 float64
}

// Identity returns the identity transform.
func Identity() Matrix44 {
	return Matrix44{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a transform that offsets points by (tx, ty, tz).
func Translation(tx, ty, tz float64) Matrix44 {
	return Matrix44{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		tx, ty, tz, 1,
	}
}

// RotationXYZDegrees returns the composed rotation Rz * Ry * Rx for Euler
// angles given in degrees. This is the fixed X then Y then Z application
// order FBX uses for both pre-rotations and animated rotations.
func RotationXYZDegrees(rx, ry, rz float64) Matrix44 {
	cx, sx := math.Cos(rx*math.Pi/180), math.Sin(rx*math.Pi/180)
	cy, sy := math.Cos(ry*math.Pi/180), math.Sin(ry*math.Pi/180)
	cz, sz := math.Cos(rz*math.Pi/180), math.Sin(rz*math.Pi/180)

	rotX := Matrix44{
		1, 0, 0, 0,
		0, cx, -sx, 0,
		0, sx, cx, 0,
		0, 0, 0, 1,
	}
	rotY := Matrix44{
		cy, 0, sy, 0,
		0, 1, 0, 0,
		-sy, 0, cy, 0,
		0, 0, 0, 1,
	}
	rotZ := Matrix44{
		cz, -sz, 0, 0,
		sz, cz, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	return rotZ.Mul(rotY.Mul(rotX))
}

// Mul returns the matrix product a * b.
func (a Matrix44) Mul(b Matrix44) Matrix44 {
	return Matrix44{
		(a.m11 * b.m11) + (a.m12 * b.m21) + (a.m13 * b.m31) + (a.m14 * b.m41),
		(a.m11 * b.m12) + (a.m12 * b.m22) + (a.m13 * b.m32) + (a.m14 * b.m42),
		(a.m11 * b.m13) + (a.m12 * b.m23) + (a.m13 * b.m33) + (a.m14 * b.m43),
		(a.m11 * b.m14) + (a.m12 * b.m24) + (a.m13 * b.m34) + (a.m14 * b.m44),
		(a.m21 * b.m11) + (a.m22 * b.m21) + (a.m23 * b.m31) + (a.m24 * b.m41),
		(a.m21 * b.m12) + (a.m22 * b.m22) + (a.m23 * b.m32) + (a.m24 * b.m42),
		(a.m21 * b.m13) + (a.m22 * b.m23) + (a.m23 * b.m33) + (a.m24 * b.m43),
		(a.m21 * b.m14) + (a.m22 * b.m24) + (a.m23 * b.m34) + (a.m24 * b.m44),
		(a.m31 * b.m11) + (a.m32 * b.m21) + (a.m33 * b.m31) + (a.m34 * b.m41),
		(a.m31 * b.m12) + (a.m32 * b.m22) + (a.m33 * b.m32) + (a.m34 * b.m42),
		(a.m31 * b.m13) + (a.m32 * b.m23) + (a.m33 * b.m33) + (a.m34 * b.m43),
		(a.m31 * b.m14) + (a.m32 * b.m24) + (a.m33 * b.m34) + (a.m34 * b.m44),
		(a.m41 * b.m11) + (a.m42 * b.m21) + (a.m43 * b.m31) + (a.m44 * b.m41),
		(a.m41 * b.m12) + (a.m42 * b.m22) + (a.m43 * b.m32) + (a.m44 * b.m42),
		(a.m41 * b.m13) + (a.m42 * b.m23) + (a.m43 * b.m33) + (a.m44 * b.m43),
		(a.m41 * b.m14) + (a.m42 * b.m24) + (a.m43 * b.m34) + (a.m44 * b.m44),
	}
}

func (m Matrix44) String() string {
	return fmt.Sprintf(
		"&M44{%+.4f %+.4f %+.4f %+.4f | %+.4f %+.4f %+.4f %+.4f | %+.4f %+.4f %+.4f %+.4f | %+.4f %+.4f %+.4f %+.4f}",
		m.m11, m.m12, m.m13, m.m14,
		m.m21, m.m22, m.m23, m.m24,
		m.m31, m.m32, m.m33, m.m34,
		m.m41, m.m42, m.m43, m.m44)
}
