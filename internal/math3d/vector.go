package math3d

import "fmt"

// Vector3 is a point or offset in bone space.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

func (v Vector3) String() string {
	return fmt.Sprintf("&Vec3{x=%0.4f y=%0.4f z=%0.4f}", v.X, v.Y, v.Z)
}

// Transform applies the matrix to the point as a row vector: p' = p * m.
func (v Vector3) Transform(m Matrix44) Vector3 {
	return Vector3{
		(v.X * m.m11) + (v.Y * m.m21) + (v.Z * m.m31) + m.m41,
		(v.X * m.m12) + (v.Y * m.m22) + (v.Z * m.m32) + m.m42,
		(v.X * m.m13) + (v.Y * m.m23) + (v.Z * m.m33) + m.m43,
	}
}
