// Package math provides the small vector helpers used for geometry summaries.
package math

import "math"

// Vec3 is a 3D vector in double precision, matching the precision GEO
// documents are decoded with.
type Vec3 struct {
	X, Y, Z float64
}

// FromTuple builds a Vec3 from the first three components of a tuple.
// Missing components are zero.
func FromTuple(t []float64) Vec3 {
	var v Vec3
	if len(t) > 0 {
		v.X = t[0]
	}
	if len(t) > 1 {
		v.Y = t[1]
	}
	if len(t) > 2 {
		v.Z = t[2]
	}
	return v
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the magnitude.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Min returns the component-wise minimum of v and other.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{math.Min(v.X, other.X), math.Min(v.Y, other.Y), math.Min(v.Z, other.Z)}
}

// Max returns the component-wise maximum of v and other.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{math.Max(v.X, other.X), math.Max(v.Y, other.Y), math.Max(v.Z, other.Z)}
}
