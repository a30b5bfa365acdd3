// Package geom holds the small set of 3D value types shared by the
// extrusion core and the mesh kernels. Arithmetic is delegated to the
// sdfx vector package so every backend agrees on the same float64 math.
package geom

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Point3 is an immutable 3D coordinate (or direction) in double precision.
type Point3 struct {
	X, Y, Z float64
}

// P is shorthand for constructing a Point3.
func P(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// FromVec converts an sdfx vector.
func FromVec(v v3.Vec) Point3 {
	return Point3{X: v.X, Y: v.Y, Z: v.Z}
}

// Vec returns the sdfx vector with the same coordinates.
func (p Point3) Vec() v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// Add returns p+q.
func (p Point3) Add(q Point3) Point3 { return FromVec(p.Vec().Add(q.Vec())) }

// Sub returns p-q.
func (p Point3) Sub(q Point3) Point3 { return FromVec(p.Vec().Sub(q.Vec())) }

// Neg returns -p.
func (p Point3) Neg() Point3 { return FromVec(p.Vec().Neg()) }

// Scale multiplies every component by k.
func (p Point3) Scale(k float64) Point3 { return FromVec(p.Vec().MulScalar(k)) }

// Div divides every component by k.
func (p Point3) Div(k float64) Point3 { return FromVec(p.Vec().DivScalar(k)) }

// Dot returns the scalar product of p and q.
func (p Point3) Dot(q Point3) float64 { return p.Vec().Dot(q.Vec()) }

// Cross returns p×q, following the right-hand rule.
func (p Point3) Cross(q Point3) Point3 { return FromVec(p.Vec().Cross(q.Vec())) }

// Length returns the Euclidean norm of p.
func (p Point3) Length() float64 { return p.Vec().Length() }

// Distance returns the Euclidean distance from p to q.
func (p Point3) Distance(q Point3) float64 { return q.Sub(p).Length() }

// Normalize returns the unit vector in the direction of p. The zero vector
// has no direction; callers must rule it out first.
func (p Point3) Normalize() Point3 { return FromVec(p.Vec().Normalize()) }

// Midpoint returns (p+q)/2.
func (p Point3) Midpoint(q Point3) Point3 {
	return p.Add(q).Div(2)
}

// IsZero reports whether all components are exactly zero.
func (p Point3) IsZero() bool {
	return p.X == 0 && p.Y == 0 && p.Z == 0
}

// IsFinite reports whether no component is NaN or infinite.
func (p Point3) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z)
}

// ApproxEqual reports whether p and q differ by at most tol per component.
func (p Point3) ApproxEqual(q Point3, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol && math.Abs(p.Z-q.Z) <= tol
}

// String formats p as "(x, y, z)".
func (p Point3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
