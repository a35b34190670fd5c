/*package geom provides the small set of vector and cylinder primitives
shared by the samplers, the relaxation solver, and the stream injector.
*/
package geom

import (
	"math"
)

// Vec is a three dimensional position or velocity.
type Vec [3]float64

// Add returns v + u.
func (v Vec) Add(u Vec) Vec {
	return Vec{v[0] + u[0], v[1] + u[1], v[2] + u[2]}
}

// Sub returns v - u.
func (v Vec) Sub(u Vec) Vec {
	return Vec{v[0] - u[0], v[1] - u[1], v[2] - u[2]}
}

// Scale returns a * v.
func (v Vec) Scale(a float64) Vec {
	return Vec{a * v[0], a * v[1], a * v[2]}
}

// Dot returns the inner product of v and u.
func (v Vec) Dot(u Vec) float64 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// Norm returns the Euclidean length of v.
func (v Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// CylinderRadius returns the distance of v from the z axis.
func (v Vec) CylinderRadius() float64 {
	return math.Hypot(v[0], v[1])
}

// FromCylindrical converts (r, phi, z) into a Cartesian vector with the
// cylinder axis along z.
func FromCylindrical(r, phi, z float64) Vec {
	sin, cos := math.Sincos(phi)
	return Vec{r * cos, r * sin, z}
}

// RotateZ returns v rotated by theta radians about the z axis.
func (v Vec) RotateZ(theta float64) Vec {
	sin, cos := math.Sincos(theta)
	return Vec{cos*v[0] - sin*v[1], sin*v[0] + cos*v[1], v[2]}
}

// Cylinder describes a cylindrical sampling volume centered on the origin
// with its axis along z.
type Cylinder struct {
	Radius, HalfHeight float64
}

// Volume returns the volume of the cylinder.
func (c Cylinder) Volume() float64 {
	return math.Pi * c.Radius * c.Radius * 2 * c.HalfHeight
}

// Height returns the full axial extent of the cylinder.
func (c Cylinder) Height() float64 {
	return 2 * c.HalfHeight
}

// Contains reports whether v lies inside the cylinder.
func (c Cylinder) Contains(v Vec) bool {
	return v.CylinderRadius() <= c.Radius &&
		v[2] >= -c.HalfHeight && v[2] <= c.HalfHeight
}
