// Package geom holds the float32 vector, ray and camera math used by the
// scene: layout positions, pointer picking and camera animation.
package geom

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Vec3 is a 3D vector / point.
type Vec3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

// V3 returns a new Vec3.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

var (
	Vec3Zero = Vec3{}
	Vec3Y    = Vec3{Y: 1}
	Vec3Z    = Vec3{Z: 1}
)

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) MulScalar(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSq() float32 { return v.Dot(v) }

func (v Vec3) Length() float32 { return math32.Sqrt(v.LengthSq()) }

// Normal returns v scaled to unit length, or the zero vector for a zero v.
func (v Vec3) Normal() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.MulScalar(1 / l)
}

// DistTo returns the distance between two points.
func (v Vec3) DistTo(o Vec3) float32 { return v.Sub(o).Length() }

// Lerp moves v toward o by the fraction t.
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return v.Add(o.Sub(v).MulScalar(t))
}

// IsNil reports whether all components are zero.
func (v Vec3) IsNil() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
