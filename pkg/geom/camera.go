package geom

import (
	"math"

	"github.com/chewxy/math32"
)

const (
	degToRad = float32(math.Pi / 180)

	// MinCameraDistance keeps Zoom from pushing the camera through its target.
	MinCameraDistance = float32(1)

	polarLimit = float32(0.01)
)

// Camera is a perspective camera looking from Position at Target.
// FOV is the vertical field of view in degrees.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
	FOV      float32
	Aspect   float32
	Near     float32
	Far      float32
}

// NewCamera returns a camera at position looking at the origin with +Y up.
func NewCamera(position Vec3, fov, near, far float32) Camera {
	return Camera{
		Position: position,
		Target:   Vec3Zero,
		Up:       Vec3Y,
		FOV:      fov,
		Aspect:   1,
		Near:     near,
		Far:      far,
	}
}

// LookAt points the camera at target, keeping the up direction.
func (c *Camera) LookAt(target Vec3) {
	c.Target = target
}

// ViewVector is the unit vector from the camera toward its target.
func (c Camera) ViewVector() Vec3 {
	return c.Target.Sub(c.Position).Normal()
}

// Distance is the distance between the camera and its target.
func (c Camera) Distance() float32 {
	return c.Position.DistTo(c.Target)
}

// Basis returns the forward, right and up unit vectors of the view.
func (c Camera) Basis() (forward, right, up Vec3) {
	forward = c.ViewVector()
	right = forward.Cross(c.Up).Normal()
	if right.IsNil() {
		// looking straight along Up
		right = V3(1, 0, 0)
	}
	up = right.Cross(forward)
	return forward, right, up
}

func (c Camera) tanHalfFOV() float32 {
	return math32.Tan(c.FOV * degToRad / 2)
}

// RayFromNDC returns the world ray through normalized device coordinates
// x, y in [-1, 1].
func (c Camera) RayFromNDC(x, y float32) Ray {
	forward, right, up := c.Basis()
	th := c.tanHalfFOV()
	dir := forward.
		Add(right.MulScalar(x * th * c.Aspect)).
		Add(up.MulScalar(y * th))
	return NewRay(c.Position, dir)
}

// Project maps a world point to normalized device coordinates. ok is false
// for points outside the near/far range.
func (c Camera) Project(p Vec3) (x, y float32, ok bool) {
	forward, right, up := c.Basis()
	d := p.Sub(c.Position)
	z := d.Dot(forward)
	if z < c.Near || z > c.Far {
		return 0, 0, false
	}
	th := c.tanHalfFOV()
	x = d.Dot(right) / (z * th * c.Aspect)
	y = d.Dot(up) / (z * th)
	return x, y, true
}

// ProjectRadius returns the apparent radius, in NDC height units, of a
// sphere of radius r centred at p.
func (c Camera) ProjectRadius(p Vec3, r float32) (float32, bool) {
	forward, _, _ := c.Basis()
	z := p.Sub(c.Position).Dot(forward)
	if z < c.Near || z > c.Far {
		return 0, false
	}
	return r / (z * c.tanHalfFOV()), true
}

// Zoom dollies the camera toward its target by the fraction pct of the
// current distance; negative values move away.
func (c *Camera) Zoom(pct float32) {
	offset := c.Position.Sub(c.Target)
	dist := offset.Length()
	if dist == 0 {
		return
	}
	next := math32.Max(MinCameraDistance, dist*(1-pct))
	c.Position = c.Target.Add(offset.MulScalar(next / dist))
}

// Orbit rotates the camera around its target by the given azimuth and
// elevation deltas in degrees.
func (c *Camera) Orbit(azimuth, elevation float32) {
	offset := c.Position.Sub(c.Target)
	r := offset.Length()
	if r == 0 {
		return
	}
	theta := math32.Atan2(offset.X, offset.Z) + azimuth*degToRad
	phi := math32.Acos(offset.Y/r) - elevation*degToRad
	phi = math32.Max(polarLimit, math32.Min(float32(math.Pi)-polarLimit, phi))

	sinPhi := math32.Sin(phi)
	c.Position = c.Target.Add(V3(
		r*sinPhi*math32.Sin(theta),
		r*math32.Cos(phi),
		r*sinPhi*math32.Cos(theta),
	))
}

// Pan translates both the camera and its target in the view plane.
func (c *Camera) Pan(dx, dy float32) {
	_, right, up := c.Basis()
	delta := right.MulScalar(dx).Add(up.MulScalar(dy))
	c.Position = c.Position.Add(delta)
	c.Target = c.Target.Add(delta)
}
