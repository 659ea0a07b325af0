package geom

import (
	"github.com/chewxy/math32"
)

// Ray is a half line starting at Origin going along the unit vector Dir.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normal()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.MulScalar(t))
}

// IntersectSphere returns the distance along the ray to the first
// intersection with the sphere, if any. A ray starting inside the sphere
// reports the exit point.
func (r Ray) IntersectSphere(center Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.LengthSq() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectCapsule tests the ray against a capsule around the segment a-b.
// It returns the distance along the ray of the closest approach.
func (r Ray) IntersectCapsule(a, b Vec3, radius float32) (float32, bool) {
	t, dist := r.closestToSegment(a, b)
	if dist > radius {
		return 0, false
	}
	return t, true
}

// closestToSegment returns the ray parameter of the closest approach to the
// segment a-b and the distance between the two at that point.
func (r Ray) closestToSegment(a, b Vec3) (float32, float32) {
	v := b.Sub(a)
	w := r.Origin.Sub(a)
	bb := r.Dir.Dot(v)
	c := v.LengthSq()
	d := r.Dir.Dot(w)
	e := v.Dot(w)

	var s, t float32
	if c == 0 {
		s = 0
		t = clampMin0(-d)
	} else {
		den := c - bb*bb
		if den > 1e-9 {
			s = clamp01((e - bb*d) / den)
		} else {
			// parallel: pick the segment end nearest the origin
			s = clamp01(e / c)
		}
		t = clampMin0(s*bb - d)
		s = clamp01((e + t*bb) / c)
		t = clampMin0(s*bb - d)
	}

	diff := w.Add(r.Dir.MulScalar(t)).Sub(v.MulScalar(s))
	return t, diff.Length()
}

func clamp01(x float32) float32 {
	return math32.Max(0, math32.Min(1, x))
}

func clampMin0(x float32) float32 {
	return math32.Max(0, x)
}
