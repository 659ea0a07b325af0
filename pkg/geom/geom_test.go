package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func TestViewportNormalize(t *testing.T) {
	vp := Viewport{Left: 100, Top: 50, Width: 400, Height: 200}

	tests := []struct {
		name         string
		cx, cy       float32
		wantX, wantY float32
	}{
		{"top left", 100, 50, -1, 1},
		{"bottom right", 500, 250, 1, -1},
		{"center", 300, 150, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := vp.Normalize(tt.cx, tt.cy)
			require.True(t, ok)
			assert.InDelta(t, tt.wantX, x, eps)
			assert.InDelta(t, tt.wantY, y, eps)
		})
	}

	_, _, ok := Viewport{}.Normalize(1, 1)
	assert.False(t, ok)
}

func TestRayIntersectSphere(t *testing.T) {
	r := NewRay(V3(0, 0, 10), V3(0, 0, -1))

	d, ok := r.IntersectSphere(Vec3Zero, 1)
	require.True(t, ok)
	assert.InDelta(t, 9, d, eps)

	_, ok = r.IntersectSphere(V3(3, 0, 0), 1)
	assert.False(t, ok)

	// sphere behind the origin
	_, ok = r.IntersectSphere(V3(0, 0, 20), 1)
	assert.False(t, ok)
}

func TestRayIntersectCapsule(t *testing.T) {
	r := NewRay(V3(0, 0.2, 10), V3(0, 0, -1))

	d, ok := r.IntersectCapsule(V3(-5, 0, 0), V3(5, 0, 0), 0.35)
	require.True(t, ok)
	assert.InDelta(t, 10, d, eps)

	_, ok = r.IntersectCapsule(V3(-5, 1, 0), V3(5, 1, 0), 0.35)
	assert.False(t, ok)

	// beyond the segment end
	_, ok = r.IntersectCapsule(V3(2, 0, 0), V3(5, 0, 0), 0.35)
	assert.False(t, ok)
}

func TestCameraRayAndProjectAgree(t *testing.T) {
	cam := NewCamera(V3(0, 0, 50), 60, 0.1, 1000)
	cam.Aspect = 2

	p := V3(4, -3, 0)
	x, y, ok := cam.Project(p)
	require.True(t, ok)

	ray := cam.RayFromNDC(x, y)
	hit, ok := ray.IntersectSphere(p, 0.01)
	require.True(t, ok)
	assert.InDelta(t, p.DistTo(cam.Position), hit, 0.05)

	center := cam.RayFromNDC(0, 0)
	assert.InDelta(t, -1, center.Dir.Z, eps)
}

func TestCameraZoom(t *testing.T) {
	cam := NewCamera(V3(0, 0, 50), 60, 0.1, 1000)

	cam.Zoom(0.2)
	assert.InDelta(t, 40, cam.Position.Z, eps)

	cam.Zoom(-0.5)
	assert.InDelta(t, 60, cam.Position.Z, eps)

	cam.Zoom(5)
	assert.InDelta(t, MinCameraDistance, cam.Distance(), eps)
}

func TestCameraOrbitKeepsDistance(t *testing.T) {
	cam := NewCamera(V3(0, 0, 50), 60, 0.1, 1000)

	cam.Orbit(90, 0)
	assert.InDelta(t, 50, cam.Position.X, 1e-3)
	assert.InDelta(t, 0, cam.Position.Z, 1e-3)

	cam.Orbit(0, 30)
	assert.InDelta(t, 50, cam.Distance(), 1e-3)
	assert.Greater(t, cam.Position.Y, float32(0))
}

func TestCameraPanMovesTarget(t *testing.T) {
	cam := NewCamera(V3(0, 0, 50), 60, 0.1, 1000)
	cam.Pan(2, 1)

	assert.InDelta(t, 2, cam.Target.X, eps)
	assert.InDelta(t, 1, cam.Target.Y, eps)
	assert.InDelta(t, 50, cam.Distance(), eps)
}

func TestVecLerp(t *testing.T) {
	v := V3(0, 0, 0).Lerp(V3(10, 0, -10), 0.25)
	assert.Equal(t, V3(2.5, 0, -2.5), v)
}

func TestCameraProjectRadius(t *testing.T) {
	cam := NewCamera(V3(0, 0, 50), 60, 0.1, 1000)

	r, ok := cam.ProjectRadius(Vec3Zero, 0.6)
	require.True(t, ok)
	assert.InDelta(t, 0.6/(50*0.57735), r, 1e-5)

	_, ok = cam.ProjectRadius(V3(0, 0, 60), 0.6)
	assert.False(t, ok, "behind the camera")
}

func TestCameraQueriesOnReturnedValue(t *testing.T) {
	home := func() Camera { return NewCamera(V3(0, 0, 50), 60, 0.1, 1000) }

	assert.InDelta(t, 50, home().Distance(), eps)
	assert.Equal(t, V3(0, 0, -1), home().ViewVector())
	x, y, ok := home().Project(V3(0, 0, 0))
	assert.True(t, ok)
	assert.InDelta(t, 0, x, eps)
	assert.InDelta(t, 0, y, eps)
}
