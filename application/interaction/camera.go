package interaction

import (
	"time"

	"github.com/chewxy/math32"

	"genealogy3d/pkg/geom"
)

// CameraConfig holds the projection, home pose and motion tuning.
type CameraConfig struct {
	FOV           float32 `koanf:"fov" validate:"gt=0,lt=180"`
	Near          float32 `koanf:"near" validate:"gt=0"`
	Far           float32 `koanf:"far" validate:"gtfield=Near"`
	HomeZ         float32 `koanf:"home_z" validate:"gt=0"`
	FocusDistance float32 `koanf:"focus_distance" validate:"gt=0"`
	FocusRate     float32 `koanf:"focus_rate" validate:"gt=0,lte=1"`
	FocusEpsilon  float32 `koanf:"focus_epsilon" validate:"gt=0"`
	ZoomStep      float32 `koanf:"zoom_step" validate:"gt=0,lt=1"`
	OrbitSpeed    float32 `koanf:"orbit_speed" validate:"gte=0"`
	PanSpeed      float32 `koanf:"pan_speed" validate:"gte=0"`
}

// DefaultCameraConfig returns the standard camera: 60° FOV at (0, 0, 50)
// looking at the origin.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		FOV:           60,
		Near:          0.1,
		Far:           1000,
		HomeZ:         50,
		FocusDistance: 15,
		FocusRate:     0.1,
		FocusEpsilon:  0.01,
		ZoomStep:      0.2,
		OrbitSpeed:    0.3,
		PanSpeed:      0.002,
	}
}

// Home returns the camera at its home pose.
func (c CameraConfig) Home(aspect float32) geom.Camera {
	cam := geom.NewCamera(geom.V3(0, 0, c.HomeZ), c.FOV, c.Near, c.Far)
	cam.Aspect = aspect
	return cam
}

// focusAnimation moves the camera toward a node over several ticks.
type focusAnimation struct {
	position geom.Vec3
	lookAt   geom.Vec3
}

// frame is the tick length FocusRate is expressed against.
const frame = time.Second / 60

// step moves cam toward the animation target and reports whether both the
// position and look-at are within eps afterwards.
func (a *focusAnimation) step(cam *geom.Camera, rate, eps float32, dt time.Duration) bool {
	frames := float32(dt) / float32(frame)
	alpha := 1 - math32.Pow(1-rate, frames)
	if alpha > 1 || frames <= 0 {
		alpha = rate
	}
	cam.Position = cam.Position.Lerp(a.position, alpha)
	cam.Target = cam.Target.Lerp(a.lookAt, alpha)

	if cam.Position.DistTo(a.position) < eps && cam.Target.DistTo(a.lookAt) < eps {
		cam.Position = a.position
		cam.Target = a.lookAt
		return true
	}
	return false
}
