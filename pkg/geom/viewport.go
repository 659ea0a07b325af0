package geom

// Viewport is the on-screen rectangle the scene is rendered into, in window
// (client) pixel coordinates. Pointer coordinates are normalized against it,
// so picking stays correct when the viewport does not fill the window.
type Viewport struct {
	Left   float32 `json:"left"`
	Top    float32 `json:"top"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// Aspect returns width / height, or 1 for a degenerate viewport.
func (vp Viewport) Aspect() float32 {
	if vp.Width <= 0 || vp.Height <= 0 {
		return 1
	}
	return vp.Width / vp.Height
}

// Empty reports whether the viewport has no area.
func (vp Viewport) Empty() bool {
	return vp.Width <= 0 || vp.Height <= 0
}

// Normalize converts client coordinates into normalized device coordinates
// in [-1, 1], y up. ok is false for an empty viewport.
func (vp Viewport) Normalize(clientX, clientY float32) (x, y float32, ok bool) {
	if vp.Empty() {
		return 0, 0, false
	}
	x = (clientX-vp.Left)/vp.Width*2 - 1
	y = -(clientY-vp.Top)/vp.Height*2 + 1
	return x, y, true
}

// ToClient converts normalized device coordinates back to client pixels.
func (vp Viewport) ToClient(ndcX, ndcY float32) (float32, float32) {
	return vp.Left + (ndcX+1)/2*vp.Width, vp.Top + (1-ndcY)/2*vp.Height
}

// Contains reports whether the client point lies inside the viewport.
func (vp Viewport) Contains(clientX, clientY float32) bool {
	return clientX >= vp.Left && clientX <= vp.Left+vp.Width &&
		clientY >= vp.Top && clientY <= vp.Top+vp.Height
}
