// Package render implements the layered, dirty-rectangle-optimized screen
// renderer: named layers with z-order and parallax, viewport culling,
// style batching, and a per-frame effects pass. It draws into a core.Screen
// cell buffer; the platform layer turns that buffer into terminal output.
package render

import "github.com/vovakirdan/spikepulse/internal/core"

// Camera is the viewport transform: world position of the top-left corner
// plus a zoom factor. Zoom scales world units to screen cells (1.0 means
// one world unit per cell).
type Camera struct {
	X, Y float64
	Zoom float64
}

// NewCamera returns a camera at the origin with neutral zoom.
func NewCamera() Camera {
	return Camera{Zoom: 1.0}
}

// MovePayload is the payload of "camera:move" events.
type MovePayload struct {
	X, Y float64
}

// ZoomPayload is the payload of "camera:zoom" events.
type ZoomPayload struct {
	Zoom float64
}

// WorldToScreen projects a world position to screen-cell coordinates,
// applying the given parallax factor to the camera offset. A parallax of 0
// pins the layer to the screen; 1 scrolls it with the world.
func (c Camera) WorldToScreen(wx, wy, parallax float64) (int, int) {
	sx := (wx - c.X*parallax) * c.Zoom
	sy := (wy - c.Y*parallax) * c.Zoom
	return int(sx), int(sy)
}

// Viewport returns the world-space rectangle visible on a screen of the
// given cell dimensions under the given parallax factor.
func (c Camera) Viewport(screenW, screenH int, parallax float64) core.RectF {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1.0
	}
	return core.RectF{
		X: c.X * parallax,
		Y: c.Y * parallax,
		W: float64(screenW) / zoom,
		H: float64(screenH) / zoom,
	}
}
