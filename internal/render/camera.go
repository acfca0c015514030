package render

import "bigmap/internal/core"

// Camera maps the world X/Z plane onto a pixel surface. Center is the world
// point shown in the middle of the surface; +Z is up on screen.
type Camera struct {
	Center core.Vec3
	// Scale is pixels per world unit.
	Scale  float64
	Width  int
	Height int
}

// WorldToScreen returns the pixel position of world point p.
func (c Camera) WorldToScreen(p core.Vec3) (x, y float64) {
	x = float64(c.Width)/2 + (p.X-c.Center.X)*c.Scale
	y = float64(c.Height)/2 - (p.Z-c.Center.Z)*c.Scale
	return x, y
}

// ScreenToWorld returns the world point under pixel (x, y).
func (c Camera) ScreenToWorld(x, y float64) core.Vec3 {
	if c.Scale == 0 {
		return c.Center
	}
	return core.Vec3{
		X: c.Center.X + (x-float64(c.Width)/2)/c.Scale,
		Z: c.Center.Z - (y-float64(c.Height)/2)/c.Scale,
	}
}

// Visible reports whether a w x h pixel box centered at (x, y) overlaps the
// surface.
func (c Camera) Visible(x, y, w, h float64) bool {
	return x+w/2 >= 0 && x-w/2 <= float64(c.Width) && y+h/2 >= 0 && y-h/2 <= float64(c.Height)
}
