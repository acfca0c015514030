// Package viewport turns pointer drags of the map into anchor moves.
package viewport

import (
	"log/slog"

	"bigmap/internal/core"
	"bigmap/internal/screens"
)

// Mover is the part of the screen manager the controller drives.
type Mover interface {
	Anchor() core.ScreenIndex
	MoveBy(dx, dy int) (screens.Move, error)
}

// Controller tracks the map offset while the pointer drags it and asks the
// mover for a new anchor when the pointer is released. Positions are in
// world units on the X/Z plane.
type Controller struct {
	geom   core.Geometry
	mover  Mover
	origin core.ScreenIndex
	logger *slog.Logger

	dragging bool
	grab     core.Vec3
	offset   core.Vec3

	min, max core.Vec3
}

// New returns a controller for a map first anchored at origin.
func New(geom core.Geometry, mover Mover, origin core.ScreenIndex, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{geom: geom, mover: mover, origin: origin, logger: logger}
	// The offset may travel until the first or last screen sits where the
	// origin screen started.
	c.min = core.Vec3{
		X: -float64(geom.MapScreenCols-1-origin.Col) * geom.ScreenWidth(),
		Z: -float64(origin.Row) * geom.ScreenHeight(),
	}
	c.max = core.Vec3{
		X: float64(origin.Col) * geom.ScreenWidth(),
		Z: float64(geom.MapScreenRows-1-origin.Row) * geom.ScreenHeight(),
	}
	return c
}

// Offset returns how far the map content has been dragged from its start.
func (c *Controller) Offset() core.Vec3 { return c.offset }

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// Press starts a drag with the pointer at p. Presses during a drag are
// ignored.
func (c *Controller) Press(p core.Vec3) {
	if c.dragging {
		return
	}
	c.dragging = true
	c.grab = c.offset.Sub(p)
}

// Drag moves the map so that the grabbed point follows the pointer.
func (c *Controller) Drag(p core.Vec3) {
	if !c.dragging {
		return
	}
	next := p.Add(c.grab)
	next.X = clamp(next.X, c.min.X, c.max.X)
	next.Y = 0
	next.Z = clamp(next.Z, c.min.Z, c.max.Z)
	c.offset = next
}

// Release ends the drag and moves the anchor to the screen under the
// dragged offset. moved is false when no drag was in progress.
func (c *Controller) Release() (mv screens.Move, moved bool, err error) {
	if !c.dragging {
		return screens.Move{}, false, nil
	}
	c.dragging = false

	dx, dy := c.CellDelta()
	target := c.geom.CellToScreenIndex(dx, dy, c.origin)
	anchor := c.mover.Anchor()

	// Whole-screen deltas land exactly on target from the current anchor.
	mdx := -(target.Col - anchor.Col) * c.geom.ScreenCols
	mdy := (target.Row - anchor.Row) * c.geom.ScreenRows
	c.logger.Debug("drag released", "offset_x", c.offset.X, "offset_z", c.offset.Z, "cells_x", dx, "cells_z", dy, "target", target)

	mv, err = c.mover.MoveBy(mdx, mdy)
	return mv, true, err
}

// CellDelta converts the offset into whole cells, truncating toward zero.
func (c *Controller) CellDelta() (dx, dy int) {
	return int(c.offset.X / c.geom.CellWidth), int(c.offset.Z / c.geom.CellHeight)
}

// Home cancels any drag, puts the map back at its start offset and moves
// the anchor to the origin.
func (c *Controller) Home() (screens.Move, error) {
	c.dragging = false
	c.offset = core.Vec3{}
	anchor := c.mover.Anchor()
	return c.mover.MoveBy((anchor.Col-c.origin.Col)*c.geom.ScreenCols, -(anchor.Row-c.origin.Row)*c.geom.ScreenRows)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
