package core

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry reports a map/screen size combination that cannot be
// split into whole screens.
var ErrInvalidGeometry = errors.New("invalid grid geometry")

// Vec3 is a world-space position. X grows to the right, Z grows upwards on
// the map plane and Y is unused by the grid.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }

// ScreenIndex identifies one screen within the screen grid.
type ScreenIndex struct {
	Row int
	Col int
}

func (s ScreenIndex) String() string { return fmt.Sprintf("(%d,%d)", s.Row, s.Col) }

// CellCoord is the absolute position of a cell within the whole map.
type CellCoord struct {
	Row int
	Col int
}

// String formats the coordinate the way cell labels display it.
func (c CellCoord) String() string { return fmt.Sprintf("%d, %d", c.Row, c.Col) }

// Geometry holds the immutable sizes of the map, its screens and its cells.
type Geometry struct {
	CellRadius float64
	CellWidth  float64
	CellHeight float64

	// ScreenRows and ScreenCols are the cells per screen.
	ScreenRows int
	ScreenCols int

	MapRows int
	MapCols int

	MapScreenRows int
	MapScreenCols int
}

// NewGeometry derives a Geometry from cfg. Map dimensions must be exact
// multiples of the screen dimensions.
func NewGeometry(cfg Config) (Geometry, error) {
	if cfg.CellRadius <= 0 {
		return Geometry{}, fmt.Errorf("%w: cell radius %v must be positive", ErrInvalidGeometry, cfg.CellRadius)
	}
	if cfg.ScreenRows <= 0 || cfg.ScreenCols <= 0 {
		return Geometry{}, fmt.Errorf("%w: screen size %dx%d must be positive", ErrInvalidGeometry, cfg.ScreenRows, cfg.ScreenCols)
	}
	if cfg.MapRows <= 0 || cfg.MapCols <= 0 {
		return Geometry{}, fmt.Errorf("%w: map size %dx%d must be positive", ErrInvalidGeometry, cfg.MapRows, cfg.MapCols)
	}
	if cfg.MapRows%cfg.ScreenRows != 0 {
		return Geometry{}, fmt.Errorf("%w: map rows %d not divisible by screen rows %d", ErrInvalidGeometry, cfg.MapRows, cfg.ScreenRows)
	}
	if cfg.MapCols%cfg.ScreenCols != 0 {
		return Geometry{}, fmt.Errorf("%w: map cols %d not divisible by screen cols %d", ErrInvalidGeometry, cfg.MapCols, cfg.ScreenCols)
	}
	// A cell is twice the diameter of the largest object it can hold.
	size := 4 * cfg.CellRadius
	return Geometry{
		CellRadius:    cfg.CellRadius,
		CellWidth:     size,
		CellHeight:    size,
		ScreenRows:    cfg.ScreenRows,
		ScreenCols:    cfg.ScreenCols,
		MapRows:       cfg.MapRows,
		MapCols:       cfg.MapCols,
		MapScreenRows: cfg.MapRows / cfg.ScreenRows,
		MapScreenCols: cfg.MapCols / cfg.ScreenCols,
	}, nil
}

// ScreenWidth is the world-space width of one screen.
func (g Geometry) ScreenWidth() float64 { return float64(g.ScreenCols) * g.CellWidth }

// ScreenHeight is the world-space height of one screen.
func (g Geometry) ScreenHeight() float64 { return float64(g.ScreenRows) * g.CellHeight }

// Contains reports whether idx lies inside the screen grid.
func (g Geometry) Contains(idx ScreenIndex) bool {
	return idx.Row >= 0 && idx.Row < g.MapScreenRows && idx.Col >= 0 && idx.Col < g.MapScreenCols
}

// CellCoordinate maps local offset (i, j) of screen idx to an absolute cell.
func (g Geometry) CellCoordinate(idx ScreenIndex, i, j int) CellCoord {
	return CellCoord{Row: i + idx.Row*g.ScreenRows, Col: j + idx.Col*g.ScreenCols}
}

// FirstCellPosition returns the world position of the top-left cell of a
// screen centered at center.
func (g Geometry) FirstCellPosition(center Vec3) Vec3 {
	return Vec3{
		X: center.X - float64(g.ScreenCols-1)/2*g.CellWidth,
		Y: center.Y,
		Z: center.Z + float64(g.ScreenRows-1)/2*g.CellHeight,
	}
}

// CellPosition returns the world position of local cell (i, j) of a screen
// centered at center. Rows advance towards -Z, columns towards +X.
func (g Geometry) CellPosition(center Vec3, i, j int) Vec3 {
	first := g.FirstCellPosition(center)
	return Vec3{
		X: first.X + float64(j)*g.CellWidth,
		Y: first.Y,
		Z: first.Z - float64(i)*g.CellHeight,
	}
}

// ScreenCenter returns the world center of idx given that screen origin is
// centered at originCenter.
func (g Geometry) ScreenCenter(origin ScreenIndex, originCenter Vec3, idx ScreenIndex) Vec3 {
	first := g.FirstCellPosition(originCenter)
	return Vec3{
		X: first.X + float64(idx.Col-origin.Col)*g.ScreenWidth() + float64(g.ScreenCols-1)/2*g.CellWidth,
		Y: first.Y,
		Z: first.Z - float64(idx.Row-origin.Row)*g.ScreenHeight() - float64(g.ScreenRows-1)/2*g.CellHeight,
	}
}

// CellToScreenIndex converts a drag of the map content by (dx, dy) cells
// into the screen that should become the anchor. Dragging the map left
// (dx < 0) or up (dy > 0) reveals higher columns or rows. A partial screen
// counts as a whole one, and the result is clamped into the map.
func (g Geometry) CellToScreenIndex(dx, dy int, anchor ScreenIndex) ScreenIndex {
	res := anchor
	switch {
	case dx < 0:
		res.Col += screensSpanned(-dx, g.ScreenCols)
	case dx > 0:
		res.Col -= screensSpanned(dx, g.ScreenCols)
	}
	switch {
	case dy > 0:
		res.Row += screensSpanned(dy, g.ScreenRows)
	case dy < 0:
		res.Row -= screensSpanned(-dy, g.ScreenRows)
	}
	return g.Clamp(res)
}

// Clamp forces idx into the screen grid.
func (g Geometry) Clamp(idx ScreenIndex) ScreenIndex {
	idx.Row = clampInt(idx.Row, 0, g.MapScreenRows-1)
	idx.Col = clampInt(idx.Col, 0, g.MapScreenCols-1)
	return idx
}

// Neighborhood returns idx and its up to eight neighbours in row-major
// order, dropping any that fall outside the map.
func (g Geometry) Neighborhood(idx ScreenIndex) []ScreenIndex {
	out := make([]ScreenIndex, 0, 9)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			n := ScreenIndex{Row: idx.Row + dr, Col: idx.Col + dc}
			if g.Contains(n) {
				out = append(out, n)
			}
		}
	}
	return out
}

// InNeighborhood reports whether idx is within one screen of center on both
// axes.
func InNeighborhood(center, idx ScreenIndex) bool {
	return absInt(idx.Row-center.Row) <= 1 && absInt(idx.Col-center.Col) <= 1
}

func screensSpanned(cells, size int) int {
	n := cells / size
	if cells%size > 0 {
		n++
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
