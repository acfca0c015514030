package render

import (
	"image/color"

	"bigmap/internal/core"
)

// Minimap states, also palette indices.
const (
	MinimapEmpty uint8 = iota
	MinimapLive
	MinimapAnchor
)

var minimapPalette = []color.RGBA{
	MinimapEmpty:  {R: 24, G: 26, B: 32, A: 200},
	MinimapLive:   {R: 80, G: 160, B: 255, A: 255},
	MinimapAnchor: {R: 255, G: 200, B: 60, A: 255},
}

// Minimap is a one-pixel-per-screen picture of the whole screen grid.
type Minimap struct {
	grid   *core.ByteGrid
	marked []core.ScreenIndex
	buf    []byte
}

// NewMinimap sizes a minimap for geom: columns map to x, rows to y.
func NewMinimap(geom core.Geometry) *Minimap {
	g := core.NewByteGrid(geom.MapScreenCols, geom.MapScreenRows)
	return &Minimap{grid: g, buf: make([]byte, 4*g.W*g.H)}
}

// Size returns the minimap size in pixels.
func (m *Minimap) Size() (w, h int) { return m.grid.W, m.grid.H }

// Update marks present screens as live and anchor as the anchor, clearing
// the previous marks.
func (m *Minimap) Update(present []core.ScreenIndex, anchor core.ScreenIndex) {
	for _, idx := range m.marked {
		m.grid.Set(idx.Col, idx.Row, MinimapEmpty)
	}
	m.marked = append(m.marked[:0], present...)
	for _, idx := range present {
		m.grid.Set(idx.Col, idx.Row, MinimapLive)
	}
	m.grid.Set(anchor.Col, anchor.Row, MinimapAnchor)
	m.marked = append(m.marked, anchor)
}

// State returns the state shown for idx.
func (m *Minimap) State(idx core.ScreenIndex) uint8 { return m.grid.At(idx.Col, idx.Row) }

// Pixels returns the RGBA pixels of the minimap. The slice is reused by the
// next call.
func (m *Minimap) Pixels() []byte {
	fillPaletteRGBA(m.buf, m.grid.Cells(), minimapPalette)
	return m.buf
}
