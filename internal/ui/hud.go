//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"bigmap/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the stats panel to the right of the map view.
type HUD struct {
	source     core.SnapshotProvider
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.Snapshot

	buttons      []hudButton
	panelOffsetX int
	title        string

	pixel *ebiten.Image
}

type hudButton struct {
	label  string
	action func()
	rect   image.Rectangle
}

// NewHUD constructs a HUD showing snapshots from source in a panel of the
// given width.
func NewHUD(source core.SnapshotProvider, title string, width int) *HUD {
	if width < 0 {
		width = 0
	}
	if title == "" {
		title = "Map"
	}
	h := &HUD{source: source, width: width, title: title}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	return h
}

// AddButton appends a clickable button under the stats.
func (h *HUD) AddButton(label string, action func()) {
	if h == nil {
		return
	}
	h.buttons = append(h.buttons, hudButton{label: label, action: action})
}

// Contains reports whether the cursor position lies over the panel.
func (h *HUD) Contains(x, y int) bool {
	return h != nil && h.width > 0 && x >= h.panelOffsetX
}

// Update refreshes the cached snapshot and handles clicks on the panel.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	if h.source == nil {
		h.snapshot = core.Snapshot{}
		return
	}
	h.snapshot = h.source.Snapshot()
	h.layoutButtons()
	h.handleInput()
}

// Draw paints the HUD panel anchored to the right edge of the map view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := screen.Bounds().Dy()
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawStats()
	for _, b := range h.buttons {
		h.drawButton(b.rect, b.label)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) handleInput() {
	if len(h.buttons) == 0 {
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for _, b := range h.buttons {
		if pointInRect(px, my, b.rect) && b.action != nil {
			b.action()
			return
		}
	}
}

func (h *HUD) statLines() int {
	n := 0
	for _, g := range h.snapshot.Groups {
		n += 1 + len(g.Stats)
	}
	return n
}

func (h *HUD) drawStats() {
	face := basicfont.Face7x13
	headerY := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, headerY, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	if len(h.snapshot.Groups) == 0 {
		text.Draw(h.panel, "No stats", face, panelPadding, headerY+infoSpacing, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		return
	}

	y := statsTop
	for _, group := range h.snapshot.Groups {
		text.Draw(h.panel, group.Name, face, panelPadding, y, color.RGBA{R: 150, G: 170, B: 200, A: 255})
		y += lineHeight
		for _, st := range group.Stats {
			text.Draw(h.panel, st.Label, face, panelPadding+indent, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
			bounds := text.BoundString(face, st.Value)
			text.Draw(h.panel, st.Value, face, h.width-panelPadding-bounds.Dx(), y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
			y += lineHeight
		}
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	textWidth := bounds.Dx()
	textHeight := bounds.Dy()
	x := rect.Min.X + (rect.Dx()-textWidth)/2
	y := rect.Min.Y + (rect.Dy()-textHeight)/2 + textHeight
	text.Draw(h.panel, label, face, x, y, fg)
}

// layoutButtons stacks the buttons below the stat lines.
func (h *HUD) layoutButtons() {
	if len(h.buttons) == 0 || h.width <= 0 {
		return
	}
	top := statsTop + h.statLines()*lineHeight
	for i := range h.buttons {
		y := top + i*(buttonHeight+buttonGap)
		h.buttons[i].rect = image.Rect(panelPadding, y, h.width-panelPadding, y+buttonHeight)
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

const (
	panelPadding   = 12
	lineHeight     = 18
	indent         = 10
	buttonHeight   = 24
	buttonGap      = 6
	headerBaseline = 18
	infoSpacing    = 36
	statsTop       = panelPadding + headerBaseline + 24
)
