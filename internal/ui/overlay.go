//go:build ebiten

package ui

import (
	"image/color"

	"bigmap/internal/core"
	"bigmap/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// ScreenSource exposes the live screens the overlay outlines.
type ScreenSource interface {
	Geometry() core.Geometry
	Anchor() core.ScreenIndex
	Present() []core.ScreenIndex
	ScreenCenter(idx core.ScreenIndex) core.Vec3
}

// Overlay draws optional debugging visuals on top of the map.
type Overlay struct {
	source      ScreenSource
	showScreens bool
	showIndex   bool
	showCenter  bool
	showMinimap bool

	minimap    *render.Minimap
	minimapImg *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(source ScreenSource) *Overlay {
	o := &Overlay{source: source, showIndex: true, showMinimap: true}
	if source != nil {
		o.minimap = render.NewMinimap(source.Geometry())
		w, h := o.minimap.Size()
		o.minimapImg = ebiten.NewImage(w, h)
	}
	return o
}

// Update toggles overlay layers from the keyboard.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showScreens = !o.showScreens
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showIndex = !o.showIndex
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showCenter = !o.showCenter
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit4) {
		o.showMinimap = !o.showMinimap
	}
}

// Draw renders the enabled layers. offset is the current drag offset of the
// map content.
func (o *Overlay) Draw(screen *ebiten.Image, cam render.Camera, offset core.Vec3) {
	if o.source == nil {
		return
	}
	if o.showScreens {
		o.drawScreens(screen, cam, offset)
	}
	if o.showCenter {
		cx, cy := float32(cam.Width)/2, float32(cam.Height)/2
		c := color.RGBA{R: 255, G: 255, B: 255, A: 160}
		vector.StrokeLine(screen, cx-6, cy, cx+6, cy, 1, c, false)
		vector.StrokeLine(screen, cx, cy-6, cx, cy+6, 1, c, false)
	}
	if o.showMinimap && o.minimap != nil {
		o.drawMinimap(screen)
	}
}

// drawMinimap paints the whole screen grid in the top-left corner.
func (o *Overlay) drawMinimap(screen *ebiten.Image) {
	o.minimap.Update(o.source.Present(), o.source.Anchor())
	o.minimapImg.WritePixels(o.minimap.Pixels())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(minimapMargin, minimapMargin)
	screen.DrawImage(o.minimapImg, op)
}

func (o *Overlay) drawScreens(screen *ebiten.Image, cam render.Camera, offset core.Vec3) {
	geom := o.source.Geometry()
	w := float32(geom.ScreenWidth() * cam.Scale)
	h := float32(geom.ScreenHeight() * cam.Scale)
	anchor := o.source.Anchor()
	face := basicfont.Face7x13

	for _, idx := range o.source.Present() {
		x, y := cam.WorldToScreen(o.source.ScreenCenter(idx).Add(offset))
		if !cam.Visible(x, y, float64(w), float64(h)) {
			continue
		}
		left, top := float32(x)-w/2, float32(y)-h/2
		clr := color.RGBA{R: 80, G: 160, B: 255, A: 200}
		width := float32(1)
		if idx == anchor {
			clr = color.RGBA{R: 255, G: 200, B: 60, A: 230}
			width = 2
		}
		vector.StrokeRect(screen, left, top, w, h, width, clr, false)
		if o.showIndex {
			text.Draw(screen, idx.String(), face, int(left)+4, int(top)+14, clr)
		}
	}
}

const minimapMargin = 8
