//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"bigmap/internal/core"
	"bigmap/internal/pool"
)

var labelColor = color.RGBA{R: 230, G: 230, B: 230, A: 255}

// Sprite is the on-screen cell handle: a template image plus a label.
type Sprite struct {
	active bool
	pos    core.Vec3
	label  string
}

// SetActive implements core.CellHandle.
func (s *Sprite) SetActive(active bool) { s.active = active }

// SetPosition implements core.CellHandle.
func (s *Sprite) SetPosition(pos core.Vec3) { s.pos = pos }

// SetLabel implements core.CellHandle.
func (s *Sprite) SetLabel(label string) { s.label = label }

// SpriteLayer is the parent container of all cell sprites. Sprites are drawn
// with the layer's template, shifted by the layer offset.
type SpriteLayer struct {
	template *ebiten.Image
	sprites  []*Sprite
	labels   bool
}

// NewSpriteLayer returns an empty layer drawing template for each cell.
func NewSpriteLayer(template *ebiten.Image) *SpriteLayer {
	return &SpriteLayer{template: template, labels: true}
}

// NewCellTemplate builds a bordered w x h tile used as the default template.
func NewCellTemplate(w, h int) *ebiten.Image {
	if w < 3 {
		w = 3
	}
	if h < 3 {
		h = 3
	}
	img := ebiten.NewImage(w, h)
	img.Fill(color.RGBA{R: 110, G: 110, B: 120, A: 255})
	inner := ebiten.NewImage(w-2, h-2)
	inner.Fill(color.RGBA{R: 70, G: 52, B: 32, A: 255})
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(1, 1)
	img.DrawImage(inner, op)
	return img
}

// Factory returns a pool factory building sprites parented to l.
func (l *SpriteLayer) Factory() pool.Factory[core.CellHandle] {
	return func() core.CellHandle {
		s := &Sprite{}
		l.sprites = append(l.sprites, s)
		return s
	}
}

// ToggleLabels switches cell labels on or off.
func (l *SpriteLayer) ToggleLabels() { l.labels = !l.labels }

// Len returns the number of sprites ever built.
func (l *SpriteLayer) Len() int { return len(l.sprites) }

// Draw paints every active sprite, moved by offset, through cam.
func (l *SpriteLayer) Draw(dst *ebiten.Image, cam Camera, offset core.Vec3) {
	tw, th := l.template.Bounds().Dx(), l.template.Bounds().Dy()
	face := basicfont.Face7x13
	for _, s := range l.sprites {
		if !s.active {
			continue
		}
		x, y := cam.WorldToScreen(s.pos.Add(offset))
		if !cam.Visible(x, y, float64(tw), float64(th)) {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(x-float64(tw)/2, y-float64(th)/2)
		dst.DrawImage(l.template, op)

		if l.labels && s.label != "" {
			bounds := text.BoundString(face, s.label)
			text.Draw(dst, s.label, face, int(x)-bounds.Dx()/2, int(y)+bounds.Dy()/2-2, labelColor)
		}
	}
}
