package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"bigmap/internal/core"
)

var (
	snapshotBackground = color.RGBA{R: 20, G: 22, B: 28, A: 255}
	snapshotCell       = color.RGBA{R: 70, G: 52, B: 32, A: 255}
	snapshotBorder     = color.RGBA{R: 130, G: 130, B: 130, A: 255}
	snapshotLabel      = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// DrawSnapshot renders the active recorders as labelled cells seen through
// cam.
func DrawSnapshot(geom core.Geometry, cam Camera, recs []*Recorder) image.Image {
	dc := gg.NewContext(cam.Width, cam.Height)
	dc.SetColor(snapshotBackground)
	dc.Clear()

	w := geom.CellWidth * cam.Scale
	h := geom.CellHeight * cam.Scale
	for _, r := range recs {
		if !r.Active {
			continue
		}
		x, y := cam.WorldToScreen(r.Position)
		if !cam.Visible(x, y, w, h) {
			continue
		}
		dc.DrawRectangle(x-w/2, y-h/2, w, h)
		dc.SetColor(snapshotCell)
		dc.FillPreserve()
		dc.SetColor(snapshotBorder)
		dc.SetLineWidth(1)
		dc.Stroke()

		dc.SetColor(snapshotLabel)
		dc.DrawStringAnchored(r.Label, x, y, 0.5, 0.5)
	}
	return dc.Image()
}

// WriteSnapshot renders the active recorders to a PNG file.
func WriteSnapshot(path string, geom core.Geometry, cam Camera, recs []*Recorder) error {
	img := DrawSnapshot(geom, cam, recs)
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}
