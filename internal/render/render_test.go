package render

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigmap/internal/core"
)

func TestCameraRoundTrip(t *testing.T) {
	cam := Camera{Center: core.Vec3{X: 10, Z: -4}, Scale: 8, Width: 640, Height: 480}

	x, y := cam.WorldToScreen(cam.Center)
	assert.Equal(t, 320.0, x)
	assert.Equal(t, 240.0, y)

	x, y = cam.WorldToScreen(core.Vec3{X: 11, Z: -3})
	assert.Equal(t, 328.0, x)
	assert.Equal(t, 232.0, y, "+Z is drawn upwards")

	p := cam.ScreenToWorld(100, 50)
	x, y = cam.WorldToScreen(p)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)
}

func TestCameraVisible(t *testing.T) {
	cam := Camera{Scale: 1, Width: 100, Height: 100}
	assert.True(t, cam.Visible(50, 50, 10, 10))
	assert.True(t, cam.Visible(-4, 50, 10, 10))
	assert.False(t, cam.Visible(-6, 50, 10, 10))
	assert.False(t, cam.Visible(50, 106, 10, 10))
}

func TestRecorderCountsTransitions(t *testing.T) {
	layer := NewRecordLayer()
	h := layer.Factory()().(*Recorder)
	h.SetActive(true)
	h.SetActive(true)
	h.SetActive(false)
	h.SetActive(false)

	assert.Equal(t, 1, h.ID)
	assert.Equal(t, 1, h.Activations)
	assert.Equal(t, 1, h.Deactivations)
	assert.Empty(t, layer.Active())
}

func TestWriteSnapshot(t *testing.T) {
	geom, err := core.NewGeometry(core.DefaultConfig())
	require.NoError(t, err)

	cam := Camera{Scale: 10, Width: 64, Height: 64}
	on := &Recorder{Active: true, Label: "0, 0"}
	off := &Recorder{Active: false, Position: core.Vec3{X: 2}}

	img := DrawSnapshot(geom, cam, []*Recorder{on, off})
	assert.Equal(t, 64, img.Bounds().Dx())

	bg := color.RGBAModel.Convert(img.At(1, 1)).(color.RGBA)
	assert.Equal(t, snapshotBackground, bg)
	cell := color.RGBAModel.Convert(img.At(24, 24)).(color.RGBA)
	assert.NotEqual(t, snapshotBackground, cell, "the active cell covers the middle of the image")
	hidden := color.RGBAModel.Convert(img.At(52, 32)).(color.RGBA)
	assert.Equal(t, snapshotBackground, hidden, "inactive cells are not drawn")

	path := filepath.Join(t.TempDir(), "snap.png")
	require.NoError(t, WriteSnapshot(path, geom, cam, []*Recorder{on}))
	assert.FileExists(t, path)
}

func TestMinimapTracksScreens(t *testing.T) {
	geom, err := core.NewGeometry(core.DefaultConfig())
	require.NoError(t, err)
	m := NewMinimap(geom)
	w, h := m.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)

	anchor := core.ScreenIndex{Row: 5, Col: 5}
	m.Update(geom.Neighborhood(anchor), anchor)
	assert.Equal(t, MinimapAnchor, m.State(anchor))
	assert.Equal(t, MinimapLive, m.State(core.ScreenIndex{Row: 4, Col: 6}))
	assert.Equal(t, MinimapEmpty, m.State(core.ScreenIndex{Row: 7, Col: 5}))

	next := core.ScreenIndex{Row: 5, Col: 6}
	m.Update(geom.Neighborhood(next), next)
	assert.Equal(t, MinimapEmpty, m.State(core.ScreenIndex{Row: 4, Col: 4}), "stale marks are cleared")
	assert.Equal(t, MinimapLive, m.State(anchor))

	px := m.Pixels()
	require.Len(t, px, 4*w*h)
	base := 4 * (next.Row*w + next.Col)
	assert.Equal(t, []byte{255, 200, 60, 255}, px[base:base+4])
}
