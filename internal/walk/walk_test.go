package walk

import (
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigmap/internal/core"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newWalker(t *testing.T, start core.ScreenIndex, check bool) *Walker {
	t.Helper()
	mapCfg := core.DefaultConfig()
	mapCfg.StartRow, mapCfg.StartCol = start.Row, start.Col
	w, err := New(Config{Map: mapCfg, Check: check}, Options{Logger: quietLogger()})
	require.NoError(t, err)
	return w
}

func TestRunKeepsNeighborhood(t *testing.T) {
	w := newWalker(t, core.ScreenIndex{Row: 50, Col: 100}, true)
	require.NoError(t, w.Run(context.Background(), 200))

	st := w.State()
	assert.Equal(t, 200, st.Steps)
	assert.LessOrEqual(t, len(st.Present), 9)
	assert.Equal(t, len(st.Present), st.Stats.Live)
	require.NoError(t, w.Check())
}

func TestRunIsDeterministic(t *testing.T) {
	a := newWalker(t, core.ScreenIndex{Row: 20, Col: 20}, false)
	b := newWalker(t, core.ScreenIndex{Row: 20, Col: 20}, false)
	require.NoError(t, a.Run(context.Background(), 50))
	require.NoError(t, b.Run(context.Background(), 50))
	assert.Equal(t, a.State().Anchor, b.State().Anchor)
	assert.Equal(t, a.State().Offset, b.State().Offset)
}

func TestRunStopsOnCancel(t *testing.T) {
	w := newWalker(t, core.ScreenIndex{}, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx, 0))
	assert.Zero(t, w.State().Steps)
}

func TestDragAndHome(t *testing.T) {
	start := core.ScreenIndex{Row: 10, Col: 10}
	w := newWalker(t, start, true)

	mv, err := w.Drag(-5, 0)
	require.NoError(t, err)
	assert.Equal(t, core.ScreenIndex{Row: 10, Col: 11}, mv.To)
	assert.Len(t, mv.Evicted, 3)
	assert.Len(t, mv.Built, 3)

	mv, err = w.Home()
	require.NoError(t, err)
	assert.Equal(t, start, mv.To)
	assert.Equal(t, core.Vec3{}, w.State().Offset)
}

func TestSnapshotCountsSteps(t *testing.T) {
	w := newWalker(t, core.ScreenIndex{Row: 3, Col: 3}, false)
	_, err := w.Step()
	require.NoError(t, err)
	v, ok := w.Snapshot().Lookup("steps")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestWritePNG(t *testing.T) {
	w := newWalker(t, core.ScreenIndex{Row: 5, Col: 5}, false)
	path := filepath.Join(t.TempDir(), "grid.png")
	require.NoError(t, w.WritePNG(path, 2))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
}
