package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigmap/internal/core"
	"bigmap/internal/pool"
	"bigmap/internal/render"
)

const rows, cols = 10, 5

type pools struct {
	layer   *render.RecordLayer
	handles *pool.HandlePool[core.CellHandle]
	data    *pool.DataPool[core.CellData]
}

func newPools() pools {
	layer := render.NewRecordLayer()
	return pools{
		layer:   layer,
		handles: pool.NewHandlePool(layer.Factory()),
		data:    pool.NewDataPool[core.CellData](),
	}
}

func fill(s *Screen, p pools) {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			s.Populate(i, j, p.handles.Acquire(), p.data.Acquire())
		}
	}
}

func TestMapCoordinateRoundTrip(t *testing.T) {
	for _, idx := range []core.ScreenIndex{{Row: 0, Col: 0}, {Row: 3, Col: 7}, {Row: 99, Col: 199}} {
		s := New(rows, cols).SetPosition(idx)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				want := core.CellCoord{Row: i + idx.Row*rows, Col: j + idx.Col*cols}
				require.Equal(t, want, s.MapCoordinate(i, j), "screen %v cell (%d,%d)", idx, i, j)
			}
		}
	}
}

func TestCornerCoordinates(t *testing.T) {
	s := New(rows, cols).SetPosition(core.ScreenIndex{Row: 2, Col: 3})
	assert.Equal(t, core.CellCoord{Row: 20, Col: 15}, s.FirstCellCoordinate())
	assert.Equal(t, core.CellCoord{Row: 29, Col: 19}, s.LastCellCoordinate())
}

func TestPopulateAndClear(t *testing.T) {
	p := newPools()
	s := New(rows, cols).SetPosition(core.ScreenIndex{Row: 1, Col: 1})

	require.True(t, s.Cleared())
	require.NoError(t, s.Check())

	fill(s, p)
	require.True(t, s.Populated())
	require.NoError(t, s.Check())
	assert.Equal(t, rows*cols, p.handles.Stats().InUse)

	released := s.Clear(p.handles, p.data)
	assert.Equal(t, rows*cols, released)
	assert.True(t, s.Cleared())
	assert.Equal(t, 0, p.handles.Stats().InUse)
	assert.Equal(t, 0, p.data.Stats().InUse)
	assert.Empty(t, p.layer.Active(), "released handles are hidden")
}

func TestClearTwiceReleasesOnce(t *testing.T) {
	p := newPools()
	s := New(rows, cols)
	fill(s, p)

	require.Equal(t, rows*cols, s.Clear(p.handles, p.data))
	assert.Equal(t, 0, s.Clear(p.handles, p.data))

	assert.Equal(t, rows*cols, p.handles.Stats().Released)
	assert.Equal(t, rows*cols, p.data.Stats().Released)
	assert.Zero(t, p.handles.Stats().ReleaseMiss)
	for _, r := range p.layer.Active() {
		t.Fatalf("handle %d still active", r.ID)
	}
}

func TestCheckFlagsPartialPopulation(t *testing.T) {
	p := newPools()
	s := New(rows, cols)
	s.Populate(0, 0, p.handles.Acquire(), p.data.Acquire())

	assert.False(t, s.Populated())
	assert.False(t, s.Cleared())
	assert.Error(t, s.Check())
}

func TestScreenRecycledForAnotherIndex(t *testing.T) {
	p := newPools()
	s := New(rows, cols).SetPosition(core.ScreenIndex{Row: 0, Col: 0})
	fill(s, p)
	s.Clear(p.handles, p.data)

	s.SetPosition(core.ScreenIndex{Row: 4, Col: 4})
	fill(s, p)
	h, ok := s.Handle(0, 0)
	require.True(t, ok)
	assert.True(t, h.(*render.Recorder).Active)
	assert.Equal(t, core.CellCoord{Row: 40, Col: 20}, s.FirstCellCoordinate())
	assert.Equal(t, rows*cols, p.layer.Len(), "second fill reuses the first fill's handles")
}

func TestSlotTake(t *testing.T) {
	var s Slot[int]
	_, ok := s.Get()
	assert.False(t, ok)

	s.Set(3)
	v, ok := s.Take()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.False(t, s.Occupied())
}
