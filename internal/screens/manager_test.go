package screens

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigmap/internal/core"
	"bigmap/internal/pool"
	"bigmap/internal/render"
)

type fixture struct {
	geom    core.Geometry
	layer   *render.RecordLayer
	handles *pool.HandlePool[core.CellHandle]
	data    *pool.DataPool[core.CellData]
	mgr     *Manager
}

func newFixture(t *testing.T, cfg core.Config, opts ...Option) *fixture {
	t.Helper()
	geom, err := core.NewGeometry(cfg)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	layer := render.NewRecordLayer()
	f := &fixture{
		geom:    geom,
		layer:   layer,
		handles: pool.NewHandlePool(layer.Factory(), pool.WithName("handles"), pool.WithLogger(logger)),
		data:    pool.NewDataPool[core.CellData](pool.WithName("data"), pool.WithLogger(logger)),
	}
	opts = append([]Option{WithLogger(logger)}, opts...)
	f.mgr = New(geom, f.handles, f.data, opts...)
	return f
}

func block(r0, r1, c0, c1 int) []core.ScreenIndex {
	var out []core.ScreenIndex
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			out = append(out, core.ScreenIndex{Row: r, Col: c})
		}
	}
	return out
}

func (f *fixture) assertLabels(t *testing.T, idx core.ScreenIndex) {
	t.Helper()
	s := f.mgr.Screen(idx)
	require.NotNil(t, s, "screen %v absent", idx)
	for i := 0; i < f.geom.ScreenRows; i++ {
		for j := 0; j < f.geom.ScreenCols; j++ {
			h, ok := s.Handle(i, j)
			require.True(t, ok)
			rec := h.(*render.Recorder)
			want := core.CellCoord{Row: i + idx.Row*f.geom.ScreenRows, Col: j + idx.Col*f.geom.ScreenCols}
			require.Equal(t, want.String(), rec.Label)
			require.True(t, rec.Active)

			d, ok := s.Data(i, j)
			require.True(t, ok)
			require.Equal(t, want, d.Coord)
		}
	}
}

func TestScenarioCornerThenJump(t *testing.T) {
	f := newFixture(t, core.DefaultConfig())
	require.Equal(t, 100, f.geom.MapScreenRows)
	require.Equal(t, 200, f.geom.MapScreenCols)

	require.NoError(t, f.mgr.InitializeAt(core.ScreenIndex{}, core.Vec3{}))
	assert.Equal(t, block(0, 1, 0, 1), f.mgr.Present())
	require.NoError(t, f.mgr.CheckInvariant())

	// Dragging the map 25 cells left and 50 cells up reveals screen (5,5).
	mv, err := f.mgr.MoveBy(-25, 50)
	require.NoError(t, err)
	assert.Equal(t, core.ScreenIndex{Row: 5, Col: 5}, mv.To)
	assert.ElementsMatch(t, block(0, 1, 0, 1), mv.Evicted)
	assert.ElementsMatch(t, block(4, 6, 4, 6), mv.Built)
	assert.Equal(t, block(4, 6, 4, 6), f.mgr.Present())
	require.NoError(t, f.mgr.CheckInvariant())

	for _, idx := range f.mgr.Present() {
		f.assertLabels(t, idx)
	}

	cells := f.geom.ScreenRows * f.geom.ScreenCols
	st := f.handles.Stats()
	assert.Equal(t, 9*cells, st.InUse)
	assert.Equal(t, 9*cells, st.Constructed, "the 4 evicted screens' cells are reused before new ones are built")
	assert.Equal(t, 4*cells, st.Reused)
	assert.Len(t, f.layer.Active(), 9*cells)
	assert.Equal(t, 9, f.mgr.Stats().Screens.Constructed)
}

func TestInitializeAtEdgesAndCorners(t *testing.T) {
	tests := []struct {
		name   string
		anchor core.ScreenIndex
		want   []core.ScreenIndex
	}{
		{"top-left corner", core.ScreenIndex{Row: 0, Col: 0}, block(0, 1, 0, 1)},
		{"bottom-right corner", core.ScreenIndex{Row: 99, Col: 199}, block(98, 99, 198, 199)},
		{"top edge", core.ScreenIndex{Row: 0, Col: 50}, block(0, 1, 49, 51)},
		{"left edge", core.ScreenIndex{Row: 50, Col: 0}, block(49, 51, 0, 1)},
		{"interior", core.ScreenIndex{Row: 50, Col: 50}, block(49, 51, 49, 51)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, core.DefaultConfig())
			require.NoError(t, f.mgr.InitializeAt(tt.anchor, core.Vec3{}))
			assert.Equal(t, tt.want, f.mgr.Present())
			require.NoError(t, f.mgr.CheckInvariant())
		})
	}
}

func TestNeighborhoodInvariantOverRandomWalk(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.MapRows = 60
	cfg.MapCols = 40
	f := newFixture(t, cfg)
	require.NoError(t, f.mgr.InitializeAt(core.ScreenIndex{Row: 2, Col: 3}, core.Vec3{}))

	rng := core.NewRNG(7)
	for step := 0; step < 300; step++ {
		dx, dy := rng.Delta(30), rng.Delta(30)
		mv, err := f.mgr.MoveBy(dx, dy)
		require.NoError(t, err)
		require.True(t, f.geom.Contains(mv.To))
		require.NoError(t, f.mgr.CheckInvariant(), "step %d move (%d,%d)", step, dx, dy)
	}

	// Never more than nine screens of cells are alive at once.
	cells := f.geom.ScreenRows * f.geom.ScreenCols
	assert.LessOrEqual(t, f.handles.Stats().InUse, 9*cells)
	assert.Equal(t, f.mgr.Stats().Live*cells, f.handles.Stats().InUse)
	assert.Len(t, f.layer.Active(), f.handles.Stats().InUse)
}

func TestMoveByZeroIsNoop(t *testing.T) {
	f := newFixture(t, core.DefaultConfig())
	require.NoError(t, f.mgr.InitializeAt(core.ScreenIndex{Row: 10, Col: 10}, core.Vec3{}))
	before := f.handles.Stats()

	mv, err := f.mgr.MoveBy(0, 0)
	require.NoError(t, err)
	assert.False(t, mv.Changed())
	assert.Equal(t, mv.From, mv.To)
	assert.Equal(t, before, f.handles.Stats())
}

func TestMoveByOneScreenReusesOverlap(t *testing.T) {
	f := newFixture(t, core.DefaultConfig())
	anchor := core.ScreenIndex{Row: 10, Col: 10}
	require.NoError(t, f.mgr.InitializeAt(anchor, core.Vec3{}))
	kept := f.mgr.Screen(core.ScreenIndex{Row: 10, Col: 11})

	// A one-cell drag to the left still moves a whole screen right.
	mv, err := f.mgr.MoveBy(-1, 0)
	require.NoError(t, err)
	assert.Equal(t, core.ScreenIndex{Row: 10, Col: 11}, mv.To)
	assert.ElementsMatch(t, block(9, 11, 9, 9), mv.Evicted)
	assert.ElementsMatch(t, block(9, 11, 12, 12), mv.Built)
	assert.Same(t, kept, f.mgr.Screen(mv.To), "the new anchor was already live and is reused as-is")
	require.NoError(t, f.mgr.CheckInvariant())
}

func TestMoveByClampsAtMapEdge(t *testing.T) {
	f := newFixture(t, core.DefaultConfig())
	require.NoError(t, f.mgr.InitializeAt(core.ScreenIndex{Row: 1, Col: 1}, core.Vec3{}))

	mv, err := f.mgr.MoveBy(100000, -100000)
	require.NoError(t, err)
	assert.Equal(t, core.ScreenIndex{Row: 0, Col: 0}, mv.To)
	assert.Equal(t, block(0, 1, 0, 1), f.mgr.Present())

	mv, err = f.mgr.MoveBy(-100000, 100000)
	require.NoError(t, err)
	assert.Equal(t, core.ScreenIndex{Row: 99, Col: 199}, mv.To)
	assert.Equal(t, block(98, 99, 198, 199), f.mgr.Present())
}

func TestCellPositionsFollowOrigin(t *testing.T) {
	f := newFixture(t, core.DefaultConfig())
	origin := core.Vec3{X: 100, Z: 50}
	require.NoError(t, f.mgr.InitializeAt(core.ScreenIndex{}, origin))

	first := func(idx core.ScreenIndex) core.Vec3 {
		h, ok := f.mgr.Screen(idx).Handle(0, 0)
		require.True(t, ok)
		return h.(*render.Recorder).Position
	}
	// Cells are 2 units wide; a 10x5 screen spans 10 units in X and 20 in Z.
	assert.Equal(t, core.Vec3{X: 96, Z: 59}, first(core.ScreenIndex{}))
	assert.Equal(t, core.Vec3{X: 106, Z: 59}, first(core.ScreenIndex{Row: 0, Col: 1}))
	assert.Equal(t, core.Vec3{X: 96, Z: 39}, first(core.ScreenIndex{Row: 1, Col: 0}))

	// After moving away, rebuilt screens land where they were first placed.
	_, err := f.mgr.MoveBy(-50, 100)
	require.NoError(t, err)
	_, err = f.mgr.MoveBy(50, -100)
	require.NoError(t, err)
	assert.Equal(t, core.Vec3{X: 106, Z: 59}, first(core.ScreenIndex{Row: 0, Col: 1}))
}

func TestCellDataSeedsAreStable(t *testing.T) {
	f := newFixture(t, core.DefaultConfig(), WithSeed(99))
	require.NoError(t, f.mgr.InitializeAt(core.ScreenIndex{}, core.Vec3{}))
	d, ok := f.mgr.Screen(core.ScreenIndex{Row: 1, Col: 1}).Data(3, 2)
	require.True(t, ok)
	seed := d.Seed

	_, err := f.mgr.MoveBy(-50, 100)
	require.NoError(t, err)
	_, err = f.mgr.MoveBy(50, -100)
	require.NoError(t, err)

	d, ok = f.mgr.Screen(core.ScreenIndex{Row: 1, Col: 1}).Data(3, 2)
	require.True(t, ok)
	assert.Equal(t, seed, d.Seed)
	assert.Equal(t, core.CellSeed(99, core.CellCoord{Row: 13, Col: 7}), seed)
}

func TestMoveBeforeInitialize(t *testing.T) {
	f := newFixture(t, core.DefaultConfig())
	_, err := f.mgr.MoveBy(1, 1)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Nil(t, f.mgr.Present())
	assert.ErrorIs(t, f.mgr.CheckInvariant(), ErrNotInitialized)
}

func TestInitializeAtOutOfRange(t *testing.T) {
	f := newFixture(t, core.DefaultConfig())
	err := f.mgr.InitializeAt(core.ScreenIndex{Row: 100, Col: 0}, core.Vec3{})
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.False(t, f.mgr.Initialized())
}

func TestScreenOutOfRangeReadsAbsent(t *testing.T) {
	f := newFixture(t, core.DefaultConfig())
	require.NoError(t, f.mgr.InitializeAt(core.ScreenIndex{}, core.Vec3{}))
	assert.Nil(t, f.mgr.Screen(core.ScreenIndex{Row: -1, Col: 0}))
	assert.Nil(t, f.mgr.Screen(core.ScreenIndex{Row: 0, Col: 200}))
	assert.Nil(t, f.mgr.Screen(core.ScreenIndex{Row: 5, Col: 5}))
}

func TestResetReturnsEverythingToPools(t *testing.T) {
	f := newFixture(t, core.DefaultConfig())
	require.NoError(t, f.mgr.InitializeAt(core.ScreenIndex{Row: 5, Col: 5}, core.Vec3{}))
	f.mgr.Reset()

	assert.False(t, f.mgr.Initialized())
	assert.Zero(t, f.handles.Stats().InUse)
	assert.Zero(t, f.data.Stats().InUse)
	assert.Zero(t, f.mgr.Stats().Screens.InUse)
	assert.Empty(t, f.layer.Active())

	// Reinitializing draws from the same pools.
	require.NoError(t, f.mgr.InitializeAt(core.ScreenIndex{Row: 20, Col: 20}, core.Vec3{}))
	assert.Equal(t, 9*50, f.handles.Stats().Constructed)
	require.NoError(t, f.mgr.CheckInvariant())
}

type moveLog struct {
	moves []Move
	live  []int
}

func (l *moveLog) ObserveMove(m Move, live int) {
	l.moves = append(l.moves, m)
	l.live = append(l.live, live)
}

func TestMoveObserver(t *testing.T) {
	log := &moveLog{}
	f := newFixture(t, core.DefaultConfig(), WithMoveObserver(log))
	require.NoError(t, f.mgr.InitializeAt(core.ScreenIndex{}, core.Vec3{}))
	_, err := f.mgr.MoveBy(-5, 0)
	require.NoError(t, err)

	require.Len(t, log.moves, 2)
	assert.Len(t, log.moves[0].Built, 4)
	assert.Equal(t, []int{4, 6}, log.live)
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t, core.DefaultConfig())
	require.NoError(t, f.mgr.InitializeAt(core.ScreenIndex{Row: 3, Col: 4}, core.Vec3{}))

	snap := f.mgr.Snapshot()
	v, ok := snap.Lookup("live")
	require.True(t, ok)
	assert.Equal(t, "9", v)
	v, _ = snap.Lookup("anchor")
	assert.Equal(t, "(3,4)", v)
	v, _ = snap.Lookup("handles_in_use")
	assert.Equal(t, "450", v)
}
