package metrics

import (
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigmap/internal/core"
	"bigmap/internal/pool"
	"bigmap/internal/render"
	"bigmap/internal/screens"
)

var (
	_ pool.Observer        = (*Metrics)(nil)
	_ screens.MoveObserver = (*Metrics)(nil)
)

func TestMetricsFollowManager(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	geom, err := core.NewGeometry(core.DefaultConfig())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	layer := render.NewRecordLayer()
	handles := pool.NewHandlePool(layer.Factory(), pool.WithName("handles"), pool.WithObserver(m), pool.WithLogger(logger))
	data := pool.NewDataPool[core.CellData](pool.WithName("data"), pool.WithObserver(m), pool.WithLogger(logger))
	mgr := screens.New(geom, handles, data,
		screens.WithLogger(logger),
		screens.WithMoveObserver(m),
		screens.WithScreenPoolObserver(m))

	require.NoError(t, mgr.InitializeAt(core.ScreenIndex{}, core.Vec3{}))
	_, err = mgr.MoveBy(-25, 50)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.moves))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.anchorChanges))
	assert.Equal(t, 13.0, testutil.ToFloat64(m.screensBuilt))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.screensEvict))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.liveScreens))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.anchorRow))

	assert.Equal(t, 450.0, testutil.ToFloat64(m.poolConstructed.WithLabelValues("handles")))
	assert.Equal(t, 200.0, testutil.ToFloat64(m.poolReused.WithLabelValues("handles")))
	assert.Equal(t, 450.0, testutil.ToFloat64(m.poolInUse.WithLabelValues("handles")))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.poolInUse.WithLabelValues("screens")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.poolReleased.WithLabelValues("screens")))
}

func TestReleaseMissCounted(t *testing.T) {
	m := New(prometheus.NewRegistry())
	p := pool.NewDataPool[core.CellData](pool.WithName("data"), pool.WithObserver(m),
		pool.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	p.Release(&core.CellData{})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.poolMissed.WithLabelValues("data")))
}
