// Package metrics exports pool and screen-grid activity to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"bigmap/internal/screens"
)

// Metrics with bounded cardinality: the only label is the pool name, and
// there are three pools.
type Metrics struct {
	poolConstructed *prometheus.CounterVec
	poolReused      *prometheus.CounterVec
	poolReleased    *prometheus.CounterVec
	poolMissed      *prometheus.CounterVec
	poolInUse       *prometheus.GaugeVec

	moves         prometheus.Counter
	anchorChanges prometheus.Counter
	screensBuilt  prometheus.Counter
	screensEvict  prometheus.Counter
	liveScreens   prometheus.Gauge
	anchorRow     prometheus.Gauge
	anchorCol     prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		poolConstructed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bigmap_pool_constructed_total",
			Help: "Items constructed by a pool",
		}, []string{"pool"}),
		poolReused: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bigmap_pool_reused_total",
			Help: "Acquires served by a previously released item",
		}, []string{"pool"}),
		poolReleased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bigmap_pool_released_total",
			Help: "Items returned to a pool",
		}, []string{"pool"}),
		poolMissed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bigmap_pool_release_miss_total",
			Help: "Releases of items the pool does not own",
		}, []string{"pool"}),
		poolInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bigmap_pool_in_use",
			Help: "Items currently handed out",
		}, []string{"pool"}),
		moves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bigmap_moves_total",
			Help: "Calls to MoveBy and InitializeAt",
		}),
		anchorChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bigmap_anchor_changes_total",
			Help: "Moves that changed the anchor screen",
		}),
		screensBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bigmap_screens_built_total",
			Help: "Screens populated from the pools",
		}),
		screensEvict: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bigmap_screens_evicted_total",
			Help: "Screens cleared back into the pools",
		}),
		liveScreens: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bigmap_live_screens",
			Help: "Screens currently populated",
		}),
		anchorRow: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bigmap_anchor_row",
			Help: "Row of the anchor screen",
		}),
		anchorCol: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bigmap_anchor_col",
			Help: "Column of the anchor screen",
		}),
	}
	reg.MustRegister(
		m.poolConstructed, m.poolReused, m.poolReleased, m.poolMissed, m.poolInUse,
		m.moves, m.anchorChanges, m.screensBuilt, m.screensEvict,
		m.liveScreens, m.anchorRow, m.anchorCol,
	)
	return m
}

// Constructed implements pool.Observer.
func (m *Metrics) Constructed(pool string) {
	m.poolConstructed.WithLabelValues(pool).Inc()
	m.poolInUse.WithLabelValues(pool).Inc()
}

// Reused implements pool.Observer.
func (m *Metrics) Reused(pool string) {
	m.poolReused.WithLabelValues(pool).Inc()
	m.poolInUse.WithLabelValues(pool).Inc()
}

// Released implements pool.Observer.
func (m *Metrics) Released(pool string, inUse int) {
	m.poolReleased.WithLabelValues(pool).Inc()
	m.poolInUse.WithLabelValues(pool).Set(float64(inUse))
}

// ReleaseMissed implements pool.Observer.
func (m *Metrics) ReleaseMissed(pool string) {
	m.poolMissed.WithLabelValues(pool).Inc()
}

// ObserveMove implements screens.MoveObserver.
func (m *Metrics) ObserveMove(mv screens.Move, live int) {
	m.moves.Inc()
	if mv.From != mv.To {
		m.anchorChanges.Inc()
	}
	m.screensBuilt.Add(float64(len(mv.Built)))
	m.screensEvict.Add(float64(len(mv.Evicted)))
	m.liveScreens.Set(float64(live))
	m.anchorRow.Set(float64(mv.To.Row))
	m.anchorCol.Set(float64(mv.To.Col))
}
