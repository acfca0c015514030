package screens

import (
	"fmt"
	"slices"
	"strconv"

	"bigmap/internal/core"
	"bigmap/internal/pool"
	"bigmap/internal/screen"
)

// Stats summarizes the live screens and the pools behind them.
type Stats struct {
	Anchor  core.ScreenIndex
	Live    int
	Handles pool.Stats
	Data    pool.Stats
	Screens pool.Stats
}

// Geometry returns the geometry the manager was built with.
func (m *Manager) Geometry() core.Geometry { return m.geom }

// Initialized reports whether InitializeAt has run since the last Reset.
func (m *Manager) Initialized() bool { return m.table != nil }

// Anchor returns the current anchor screen.
func (m *Manager) Anchor() core.ScreenIndex { return m.anchor }

// Origin returns the first anchor and its world center.
func (m *Manager) Origin() (core.ScreenIndex, core.Vec3) { return m.origin, m.originCenter }

// ScreenCenter returns the world center of idx relative to the origin.
func (m *Manager) ScreenCenter(idx core.ScreenIndex) core.Vec3 { return m.screenCenter(idx) }

// Present returns the indices of the live screens in row-major order.
func (m *Manager) Present() []core.ScreenIndex {
	if m.table == nil {
		return nil
	}
	return m.table.indices()
}

// Screen returns the live screen at idx, or nil when it is absent or idx is
// outside the map.
func (m *Manager) Screen(idx core.ScreenIndex) *screen.Screen {
	if m.table == nil {
		return nil
	}
	return m.table.get(idx)
}

// Stats returns the current counters.
func (m *Manager) Stats() Stats {
	st := Stats{
		Anchor:  m.anchor,
		Handles: m.handles.Stats(),
		Data:    m.data.Stats(),
		Screens: m.screens.Stats(),
	}
	if m.table != nil {
		st.Live = m.table.len()
	}
	return st
}

// Snapshot implements core.SnapshotProvider.
func (m *Manager) Snapshot() core.Snapshot {
	st := m.Stats()
	poolGroup := func(name string, ps pool.Stats) core.StatGroup {
		return core.StatGroup{Name: name, Stats: []core.Stat{
			{Key: name + "_constructed", Label: "Built", Value: strconv.Itoa(ps.Constructed)},
			{Key: name + "_in_use", Label: "In use", Value: strconv.Itoa(ps.InUse)},
			{Key: name + "_free", Label: "Free", Value: strconv.Itoa(ps.Free())},
		}}
	}
	return core.Snapshot{Groups: []core.StatGroup{
		{Name: "grid", Stats: []core.Stat{
			{Key: "anchor", Label: "Anchor", Value: st.Anchor.String()},
			{Key: "live", Label: "Live screens", Value: strconv.Itoa(st.Live)},
			{Key: "map", Label: "Map screens", Value: fmt.Sprintf("%dx%d", m.geom.MapScreenRows, m.geom.MapScreenCols)},
		}},
		poolGroup("handles", st.Handles),
		poolGroup("data", st.Data),
		poolGroup("screens", st.Screens),
	}}
}

// CheckInvariant verifies that the live screens are exactly the clipped
// neighborhood of the anchor and that each is fully populated at its index.
func (m *Manager) CheckInvariant() error {
	if m.table == nil {
		return ErrNotInitialized
	}
	want := m.geom.Neighborhood(m.anchor)
	got := m.table.indices()
	if !slices.Equal(want, got) {
		return fmt.Errorf("live screens %v, want neighborhood of %v: %v", got, m.anchor, want)
	}
	for _, idx := range got {
		s := m.table.get(idx)
		if s.Index() != idx {
			return fmt.Errorf("screen stored at %v reports index %v", idx, s.Index())
		}
		if !s.Populated() {
			if err := s.Check(); err != nil {
				return err
			}
			return fmt.Errorf("screen %v is live but empty", idx)
		}
	}
	return nil
}
