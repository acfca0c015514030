// Package screens keeps the 3x3 block of live screens around a moving
// anchor. Screens leaving the block are cleared back into the pools and
// screens entering it are rebuilt from them.
package screens

import (
	"errors"
	"fmt"
	"log/slog"

	"bigmap/internal/core"
	"bigmap/internal/pool"
	"bigmap/internal/screen"
)

var (
	// ErrNotInitialized is returned by MoveBy before InitializeAt.
	ErrNotInitialized = errors.New("screen manager not initialized")
	// ErrOutOfRange reports a screen index outside the map.
	ErrOutOfRange = errors.New("screen index out of range")
)

// HandleSource supplies cell handles.
type HandleSource interface {
	pool.Pool[core.CellHandle]
	Stats() pool.Stats
}

// DataSource supplies cell data records.
type DataSource interface {
	pool.Pool[*core.CellData]
	Stats() pool.Stats
}

// Move describes the outcome of one MoveBy call.
type Move struct {
	From    core.ScreenIndex
	To      core.ScreenIndex
	Evicted []core.ScreenIndex
	Built   []core.ScreenIndex
}

// Changed reports whether the move touched any screen.
func (m Move) Changed() bool { return len(m.Evicted) > 0 || len(m.Built) > 0 }

// MoveObserver is told about every completed move.
type MoveObserver interface {
	ObserveMove(m Move, live int)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) Option { return func(m *Manager) { m.logger = l } }

// WithSeed sets the map seed used to fill cell data records.
func WithSeed(seed int64) Option { return func(m *Manager) { m.seed = seed } }

// WithMoveObserver attaches a MoveObserver.
func WithMoveObserver(obs MoveObserver) Option { return func(m *Manager) { m.observer = obs } }

// WithScreenPoolObserver attaches a pool observer to the screen-record pool.
func WithScreenPoolObserver(obs pool.Observer) Option {
	return func(m *Manager) { m.screenPoolObserver = obs }
}

// Manager owns the live screens. It is not safe for concurrent use.
type Manager struct {
	geom   core.Geometry
	seed   int64
	logger *slog.Logger

	handles HandleSource
	data    DataSource
	screens *pool.DataPool[screen.Screen]

	observer           MoveObserver
	screenPoolObserver pool.Observer

	table  *table
	anchor core.ScreenIndex

	// origin is the first anchor; world positions are measured from it.
	origin       core.ScreenIndex
	originCenter core.Vec3
}

// New returns a manager that builds cells from handles and data. Call
// InitializeAt before moving it.
func New(geom core.Geometry, handles HandleSource, data DataSource, opts ...Option) *Manager {
	m := &Manager{
		geom:    geom,
		logger:  slog.Default(),
		handles: handles,
		data:    data,
	}
	for _, opt := range opts {
		opt(m)
	}
	poolOpts := []pool.Option{pool.WithName("screens"), pool.WithLogger(m.logger)}
	if m.screenPoolObserver != nil {
		poolOpts = append(poolOpts, pool.WithObserver(m.screenPoolObserver))
	}
	m.screens = pool.NewDataPoolFunc(func() *screen.Screen {
		return screen.New(geom.ScreenRows, geom.ScreenCols)
	}, poolOpts...)
	return m
}

// InitializeAt places the anchor screen at anchorCenter and builds its
// neighborhood. Calling it again starts over from an empty map.
func (m *Manager) InitializeAt(anchor core.ScreenIndex, anchorCenter core.Vec3) error {
	if !m.geom.Contains(anchor) {
		return fmt.Errorf("%w: anchor %v outside %dx%d screens", ErrOutOfRange, anchor, m.geom.MapScreenRows, m.geom.MapScreenCols)
	}
	if m.table != nil {
		m.Reset()
	}

	m.table = newTable(m.geom.MapScreenRows, m.geom.MapScreenCols)
	m.anchor = anchor
	m.origin = anchor
	m.originCenter = anchorCenter

	built := []core.ScreenIndex{anchor}
	s := m.buildScreen(anchorCenter, anchor)
	built = append(built, m.expandNeighborhood(s)...)

	m.logger.Info("screen grid initialized",
		"anchor", anchor,
		"screens", m.table.len(),
		"map_screens", fmt.Sprintf("%dx%d", m.geom.MapScreenRows, m.geom.MapScreenCols))
	if m.observer != nil {
		m.observer.ObserveMove(Move{From: anchor, To: anchor, Built: built}, m.table.len())
	}
	return nil
}

// MoveBy shifts the anchor after the map content was dragged by (dx, dy)
// cells, evicting screens outside the new neighborhood and building the
// missing ones.
func (m *Manager) MoveBy(dx, dy int) (Move, error) {
	if m.table == nil {
		return Move{}, ErrNotInitialized
	}

	target := m.geom.CellToScreenIndex(dx, dy, m.anchor)
	mv := Move{From: m.anchor, To: target}

	for _, idx := range m.table.indices() {
		if core.InNeighborhood(target, idx) {
			continue
		}
		m.evict(idx)
		mv.Evicted = append(mv.Evicted, idx)
	}

	current := m.table.get(target)
	if current == nil {
		current = m.buildScreen(m.screenCenter(target), target)
		mv.Built = append(mv.Built, target)
	}
	mv.Built = append(mv.Built, m.expandNeighborhood(current)...)
	m.anchor = target

	if mv.From != mv.To {
		m.logger.Info("anchor moved",
			"from", mv.From, "to", mv.To,
			"dx", dx, "dy", dy,
			"evicted", len(mv.Evicted), "built", len(mv.Built))
	}
	if m.observer != nil {
		m.observer.ObserveMove(mv, m.table.len())
	}
	return mv, nil
}

// Reset evicts every live screen and returns the manager to the
// uninitialized state. Pools keep their items for the next InitializeAt.
func (m *Manager) Reset() {
	if m.table == nil {
		return
	}
	for _, idx := range m.table.indices() {
		m.evict(idx)
	}
	m.table = nil
}

func (m *Manager) screenCenter(idx core.ScreenIndex) core.Vec3 {
	return m.geom.ScreenCenter(m.origin, m.originCenter, idx)
}

// buildScreen fills a pooled screen for idx around center and stores it.
func (m *Manager) buildScreen(center core.Vec3, idx core.ScreenIndex) *screen.Screen {
	s := m.screens.Acquire().SetPosition(idx)
	for i := 0; i < m.geom.ScreenRows; i++ {
		for j := 0; j < m.geom.ScreenCols; j++ {
			coord := s.MapCoordinate(i, j)

			h := m.handles.Acquire()
			h.SetPosition(m.geom.CellPosition(center, i, j))
			h.SetLabel(coord.String())

			d := m.data.Acquire()
			d.Reset(coord, m.seed)

			s.Populate(i, j, h, d)
		}
	}
	m.table.put(idx, s)
	m.logger.Debug("screen built", "screen", idx, "first", s.FirstCellCoordinate(), "last", s.LastCellCoordinate())
	return s
}

// expandNeighborhood builds every absent neighbour of s.
func (m *Manager) expandNeighborhood(s *screen.Screen) []core.ScreenIndex {
	var built []core.ScreenIndex
	center := s.Index()
	for _, idx := range m.geom.Neighborhood(center) {
		if idx == center || m.table.get(idx) != nil {
			continue
		}
		m.buildScreen(m.screenCenter(idx), idx)
		built = append(built, idx)
	}
	return built
}

func (m *Manager) evict(idx core.ScreenIndex) {
	s := m.table.get(idx)
	if s == nil {
		return
	}
	released := s.Clear(m.handles, m.data)
	m.screens.Release(s)
	m.table.remove(idx)
	m.logger.Debug("screen evicted", "screen", idx, "cells", released)
}
