// Package screen holds one screen-sized block of live cells.
package screen

import (
	"fmt"

	"bigmap/internal/core"
	"bigmap/internal/pool"
)

// Screen owns the cell handles and cell data of one screen. Slots are
// row-major, rows*cols long. A Screen is recycled through a pool and
// reassigned to a different index on reuse.
type Screen struct {
	idx        core.ScreenIndex
	rows, cols int

	handles []Slot[core.CellHandle]
	data    []Slot[*core.CellData]
}

// New allocates an empty screen of rows x cols cells.
func New(rows, cols int) *Screen {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	return &Screen{
		rows:    rows,
		cols:    cols,
		handles: make([]Slot[core.CellHandle], rows*cols),
		data:    make([]Slot[*core.CellData], rows*cols),
	}
}

// SetPosition assigns the screen to idx.
func (s *Screen) SetPosition(idx core.ScreenIndex) *Screen {
	s.idx = idx
	return s
}

// Index returns the screen index the screen currently belongs to.
func (s *Screen) Index() core.ScreenIndex { return s.idx }

// Size returns the cell rows and columns of the screen.
func (s *Screen) Size() (rows, cols int) { return s.rows, s.cols }

func (s *Screen) offset(i, j int) int { return i*s.cols + j }

// Populate fills local cell (i, j). Callers fill every cell before handing
// the screen to anyone else.
func (s *Screen) Populate(i, j int, handle core.CellHandle, data *core.CellData) {
	k := s.offset(i, j)
	s.handles[k].Set(handle)
	s.data[k].Set(data)
}

// Handle returns the handle of local cell (i, j).
func (s *Screen) Handle(i, j int) (core.CellHandle, bool) { return s.handles[s.offset(i, j)].Get() }

// Data returns the data record of local cell (i, j).
func (s *Screen) Data(i, j int) (*core.CellData, bool) { return s.data[s.offset(i, j)].Get() }

// Clear returns every handle and data record to their pools and empties the
// slots. It returns the number of cells released; clearing an empty screen
// releases nothing.
func (s *Screen) Clear(handles pool.Pool[core.CellHandle], data pool.Pool[*core.CellData]) int {
	released := 0
	for k := range s.handles {
		h, hok := s.handles[k].Take()
		d, dok := s.data[k].Take()
		if hok {
			handles.Release(h)
		}
		if dok {
			data.Release(d)
		}
		if hok || dok {
			released++
		}
	}
	return released
}

// MapCoordinate returns the absolute map cell of local cell (i, j).
func (s *Screen) MapCoordinate(i, j int) core.CellCoord {
	return core.CellCoord{Row: i + s.idx.Row*s.rows, Col: j + s.idx.Col*s.cols}
}

// FirstCellCoordinate is the map cell of the top-left corner.
func (s *Screen) FirstCellCoordinate() core.CellCoord { return s.MapCoordinate(0, 0) }

// LastCellCoordinate is the map cell of the bottom-right corner.
func (s *Screen) LastCellCoordinate() core.CellCoord {
	return s.MapCoordinate(s.rows-1, s.cols-1)
}

// Populated reports whether every cell holds both a handle and a record.
func (s *Screen) Populated() bool {
	for k := range s.handles {
		if !s.handles[k].Occupied() || !s.data[k].Occupied() {
			return false
		}
	}
	return true
}

// Cleared reports whether no cell holds anything.
func (s *Screen) Cleared() bool {
	for k := range s.handles {
		if s.handles[k].Occupied() || s.data[k].Occupied() {
			return false
		}
	}
	return true
}

// Check returns an error when the screen is partially populated.
func (s *Screen) Check() error {
	if s.Populated() || s.Cleared() {
		return nil
	}
	filled := 0
	for k := range s.handles {
		if s.handles[k].Occupied() && s.data[k].Occupied() {
			filled++
		}
	}
	return fmt.Errorf("screen %v partially populated: %d of %d cells", s.idx, filled, len(s.handles))
}
