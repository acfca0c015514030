package screens

import (
	"slices"

	"bigmap/internal/core"
	"bigmap/internal/screen"
)

// table is the sparse map-wide screen grid stored in row-major order. Only
// a handful of slots are ever present, so the present set is also tracked
// separately to avoid scanning the whole grid on every move.
type table struct {
	rows, cols int
	slots      []*screen.Screen
	present    map[core.ScreenIndex]struct{}
}

func newTable(rows, cols int) *table {
	return &table{
		rows:    rows,
		cols:    cols,
		slots:   make([]*screen.Screen, rows*cols),
		present: make(map[core.ScreenIndex]struct{}, 9),
	}
}

func (t *table) inBounds(idx core.ScreenIndex) bool {
	return idx.Row >= 0 && idx.Row < t.rows && idx.Col >= 0 && idx.Col < t.cols
}

// get returns the screen at idx; out-of-range indices read as absent.
func (t *table) get(idx core.ScreenIndex) *screen.Screen {
	if !t.inBounds(idx) {
		return nil
	}
	return t.slots[idx.Row*t.cols+idx.Col]
}

func (t *table) put(idx core.ScreenIndex, s *screen.Screen) {
	t.slots[idx.Row*t.cols+idx.Col] = s
	t.present[idx] = struct{}{}
}

func (t *table) remove(idx core.ScreenIndex) {
	if !t.inBounds(idx) {
		return
	}
	t.slots[idx.Row*t.cols+idx.Col] = nil
	delete(t.present, idx)
}

// indices returns the present indices in row-major order.
func (t *table) indices() []core.ScreenIndex {
	out := make([]core.ScreenIndex, 0, len(t.present))
	for idx := range t.present {
		out = append(out, idx)
	}
	slices.SortFunc(out, compareIndex)
	return out
}

func (t *table) len() int { return len(t.present) }

func compareIndex(a, b core.ScreenIndex) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}
