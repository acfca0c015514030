package render

import (
	"bigmap/internal/core"
	"bigmap/internal/pool"
)

// Recorder is a headless cell handle. It remembers what it was told so that
// tests and the snapshot writer can inspect it.
type Recorder struct {
	ID       int
	Active   bool
	Position core.Vec3
	Label    string

	Activations   int
	Deactivations int
}

// SetActive implements core.CellHandle.
func (r *Recorder) SetActive(active bool) {
	if active && !r.Active {
		r.Activations++
	}
	if !active && r.Active {
		r.Deactivations++
	}
	r.Active = active
}

// SetPosition implements core.CellHandle.
func (r *Recorder) SetPosition(pos core.Vec3) { r.Position = pos }

// SetLabel implements core.CellHandle.
func (r *Recorder) SetLabel(label string) { r.Label = label }

// RecordLayer is the parent container of every Recorder built for it.
type RecordLayer struct {
	handles []*Recorder
}

// NewRecordLayer returns an empty layer.
func NewRecordLayer() *RecordLayer { return &RecordLayer{} }

// Factory returns a pool factory building recorders parented to l.
func (l *RecordLayer) Factory() pool.Factory[core.CellHandle] {
	return func() core.CellHandle {
		r := &Recorder{ID: len(l.handles) + 1}
		l.handles = append(l.handles, r)
		return r
	}
}

// Len returns the number of recorders ever built.
func (l *RecordLayer) Len() int { return len(l.handles) }

// Active returns the recorders currently shown.
func (l *RecordLayer) Active() []*Recorder {
	out := make([]*Recorder, 0, len(l.handles))
	for _, r := range l.handles {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}
