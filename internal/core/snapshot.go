package core

// Stat is a single labelled value exposed for display.
type Stat struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// StatGroup clusters related stats for presentation purposes.
type StatGroup struct {
	Name  string `json:"name"`
	Stats []Stat `json:"stats"`
}

// Snapshot captures the current state of a component for the HUD and the
// debug endpoints.
type Snapshot struct {
	Groups []StatGroup `json:"groups"`
}

// Lookup returns the value of the stat with the given key.
func (s Snapshot) Lookup(key string) (string, bool) {
	for _, g := range s.Groups {
		for _, st := range g.Stats {
			if st.Key == key {
				return st.Value, true
			}
		}
	}
	return "", false
}

// SnapshotProvider exposes a Snapshot.
type SnapshotProvider interface {
	Snapshot() Snapshot
}
