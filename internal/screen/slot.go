package screen

// Slot holds an optional value.
type Slot[T any] struct {
	v  T
	ok bool
}

// Set stores v in the slot.
func (s *Slot[T]) Set(v T) {
	s.v = v
	s.ok = true
}

// Get returns the value and whether the slot is occupied.
func (s *Slot[T]) Get() (T, bool) { return s.v, s.ok }

// Occupied reports whether the slot holds a value.
func (s *Slot[T]) Occupied() bool { return s.ok }

// Take empties the slot and returns what it held.
func (s *Slot[T]) Take() (T, bool) {
	v, ok := s.v, s.ok
	var zero T
	s.v = zero
	s.ok = false
	return v, ok
}
