package pool

// Handle is an item with a visual presence that can be switched off.
type Handle interface {
	comparable
	SetActive(active bool)
}

// Factory constructs a new handle. The template the handle is cloned from
// and the container it is parented to are bound by the factory.
type Factory[H Handle] func() H

// HandlePool recycles handles built by a Factory. Acquired handles are
// active, released handles are hidden.
type HandlePool[H Handle] struct {
	registry[H]
	factory Factory[H]
}

// NewHandlePool returns an empty pool building handles with factory.
func NewHandlePool[H Handle](factory Factory[H], opts ...Option) *HandlePool[H] {
	return &HandlePool[H]{registry: newRegistry[H](opts), factory: factory}
}

// Acquire returns an active handle, reusing a released one when possible.
func (p *HandlePool[H]) Acquire() H {
	if h, ok := p.reuse(); ok {
		h.SetActive(true)
		return h
	}
	h := p.factory()
	h.SetActive(true)
	p.add(h)
	return h
}

// Release hides h and makes it available again. Releasing a hidden handle
// changes nothing.
func (p *HandlePool[H]) Release(h H) bool {
	found, wasInUse := p.release(h)
	if wasInUse {
		h.SetActive(false)
	}
	return found
}
