// Package pool recycles items instead of constructing and discarding them.
//
// Two variants share the Pool interface: HandlePool builds items through an
// injected factory and hides them on release, DataPool builds plain records
// and has no release side effect. Neither is safe for concurrent use.
package pool

import "log/slog"

// Pool hands out reusable items.
type Pool[T any] interface {
	// Acquire returns a free item, constructing one if none is free.
	Acquire() T
	// Release marks item free. It reports false when item does not belong
	// to the pool.
	Release(item T) bool
}

// Stats counts pool activity since construction.
type Stats struct {
	Constructed int
	InUse       int
	Reused      int
	Released    int
	ReleaseMiss int
}

// Free returns the number of constructed items waiting for reuse.
func (s Stats) Free() int { return s.Constructed - s.InUse }

// Observer receives pool events, typically to feed metrics.
type Observer interface {
	Constructed(pool string)
	Reused(pool string)
	Released(pool string, inUse int)
	ReleaseMissed(pool string)
}

// Option configures a pool.
type Option func(*options)

type options struct {
	name     string
	logger   *slog.Logger
	observer Observer
}

// WithName labels the pool in logs and metrics.
func WithName(name string) Option { return func(o *options) { o.name = name } }

// WithLogger sets the logger used for release misses.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithObserver attaches an Observer.
func WithObserver(obs Observer) Option { return func(o *options) { o.observer = obs } }

func buildOptions(opts []Option) options {
	o := options{name: "pool", logger: slog.Default()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// entry pairs an item with its in-use flag.
type entry[T comparable] struct {
	item  T
	inUse bool
}

// registry is the bookkeeping shared by both pool variants. Entries are
// never removed, so pool growth is monotonic.
type registry[T comparable] struct {
	options
	entries []entry[T]
	index   map[T]int
	free    []int
	stats   Stats
}

func newRegistry[T comparable](opts []Option) registry[T] {
	return registry[T]{options: buildOptions(opts), index: make(map[T]int)}
}

// reuse flags a free entry in-use and returns its item.
func (r *registry[T]) reuse() (T, bool) {
	for len(r.free) > 0 {
		last := len(r.free) - 1
		i := r.free[last]
		r.free = r.free[:last]
		if r.entries[i].inUse {
			continue
		}
		r.entries[i].inUse = true
		r.stats.InUse++
		r.stats.Reused++
		if r.observer != nil {
			r.observer.Reused(r.name)
		}
		return r.entries[i].item, true
	}
	var zero T
	return zero, false
}

// add appends a freshly constructed item flagged in-use.
func (r *registry[T]) add(item T) {
	r.index[item] = len(r.entries)
	r.entries = append(r.entries, entry[T]{item: item, inUse: true})
	r.stats.Constructed++
	r.stats.InUse++
	if r.observer != nil {
		r.observer.Constructed(r.name)
	}
}

// release flags item free. wasInUse is false when the item was already free.
func (r *registry[T]) release(item T) (found, wasInUse bool) {
	i, ok := r.index[item]
	if !ok {
		r.stats.ReleaseMiss++
		r.logger.Debug("release of unknown item", "pool", r.name)
		if r.observer != nil {
			r.observer.ReleaseMissed(r.name)
		}
		return false, false
	}
	if !r.entries[i].inUse {
		return true, false
	}
	r.entries[i].inUse = false
	r.free = append(r.free, i)
	r.stats.InUse--
	r.stats.Released++
	if r.observer != nil {
		r.observer.Released(r.name, r.stats.InUse)
	}
	return true, true
}

// InUse reports whether item is currently handed out.
func (r *registry[T]) InUse(item T) bool {
	i, ok := r.index[item]
	return ok && r.entries[i].inUse
}

// Len returns the number of items ever constructed.
func (r *registry[T]) Len() int { return len(r.entries) }

// Stats returns the activity counters.
func (r *registry[T]) Stats() Stats { return r.stats }

// Name returns the pool label.
func (r *registry[T]) Name() string { return r.name }
