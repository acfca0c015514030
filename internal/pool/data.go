package pool

// DataPool recycles plain records. Items are pointers so that identity
// survives reuse.
type DataPool[T any] struct {
	registry[*T]
	construct func() *T
}

// NewDataPool returns an empty pool constructing items with new(T).
func NewDataPool[T any](opts ...Option) *DataPool[T] {
	return NewDataPoolFunc(func() *T { return new(T) }, opts...)
}

// NewDataPoolFunc returns an empty pool constructing items with construct,
// for records that need sized storage up front.
func NewDataPoolFunc[T any](construct func() *T, opts ...Option) *DataPool[T] {
	return &DataPool[T]{registry: newRegistry[*T](opts), construct: construct}
}

// Acquire returns a free record, constructing one if none is free. Reused
// records keep whatever the previous holder left in them.
func (p *DataPool[T]) Acquire() *T {
	if item, ok := p.reuse(); ok {
		return item
	}
	item := p.construct()
	p.add(item)
	return item
}

// Release makes item available again. A nil item is never found.
func (p *DataPool[T]) Release(item *T) bool {
	if item == nil {
		return false
	}
	found, _ := p.release(item)
	return found
}
