// Package arena provides a generic append-only, index-addressed store —
// the Go analog of Rust's index_vec crate used by the original BVH: typed
// integer handles (InnerNodeIdx, TrianglePackIdx, TriangleIdx, VertexIdx in
// package bvh) stand in for pointers, so the resulting tree has no internal
// references and is trivially shareable read-only across goroutines once
// built (§3's "thereafter is read-only and freely shareable across
// workers").
package arena

// Index is implemented by small integer-handle types so Arena can be
// generic over the handle as well as the element.
type Index interface {
	~uint32
}

// Arena is a flat, append-only slice of T addressed by a typed index I.
type Arena[I Index, T any] struct {
	items []T
}

// New returns an empty arena with the given initial capacity hint.
func New[I Index, T any](capacityHint int) *Arena[I, T] {
	return &Arena[I, T]{items: make([]T, 0, capacityHint)}
}

// Push appends v and returns its index.
func (a *Arena[I, T]) Push(v T) I {
	idx := I(len(a.items))
	a.items = append(a.items, v)
	return idx
}

// Get returns the element at idx. It panics if idx is out of range,
// matching the Rust original's index_vec bounds-checked Index impl — an
// out-of-range idx is always an InvariantViolation-class bug, never
// expected input (§7).
func (a *Arena[I, T]) Get(idx I) T {
	return a.items[idx]
}

// Set overwrites the element at idx.
func (a *Arena[I, T]) Set(idx I, v T) {
	a.items[idx] = v
}

// Len returns the number of elements pushed so far.
func (a *Arena[I, T]) Len() int {
	return len(a.items)
}

// Slice returns the underlying backing slice, for bulk/iteration access
// (e.g. determinism checks across two builds of the same mesh, §8 scenario
// 6). Callers must not retain it across further Push calls.
func (a *Arena[I, T]) Slice() []T {
	return a.items
}
