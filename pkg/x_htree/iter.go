// file:htree/pkg/x_htree/iter.go
package x_htree

import (
	"iter"

	"github.com/rskv-p/htree/pkg/x_slot"
)

//---------------------
// Breadth-first Cursor
//---------------------

// Iterator is a forward-only, single-pass breadth-first cursor over the tree.
// It starts on the root. The tree must not be mutated while a cursor is in use.
//
// Two cursors are Equal when they are at the same position. Comparing cursors
// of different trees is meaningless.
type Iterator[K comparable, V any] struct {
	t     *Tree[K, V]
	visit []x_slot.ID
	pos   int
	end   int
}

// Iter returns a cursor positioned on the root.
func (t *Tree[K, V]) Iter() *Iterator[K, V] {
	it := &Iterator[K, V]{t: t, end: t.Len()}
	if !t.root.IsNil() {
		it.visit = make([]x_slot.ID, 1, t.Len())
		it.visit[0] = t.root
	}
	return it
}

// Done reports whether the cursor is past the last node.
func (it *Iterator[K, V]) Done() bool { return it.pos >= it.end }

// Pos returns the number of nodes already passed.
func (it *Iterator[K, V]) Pos() int { return it.pos }

// Key returns the key at the current position.
func (it *Iterator[K, V]) Key() K { return it.current().key }

// Value returns the value at the current position.
func (it *Iterator[K, V]) Value() V { return it.current().value }

// Next queues the children of the current node and moves one step. It reports
// whether the new position holds a node.
func (it *Iterator[K, V]) Next() bool {
	if it.Done() {
		return false
	}
	it.visit = append(it.visit, it.current().children...)
	it.pos++
	return !it.Done()
}

// Equal compares positions only.
func (it *Iterator[K, V]) Equal(other *Iterator[K, V]) bool {
	return it.pos == other.pos
}

func (it *Iterator[K, V]) current() *node[K, V] {
	if it.Done() {
		panic("x_htree: iterator past end")
	}
	return it.t.nodes.At(it.visit[it.pos])
}

//---------------------
// Range Iterators
//---------------------

// All yields every entry breadth-first from the root.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t.walk(t.root, yield)
	}
}

// Subtree yields key and its descendants breadth-first. A missing key yields
// nothing.
func (t *Tree[K, V]) Subtree(key K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t.walk(t.resolve(key), yield)
	}
}

// Keys yields every key breadth-first from the root.
func (t *Tree[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range t.All() {
			if !yield(k) {
				return
			}
		}
	}
}

func (t *Tree[K, V]) walk(start x_slot.ID, yield func(K, V) bool) {
	if start.IsNil() {
		return
	}
	queue := []x_slot.ID{start}
	for len(queue) > 0 {
		n := t.nodes.At(queue[0])
		queue = queue[1:]
		if !yield(n.key, n.value) {
			return
		}
		queue = append(queue, n.children...)
	}
}
