// file:htree/pkg/x_htree/htree.go

// Package x_htree implements a hash-tree: a keyed map whose entries also form a
// single rooted, ordered multi-way tree.
//
// Keys are found through a chained hash index in constant amortized time. Every
// entry except the root has exactly one parent, and the children of a node keep
// the order in which they were attached. The first parentless insert becomes the
// root; later parentless inserts are attached as children of the root.
//
// Erasing a node removes its whole subtree. Erasing the root therefore clears the
// map. This is defined behavior, not an error.
//
// A Tree is not safe for concurrent use. Hosts sharing one must serialize
// mutations themselves.
package x_htree

import (
	"hash/maphash"

	"github.com/rs/zerolog"

	"github.com/rskv-p/htree/pkg/x_slot"
)

const (
	MaxLoad      = 0.9
	MinLoad      = 0.2
	MinTableSize = 2
)

//---------------------
// Node Record
//---------------------

type node[K comparable, V any] struct {
	key      K
	value    V
	hash     uint64
	parent   x_slot.ID
	children []x_slot.ID
	next     x_slot.ID
}

//---------------------
// Tree
//---------------------

// Tree is a hash-tree keyed by K holding values of type V.
type Tree[K comparable, V any] struct {
	nodes *x_slot.Store[node[K, V]]
	table []x_slot.ID
	root  x_slot.ID
	hash  func(K) uint64
	log   zerolog.Logger
}

// Option configures a Tree.
type Option[K comparable, V any] func(*Tree[K, V])

// WithHasher replaces the default maphash based hasher.
func WithHasher[K comparable, V any](h func(K) uint64) Option[K, V] {
	return func(t *Tree[K, V]) {
		if h != nil {
			t.hash = h
		}
	}
}

// WithLogger attaches a logger for rehash and cascade events.
func WithLogger[K comparable, V any](l zerolog.Logger) Option[K, V] {
	return func(t *Tree[K, V]) { t.log = l }
}

// New creates an empty tree.
func New[K comparable, V any](opts ...Option[K, V]) *Tree[K, V] {
	seed := maphash.MakeSeed()
	t := &Tree[K, V]{
		nodes: x_slot.New[node[K, V]](0),
		table: newTable(MinTableSize),
		hash:  func(k K) uint64 { return maphash.Comparable(seed, k) },
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

//---------------------
// Size
//---------------------

// Len returns the number of entries.
func (t *Tree[K, V]) Len() int { return t.nodes.Len() }

// TableSize returns the number of hash buckets.
func (t *Tree[K, V]) TableSize() int { return len(t.table) }

// LoadFactor returns Len()/TableSize().
func (t *Tree[K, V]) LoadFactor() float64 {
	return float64(t.Len()) / float64(t.TableSize())
}

//---------------------
// Lookup
//---------------------

// Contains reports whether key is stored.
func (t *Tree[K, V]) Contains(key K) bool {
	return !t.resolve(key).IsNil()
}

// Get returns the value stored under key.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	id := t.resolve(key)
	if id.IsNil() {
		var zero V
		return zero, false
	}
	return t.nodes.At(id).value, true
}

// At is Get returning ErrNotFound for a missing key.
func (t *Tree[K, V]) At(key K) (V, error) {
	v, ok := t.Get(key)
	if !ok {
		return v, keyErr("at", key, ErrNotFound)
	}
	return v, nil
}

// Set replaces the value of an existing key.
func (t *Tree[K, V]) Set(key K, value V) error {
	id := t.resolve(key)
	if id.IsNil() {
		return keyErr("set", key, ErrNotFound)
	}
	t.nodes.At(id).value = value
	return nil
}

// GetOrInsert returns a pointer to the value under key, inserting the zero
// value as a parentless entry first if the key is missing. The pointer is only
// valid until the next call that mutates the tree.
func (t *Tree[K, V]) GetOrInsert(key K) *V {
	id := t.resolve(key)
	if id.IsNil() {
		var zero V
		id = t.attachToRoot(t.add(key, zero))
	}
	return &t.nodes.At(id).value
}

//---------------------
// Navigation
//---------------------

// Root returns the root key.
func (t *Tree[K, V]) Root() (K, bool) {
	if t.root.IsNil() {
		var zero K
		return zero, false
	}
	return t.nodes.At(t.root).key, true
}

// Parent returns the parent key of key. ok is false for the root.
func (t *Tree[K, V]) Parent(key K) (parent K, ok bool, err error) {
	id := t.resolve(key)
	if id.IsNil() {
		return parent, false, keyErr("parent", key, ErrNotFound)
	}
	p := t.nodes.At(id).parent
	if p.IsNil() {
		return parent, false, nil
	}
	return t.nodes.At(p).key, true, nil
}

// Children returns the child keys of key in order.
func (t *Tree[K, V]) Children(key K) ([]K, error) {
	id := t.resolve(key)
	if id.IsNil() {
		return nil, keyErr("children", key, ErrNotFound)
	}
	ch := t.nodes.At(id).children
	out := make([]K, len(ch))
	for i, c := range ch {
		out[i] = t.nodes.At(c).key
	}
	return out, nil
}

// Depth returns the number of edges between key and the root.
func (t *Tree[K, V]) Depth(key K) (int, error) {
	id := t.resolve(key)
	if id.IsNil() {
		return 0, keyErr("depth", key, ErrNotFound)
	}
	d := 0
	for p := t.nodes.At(id).parent; !p.IsNil(); p = t.nodes.At(p).parent {
		d++
	}
	return d, nil
}
