// file:htree/pkg/x_htree/index.go
package x_htree

import (
	"github.com/rskv-p/htree/pkg/x_slot"
)

//---------------------
// Hash Index
//---------------------

func newTable(size int) []x_slot.ID {
	// x_slot.Nil is the zero ID, so a fresh slice is all empty buckets
	return make([]x_slot.ID, size)
}

func (t *Tree[K, V]) bucket(h uint64) int {
	return int(h % uint64(len(t.table)))
}

// resolve returns the slot holding key, or x_slot.Nil.
func (t *Tree[K, V]) resolve(key K) x_slot.ID {
	h := t.hash(key)
	for id := t.table[t.bucket(h)]; !id.IsNil(); {
		n := t.nodes.At(id)
		if n.hash == h && n.key == key {
			return id
		}
		id = n.next
	}
	return x_slot.Nil
}

// add stores a detached record and links it into the index. The table grows
// first when the load factor before this insert exceeds MaxLoad.
func (t *Tree[K, V]) add(key K, value V) x_slot.ID {
	if t.LoadFactor() > MaxLoad {
		t.rehash(len(t.table) * 2)
	}
	h := t.hash(key)
	id := t.nodes.Emplace(node[K, V]{key: key, value: value, hash: h})
	t.link(t.bucket(h), id)
	return id
}

// link appends id at the tail of the chain in bucket b.
func (t *Tree[K, V]) link(b int, id x_slot.ID) {
	head := t.table[b]
	if head.IsNil() {
		t.table[b] = id
		return
	}
	n := t.nodes.At(head)
	for !n.next.IsNil() {
		n = t.nodes.At(n.next)
	}
	n.next = id
}

// unlink removes id from its hash chain.
func (t *Tree[K, V]) unlink(id x_slot.ID) {
	target := t.nodes.At(id)
	b := t.bucket(target.hash)
	if t.table[b] == id {
		t.table[b] = target.next
		target.next = x_slot.Nil
		return
	}
	for cur := t.table[b]; !cur.IsNil(); {
		n := t.nodes.At(cur)
		if n.next == id {
			n.next = target.next
			target.next = x_slot.Nil
			return
		}
		cur = n.next
	}
}

// rehash rebuilds the bucket table with size buckets from the cached hashes.
func (t *Tree[K, V]) rehash(size int) {
	size = max(size, MinTableSize)
	from := len(t.table)
	for _, n := range t.nodes.All() {
		n.next = x_slot.Nil
	}
	t.table = newTable(size)
	for id, n := range t.nodes.All() {
		t.link(t.bucket(n.hash), id)
	}
	t.log.Debug().
		Int("from", from).
		Int("to", size).
		Int("size", t.Len()).
		Msg("rehash")
}
