// file:htree/pkg/x_htree/tree.go
package x_htree

import (
	"slices"

	"github.com/rskv-p/htree/pkg/x_slot"
)

//---------------------
// Insert
//---------------------

// Insert adds key without an explicit parent. The first entry of an empty
// tree becomes the root, every later one is appended as the last child of
// the root.
func (t *Tree[K, V]) Insert(key K, value V) error {
	if t.Contains(key) {
		return keyErr("insert", key, ErrKeyExists)
	}
	t.attachToRoot(t.add(key, value))
	return nil
}

// InsertUnder adds key as the last child of parent.
func (t *Tree[K, V]) InsertUnder(key K, value V, parent K) error {
	if t.Contains(key) {
		return keyErr("insert", key, ErrKeyExists)
	}
	pid := t.resolve(parent)
	if pid.IsNil() {
		return keyErr("insert", parent, ErrParentNotFound)
	}
	// rehash inside add keeps slot ids, pid stays valid
	t.appendChild(pid, t.add(key, value))
	return nil
}

func (t *Tree[K, V]) attachToRoot(id x_slot.ID) x_slot.ID {
	if t.root.IsNil() {
		t.root = id
		return id
	}
	t.appendChild(t.root, id)
	return id
}

func (t *Tree[K, V]) appendChild(parent, child x_slot.ID) {
	p := t.nodes.At(parent)
	p.children = append(p.children, child)
	t.nodes.At(child).parent = parent
}

//---------------------
// Erase
//---------------------

// Erase removes key together with its whole subtree and returns the number of
// removed entries. Erasing the root clears the tree.
func (t *Tree[K, V]) Erase(key K) (int, error) {
	id := t.resolve(key)
	if id.IsNil() {
		return 0, keyErr("erase", key, ErrNotFound)
	}
	if id == t.root {
		n := t.Len()
		t.Clear()
		t.log.Debug().Int("removed", n).Msg("root erased, tree cleared")
		return n, nil
	}

	t.detach(id)

	removed := 0
	queue := []x_slot.ID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		queue = append(queue, t.nodes.At(cur).children...)
		t.unlink(cur)
		t.nodes.Erase(cur)
		removed++
	}
	t.log.Debug().Int("removed", removed).Int("size", t.Len()).Msg("subtree erased")

	if t.LoadFactor() < MinLoad && len(t.table) > MinTableSize {
		t.nodes.ShrinkToFit()
		size := len(t.table)
		for size > MinTableSize && float64(t.Len())/float64(size) < MinLoad {
			size /= 2
		}
		t.rehash(size)
	}
	return removed, nil
}

// Clear removes every entry and resets the bucket table.
func (t *Tree[K, V]) Clear() {
	t.nodes.Clear()
	t.nodes.ShrinkToFit()
	t.table = newTable(MinTableSize)
	t.root = x_slot.Nil
}

// detach removes id from its parent's children and clears its parent link.
func (t *Tree[K, V]) detach(id x_slot.ID) {
	n := t.nodes.At(id)
	if n.parent.IsNil() {
		return
	}
	p := t.nodes.At(n.parent)
	if i := slices.Index(p.children, id); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = x_slot.Nil
}

//---------------------
// Reparent
//---------------------

// SetParent moves key under parent as its last child.
func (t *Tree[K, V]) SetParent(key, parent K) error {
	return t.setParent(key, parent, 0, true)
}

// SetParentAt moves key under parent and places it before the child at offset
// pos, counted after key has left its old position. pos equal to the number
// of children appends.
func (t *Tree[K, V]) SetParentAt(key, parent K, pos int) error {
	return t.setParent(key, parent, pos, false)
}

func (t *Tree[K, V]) setParent(key, parent K, pos int, appendLast bool) error {
	id := t.resolve(key)
	if id.IsNil() {
		return keyErr("move", key, ErrNotFound)
	}
	pid := t.resolve(parent)
	if pid.IsNil() {
		return keyErr("move", parent, ErrParentNotFound)
	}
	if t.isAncestor(id, pid) {
		return keyErr("move", key, ErrCycle)
	}

	n := len(t.nodes.At(pid).children)
	if t.nodes.At(id).parent == pid {
		n--
	}
	if appendLast {
		pos = n
	}
	if pos < 0 || pos > n {
		return keyErr("move", key, ErrPosition)
	}

	t.detach(id)
	p := t.nodes.At(pid)
	p.children = slices.Insert(p.children, pos, id)
	t.nodes.At(id).parent = pid
	return nil
}

// isAncestor reports whether a is d or one of d's ancestors.
func (t *Tree[K, V]) isAncestor(a, d x_slot.ID) bool {
	for cur := d; !cur.IsNil(); cur = t.nodes.At(cur).parent {
		if cur == a {
			return true
		}
	}
	return false
}
