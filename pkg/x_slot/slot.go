// file:htree/pkg/x_slot/slot.go

// Package x_slot provides a dense slot store with stable, generation-checked
// identifiers. Erasing a record never renumbers the others, and an identifier
// that outlived its record is rejected instead of aliasing a newer one.
package x_slot

import (
	"errors"
	"iter"
	"math"
	"slices"
)

var ErrStale = errors.New("stale slot id")

//---------------------
// Identifier
//---------------------

// ID addresses one record. The zero value is Nil.
type ID struct {
	index uint32
	gen   uint32
}

// Nil is the empty identifier.
var Nil ID

func (id ID) IsNil() bool { return id.gen == 0 }

// Index returns the raw slot position.
func (id ID) Index() int { return int(id.index) }

//---------------------
// Store
//---------------------

type entry[T any] struct {
	val  T
	gen  uint32
	live bool
}

// Store holds records of type T addressed by ID.
type Store[T any] struct {
	entries []entry[T]
	free    []uint32
	size    int
	// highest generation handed out for an index that no longer exists
	floor uint32
}

// New creates an empty store with room for capacity records.
func New[T any](capacity int) *Store[T] {
	return &Store[T]{entries: make([]entry[T], 0, capacity)}
}

// Len returns the number of live records.
func (s *Store[T]) Len() int { return s.size }

// Cap returns the number of allocated slots, live or free.
func (s *Store[T]) Cap() int { return len(s.entries) }

// Emplace stores v and returns its identifier.
func (s *Store[T]) Emplace(v T) ID {
	s.size++
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		e := &s.entries[idx]
		e.val, e.live = v, true
		return ID{index: idx, gen: e.gen}
	}
	idx := uint32(len(s.entries))
	s.entries = append(s.entries, entry[T]{val: v, gen: s.floor + 1, live: true})
	return ID{index: idx, gen: s.floor + 1}
}

// Erase removes the record behind id. It reports false for a stale or Nil id.
func (s *Store[T]) Erase(id ID) bool {
	if !s.Valid(id) {
		return false
	}
	e := &s.entries[id.index]
	var zero T
	e.val, e.live = zero, false
	s.size--
	if e.gen == math.MaxUint32 {
		// generation space exhausted, the index is retired for good
		return true
	}
	e.gen++
	s.free = append(s.free, id.index)
	return true
}

// Valid reports whether id refers to a live record.
func (s *Store[T]) Valid(id ID) bool {
	if id.IsNil() || int(id.index) >= len(s.entries) {
		return false
	}
	e := &s.entries[id.index]
	return e.live && e.gen == id.gen
}

// Get returns a pointer to the record behind id. The pointer is valid until
// the next Emplace or ShrinkToFit.
func (s *Store[T]) Get(id ID) (*T, bool) {
	if !s.Valid(id) {
		return nil, false
	}
	return &s.entries[id.index].val, true
}

// At is Get for callers that hold only live ids. It panics on a stale id.
func (s *Store[T]) At(id ID) *T {
	if !s.Valid(id) {
		panic(ErrStale)
	}
	return &s.entries[id.index].val
}

// Clear removes every record. Identifiers issued before Clear become stale.
// Retired indexes survive as dead slots so they are never handed out again.
func (s *Store[T]) Clear() {
	keep := 0
	for i := range s.entries {
		if g := s.entries[i].gen; g == math.MaxUint32 {
			keep = i + 1
		} else {
			s.floor = max(s.floor, g)
		}
	}
	clear(s.entries[keep:])
	s.entries = s.entries[:keep]
	s.free = s.free[:0]
	for i := range s.entries {
		e := &s.entries[i]
		var zero T
		e.val, e.live = zero, false
		if e.gen != math.MaxUint32 {
			e.gen = s.floor + 1
			s.free = append(s.free, uint32(i))
		}
	}
	s.size = 0
}

// ShrinkToFit drops trailing free slots and releases excess capacity.
func (s *Store[T]) ShrinkToFit() {
	end := len(s.entries)
	for end > 0 && !s.entries[end-1].live && s.entries[end-1].gen != math.MaxUint32 {
		s.floor = max(s.floor, s.entries[end-1].gen)
		end--
	}
	if end < len(s.entries) {
		clear(s.entries[end:])
		s.entries = s.entries[:end]
		s.free = slices.DeleteFunc(s.free, func(i uint32) bool { return int(i) >= end })
	}
	s.entries = slices.Clip(s.entries)
	s.free = slices.Clip(s.free)
}

// All yields every live record with its identifier in slot order.
func (s *Store[T]) All() iter.Seq2[ID, *T] {
	return func(yield func(ID, *T) bool) {
		for i := range s.entries {
			e := &s.entries[i]
			if !e.live {
				continue
			}
			if !yield(ID{index: uint32(i), gen: e.gen}, &e.val) {
				return
			}
		}
	}
}
