// file:htree/pkg/x_slot/slot_test.go
package x_slot_test

import (
	"testing"

	"github.com/rskv-p/htree/pkg/x_slot"

	"github.com/stretchr/testify/require"
)

//---------------------
// Emplace / Get
//---------------------

func TestStore_EmplaceGet(t *testing.T) {
	s := x_slot.New[string](0)
	a := s.Emplace("a")
	b := s.Emplace("b")

	require.False(t, a.IsNil())
	require.NotEqual(t, a, b)
	require.Equal(t, 2, s.Len())

	v, ok := s.Get(a)
	require.True(t, ok)
	require.Equal(t, "a", *v)

	*s.At(b) = "bb"
	require.Equal(t, "bb", *s.At(b))
}

func TestStore_NilIsNeverValid(t *testing.T) {
	s := x_slot.New[int](4)
	s.Emplace(1)
	require.True(t, x_slot.Nil.IsNil())
	require.False(t, s.Valid(x_slot.Nil))
	_, ok := s.Get(x_slot.Nil)
	require.False(t, ok)
}

//---------------------
// Erase keeps survivors stable
//---------------------

func TestStore_EraseKeepsOtherIDs(t *testing.T) {
	s := x_slot.New[int](0)
	ids := make([]x_slot.ID, 10)
	for i := range ids {
		ids[i] = s.Emplace(i)
	}

	require.True(t, s.Erase(ids[3]))
	require.True(t, s.Erase(ids[7]))
	require.False(t, s.Erase(ids[7]), "double erase")
	require.Equal(t, 8, s.Len())

	for i, id := range ids {
		if i == 3 || i == 7 {
			require.False(t, s.Valid(id))
			continue
		}
		require.Equal(t, i, *s.At(id))
	}
}

func TestStore_StaleIDAfterReuse(t *testing.T) {
	s := x_slot.New[string](0)
	old := s.Emplace("old")
	require.True(t, s.Erase(old))

	reused := s.Emplace("new")
	require.Equal(t, old.Index(), reused.Index(), "free slot should be reused")
	require.NotEqual(t, old, reused)

	_, ok := s.Get(old)
	require.False(t, ok)
	require.PanicsWithValue(t, x_slot.ErrStale, func() { s.At(old) })
	require.Equal(t, "new", *s.At(reused))
}

//---------------------
// Clear / ShrinkToFit
//---------------------

func TestStore_ClearInvalidatesIDs(t *testing.T) {
	s := x_slot.New[int](0)
	a := s.Emplace(1)
	s.Clear()
	require.Equal(t, 0, s.Len())
	require.Equal(t, 0, s.Cap())

	b := s.Emplace(2)
	require.Equal(t, a.Index(), b.Index())
	require.False(t, s.Valid(a))
	require.True(t, s.Valid(b))
}

func TestStore_ShrinkToFit(t *testing.T) {
	s := x_slot.New[int](64)
	ids := make([]x_slot.ID, 8)
	for i := range ids {
		ids[i] = s.Emplace(i)
	}
	for _, id := range ids[2:] {
		s.Erase(id)
	}
	s.Erase(ids[0])

	s.ShrinkToFit()
	require.Equal(t, 2, s.Cap(), "trailing free slots dropped, inner hole kept")
	require.Equal(t, 1, s.Len())
	require.Equal(t, 1, *s.At(ids[1]))

	// the inner hole is reused first, then new slots are appended
	c := s.Emplace(100)
	require.Equal(t, 0, c.Index())
	d := s.Emplace(200)
	require.Equal(t, 2, d.Index())
	require.False(t, s.Valid(ids[2]), "dropped index must not revive an old id")
}

//---------------------
// Iteration
//---------------------

func TestStore_AllSkipsFreeSlots(t *testing.T) {
	s := x_slot.New[int](0)
	var ids []x_slot.ID
	for i := 0; i < 5; i++ {
		ids = append(ids, s.Emplace(i*10))
	}
	s.Erase(ids[1])
	s.Erase(ids[3])

	var got []int
	for id, v := range s.All() {
		require.True(t, s.Valid(id))
		got = append(got, *v)
	}
	require.Equal(t, []int{0, 20, 40}, got)

	var first []int
	for _, v := range s.All() {
		first = append(first, *v)
		break
	}
	require.Equal(t, []int{0}, first)
}
