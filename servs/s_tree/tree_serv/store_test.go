package tree_serv_test

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/htree/pkg/x_htree"
	"github.com/rskv-p/htree/pkg/x_log"
	"github.com/rskv-p/htree/servs/s_tree/tree_serv"
)

var ctx = context.Background()

func TestStore_InsertGetMoveErase(t *testing.T) {
	s := tree_serv.New("root", zerolog.Nop())
	require.Equal(t, 1, s.Len())

	k, err := s.Insert(ctx, "a", "A", "")
	require.NoError(t, err)
	require.Equal(t, "a", k)
	_, err = s.Insert(ctx, "b", "B", "a")
	require.NoError(t, err)

	n, err := s.Get("b")
	require.NoError(t, err)
	require.Equal(t, tree_serv.Node{Key: "b", Value: "B", Parent: "a", Children: []string{}, Depth: 2}, n)

	require.NoError(t, s.Move(ctx, "b", "root", 0))
	n, err = s.Get("root")
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, n.Children)

	require.NoError(t, s.Set(ctx, "b", "BB"))
	removed, err := s.Erase(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	list := s.List()
	require.Len(t, list, 2)
	require.Equal(t, "root", list[0].Key)
	require.Equal(t, "BB", list[1].Value)
}

func TestStore_GeneratedKey(t *testing.T) {
	s := tree_serv.New("root", zerolog.Nop())
	k1, err := s.Insert(ctx, "", "x", "")
	require.NoError(t, err)
	k2, err := s.Insert(ctx, "", "y", "")
	require.NoError(t, err)
	require.NotEmpty(t, k1)
	require.NotEqual(t, k1, k2)
}

func TestStore_Errors(t *testing.T) {
	s := tree_serv.New("root", zerolog.Nop())
	_, err := s.Insert(ctx, "a", "", "nope")
	require.ErrorIs(t, err, x_htree.ErrParentNotFound)
	_, err = s.Get("nope")
	require.ErrorIs(t, err, x_htree.ErrNotFound)
	_, err = s.Subtree("nope")
	require.ErrorIs(t, err, x_htree.ErrNotFound)
	require.ErrorIs(t, s.Move(ctx, "root", "root", -1), x_htree.ErrCycle)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	s := tree_serv.New("root", zerolog.Nop())
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			parent := fmt.Sprintf("w%d", w)
			_, err := s.Insert(ctx, parent, "", "")
			require.NoError(t, err)
			for i := 0; i < 100; i++ {
				_, err := s.Insert(ctx, fmt.Sprintf("%s-%d", parent, i), "", parent)
				require.NoError(t, err)
				_ = s.List()
			}
		}(w)
	}
	wg.Wait()
	require.Equal(t, 1+8+800, s.Len())

	sub, err := s.Subtree("w3")
	require.NoError(t, err)
	require.Len(t, sub, 101)
}

func TestStore_ChangeFeed(t *testing.T) {
	s := tree_serv.New("root", zerolog.Nop())
	var events []tree_serv.Event
	cancel := s.Subscribe(func(ev tree_serv.Event) { events = append(events, ev) })

	_, err := s.Insert(ctx, "a", "A", "")
	require.NoError(t, err)
	_, err = s.Insert(ctx, "b", "B", "a")
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "b", "BB"))
	require.NoError(t, s.Move(ctx, "b", "root", 0))
	_, err = s.Erase(ctx, "a")
	require.NoError(t, err)
	_, err = s.Erase(ctx, "nope")
	require.Error(t, err)

	require.Equal(t, []tree_serv.Event{
		{Op: "insert", Key: "a", Value: "A", Parent: "root"},
		{Op: "insert", Key: "b", Value: "B", Parent: "a"},
		{Op: "set", Key: "b", Value: "BB"},
		{Op: "move", Key: "b", Parent: "root", Pos: 0},
		{Op: "erase", Key: "a", Removed: 1},
	}, events, "failed mutations emit nothing")

	cancel()
	_, err = s.Insert(ctx, "c", "", "")
	require.NoError(t, err)
	require.Len(t, events, 5)
}

func TestStore_LogsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).With().Str("subject", "alice").Logger()
	lctx := x_log.WithLogger(context.Background(), &l)

	s := tree_serv.New("root", zerolog.Nop())
	_, err := s.Insert(lctx, "a", "", "")
	require.NoError(t, err)
	require.NoError(t, s.Move(lctx, "a", "root", -5))

	require.Contains(t, buf.String(), `"subject":"alice"`)
	require.Contains(t, buf.String(), `"message":"inserted"`)
	require.Contains(t, buf.String(), `"pos":-1`)
}
