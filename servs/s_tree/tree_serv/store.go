package tree_serv

import (
	"context"
	"sync"

	"github.com/nats-io/nuid"
	"github.com/rs/zerolog"

	"github.com/rskv-p/htree/pkg/x_htree"
	"github.com/rskv-p/htree/pkg/x_log"
)

// Node is the wire view of one entry.
type Node struct {
	Key      string   `json:"key"`
	Value    string   `json:"value"`
	Parent   string   `json:"parent,omitempty"`
	Children []string `json:"children"`
	Depth    int      `json:"depth"`
}

// Event describes one applied mutation.
type Event struct {
	Op      string `json:"op"` // insert, set, erase, move
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Parent  string `json:"parent,omitempty"`
	Pos     int    `json:"pos"` // move only, -1 appends
	Removed int    `json:"removed,omitempty"`
}

// Store shares one hash-tree between goroutines. Mutations take the write
// lock, lookups and walks the read lock.
type Store struct {
	mu   sync.RWMutex
	tree *x_htree.Tree[string, string]

	lmu       sync.Mutex
	listeners map[uint64]func(Event)
	nextID    uint64
}

// New creates a store. A non-empty rootKey is inserted as the root. log
// receives the tree's rehash and cascade events.
func New(rootKey string, log zerolog.Logger) *Store {
	s := &Store{
		tree:      x_htree.New(x_htree.WithLogger[string, string](log)),
		listeners: make(map[uint64]func(Event)),
	}
	if rootKey != "" {
		_ = s.tree.Insert(rootKey, "")
	}
	return s
}

//---------------------
// Reads
//---------------------

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

// Get returns the wire view of key.
func (s *Store) Get(key string) (Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.node(key)
}

// List returns every entry breadth-first from the root.
func (s *Store) List() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Node, 0, s.tree.Len())
	for k := range s.tree.Keys() {
		n, _ := s.node(k)
		out = append(out, n)
	}
	return out
}

// Subtree returns key and its descendants breadth-first.
func (s *Store) Subtree(key string) ([]Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.tree.Contains(key) {
		return nil, &x_htree.KeyError[string]{Op: "subtree", Key: key, Err: x_htree.ErrNotFound}
	}
	var out []Node
	for k := range s.tree.Subtree(key) {
		n, _ := s.node(k)
		out = append(out, n)
	}
	return out, nil
}

// View runs fn under the read lock.
func (s *Store) View(fn func(t *x_htree.Tree[string, string])) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.tree)
}

func (s *Store) node(key string) (Node, error) {
	v, err := s.tree.At(key)
	if err != nil {
		return Node{}, err
	}
	parent, _, _ := s.tree.Parent(key)
	children, _ := s.tree.Children(key)
	depth, _ := s.tree.Depth(key)
	return Node{Key: key, Value: v, Parent: parent, Children: children, Depth: depth}, nil
}

//---------------------
// Change Feed
//---------------------

// Subscribe registers fn for every applied mutation and returns a func that
// removes it. fn runs under the write lock, in mutation order, and must not
// block or call back into the store.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *Store) emit(ev Event) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	for _, fn := range s.listeners {
		fn(ev)
	}
}

//---------------------
// Writes
//---------------------

// Mutations log through the logger carried by ctx (see x_log.WithLogger).

// Insert adds key under parent, or under the root when parent is empty. An
// empty key is replaced by a generated one. It returns the stored key.
func (s *Store) Insert(ctx context.Context, key, value, parent string) (string, error) {
	if key == "" {
		key = nuid.Next()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if parent == "" {
		err = s.tree.Insert(key, value)
	} else {
		err = s.tree.InsertUnder(key, value, parent)
	}
	if err != nil {
		return "", err
	}
	if parent == "" {
		parent, _, _ = s.tree.Parent(key)
	}
	x_log.From(ctx).Info().Str("key", key).Str("parent", parent).Msg("inserted")
	s.emit(Event{Op: "insert", Key: key, Value: value, Parent: parent})
	return key, nil
}

// Set replaces the value of key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tree.Set(key, value); err != nil {
		return err
	}
	x_log.From(ctx).Debug().Str("key", key).Msg("value set")
	s.emit(Event{Op: "set", Key: key, Value: value})
	return nil
}

// Erase removes key and its subtree.
func (s *Store) Erase(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.tree.Erase(key)
	if err != nil {
		return 0, err
	}
	x_log.From(ctx).Info().Str("key", key).Int("removed", n).Msg("erased")
	s.emit(Event{Op: "erase", Key: key, Removed: n})
	return n, nil
}

// Move reparents key. pos < 0 appends.
func (s *Store) Move(ctx context.Context, key, parent string, pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if pos < 0 {
		pos = -1
		err = s.tree.SetParent(key, parent)
	} else {
		err = s.tree.SetParentAt(key, parent, pos)
	}
	if err != nil {
		return err
	}
	x_log.From(ctx).Info().Str("key", key).Str("parent", parent).Int("pos", pos).Msg("moved")
	s.emit(Event{Op: "move", Key: key, Parent: parent, Pos: pos})
	return nil
}
