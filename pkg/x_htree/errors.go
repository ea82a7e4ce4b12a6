// file:htree/pkg/x_htree/errors.go
package x_htree

import (
	"errors"
	"fmt"
)

//---------------------
// Errors
//---------------------

var (
	ErrNotFound       = errors.New("key not found")
	ErrParentNotFound = errors.New("parent not found")
	ErrKeyExists      = errors.New("key already exists")
	ErrCycle          = errors.New("new parent is the node itself or one of its descendants")
	ErrPosition       = errors.New("child position out of range")
)

// KeyError carries the key an operation failed on.
type KeyError[K comparable] struct {
	Op  string
	Key K
	Err error
}

func (e *KeyError[K]) Error() string {
	return fmt.Sprintf("htree %s %v: %v", e.Op, e.Key, e.Err)
}

func (e *KeyError[K]) Unwrap() error { return e.Err }

func keyErr[K comparable](op string, key K, err error) error {
	return &KeyError[K]{Op: op, Key: key, Err: err}
}
