package core

import (
	"errors"
	"fmt"

	"github.com/mkarman/go-stash/value"
)

// ErrInvalidKey is returned for keys that cannot form a value-file name: an
// empty key, or one containing path separators that would place the file
// outside the values directory.
var ErrInvalidKey = errors.New("key must not be empty or contain path separators")

// TypeMismatchError reports a push or pop against a key whose stored value
// is not a list. The store is left unchanged when it is returned.
type TypeMismatchError struct {
	Key     string
	Current value.Value
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("value at key %q is not a list: %s", e.Key, e.Current)
}
