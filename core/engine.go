// Package core implements the storage engine: the read-modify-write protocol
// that keeps the index file and the values directory consistent.
//
// Every mutating operation loads the full index fresh, computes a new one
// (usually after writing a new value file), and atomically rewrites the
// index file. Nothing is cached between operations and nothing is locked:
// the engine assumes a single writer, and two concurrent load→mutate→persist
// cycles race with the later persist winning in full.
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mkarman/go-stash/internal/codec"
	"github.com/mkarman/go-stash/internal/index"
	"github.com/mkarman/go-stash/internal/utils"
	"github.com/mkarman/go-stash/internal/valuefile"
	"github.com/mkarman/go-stash/value"
)

// Resolver supplies the on-disk locations of the two store artifacts.
type Resolver interface {
	IndexPath() string
	ValuesDirPath() string
}

// Engine is the key-value engine. It holds no state beyond the resolved
// paths; the index is reloaded at the start of every operation.
type Engine struct {
	paths Resolver
}

// validateKey rejects keys that would escape the values directory or break
// the {key}_{timestamp}.{ext} naming grammar. Every mutation funnels through
// Set, so this is the single enforcement point.
func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// New returns an engine over the given paths, creating the values directory
// (recursively) on first use.
func New(paths Resolver) (*Engine, error) {
	if !utils.PathExists(paths.ValuesDirPath()) {
		fmt.Println("Values directory does not exist! Creating one...")
		if err := os.MkdirAll(paths.ValuesDirPath(), 0755); err != nil {
			return nil, fmt.Errorf("creating values directory: %w", err)
		}
	}

	return &Engine{paths: paths}, nil
}

// Set writes v to a new value file and repoints key at it. The key moves to
// the end of the index's iteration order, so the order always reflects
// recency. Previous value files for the key are left on disk untouched.
//
// formatOverride forces a codec tag; when empty the format follows from the
// value's shape. The stored value is returned as-is, without a disk
// round-trip.
func (e *Engine) Set(key string, v value.Value, formatOverride string) (value.Value, error) {
	if err := validateKey(key); err != nil {
		return value.Value{}, err
	}

	format, err := codec.FormatFor(v, formatOverride)
	if err != nil {
		return value.Value{}, err
	}

	data, err := codec.Encode(v, format)
	if err != nil {
		return value.Value{}, fmt.Errorf("encoding value for key %q: %w", key, err)
	}

	name := valuefile.NewName(key, format.Ext())
	path := filepath.Join(e.paths.ValuesDirPath(), name)
	if err := utils.WriteFileSync(path, data, ValueFilePerm); err != nil {
		return value.Value{}, fmt.Errorf("writing value file %s: %w", name, err)
	}

	idx, err := index.Load(e.paths.IndexPath())
	if err != nil {
		return value.Value{}, err
	}
	idx.Put(key, name)
	if err := idx.Persist(e.paths.IndexPath()); err != nil {
		return value.Value{}, err
	}

	return v, nil
}

// Get returns the current value for key. A missing key is not an error:
// ok is false and the zero Value is returned.
func (e *Engine) Get(key string) (value.Value, bool, error) {
	idx, err := index.Load(e.paths.IndexPath())
	if err != nil {
		return value.Value{}, false, err
	}

	name, ok := idx.Get(key)
	if !ok {
		return value.Value{}, false, nil
	}

	return e.read(name)
}

// read opens and decodes the named value file.
func (e *Engine) read(name string) (value.Value, bool, error) {
	format, err := codec.FormatForExt(filepath.Ext(name))
	if err != nil {
		return value.Value{}, false, fmt.Errorf("value file %s: %w", name, err)
	}

	data, err := os.ReadFile(filepath.Join(e.paths.ValuesDirPath(), name))
	if err != nil {
		return value.Value{}, false, fmt.Errorf("reading value file %s: %w", name, err)
	}

	v, err := codec.Decode(data, format)
	if err != nil {
		return value.Value{}, false, fmt.Errorf("value file %s: %w", name, err)
	}
	return v, true, nil
}

// Del removes key from the index. Deleting an absent key is a silent no-op.
// Value files are never removed; the key's history stays on disk.
func (e *Engine) Del(key string) error {
	idx, err := index.Load(e.paths.IndexPath())
	if err != nil {
		return err
	}

	if !idx.Has(key) {
		return nil
	}

	idx.Delete(key)
	return idx.Persist(e.paths.IndexPath())
}

// Entry is one row of List output.
type Entry struct {
	Key      string
	Filename string
	Modified time.Time
}

// List returns every key in index order (least recently written first),
// with the value file it points at and that file's modification time.
func (e *Engine) List() ([]Entry, error) {
	idx, err := index.Load(e.paths.IndexPath())
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, idx.Len())
	for _, ie := range idx.Entries() {
		info, err := os.Stat(filepath.Join(e.paths.ValuesDirPath(), ie.Filename))
		if err != nil {
			return nil, fmt.Errorf("stat value file %s: %w", ie.Filename, err)
		}
		entries = append(entries, Entry{
			Key:      ie.Key,
			Filename: ie.Filename,
			Modified: info.ModTime(),
		})
	}
	return entries, nil
}

// Reset replaces the index with an empty mapping. Every value file stays on
// disk, so history remains recoverable by scanning the values directory.
// Front-ends are expected to confirm with the user before calling this.
func (e *Engine) Reset() error {
	return index.New().Persist(e.paths.IndexPath())
}

// Push appends v to the list stored at key, creating a single-element list
// if the key is absent. If the stored value is not a list the push aborts
// with a *TypeMismatchError and the store is unchanged.
//
// With unique set, elements equal to v are removed before appending, so a
// re-pushed value appears exactly once, at the end. The resulting list is
// written through the same path as Set and returned.
func (e *Engine) Push(key string, v value.Value, unique bool) (value.Value, error) {
	idx, err := index.Load(e.paths.IndexPath())
	if err != nil {
		return value.Value{}, err
	}

	if !idx.Has(key) {
		return e.Set(key, value.List(v), "")
	}

	current, _, err := e.Get(key)
	if err != nil {
		return value.Value{}, err
	}

	elems, isList := current.Elems()
	if !isList {
		return value.Value{}, &TypeMismatchError{Key: key, Current: current}
	}

	var next []value.Value
	if unique {
		for _, el := range elems {
			if !el.Equal(v) {
				next = append(next, el)
			}
		}
	} else {
		next = append(next, elems...)
	}
	next = append(next, v)

	return e.Set(key, value.List(next...), "")
}

// Pop removes and returns the last element of the list stored at key. An
// absent key or an empty list yields ok=false with no mutation; otherwise
// the shortened list (possibly now empty) is written back through the Set
// path, creating a new value file.
func (e *Engine) Pop(key string) (value.Value, bool, error) {
	current, ok, err := e.Get(key)
	if err != nil {
		return value.Value{}, false, err
	}
	if !ok {
		return value.Value{}, false, nil
	}

	elems, isList := current.Elems()
	if !isList {
		return value.Value{}, false, &TypeMismatchError{Key: key, Current: current}
	}
	if len(elems) == 0 {
		return value.Value{}, false, nil
	}

	last := elems[len(elems)-1]
	rest := value.List(elems[:len(elems)-1]...)
	if _, err := e.Set(key, rest, ""); err != nil {
		return value.Value{}, false, err
	}

	return last, true, nil
}

// History returns every version ever written for key, oldest first, by
// scanning the values directory. It works for deleted keys too, since value
// files outlive their index entries.
func (e *Engine) History(key string) ([]valuefile.Version, error) {
	return valuefile.History(e.paths.ValuesDirPath(), key)
}
