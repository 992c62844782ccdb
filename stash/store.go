package stash

import (
	"time"

	"github.com/mkarman/go-stash/core"
	"github.com/mkarman/go-stash/value"
)

// Version is one historical write of a key.
type Version struct {
	Filename string
	Written  time.Time
	Ext      string
}

// Store is the public handle over the storage engine.
type Store struct {
	engine *core.Engine
}

// Open resolves the store's on-disk layout and returns a handle, creating
// the store directories on first use.
func Open(opts ...Option) (*Store, error) {
	oc := &openConfig{}
	for _, opt := range opts {
		opt(oc)
	}

	cfg, err := oc.resolve()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	engine, err := core.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{engine: engine}, nil
}

// Set stores v under key. An empty formatOverride lets the value's shape
// pick the on-disk format.
func (s *Store) Set(key string, v value.Value, formatOverride string) (value.Value, error) {
	return s.engine.Set(key, v, formatOverride)
}

// Get returns the current value for key; ok is false if the key is absent.
func (s *Store) Get(key string) (value.Value, bool, error) {
	return s.engine.Get(key)
}

// Del removes key from the index. Absent keys are a no-op.
func (s *Store) Del(key string) error {
	return s.engine.Del(key)
}

// Push appends v to the list stored at key. See core.Engine.Push.
func (s *Store) Push(key string, v value.Value, unique bool) (value.Value, error) {
	return s.engine.Push(key, v, unique)
}

// Pop removes and returns the last element of the list stored at key.
func (s *Store) Pop(key string) (value.Value, bool, error) {
	return s.engine.Pop(key)
}

// List returns every key in recency order (most recent last).
func (s *Store) List() ([]core.Entry, error) {
	return s.engine.List()
}

// History returns every version ever written for key, oldest first.
func (s *Store) History(key string) ([]Version, error) {
	versions, err := s.engine.History(key)
	if err != nil {
		return nil, err
	}

	out := make([]Version, len(versions))
	for i, v := range versions {
		out[i] = Version(v)
	}
	return out, nil
}

// Reset clears the index. Value files stay on disk. Callers owning an
// interactive surface should confirm with the user first.
func (s *Store) Reset() error {
	return s.engine.Reset()
}
