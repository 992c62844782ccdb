// Package index implements the store's metadata root: a single file mapping
// each key to the name of its latest value file.
//
// Iteration order is the order of last insertion, so the index doubles as a
// most-recently-written ordering. The file holds one JSON object; key order
// in the file is the iteration order, which is why (un)marshalling goes
// through the token stream instead of a Go map.
package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Entry is one key→filename pair in iteration order.
type Entry struct {
	Key      string
	Filename string
}

// Index is the in-memory form of the index file. It is not safe for
// concurrent use and is never shared: every engine operation loads a fresh
// Index, mutates it, and persists it. Two interleaved load→mutate→persist
// cycles race, and the later persist wins in full.
type Index struct {
	order []string
	files map[string]string
}

// New returns an empty Index.
func New() *Index {
	return &Index{files: make(map[string]string)}
}

// Load reads the index file at path. A missing file yields an empty Index;
// the file itself is created by the first Persist.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading index %s: %w", path, err)
	}

	idx := New()
	if err := idx.unmarshal(data); err != nil {
		return nil, fmt.Errorf("parsing index %s: %w", path, err)
	}
	return idx, nil
}

// Persist atomically replaces the index file at path: the new contents are
// written to a temporary file in the same directory, synced, and renamed
// over the target. An interrupted persist leaves the previous file intact.
func (idx *Index) Persist(path string) error {
	data, err := idx.marshal()
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".index-*")
	if err != nil {
		return fmt.Errorf("creating temporary index file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing index: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("syncing index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing index: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing index %s: %w", path, err)
	}
	return nil
}

// Get returns the filename for key.
func (idx *Index) Get(key string) (string, bool) {
	name, ok := idx.files[key]
	return name, ok
}

// Has reports whether key is present.
func (idx *Index) Has(key string) bool {
	_, ok := idx.files[key]
	return ok
}

// Put maps key to filename. An existing key is removed first, so Put always
// moves the key to the end of the iteration order.
func (idx *Index) Put(key, filename string) {
	idx.Delete(key)
	idx.order = append(idx.order, key)
	idx.files[key] = filename
}

// Delete removes key. Deleting an absent key is a no-op.
func (idx *Index) Delete(key string) {
	if _, ok := idx.files[key]; !ok {
		return
	}
	delete(idx.files, key)
	for i, k := range idx.order {
		if k == key {
			idx.order = append(idx.order[:i], idx.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (idx *Index) Len() int { return len(idx.order) }

// Keys returns the keys in iteration order (oldest insertion first).
func (idx *Index) Keys() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Entries returns the key→filename pairs in iteration order.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, 0, len(idx.order))
	for _, k := range idx.order {
		out = append(out, Entry{Key: k, Filename: idx.files[k]})
	}
	return out
}

// marshal writes the index as a single JSON object with keys in iteration
// order. A fresh index marshals to "{}".
func (idx *Index) marshal() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')

	for i, k := range idx.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
		buf.WriteString("  ")

		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteString(": ")

		vb, err := json.Marshal(idx.files[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}

	if len(idx.order) > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// unmarshal parses a JSON object preserving the key order found in the file.
func (idx *Index) unmarshal(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("index must be a JSON object, found %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("index key must be a string, found %v", keyTok)
		}

		var filename string
		if err := dec.Decode(&filename); err != nil {
			return fmt.Errorf("index entry %q must map to a filename string: %w", key, err)
		}

		idx.Put(key, filename)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("trailing data after index object")
	}
	return nil
}
