// Package stash provides a persistent personal key-value store backed by a
// directory of immutable, timestamp-named value files.
//
// Example:
//
//	store, err := stash.Open(stash.WithBaseDir("/tmp/stash"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_, err = store.Set("editor", value.String("vim"), "")
//	v, ok, err := store.Get("editor")
package stash
