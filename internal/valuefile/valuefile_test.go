package valuefile

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestNewNameGrammar(t *testing.T) {
	name := NewName("editor", "json")

	key, ts, ext, err := Parse(name)
	if err != nil {
		t.Fatal(err)
	}
	if key != "editor" {
		t.Fatalf("expected key editor, got %q", key)
	}
	if ext != "json" {
		t.Fatalf("expected ext json, got %q", ext)
	}
	if time.Since(ts) > time.Minute {
		t.Fatalf("expected a recent timestamp, got %v", ts)
	}
}

func TestKeyMayContainUnderscores(t *testing.T) {
	name := NewName("my_favorite_editor", "yaml")

	key, _, ext, err := Parse(name)
	if err != nil {
		t.Fatal(err)
	}
	if key != "my_favorite_editor" {
		t.Fatalf("expected underscored key to survive, got %q", key)
	}
	if ext != "yaml" {
		t.Fatalf("expected ext yaml, got %q", ext)
	}
}

func TestRapidNamesAreUniqueAndSorted(t *testing.T) {
	const n = 2000

	names := make([]string, n)
	seen := make(map[string]bool, n)

	for i := 0; i < n; i++ {
		name := NewName("k", "msgpack")
		if seen[name] {
			t.Fatalf("duplicate name issued: %s", name)
		}
		seen[name] = true
		names[i] = name
	}

	if !sort.StringsAreSorted(names) {
		t.Fatal("expected names to sort chronologically by issue order")
	}
}

func TestStampIsFixedWidth(t *testing.T) {
	early := Stamp(time.Date(2024, 1, 2, 3, 4, 5, 6000, time.UTC))
	late := Stamp(time.Date(2024, 11, 22, 13, 14, 15, 999999000, time.UTC))

	if len(early) != len(late) {
		t.Fatalf("expected fixed width stamps, got %d and %d", len(early), len(late))
	}
	if early != "20240102030405000006" {
		t.Fatalf("unexpected stamp %q", early)
	}
}

func TestStampSortsAcrossDSTFallBack(t *testing.T) {
	nyc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// One second apart, straddling the 2025-11-02 fall-back: local wall
	// clock jumps from 01:59:59 EDT back to 01:00:00 EST.
	before := time.Date(2025, 11, 2, 5, 59, 59, 0, time.UTC).In(nyc)
	after := before.Add(time.Second)

	if Stamp(before) >= Stamp(after) {
		t.Fatalf("expected stamps to sort with time across the fall-back, got %q then %q",
			Stamp(before), Stamp(after))
	}
}

func TestParseRoundTripsInstant(t *testing.T) {
	want := time.Date(2024, 7, 8, 9, 10, 11, 123456000, time.UTC)

	name := "k_" + Stamp(want) + ".json"
	_, got, _, err := Parse(name)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseRejectsMalformedNames(t *testing.T) {
	for _, name := range []string{
		"noextension",
		"nounderscore.json",
		"key_short.json",
		"key_NOTATIMESTAMP00000.json",
	} {
		if _, _, _, err := Parse(name); err == nil {
			t.Errorf("expected error for %q", name)
		}
	}
}

func TestHistory(t *testing.T) {
	dir := t.TempDir()

	// Three versions of k, one of another key, one foreign file.
	files := []string{
		NewName("k", "json"),
		NewName("k", "yaml"),
		NewName("k", "msgpack"),
		NewName("other", "json"),
	}
	files = append(files, "README.txt")

	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	versions, err := History(dir, "k")
	if err != nil {
		t.Fatal(err)
	}

	if len(versions) != 3 {
		t.Fatalf("expected 3 versions of k, got %d", len(versions))
	}
	for i := 1; i < len(versions); i++ {
		if versions[i-1].Written.After(versions[i].Written) {
			t.Fatal("expected history ordered oldest first")
		}
	}
}

func TestHistoryIgnoresLongerKeys(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{NewName("k", "json"), NewName("k_extra", "json")} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	versions, err := History(dir, "k")
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 1 {
		t.Fatalf("expected k_extra files to be excluded, got %d versions", len(versions))
	}
}
