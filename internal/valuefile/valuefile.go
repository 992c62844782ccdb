// Package valuefile generates and parses the names of value files.
//
// A value file is immutable and holds exactly one serialized value. Its name
// is {key}_{timestamp}.{ext}: the owning key, a fixed-width timestamp with
// microsecond precision, and the codec tag as the extension. Because the
// timestamp is fixed-width and issued from a monotonically non-decreasing
// clock, a key's value files sort chronologically by name, which turns the
// values directory into a browsable version log.
package valuefile

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// timestampLayout renders year through second; the microsecond component is
// appended separately to keep it zero-padded and fixed-width.
const timestampLayout = "20060102150405"

const timestampLen = len(timestampLayout) + 6

var (
	clockMu sync.Mutex
	lastUs  int64 // last issued instant, microseconds since the unix epoch
)

// next returns the current time at microsecond resolution, bumped forward by
// one microsecond whenever the wall clock has not advanced since the last
// call. Names issued by one process therefore never collide and never sort
// backwards, even under rapid successive writes to the same key.
func next() time.Time {
	clockMu.Lock()
	defer clockMu.Unlock()

	us := time.Now().UnixMicro()
	if us <= lastUs {
		us = lastUs + 1
	}
	lastUs = us
	return time.UnixMicro(us)
}

// Stamp renders t in the fixed-width, lexicographically sortable form used
// inside value-file names. Rendering is always in UTC: local wall-clock time
// repeats an hour on a DST fall-back, which would let a later write sort
// before an earlier one.
func Stamp(t time.Time) string {
	t = t.UTC()
	return t.Format(timestampLayout) + fmt.Sprintf("%06d", t.Nanosecond()/1000)
}

// NewName produces a fresh value-file name for key with the given codec
// extension (without the leading dot).
func NewName(key, ext string) string {
	return fmt.Sprintf("%s_%s.%s", key, Stamp(next()), ext)
}

// Parse splits a value-file name into its owning key, timestamp, and
// extension. The timestamp is the segment after the last underscore, so keys
// may themselves contain underscores.
func Parse(name string) (key string, ts time.Time, ext string, err error) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return "", time.Time{}, "", fmt.Errorf("value file %q has no extension", name)
	}
	base, ext := name[:dot], name[dot+1:]

	sep := strings.LastIndex(base, "_")
	if sep < 0 {
		return "", time.Time{}, "", fmt.Errorf("value file %q has no timestamp", name)
	}
	key, stamp := base[:sep], base[sep+1:]

	if len(stamp) != timestampLen {
		return "", time.Time{}, "", fmt.Errorf("value file %q has a malformed timestamp %q", name, stamp)
	}
	sec, err := time.ParseInLocation(timestampLayout, stamp[:len(timestampLayout)], time.UTC)
	if err != nil {
		return "", time.Time{}, "", fmt.Errorf("value file %q has a malformed timestamp: %w", name, err)
	}
	var micros int
	if _, err := fmt.Sscanf(stamp[len(timestampLayout):], "%06d", &micros); err != nil {
		return "", time.Time{}, "", fmt.Errorf("value file %q has a malformed timestamp: %w", name, err)
	}

	return key, sec.Add(time.Duration(micros) * time.Microsecond), ext, nil
}

// Version is one historical write of a key.
type Version struct {
	Filename string
	Written  time.Time
	Ext      string
}

// History scans the values directory for every version ever written for
// key, oldest first. Superseded files are never deleted, so this is the full
// write history regardless of what the index currently points at.
func History(dir, key string) ([]Version, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning values directory %s: %w", dir, err)
	}

	var versions []Version
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		k, ts, ext, err := Parse(entry.Name())
		if err != nil || k != key {
			continue
		}
		versions = append(versions, Version{
			Filename: entry.Name(),
			Written:  ts,
			Ext:      ext,
		})
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Filename < versions[j].Filename
	})
	return versions, nil
}
