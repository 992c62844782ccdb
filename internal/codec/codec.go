// Package codec serializes values to and from value-file bytes.
//
// Three formats are supported, identified by short tags that double as the
// value-file extension. Which format a write uses is decided by the value's
// shape (see FormatFor); reads recover the format from the file extension.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/mkarman/go-stash/value"
)

// Format names one of the supported on-disk encodings.
type Format string

const (
	// FormatMsgpack holds composite shapes: lists, records and binary blobs.
	FormatMsgpack Format = "msgpack"

	// FormatJSON holds bare string scalars. Historically the structured
	// format could not reliably round-trip bare primitives, so strings get
	// their own lightweight encoding. This is a compatibility constraint:
	// changing it changes which value files later versions can read.
	FormatJSON Format = "json"

	// FormatYAML holds the remaining scalars (numbers, booleans, dates,
	// nil), which it round-trips losslessly through a human-editable file.
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for a format tag or extension outside the
// supported set.
var ErrUnknownFormat = errors.New("unknown value format")

// Ext returns the file extension for the format, without the leading dot.
func (f Format) Ext() string { return string(f) }

// FormatFor selects the on-disk format for a value. A non-empty override is
// used verbatim (it must still name a supported format); otherwise the
// value's shape decides: composites and binary use msgpack, bare strings use
// json, every other scalar uses yaml.
func FormatFor(v value.Value, override string) (Format, error) {
	if override != "" {
		f := Format(override)
		switch f {
		case FormatMsgpack, FormatJSON, FormatYAML:
			return f, nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, override)
	}

	switch v.Shape() {
	case value.ShapeList, value.ShapeRecord, value.ShapeBinary:
		return FormatMsgpack, nil
	case value.ShapeString:
		return FormatJSON, nil
	case value.ShapeScalar:
		return FormatYAML, nil
	}

	return "", fmt.Errorf("%w: no format for shape %q", ErrUnknownFormat, v.Shape())
}

// FormatForExt maps a value-file extension (with or without the leading dot)
// back to its format.
func FormatForExt(ext string) (Format, error) {
	f := Format(strings.TrimPrefix(ext, "."))
	switch f {
	case FormatMsgpack, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("%w: extension %q", ErrUnknownFormat, ext)
}

// Encode serializes the value with the given format.
func Encode(v value.Value, f Format) ([]byte, error) {
	native := v.Interface()

	switch f {
	case FormatMsgpack:
		return msgpack.Marshal(native)
	case FormatJSON:
		return json.Marshal(native)
	case FormatYAML:
		return yaml.Marshal(native)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Decode deserializes value-file bytes written with the given format.
//
// Note that json carries no integer/float distinction: numbers decoded from
// json come back as floats. The selection policy only ever writes strings as
// json, so this matters only for explicit format overrides.
func Decode(data []byte, f Format) (value.Value, error) {
	var native any

	switch f {
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &native); err != nil {
			return value.Value{}, fmt.Errorf("decoding msgpack value: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &native); err != nil {
			return value.Value{}, fmt.Errorf("decoding json value: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &native); err != nil {
			return value.Value{}, fmt.Errorf("decoding yaml value: %w", err)
		}
	default:
		return value.Value{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	return value.FromInterface(native)
}
