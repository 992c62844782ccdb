package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarman/go-stash/value"
)

func TestFormatForPolicy(t *testing.T) {
	cases := []struct {
		name string
		v    value.Value
		want Format
	}{
		{"list", value.List(value.Int(1)), FormatMsgpack},
		{"record", value.Record(map[string]value.Value{"a": value.Int(1)}), FormatMsgpack},
		{"binary", value.Binary([]byte{1, 2}), FormatMsgpack},
		{"string", value.String("hi"), FormatJSON},
		{"int", value.Int(7), FormatYAML},
		{"float", value.Float(1.5), FormatYAML},
		{"bool", value.Bool(true), FormatYAML},
		{"nil", value.Nil(), FormatYAML},
		{"date", value.Time(time.Now()), FormatYAML},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FormatFor(tc.v, "")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatForOverride(t *testing.T) {
	got, err := FormatFor(value.Int(7), "msgpack")
	require.NoError(t, err)
	assert.Equal(t, FormatMsgpack, got)

	_, err = FormatFor(value.Int(7), "xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatForExt(t *testing.T) {
	for _, ext := range []string{"msgpack", ".msgpack", "json", ".json", "yaml", ".yaml"} {
		_, err := FormatForExt(ext)
		assert.NoError(t, err, ext)
	}

	_, err := FormatForExt(".data")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRoundTripPerFormat(t *testing.T) {
	cases := []struct {
		name string
		v    value.Value
	}{
		{"string", value.String("héllo wörld")},
		{"int", value.Int(-42)},
		{"float", value.Float(2.5)},
		{"bool", value.Bool(false)},
		{"nil", value.Nil()},
		{"date", value.Time(time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC))},
		{"list", value.List(value.String("a"), value.Int(2), value.List(value.Bool(true)))},
		{"record", value.Record(map[string]value.Value{
			"nested": value.Record(map[string]value.Value{"x": value.Float(1.25)}),
			"items":  value.List(value.Int(1), value.Int(2)),
		})},
		{"binary", value.Binary([]byte{0, 1, 2, 253, 254, 255})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			format, err := FormatFor(tc.v, "")
			require.NoError(t, err)

			data, err := Encode(tc.v, format)
			require.NoError(t, err)

			got, err := Decode(data, format)
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.v), "decoded %s, want %s", got, tc.v)
		})
	}
}

// The yaml format exists to round-trip non-string scalars through a file a
// human can open and edit.
func TestYAMLScalarFilesAreEditable(t *testing.T) {
	data, err := Encode(value.Int(42), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "42\n", string(data))

	got, err := Decode([]byte("43\n"), FormatYAML)
	require.NoError(t, err)
	assert.True(t, got.Equal(value.Int(43)))
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode([]byte("x"), Format("data"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDecodeCorruptInput(t *testing.T) {
	_, err := Decode([]byte("{not json"), FormatJSON)
	assert.Error(t, err)
}
