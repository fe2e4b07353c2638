package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestDecimalPlacesOfScale(t *testing.T) {
	cases := []struct {
		scale  uint64
		places uint32
		ok     bool
	}{
		{1, 0, true},
		{10, 1, true},
		{1000, 3, true},
		{100_000_000, 8, true},
		{0, 0, false},
		{3, 0, false},
		{20, 0, false},
		{1024, 0, false},
	}

	for _, c := range cases {
		places, ok := DecimalPlacesOfScale(c.scale)
		assert.Equal(t, c.ok, ok, "scale %d", c.scale)
		if c.ok {
			assert.Equal(t, c.places, places, "scale %d", c.scale)
		}
	}
}

func TestParseScaled(t *testing.T) {
	cases := []struct {
		in    string
		scale uint64
		want  uint64
		ok    bool
	}{
		{"30000.00", 100_000_000, 3_000_000_000_000, true},
		{"0.001", 1000, 1, true},
		{"1", 1000, 1000, true},
		{"1.", 1000, 1000, true},
		{"1.23456", 1000, 1234, true}, // excess precision truncated
		{"0", 1000, 0, true},
		{"18446744073709551615", 1, math.MaxUint64, true},
		{".5", 1000, 0, false},  // integer part required
		{"-1", 1000, 0, false},  // negative
		{"abc", 1000, 0, false}, // not a number
		{"1..2", 1000, 0, false},
		{"1.2x", 1000, 0, false},
		{"18446744073709551616", 1, 0, false},                // overflow
		{"184467440737095516.16", 100, 0, false},             // overflow at combine
		{"1", 0, 0, false},                                   // bad scale
		{"1", 3, 0, false},                                   // not a power of ten
	}

	for _, c := range cases {
		got, ok := ParseScaled(c.in, c.scale)
		assert.Equal(t, c.ok, ok, "ParseScaled(%q, %d)", c.in, c.scale)
		if c.ok {
			assert.Equal(t, c.want, got, "ParseScaled(%q, %d)", c.in, c.scale)
		}
	}
}

func TestFormatScaled(t *testing.T) {
	cases := []struct {
		value uint64
		scale uint64
		want  string
	}{
		{1234, 1000, "1.234"},
		{1230, 1000, "1.23"},
		{1000, 1000, "1.0"}, // never a bare integer at scale > 1
		{5, 1000, "0.005"},
		{0, 1000, "0.0"},
		{5, 1, "5"}, // integer form at scale 1
		{3_000_000_000_000, 100_000_000, "30000.0"},
		{3_000_050_000_000, 100_000_000, "30000.5"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, FormatScaled(c.value, c.scale), "FormatScaled(%d, %d)", c.value, c.scale)
	}
}

func TestJSONUint64(t *testing.T) {
	var v JSONUint64

	assert.NoError(t, json.Unmarshal([]byte(`123`), &v), "unsigned integer accepted")
	assert.Equal(t, JSONUint64(123), v)

	assert.NoError(t, json.Unmarshal([]byte(`"456"`), &v), "digit string accepted")
	assert.Equal(t, JSONUint64(456), v)

	assert.Error(t, json.Unmarshal([]byte(`-1`), &v), "negative rejected")
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &v), "fraction rejected")
	assert.Error(t, json.Unmarshal([]byte(`"12a"`), &v), "non-digit string rejected")
	assert.Error(t, json.Unmarshal([]byte(`true`), &v), "bool rejected")
}

func TestFormatParseRoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ParseScaled inverts FormatScaled", prop.ForAll(
		func(value uint64, placesSeed uint8) bool {
			scale := uint64(1)
			for i := uint8(0); i < placesSeed%9; i++ {
				scale *= 10
			}

			parsed, ok := ParseScaled(FormatScaled(value, scale), scale)
			return ok && parsed == value
		},
		gen.UInt64(), gen.UInt8(),
	))

	properties.TestingRun(t)
}
