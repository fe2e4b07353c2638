package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DecimalPlacesOfScale returns the decimal exponent of scale. It fails when
// scale is zero or not a pure power of ten.
func DecimalPlacesOfScale(scale uint64) (uint32, bool) {
	if scale == 0 {
		return 0, false
	}

	places := uint32(0)
	for scale > 1 {
		if scale%10 != 0 {
			return 0, false
		}
		scale /= 10
		places++
	}

	return places, true
}

// ParseScaled parses a decimal string like "30000.25" into scale-units.
// Fractional digits beyond the scale's precision are truncated: the exchange
// may send finer precision than the configured scale. Fails on overflow.
func ParseScaled(s string, scale uint64) (uint64, bool) {
	places, ok := DecimalPlacesOfScale(scale)
	if !ok {
		return 0, false
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		return 0, false
	}

	intValue, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil {
		return 0, false
	}

	for _, c := range fracPart {
		if c < '0' || c > '9' {
			return 0, false
		}
	}

	if uint32(len(fracPart)) > places {
		fracPart = fracPart[:places]
	}

	var fracValue uint64
	if fracPart != "" {
		fracValue, err = strconv.ParseUint(fracPart, 10, 64)
		if err != nil {
			return 0, false
		}
	}

	for i := uint32(len(fracPart)); i < places; i++ {
		if fracValue > math.MaxUint64/10 {
			return 0, false
		}
		fracValue *= 10
	}

	if intValue > (math.MaxUint64-fracValue)/scale {
		return 0, false
	}

	return intValue*scale + fracValue, true
}

// FormatScaled renders a scale-units value back to its decimal form. Trailing
// fractional zeros are trimmed but the output never collapses to a bare
// integer: "1.0", not "1". At scale 1 the integer form is used.
func FormatScaled(value uint64, scale uint64) string {
	places, ok := DecimalPlacesOfScale(scale)
	if !ok || places == 0 {
		return strconv.FormatUint(value, 10)
	}

	whole := value / scale
	frac := value % scale

	fracStr := strconv.FormatUint(frac, 10)
	if uint32(len(fracStr)) < places {
		fracStr = strings.Repeat("0", int(places)-len(fracStr)) + fracStr
	}
	fracStr = strings.TrimRight(fracStr, "0")
	if fracStr == "" {
		fracStr = "0"
	}

	return strconv.FormatUint(whole, 10) + "." + fracStr
}

// JSONUint64 decodes a JSON value that is an unsigned integer, a non-negative
// signed integer, or a string of decimal digits. Anything else is an error.
type JSONUint64 uint64

func (v *JSONUint64) UnmarshalJSON(data []byte) error {
	token := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		token = s
	}

	n, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return fmt.Errorf("not an unsigned integer: %q", token)
	}

	*v = JSONUint64(n)
	return nil
}
