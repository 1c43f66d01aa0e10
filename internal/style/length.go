package style

import (
	"strconv"
	"strings"
)

// DefaultFontPx is the medium font size browsers start from.
const DefaultFontPx = 16.0

// sizeKeywords maps absolute and relative font-size keywords to pixels
// (relative ones as a factor of the parent, marked negative).
var sizeKeywords = map[string]float64{
	"xx-small": 9,
	"x-small":  10,
	"small":    13,
	"medium":   16,
	"large":    18,
	"x-large":  24,
	"xx-large": 32,
	"smaller":  -0.833,
	"larger":   -1.2,
}

// FontSizePx converts a font-size value to pixels given the parent's size.
func FontSizePx(value string, parentPx float64) (float64, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if k, ok := sizeKeywords[value]; ok {
		if k < 0 {
			return parentPx * -k, true
		}
		return k, true
	}
	num, unit := splitNumber(value)
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	switch unit {
	case "px":
		return f, true
	case "pt":
		return f * 4 / 3, true
	case "em":
		return f * parentPx, true
	case "rem":
		return f * DefaultFontPx, true
	case "%":
		return f / 100 * parentPx, true
	case "pc":
		return f * 16, true
	case "in":
		return f * 96, true
	case "cm":
		return f * 96 / 2.54, true
	case "mm":
		return f * 96 / 25.4, true
	case "":
		if f == 0 {
			return 0, true
		}
	}
	return 0, false
}

// PxToPt converts CSS pixels to points.
func PxToPt(px float64) float64 { return px * 0.75 }

// IsBoldWeight reports whether a font-weight value renders bold.
func IsBoldWeight(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "bold", "bolder", "700", "800", "900":
		return true
	}
	return false
}

// splitNumber splits "12.5px" into "12.5" and "px".
func splitNumber(s string) (string, string) {
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.' || s[i] == '-' || s[i] == '+') {
		i++
	}
	return s[:i], strings.ToLower(s[i:])
}
