package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is an sRGB colour with 8-bit channels and a [0,1] alpha.
type Color struct {
	R, G, B uint8
	A       float64
}

// White is the background assumed when nothing declares one.
var White = Color{R: 255, G: 255, B: 255, A: 1}

// Black is the initial foreground colour.
var Black = Color{A: 1}

// String renders the canonical rgb()/rgba() form.
func (c Color) String() string {
	if c.A >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Transparent reports whether the colour has no alpha.
func (c Color) Transparent() bool { return c.A <= 0 }

// ParseColor parses hex, rgb()/rgba(), hsl()/hsla(), "transparent" and the
// 147 CSS named colours. Keywords such as inherit or currentColor are not
// colours and return false.
func ParseColor(value string) (Color, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Color{}, false
	}
	if v == "transparent" {
		return Color{}, true
	}
	if strings.HasPrefix(v, "#") {
		return parseHexColor(v[1:])
	}
	if c, ok := colornames.Map[v]; ok {
		return Color{R: c.R, G: c.G, B: c.B, A: 1}, true
	}
	fn, args, ok := splitFunction(v)
	if !ok {
		return Color{}, false
	}
	switch fn {
	case "rgb", "rgba":
		return parseRGBFunc(args)
	case "hsl", "hsla":
		return parseHSLFunc(args)
	}
	return Color{}, false
}

// NormalizeColor returns the canonical rgb() form of a colour value, or the
// input unchanged when it is not a colour.
func NormalizeColor(value string) string {
	if c, ok := ParseColor(value); ok {
		return c.String()
	}
	return value
}

func parseHexColor(h string) (Color, bool) {
	expand := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return b.String()
	}
	switch len(h) {
	case 3, 4:
		h = expand(h)
	case 6, 8:
	default:
		return Color{}, false
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, false
	}
	if len(h) == 6 {
		return Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 1}, true
	}
	return Color{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: float64(uint8(n)) / 255}, true
}

// splitFunction splits "rgb(1, 2, 3)" into "rgb" and its arguments. Both
// comma and space separated argument lists are accepted, with an optional
// "/ alpha".
func splitFunction(v string) (string, []string, bool) {
	open := strings.IndexByte(v, '(')
	if open <= 0 || !strings.HasSuffix(v, ")") {
		return "", nil, false
	}
	name := strings.TrimSpace(v[:open])
	body := v[open+1 : len(v)-1]
	body = strings.ReplaceAll(body, "/", " ")
	body = strings.ReplaceAll(body, ",", " ")
	args := strings.Fields(body)
	return name, args, true
}

func parseRGBFunc(args []string) (Color, bool) {
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		f, ok := parseChannel(args[i], 255)
		if !ok {
			return Color{}, false
		}
		ch[i] = uint8(math.Round(clamp(f, 0, 255)))
	}
	a := 1.0
	if len(args) == 4 {
		f, ok := parseChannel(args[3], 1)
		if !ok {
			return Color{}, false
		}
		a = clamp(f, 0, 1)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: a}, true
}

func parseHSLFunc(args []string) (Color, bool) {
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return Color{}, false
	}
	s, ok1 := parseChannel(args[1], 1)
	l, ok2 := parseChannel(args[2], 1)
	if !ok1 || !ok2 {
		return Color{}, false
	}
	a := 1.0
	if len(args) == 4 {
		f, ok := parseChannel(args[3], 1)
		if !ok {
			return Color{}, false
		}
		a = clamp(f, 0, 1)
	}
	r, g, b := hslToRGB(h, clamp(s, 0, 1), clamp(l, 0, 1))
	return Color{R: r, G: g, B: b, A: a}, true
}

// parseChannel parses a number or percentage; percentages scale to max.
func parseChannel(s string, max float64) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return f / 100 * max, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 1.0/6:
		r, g, b = c, x, 0
	case h < 2.0/6:
		r, g, b = x, c, 0
	case h < 3.0/6:
		r, g, b = 0, c, x
	case h < 4.0/6:
		r, g, b = 0, x, c
	case h < 5.0/6:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	to8 := func(v float64) uint8 { return uint8(math.Round(clamp((v+m)*255, 0, 255))) }
	return to8(r), to8(g), to8(b)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
