package style

import (
	"strings"
)

// component narrows a shorthand value to the longhand property asked for.
// A shorthand that omits the component resets it to the initial value.
func component(property, value string) (string, bool) {
	tokens := SplitTokens(value)
	switch property {
	case "background-color":
		for _, t := range tokens {
			if _, ok := ParseColor(t); ok {
				return t, true
			}
		}
		return "transparent", true
	case "font-size":
		for _, t := range tokens {
			size, _, _ := strings.Cut(t, "/")
			if isFontSizeToken(size) {
				return size, true
			}
		}
		return "", false
	case "font-weight":
		for _, t := range tokens {
			if isFontWeightToken(t) {
				return t, true
			}
			if isFontSizeToken(strings.SplitN(t, "/", 2)[0]) {
				break
			}
		}
		return "normal", true
	case "text-decoration-line":
		var lines []string
		for _, t := range tokens {
			switch strings.ToLower(t) {
			case "underline", "overline", "line-through", "blink", "none":
				lines = append(lines, strings.ToLower(t))
			}
		}
		if len(lines) == 0 {
			return "none", true
		}
		return strings.Join(lines, " "), true
	}
	return value, true
}

// SplitTokens splits a CSS value on whitespace outside parentheses.
func SplitTokens(value string) []string {
	var tokens []string
	depth := 0
	start := -1
	for i, r := range value {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case (r == ' ' || r == '\t' || r == '\n' || r == ',') && depth == 0:
			if start >= 0 {
				tokens = append(tokens, value[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, value[start:])
	}
	return tokens
}

var fontWeightKeywords = map[string]bool{
	"bold": true, "bolder": true, "lighter": true,
	"100": true, "200": true, "300": true, "400": true, "500": true,
	"600": true, "700": true, "800": true, "900": true,
}

func isFontWeightToken(t string) bool {
	return fontWeightKeywords[strings.ToLower(t)]
}

func isFontSizeToken(t string) bool {
	if _, ok := sizeKeywords[strings.ToLower(t)]; ok {
		return true
	}
	if t == "" || !(t[0] >= '0' && t[0] <= '9' || t[0] == '.') {
		return false
	}
	_, unit := splitNumber(t)
	return unit != ""
}
