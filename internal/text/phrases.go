// Package text holds the text-quality heuristics applied to accessible
// names and alternative text.
package text

import (
	"strings"
	"unicode"
)

// ambiguousPhrases are link and button names that say nothing about the
// destination once read out of context. Entries are already normalised.
var ambiguousPhrases = map[string]bool{
	"click":                    true,
	"click here":               true,
	"click here for more":      true,
	"click here to learn more": true,
	"click here to read more":  true,
	"click to learn more":      true,
	"click to read more":       true,
	"continue":                 true,
	"continue reading":         true,
	"details":                  true,
	"download":                 true,
	"download here":            true,
	"go":                       true,
	"go here":                  true,
	"here":                     true,
	"info":                     true,
	"learn":                    true,
	"learn more":               true,
	"link":                     true,
	"more":                     true,
	"more details":             true,
	"more info":                true,
	"more information":         true,
	"read":                     true,
	"read more":                true,
	"read this":                true,
	"see more":                 true,
	"start":                    true,
	"tap here":                 true,
	"this":                     true,
	"this link":                true,
	"this page":                true,
	"view":                     true,
	"view more":                true,
}

// Normalize lowercases s, drops every character that is not a letter or a
// space and collapses runs of whitespace.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Ambiguous reports whether the normalised name is a boilerplate phrase.
func Ambiguous(name string) bool {
	n := Normalize(name)
	return n != "" && ambiguousPhrases[n]
}
