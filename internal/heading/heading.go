// Package heading validates that heading levels never skip downwards.
package heading

import (
	"strconv"
	"strings"

	"github.com/mj1618/a11y-audit/internal/dom"
	"golang.org/x/net/html"
)

// Heading is a heading-like node with its effective level.
type Heading struct {
	Node  *html.Node
	Level int
}

// Level returns the heading level of n: aria-level on role=heading, or the
// native h1–h6 level. ok is false for anything else, including role=heading
// without a usable aria-level.
func Level(doc dom.Document, n *html.Node) (int, bool) {
	role := strings.ToLower(strings.TrimSpace(dom.AttrValue(doc, n, "role")))
	if role != "" && role != "heading" {
		return 0, false
	}
	if lvl, ok := doc.Attr(n, "aria-level"); ok {
		v, err := strconv.Atoi(strings.TrimSpace(lvl))
		if err == nil && v >= 1 {
			return v, true
		}
		if role == "heading" {
			return 0, false
		}
	}
	tag := dom.Tag(n)
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0'), true
	}
	return 0, false
}

// Collect returns the document's headings in document order.
func Collect(doc dom.Document) []Heading {
	var out []Heading
	for _, n := range dom.Descendants(doc, doc.Root()) {
		if lvl, ok := Level(doc, n); ok {
			out = append(out, Heading{Node: n, Level: lvl})
		}
	}
	return out
}

// Skips returns, for each level in order, whether it jumps more than one
// level deeper than the heading before it. The first heading is compared
// against level 1.
func Skips(levels []int) []bool {
	out := make([]bool, len(levels))
	prev := 1
	for i, lvl := range levels {
		out[i] = lvl > prev+1
		prev = lvl
	}
	return out
}

// Validator answers skip questions for one document.
type Validator struct {
	skipped map[*html.Node]bool
}

// NewValidator walks doc once and records which headings skip a level.
func NewValidator(doc dom.Document) *Validator {
	hs := Collect(doc)
	levels := make([]int, len(hs))
	for i, h := range hs {
		levels[i] = h.Level
	}
	v := &Validator{skipped: make(map[*html.Node]bool)}
	for i, skip := range Skips(levels) {
		if skip {
			v.skipped[hs[i].Node] = true
		}
	}
	return v
}

// Skipped reports whether n is a heading that skips a level.
func (v *Validator) Skipped(n *html.Node) bool {
	return v.skipped[n]
}
