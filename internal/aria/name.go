package aria

import (
	"strings"
	"unicode"

	"github.com/mj1618/a11y-audit/internal/dom"
	"golang.org/x/net/html"
)

// Empty reports whether s carries no name once whitespace, non-breaking
// spaces, hyphens and underscores are stripped.
func Empty(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) || r == '\u00a0' || r == '-' || r == '_' {
			continue
		}
		return false
	}
	return true
}

// Name computes the accessible name of n with the precedence
// aria-label, aria-labelledby targets, text content, descendant image alt,
// title. The first non-empty source wins.
func Name(doc dom.Document, n *html.Node) string {
	if v := strings.TrimSpace(dom.AttrValue(doc, n, "aria-label")); !Empty(v) {
		return v
	}
	if v := LabelledByText(doc, n); !Empty(v) {
		return v
	}
	if v := normalizeSpace(VisibleText(doc, n)); !Empty(v) {
		return v
	}
	if v := DescendantAlt(doc, n); !Empty(v) {
		return v
	}
	if v := strings.TrimSpace(dom.AttrValue(doc, n, "title")); !Empty(v) {
		return v
	}
	return ""
}

// LabelledByText concatenates the text of aria-labelledby targets. It is
// empty when the reference itself is invalid.
func LabelledByText(doc dom.Document, n *html.Node) string {
	if !dom.HasAttr(doc, n, "aria-labelledby") || !ValidReference(doc, n, LabelledBy) {
		return ""
	}
	var parts []string
	for _, id := range IDs(dom.AttrValue(doc, n, "aria-labelledby")) {
		target := doc.ElementByID(id)
		t := strings.TrimSpace(dom.AttrValue(doc, target, "aria-label"))
		if Empty(t) {
			t = normalizeSpace(doc.Text(target))
		}
		if !Empty(t) {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// VisibleText returns the text of n that assistive technology reads:
// display:none subtrees and aria-hidden subtrees are skipped. Text styled
// off-screen (screen-reader-only classes) still counts.
func VisibleText(doc dom.Document, n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for _, c := range doc.Children(cur) {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				if !doc.IsVisible(c) || Hidden(doc, c) {
					continue
				}
				switch dom.Tag(c) {
				case "script", "style", "template":
					continue
				}
				walk(c)
				if isBlock(dom.Tag(c)) {
					b.WriteString(" ")
				}
			}
		}
	}
	walk(n)
	return b.String()
}

// DescendantAlt returns the first non-empty alt (or aria-label) of an image
// inside n.
func DescendantAlt(doc dom.Document, n *html.Node) string {
	for _, d := range dom.Descendants(doc, n) {
		if !dom.IsElement(d, "img", "svg", "input", "area") && Role(doc, d) != "img" {
			continue
		}
		if Hidden(doc, d) {
			continue
		}
		if v := strings.TrimSpace(dom.AttrValue(doc, d, "alt")); !Empty(v) {
			return v
		}
		if v := strings.TrimSpace(dom.AttrValue(doc, d, "aria-label")); !Empty(v) {
			return v
		}
		if dom.IsElement(d, "svg") {
			for _, c := range dom.Elements(doc, d) {
				if dom.IsElement(c, "title") {
					if v := normalizeSpace(doc.Text(c)); !Empty(v) {
						return v
					}
				}
			}
		}
	}
	return ""
}

// ControlName computes the name of a form control: the generic chain, then
// an associated <label for=id>, a wrapping <label>, and for button-like
// inputs their value.
func ControlName(doc dom.Document, n *html.Node) string {
	if v := strings.TrimSpace(dom.AttrValue(doc, n, "aria-label")); !Empty(v) {
		return v
	}
	if v := LabelledByText(doc, n); !Empty(v) {
		return v
	}
	if id := dom.AttrValue(doc, n, "id"); id != "" {
		for _, l := range Labels(doc, id) {
			if v := normalizeSpace(VisibleText(doc, l)); !Empty(v) {
				return v
			}
		}
	}
	if l := dom.Ancestor(doc, n, func(p *html.Node) bool { return dom.IsElement(p, "label") }); l != nil {
		if v := normalizeSpace(VisibleText(doc, l)); !Empty(v) {
			return v
		}
	}
	if dom.IsElement(n, "input") {
		switch strings.ToLower(dom.AttrValue(doc, n, "type")) {
		case "submit", "button", "reset":
			if v := strings.TrimSpace(dom.AttrValue(doc, n, "value")); !Empty(v) {
				return v
			}
		case "image":
			if v := strings.TrimSpace(dom.AttrValue(doc, n, "alt")); !Empty(v) {
				return v
			}
		}
	}
	return strings.TrimSpace(dom.AttrValue(doc, n, "title"))
}

// Labels returns the <label for=id> elements pointing at id.
func Labels(doc dom.Document, id string) []*html.Node {
	var out []*html.Node
	for _, n := range dom.Descendants(doc, doc.Root()) {
		if dom.IsElement(n, "label") && dom.AttrValue(doc, n, "for") == id {
			out = append(out, n)
		}
	}
	return out
}

var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "br": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "tr": true,
}

func isBlock(tag string) bool { return blockTags[tag] }

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
