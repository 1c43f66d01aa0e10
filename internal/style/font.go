package style

import (
	"strings"

	"golang.org/x/net/html"
)

// headingScale is the user-agent font-size of headings relative to their
// parent.
var headingScale = map[string]float64{
	"h1": 2, "h2": 1.5, "h3": 1.17, "h4": 1, "h5": 0.83, "h6": 0.67,
	"small": 0.833,
}

// boldTags render bold by default.
var boldTags = map[string]bool{
	"b": true, "strong": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// FontPx returns the computed font size of n in CSS pixels. Unparseable
// declarations are ignored and the inherited size is kept.
func (r *Resolver) FontPx(n *html.Node) float64 {
	var chain []*html.Node
	for cur := n; cur != nil; cur = r.tree.Parent(cur) {
		if cur.Type == html.ElementNode {
			chain = append(chain, cur)
		}
	}
	px := DefaultFontPx
	for i := len(chain) - 1; i >= 0; i-- {
		el := chain[i]
		if v, ok := r.Declared(el, "font-size"); ok {
			if size, ok := FontSizePx(v, px); ok {
				px = size
				continue
			}
		}
		if scale, ok := headingScale[strings.ToLower(el.Data)]; ok {
			px *= scale
		}
	}
	return px
}

// Bold reports whether n renders in a bold face, either through font-weight
// or through a <b>/<strong>-style element on n or an ancestor.
func (r *Resolver) Bold(n *html.Node) bool {
	for cur := n; cur != nil; cur = r.tree.Parent(cur) {
		if cur.Type != html.ElementNode {
			continue
		}
		if v, ok := r.Declared(cur, "font-weight"); ok {
			return IsBoldWeight(v)
		}
		if boldTags[strings.ToLower(cur.Data)] {
			return true
		}
	}
	return false
}
