package text

import (
	"strings"

	"github.com/mj1618/a11y-audit/internal/dom"
	"golang.org/x/net/html"
)

type altUse struct {
	node        *html.Node
	resource    string
	destination string
}

// AltIndex groups the images of a document by their alt text so reuse of
// one alt across different images can be detected.
type AltIndex struct {
	byAlt map[string][]altUse
	keys  map[*html.Node]string
}

// NewAltIndex indexes every img with a non-empty alt.
func NewAltIndex(doc dom.Document) *AltIndex {
	idx := &AltIndex{
		byAlt: make(map[string][]altUse),
		keys:  make(map[*html.Node]string),
	}
	for _, n := range dom.Descendants(doc, doc.Root()) {
		if !dom.IsElement(n, "img") {
			continue
		}
		key := altKey(dom.AttrValue(doc, n, "alt"))
		if key == "" {
			continue
		}
		use := altUse{node: n, resource: strings.TrimSpace(dom.AttrValue(doc, n, "src"))}
		if a := dom.Ancestor(doc, n, func(p *html.Node) bool { return dom.IsElement(p, "a") }); a != nil {
			use.destination = strings.TrimSpace(dom.AttrValue(doc, a, "href"))
		}
		idx.byAlt[key] = append(idx.byAlt[key], use)
		idx.keys[n] = key
	}
	return idx
}

// Reused reports whether another image carries the same alt while pointing
// at a different resource and a different link destination.
func (x *AltIndex) Reused(n *html.Node) bool {
	key, ok := x.keys[n]
	if !ok {
		return false
	}
	var self altUse
	for _, u := range x.byAlt[key] {
		if u.node == n {
			self = u
		}
	}
	for _, other := range x.byAlt[key] {
		if other.node == n {
			continue
		}
		if other.resource == self.resource {
			continue
		}
		if self.destination != "" && other.destination == self.destination {
			continue
		}
		return true
	}
	return false
}

func altKey(alt string) string {
	return strings.ToLower(strings.Join(strings.Fields(alt), " "))
}
