// Package issues turns raw check failures into deduplicated, identity-stable
// issues.
package issues

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/mj1618/a11y-audit/internal/dom"
	"golang.org/x/net/html"
)

// Fingerprints assigns nodes an identity derived from their serialised
// markup. Nodes with identical markup are told apart by their occurrence
// index among such nodes in document order, so the key does not depend on
// the node's position relative to unrelated content.
//
// The document containers html, head and body hold the whole page, so they
// are identified by their tag path and own attributes instead; editing page
// content leaves their keys unchanged.
type Fingerprints struct {
	doc      dom.Document
	elements []*html.Node
	opening  map[*html.Node]uint64
	full     map[*html.Node]uint64
	keys     map[*html.Node]string
}

// NewFingerprints prepares fingerprinting over doc. Full markup hashes are
// computed lazily, only for nodes that need a key.
func NewFingerprints(doc dom.Document) *Fingerprints {
	f := &Fingerprints{
		doc:      doc,
		elements: dom.Descendants(doc, doc.Root()),
		opening:  make(map[*html.Node]uint64),
		full:     make(map[*html.Node]uint64),
		keys:     make(map[*html.Node]string),
	}
	for _, n := range f.elements {
		f.opening[n] = openingHash(n)
	}
	return f
}

// Key returns the identity key of n: "<markup hash>:<occurrence>".
func (f *Fingerprints) Key(n *html.Node) string {
	if k, ok := f.keys[n]; ok {
		return k
	}
	h := f.hash(n)
	occurrence := 0
	for _, other := range f.elements {
		if other == n {
			break
		}
		if f.opening[other] == f.opening[n] && f.hash(other) == h {
			occurrence++
		}
	}
	k := fmt.Sprintf("%016x:%d", h, occurrence)
	f.keys[n] = k
	return k
}

func (f *Fingerprints) hash(n *html.Node) uint64 {
	if h, ok := f.full[n]; ok {
		return h
	}
	var h uint64
	if containers[dom.Tag(n)] {
		h = f.pathHash(n)
	} else {
		h = xxhash.Sum64String(dom.OuterHTML(n))
	}
	f.full[n] = h
	return h
}

var containers = map[string]bool{"html": true, "head": true, "body": true}

// pathHash hashes the ancestor tag path of n and n's opening tag.
func (f *Fingerprints) pathHash(n *html.Node) uint64 {
	d := xxhash.New()
	for p := f.doc.Parent(n); p != nil && p.Type == html.ElementNode; p = f.doc.Parent(p) {
		_, _ = d.WriteString(dom.Tag(p) + ">")
	}
	fmt.Fprintf(d, "%016x", openingHash(n))
	return d.Sum64()
}

// openingHash hashes the tag and attributes only; it is a cheap prefilter
// for nodes that could share full markup.
func openingHash(n *html.Node) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(strings.ToLower(n.Data))
	for _, a := range n.Attr {
		_, _ = d.WriteString("\x00" + a.Key + "=" + a.Val)
	}
	return d.Sum64()
}

// IssueID derives an issue id from a node key and rule slug.
func IssueID(nodeKey, ruleSlug string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(ruleSlug+"|"+nodeKey))
}
