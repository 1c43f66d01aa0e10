// Package dom is the read-only document model the audit engine walks.
//
// Node handles are *html.Node values from golang.org/x/net/html. Engine code
// never mutates them; a host that renders pages elsewhere can satisfy
// Document with its own tree as long as it hands out html.Node handles.
package dom

import (
	"net/url"
	"strings"

	"github.com/mj1618/a11y-audit/internal/style"
	"golang.org/x/net/html"
)

// Document is the capability set checks are allowed to use.
type Document interface {
	// Root returns the document node.
	Root() *html.Node
	// Attr returns the value of an attribute, matched case-insensitively.
	// ok distinguishes an absent attribute from an empty one.
	Attr(n *html.Node, name string) (value string, ok bool)
	// Children returns the direct child nodes of n, text nodes included.
	Children(n *html.Node) []*html.Node
	// Parent returns the parent of n or nil at the root.
	Parent(n *html.Node) *html.Node
	// Text returns the concatenated text of n and its descendants,
	// skipping script and style content.
	Text(n *html.Node) string
	// TagOrRole returns the explicit ARIA role when present, otherwise the
	// lowercase tag name.
	TagOrRole(n *html.Node) string
	// StyleSource returns the inline and stylesheet declarations applying to n.
	StyleSource(n *html.Node) style.Source
	// IsVisible is the host's best-effort visibility flag.
	IsVisible(n *html.Node) bool
	// ElementByID returns the first element carrying id, or nil.
	ElementByID(id string) *html.Node
	// BaseURL is the URL relative references resolve against; may be nil.
	BaseURL() *url.URL
}

// Tag returns the lowercase tag name of an element node, or "".
func Tag(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(n.Data)
}

// IsElement reports whether n is an element with one of the given tags.
// With no tags it reports whether n is an element at all.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	t := Tag(n)
	for _, want := range tags {
		if t == want {
			return true
		}
	}
	return false
}

// Elements returns the element children of n in document order.
func Elements(d Document, n *html.Node) []*html.Node {
	var out []*html.Node
	for _, c := range d.Children(n) {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// OwnText returns the text of n's direct text-node children only.
func OwnText(d Document, n *html.Node) string {
	var b strings.Builder
	for _, c := range d.Children(n) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// Ancestor returns the closest ancestor of n (excluding n) for which match
// returns true.
func Ancestor(d Document, n *html.Node, match func(*html.Node) bool) *html.Node {
	for p := d.Parent(n); p != nil; p = d.Parent(p) {
		if p.Type == html.ElementNode && match(p) {
			return p
		}
	}
	return nil
}

// Descendants returns every element below n, in document order.
func Descendants(d Document, n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for _, c := range d.Children(cur) {
			if c.Type == html.ElementNode {
				out = append(out, c)
				walk(c)
			}
		}
	}
	walk(n)
	return out
}

// Find returns the first element in the document, in document order, for
// which match returns true.
func Find(d Document, match func(*html.Node) bool) *html.Node {
	for _, n := range Descendants(d, d.Root()) {
		if match(n) {
			return n
		}
	}
	return nil
}

// HasAttr reports whether the attribute is present at all.
func HasAttr(d Document, n *html.Node, name string) bool {
	_, ok := d.Attr(n, name)
	return ok
}

// AttrValue returns the attribute value or "" when absent.
func AttrValue(d Document, n *html.Node, name string) string {
	v, _ := d.Attr(n, name)
	return v
}

// OuterHTML serialises n. Errors from the renderer are ignored; a partial
// rendering is still a usable snippet.
func OuterHTML(n *html.Node) string {
	var b strings.Builder
	_ = html.Render(&b, n)
	return b.String()
}

// Snippet renders the opening tag of n plus a short text excerpt, for
// reports.
func Snippet(d Document, n *html.Node, max int) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	text := strings.Join(strings.Fields(d.Text(n)), " ")
	b.WriteString(html.EscapeString(text))
	s := b.String()
	if max > 0 && len(s) > max {
		cut := max
		for cut > 0 && !utf8Start(s[cut]) {
			cut--
		}
		s = s[:cut] + "…"
	}
	return s
}

func utf8Start(b byte) bool { return b&0xC0 != 0x80 }
