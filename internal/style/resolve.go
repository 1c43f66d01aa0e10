package style

import (
	"strings"

	"golang.org/x/net/html"
)

// Tree is the read-only view of a document the resolver needs.
type Tree interface {
	StyleSource(n *html.Node) Source
	Parent(n *html.Node) *html.Node
}

// synonyms lists, for a property, the properties whose declarations compete
// with it for the same value.
var synonyms = map[string][]string{
	"background-color":     {"background-color", "background"},
	"background":           {"background", "background-color"},
	"font-size":            {"font-size", "font"},
	"font-weight":          {"font-weight", "font"},
	"text-decoration-line": {"text-decoration-line", "text-decoration"},
	"text-decoration":      {"text-decoration", "text-decoration-line"},
}

// inherited properties take the parent's value when a node sets nothing.
var inherited = map[string]bool{
	"color":       true,
	"font-size":   true,
	"font-weight": true,
	"font-style":  true,
	"font-family": true,
	"text-align":  true,
	"visibility":  true,
	"line-height": true,
}

// Winner picks the declaration that controls property out of decls.
// !important beats everything that is not; then inline beats stylesheet;
// then specificity; then later source order.
func Winner(decls []Declaration, property string) (Declaration, bool) {
	names := synonyms[property]
	if names == nil {
		names = []string{property}
	}
	var best Declaration
	found := false
	for _, d := range decls {
		if !containsString(names, d.Property) {
			continue
		}
		if !found || outranks(d, best) {
			best = d
			found = true
		}
	}
	return best, found
}

func outranks(a, b Declaration) bool {
	if a.Important != b.Important {
		return a.Important
	}
	if a.Inline != b.Inline {
		return a.Inline
	}
	if a.Specificity != b.Specificity {
		return b.Specificity.Less(a.Specificity)
	}
	return a.Order > b.Order
}

// Resolver computes effective property values over a Tree.
type Resolver struct {
	tree Tree
}

// NewResolver returns a resolver over t.
func NewResolver(t Tree) *Resolver {
	return &Resolver{tree: t}
}

// Declared returns the value the node itself declares for property, with
// var() references substituted and shorthands narrowed to the requested
// component. ok is false when nothing on the node sets the property or a
// reference cannot be resolved.
func (r *Resolver) Declared(n *html.Node, property string) (string, bool) {
	property = strings.ToLower(property)
	d, ok := Winner(r.tree.StyleSource(n).Declarations, property)
	if !ok {
		return "", false
	}
	value, ok := r.substitute(n, d.Value, map[string]bool{})
	if !ok {
		return "", false
	}
	if d.Property != property {
		value, ok = component(property, value)
		if !ok {
			return "", false
		}
	}
	return strings.TrimSpace(value), true
}

// Computed returns the effective value of property for n. Inherited
// properties, and any property declared as "inherit", fall back to the
// nearest ancestor that declares one.
func (r *Resolver) Computed(n *html.Node, property string) (string, bool) {
	property = strings.ToLower(property)
	for cur := n; cur != nil; cur = r.tree.Parent(cur) {
		if cur.Type != html.ElementNode {
			continue
		}
		v, ok := r.Declared(cur, property)
		if ok && !strings.EqualFold(v, "inherit") {
			return v, true
		}
		if !ok && !inherited[property] {
			return "", false
		}
	}
	return "", false
}

// Nearest walks from n to the root and returns the first declared value of
// property along with the node that declared it.
func (r *Resolver) Nearest(n *html.Node, property string) (string, *html.Node, bool) {
	for cur := n; cur != nil; cur = r.tree.Parent(cur) {
		if cur.Type != html.ElementNode {
			continue
		}
		if v, ok := r.Declared(cur, property); ok {
			return v, cur, true
		}
	}
	return "", nil, false
}

// substitute replaces var(--name[, fallback]) references in value. Custom
// properties are looked up on n and then its ancestors. A reference that
// leads back to itself resolves absent.
func (r *Resolver) substitute(n *html.Node, value string, seen map[string]bool) (string, bool) {
	for {
		start := strings.Index(value, "var(")
		if start < 0 {
			return value, true
		}
		end := matchingParen(value, start+3)
		if end < 0 {
			return "", false
		}
		inner := value[start+4 : end]
		name, fallback, hasFallback := strings.Cut(inner, ",")
		name = strings.TrimSpace(name)

		var replacement string
		resolved := false
		if !seen[name] {
			if raw, ok := r.customProperty(n, name); ok {
				next := copySet(seen)
				next[name] = true
				if sub, ok := r.substitute(n, raw, next); ok {
					replacement, resolved = sub, true
				}
			}
		} else {
			return "", false
		}
		if !resolved {
			if !hasFallback {
				return "", false
			}
			sub, ok := r.substitute(n, strings.TrimSpace(fallback), seen)
			if !ok {
				return "", false
			}
			replacement = sub
		}
		value = value[:start] + replacement + value[end+1:]
	}
}

func (r *Resolver) customProperty(n *html.Node, name string) (string, bool) {
	for cur := n; cur != nil; cur = r.tree.Parent(cur) {
		if cur.Type != html.ElementNode {
			continue
		}
		if d, ok := Winner(r.tree.StyleSource(cur).Declarations, name); ok {
			return strings.TrimSpace(d.Value), true
		}
	}
	return "", false
}

// matchingParen returns the index of the ')' closing the '(' at open.
func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func copySet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
