package dom

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/mj1618/a11y-audit/internal/style"
	"golang.org/x/net/html"
)

// Options configures how a parsed document is prepared.
type Options struct {
	BaseURL     *url.URL
	Stylesheets []string // external sheet texts, applied before <style> blocks
	Logger      *slog.Logger
}

type compiledRule struct {
	group cascadia.SelectorGroup
	decls []style.Declaration
}

// HTMLDocument is a Document over a parsed x/net/html tree. Every derived
// fact is computed at construction, so it is safe for concurrent readers.
type HTMLDocument struct {
	root    *html.Node
	base    *url.URL
	ids     map[string]*html.Node
	sources map[*html.Node]style.Source
	hidden  map[*html.Node]bool
	texts   map[*html.Node]string
}

var _ Document = (*HTMLDocument)(nil)

// Parse reads HTML from r and builds a document.
func Parse(r io.Reader, opts Options) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return FromNode(root, opts), nil
}

// ParseString is Parse over a string.
func ParseString(s string, opts Options) (*HTMLDocument, error) {
	return Parse(strings.NewReader(s), opts)
}

// MustParseString parses s with default options and panics on error. It is
// meant for tests and fixtures.
func MustParseString(s string) *HTMLDocument {
	d, err := ParseString(s, Options{})
	if err != nil {
		panic(err)
	}
	return d
}

// FromNode wraps an already parsed tree.
func FromNode(root *html.Node, opts Options) *HTMLDocument {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d := &HTMLDocument{
		root:    root,
		base:    opts.BaseURL,
		ids:     make(map[string]*html.Node),
		sources: make(map[*html.Node]style.Source),
		hidden:  make(map[*html.Node]bool),
		texts:   make(map[*html.Node]string),
	}

	sheets := append([]string(nil), opts.Stylesheets...)
	var elements []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			elements = append(elements, n)
			if id, ok := d.Attr(n, "id"); ok && id != "" {
				if _, dup := d.ids[id]; !dup {
					d.ids[id] = n
				}
			}
			if Tag(n) == "style" && !isPrintMedia(d, n) {
				sheets = append(sheets, rawText(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	rules := compileSheets(sheets, logger)
	for _, n := range elements {
		d.sources[n] = matchSource(d, n, rules)
	}

	resolver := style.NewResolver(d)
	for _, n := range elements {
		d.hidden[n] = d.computeHidden(n, resolver)
	}
	d.fillTexts(root)
	return d
}

func compileSheets(sheets []string, logger *slog.Logger) []compiledRule {
	var out []compiledRule
	order := 0
	for i, text := range sheets {
		rules, next, err := style.ParseStylesheet(text, order)
		if err != nil {
			logger.Debug("stylesheet skipped", "index", i, "error", err)
			continue
		}
		order = next
		for _, r := range rules {
			if strings.Contains(r.Selector, "::") {
				continue
			}
			group, err := cascadia.ParseGroup(r.Selector)
			if err != nil {
				logger.Debug("selector skipped", "selector", r.Selector, "error", err)
				continue
			}
			out = append(out, compiledRule{group: group, decls: r.Declarations})
		}
	}
	return out
}

func matchSource(d *HTMLDocument, n *html.Node, rules []compiledRule) style.Source {
	var decls []style.Declaration
	for _, r := range rules {
		var best style.Specificity
		matched := false
		for _, sel := range r.group {
			if !sel.Match(n) {
				continue
			}
			spec := style.Specificity(sel.Specificity())
			if !matched || best.Less(spec) {
				best = spec
			}
			matched = true
		}
		if !matched {
			continue
		}
		for _, decl := range r.decls {
			decl.Specificity = best
			decls = append(decls, decl)
		}
	}
	if inline, ok := d.Attr(n, "style"); ok {
		decls = append(decls, style.ParseInline(inline)...)
	}
	return style.Source{Declarations: decls}
}

// neverRendered tags carry no visible content of their own.
var neverRendered = map[string]bool{
	"head": true, "script": true, "style": true, "template": true,
	"noscript": true, "meta": true, "link": true, "title": true,
}

func (d *HTMLDocument) computeHidden(n *html.Node, r *style.Resolver) bool {
	if p := d.Parent(n); p != nil && p.Type == html.ElementNode && d.hidden[p] {
		return true
	}
	if neverRendered[Tag(n)] {
		return true
	}
	if HasAttr(d, n, "hidden") {
		return true
	}
	if Tag(n) == "input" && strings.EqualFold(AttrValue(d, n, "type"), "hidden") {
		return true
	}
	if v, ok := r.Declared(n, "display"); ok && strings.EqualFold(v, "none") {
		return true
	}
	if v, ok := r.Computed(n, "visibility"); ok {
		switch strings.ToLower(v) {
		case "hidden", "collapse":
			return true
		}
	}
	return false
}

func (d *HTMLDocument) fillTexts(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode, html.DocumentNode:
			t := d.fillTexts(c)
			switch Tag(c) {
			case "script", "style", "template":
			default:
				b.WriteString(t)
			}
		}
	}
	s := b.String()
	d.texts[n] = s
	return s
}

func isPrintMedia(d *HTMLDocument, n *html.Node) bool {
	media := strings.ToLower(AttrValue(d, n, "media"))
	return media != "" && !strings.Contains(media, "screen") && !strings.Contains(media, "all")
}

func rawText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// Root implements Document.
func (d *HTMLDocument) Root() *html.Node { return d.root }

// Attr implements Document.
func (d *HTMLDocument) Attr(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// Children implements Document.
func (d *HTMLDocument) Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Parent implements Document.
func (d *HTMLDocument) Parent(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	return n.Parent
}

// Text implements Document.
func (d *HTMLDocument) Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	return d.texts[n]
}

// TagOrRole implements Document.
func (d *HTMLDocument) TagOrRole(n *html.Node) string {
	if role, ok := d.Attr(n, "role"); ok {
		if fields := strings.Fields(strings.ToLower(role)); len(fields) > 0 {
			return fields[0]
		}
	}
	return Tag(n)
}

// StyleSource implements Document.
func (d *HTMLDocument) StyleSource(n *html.Node) style.Source {
	return d.sources[n]
}

// IsVisible implements Document.
func (d *HTMLDocument) IsVisible(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return n != nil
	}
	return !d.hidden[n]
}

// ElementByID implements Document.
func (d *HTMLDocument) ElementByID(id string) *html.Node {
	return d.ids[id]
}

// BaseURL implements Document.
func (d *HTMLDocument) BaseURL() *url.URL { return d.base }
