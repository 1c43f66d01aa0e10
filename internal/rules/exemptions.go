package rules

import (
	"strings"

	"github.com/mj1618/a11y-audit/internal/aria"
	"github.com/mj1618/a11y-audit/internal/dom"
	"golang.org/x/net/html"
)

var (
	notRendered = Exemption{
		Name:    "not-rendered",
		Applies: func(env *Env, n *html.Node) bool { return !env.Doc.IsVisible(n) },
	}
	ariaHidden = Exemption{
		Name:    "aria-hidden",
		Applies: func(env *Env, n *html.Node) bool { return aria.Hidden(env.Doc, n) },
	}
	presentational = Exemption{
		Name:    "presentational-role",
		Applies: func(env *Env, n *html.Node) bool { return aria.Presentational(env.Doc, n) },
	}
	srOnlySibling = Exemption{
		Name:    "screen-reader-text-sibling",
		Applies: hasScreenReaderSibling,
	}
	namedGlyph = Exemption{
		Name:    "named-icon-glyph",
		Applies: hasNamedGlyph,
	}
	captionedFigure = Exemption{
		Name: "captioned-figure",
		Applies: func(env *Env, n *html.Node) bool {
			return !aria.Empty(figureCaption(env, n))
		},
	}
	labelledContainer = Exemption{
		Name:    "container-has-text",
		Applies: containerHasOwnText,
	}
	insideLink = Exemption{
		Name: "inside-link",
		Applies: func(env *Env, n *html.Node) bool {
			return isLink(env, n) || enclosingLink(env, n) != nil
		},
	}
)

// screenReaderClasses are the usual utility classes for text positioned
// off-screen but still read aloud.
var screenReaderClasses = []string{
	"sr-only", "screen-reader-text", "screen-reader-only", "visually-hidden",
	"visuallyhidden", "assistive-text", "a11y-hidden",
}

func hasScreenReaderClass(env *Env, n *html.Node) bool {
	for _, cls := range strings.Fields(strings.ToLower(dom.AttrValue(env.Doc, n, "class"))) {
		for _, want := range screenReaderClasses {
			if cls == want {
				return true
			}
		}
	}
	return false
}

// hasScreenReaderSibling reports whether an element sibling of n carries a
// screen-reader-only class and non-empty text.
func hasScreenReaderSibling(env *Env, n *html.Node) bool {
	parent := env.Doc.Parent(n)
	if parent == nil {
		return false
	}
	for _, sib := range dom.Elements(env.Doc, parent) {
		if sib == n {
			continue
		}
		if hasScreenReaderClass(env, sib) && !aria.Empty(env.Doc.Text(sib)) {
			return true
		}
	}
	return false
}

// hasNamedGlyph reports whether n wraps an icon element (i, span, svg)
// that carries its own title or aria-label.
func hasNamedGlyph(env *Env, n *html.Node) bool {
	for _, d := range dom.Descendants(env.Doc, n) {
		if !dom.IsElement(d, "i", "span", "svg", "em") {
			continue
		}
		for _, attr := range []string{"title", "aria-label"} {
			if !aria.Empty(dom.AttrValue(env.Doc, d, attr)) {
				return true
			}
		}
	}
	return false
}

// figureCaption returns the figcaption text of the figure enclosing n.
func figureCaption(env *Env, n *html.Node) string {
	fig := dom.Ancestor(env.Doc, n, func(p *html.Node) bool { return dom.IsElement(p, "figure") })
	if fig == nil {
		return ""
	}
	for _, c := range dom.Descendants(env.Doc, fig) {
		if dom.IsElement(c, "figcaption") {
			return strings.TrimSpace(env.Doc.Text(c))
		}
	}
	return ""
}

func isLink(env *Env, n *html.Node) bool {
	return (dom.IsElement(n, "a") && dom.HasAttr(env.Doc, n, "href")) || aria.Role(env.Doc, n) == "link"
}

func enclosingLink(env *Env, n *html.Node) *html.Node {
	return dom.Ancestor(env.Doc, n, func(p *html.Node) bool { return isLink(env, p) })
}

func enclosingControl(env *Env, n *html.Node) *html.Node {
	return dom.Ancestor(env.Doc, n, func(p *html.Node) bool {
		return isLink(env, p) || dom.IsElement(p, "button") || aria.Role(env.Doc, p) == "button"
	})
}

// containerHasOwnText reports whether n sits in a link or button that is
// named independently of n: by aria-label, or by visible text.
func containerHasOwnText(env *Env, n *html.Node) bool {
	c := enclosingControl(env, n)
	if c == nil {
		return false
	}
	if !aria.Empty(dom.AttrValue(env.Doc, c, "aria-label")) {
		return true
	}
	return !aria.Empty(aria.VisibleText(env.Doc, c))
}

// hasOwnText selects rendered elements with direct, non-blank text.
func hasOwnText(env *Env, n *html.Node) bool {
	if strings.TrimSpace(dom.OwnText(env.Doc, n)) == "" {
		return false
	}
	return env.Doc.IsVisible(n)
}

// hasText selects rendered elements with any descendant text.
func hasText(env *Env, n *html.Node) bool {
	if strings.TrimSpace(env.Doc.Text(n)) == "" {
		return false
	}
	return env.Doc.IsVisible(n)
}
