package rules

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mj1618/a11y-audit/internal/aria"
	"github.com/mj1618/a11y-audit/internal/dom"
	"github.com/mj1618/a11y-audit/internal/heading"
	"golang.org/x/net/html"
)

func tableHasHeader() *Check {
	return &Check{
		ID:       "table-has-header",
		Selector: "table",
		Exemptions: []Exemption{
			presentational,
			notRendered,
			{Name: "single-row", Applies: func(env *Env, n *html.Node) bool {
				return len(tableRows(env, n)) < 2
			}},
		},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			for _, d := range dom.Descendants(env.Doc, n) {
				if dom.IsElement(d, "table") {
					continue
				}
				if dom.IsElement(d, "th") || aria.HasRole(env.Doc, d, "columnheader", "rowheader") {
					if owningTable(env, d) == n {
						return Pass
					}
				}
			}
			return Fail
		},
	}
}

func owningTable(env *Env, n *html.Node) *html.Node {
	return dom.Ancestor(env.Doc, n, func(p *html.Node) bool { return dom.IsElement(p, "table") })
}

func tableRows(env *Env, table *html.Node) []*html.Node {
	var rows []*html.Node
	for _, d := range dom.Descendants(env.Doc, table) {
		if dom.IsElement(d, "tr") && owningTable(env, d) == table {
			rows = append(rows, d)
		}
	}
	return rows
}

func headingOrder() *Check {
	return &Check{
		ID:       "heading-order",
		Selector: "h1, h2, h3, h4, h5, h6, [role=heading][aria-level]",
		Evaluate: func(env *Env, n *html.Node) Outcome {
			if _, ok := heading.Level(env.Doc, n); !ok {
				return NotApplicable
			}
			return failIf(env.Headings.Skipped(n))
		},
	}
}

func ariaReference(id, attr string) *Check {
	return &Check{
		ID:       id,
		Selector: "[aria-" + attr + "]",
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(!aria.ValidReference(env.Doc, n, attr))
		},
	}
}

func ariaHiddenFocusable() *Check {
	return &Check{
		ID:         "aria-hidden-focusable",
		Selector:   `[aria-hidden="true"]`,
		Exemptions: []Exemption{notRendered},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			if aria.Focusable(env.Doc, n) {
				return Fail
			}
			for _, d := range dom.Descendants(env.Doc, n) {
				if env.Doc.IsVisible(d) && aria.Focusable(env.Doc, d) {
					return Fail
				}
			}
			return Pass
		},
	}
}

func skipLinkTarget() *Check {
	return &Check{
		ID:       "skip-link-target",
		Selector: `a[href^="#"]`,
		Evaluate: func(env *Env, n *html.Node) Outcome {
			frag := strings.TrimPrefix(strings.TrimSpace(dom.AttrValue(env.Doc, n, "href")), "#")
			// "#" and "#top" scroll to the top of the document.
			if frag == "" || strings.EqualFold(frag, "top") || strings.HasPrefix(frag, "!") || strings.HasPrefix(frag, "/") {
				return NotApplicable
			}
			if unescaped, err := url.PathUnescape(frag); err == nil {
				frag = unescaped
			}
			if env.Doc.ElementByID(frag) != nil {
				return Pass
			}
			named := dom.Find(env.Doc, func(c *html.Node) bool {
				return dom.IsElement(c, "a") && dom.AttrValue(env.Doc, c, "name") == frag
			})
			return failIf(named == nil)
		},
	}
}

func iframeHasTitle() *Check {
	return &Check{
		ID:         "iframe-has-title",
		Selector:   "iframe, frame",
		Exemptions: []Exemption{notRendered, ariaHidden, presentational},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			for _, attr := range []string{"title", "aria-label"} {
				if !aria.Empty(dom.AttrValue(env.Doc, n, attr)) {
					return Pass
				}
			}
			return failIf(aria.Empty(aria.LabelledByText(env.Doc, n)))
		},
	}
}

func htmlHasLang() *Check {
	return &Check{
		ID:       "html-has-lang",
		Selector: "html",
		Evaluate: func(env *Env, n *html.Node) Outcome {
			for _, attr := range []string{"lang", "xml:lang"} {
				if strings.TrimSpace(dom.AttrValue(env.Doc, n, attr)) != "" {
					return Pass
				}
			}
			return Fail
		},
	}
}

func documentTitle() *Check {
	return &Check{
		ID:       "document-title",
		Selector: "html",
		Evaluate: func(env *Env, n *html.Node) Outcome {
			for _, d := range dom.Descendants(env.Doc, n) {
				if dom.IsElement(d, "title") && dom.Ancestor(env.Doc, d, func(p *html.Node) bool { return dom.IsElement(p, "svg") }) == nil {
					return failIf(aria.Empty(env.Doc.Text(d)))
				}
			}
			return Fail
		},
	}
}

func blinkMarquee() *Check {
	return &Check{
		ID:       "blink-marquee",
		Selector: "blink, marquee",
		Evaluate: func(env *Env, n *html.Node) Outcome { return Fail },
	}
}

func idUnique() *Check {
	return &Check{
		ID:       "id-unique",
		Selector: "[id]",
		Evaluate: func(env *Env, n *html.Node) Outcome {
			id := dom.AttrValue(env.Doc, n, "id")
			if id == "" {
				return NotApplicable
			}
			first := env.Doc.ElementByID(id)
			return failIf(first != nil && first != n)
		},
	}
}

func tabindexPositive() *Check {
	return &Check{
		ID:       "tabindex-positive",
		Selector: "[tabindex]",
		Evaluate: func(env *Env, n *html.Node) Outcome {
			v, err := strconv.Atoi(strings.TrimSpace(dom.AttrValue(env.Doc, n, "tabindex")))
			if err != nil {
				return NotApplicable
			}
			return failIf(v > 0)
		},
	}
}

// embeddedContent counts as paragraph content even without text.
var embeddedContent = []string{"img", "svg", "iframe", "video", "audio", "canvas", "object", "embed", "input", "select", "textarea", "button", "picture", "math", "br"}

func paragraphNotEmpty() *Check {
	return &Check{
		ID:       "paragraph-not-empty",
		Selector: "p",
		Evaluate: func(env *Env, n *html.Node) Outcome {
			if !aria.Empty(env.Doc.Text(n)) {
				return Pass
			}
			for _, d := range dom.Descendants(env.Doc, n) {
				if dom.IsElement(d, embeddedContent...) {
					return Pass
				}
			}
			return Fail
		},
	}
}

func hasSubheadings() *Check {
	return &Check{
		ID:       "has-subheadings",
		Selector: "body",
		Evaluate: func(env *Env, n *html.Node) Outcome {
			words := len(strings.Fields(aria.VisibleText(env.Doc, n)))
			if words < env.Options.SubheadingWords {
				return NotApplicable
			}
			for _, d := range dom.Descendants(env.Doc, n) {
				if _, ok := heading.Level(env.Doc, d); ok {
					return Pass
				}
			}
			return Fail
		},
	}
}
