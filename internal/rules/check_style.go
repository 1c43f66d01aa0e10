package rules

import (
	"strings"
	"unicode/utf8"

	"github.com/mj1618/a11y-audit/internal/dom"
	"golang.org/x/net/html"
)

func colorContrast() *Check {
	return &Check{
		ID:       "color-contrast",
		Selector: "*",
		Filter:   hasOwnText,
		Exemptions: []Exemption{
			ariaHidden,
			{Name: "disabled-control", Applies: func(env *Env, n *html.Node) bool {
				return dom.HasAttr(env.Doc, n, "disabled") || strings.EqualFold(dom.AttrValue(env.Doc, n, "aria-disabled"), "true")
			}},
		},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			res, ok := env.Contrast.Evaluate(n)
			if !ok {
				return NotApplicable
			}
			return failIf(!res.Pass())
		},
	}
}

func textSize() *Check {
	return &Check{
		ID:         "text-size",
		Selector:   "*",
		Filter:     hasOwnText,
		Exemptions: []Exemption{ariaHidden},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(env.Style.FontPx(n) < env.Options.SmallTextPx)
		},
	}
}

func textJustified() *Check {
	return &Check{
		ID:       "text-justified",
		Selector: "*",
		Filter:   hasText,
		Evaluate: func(env *Env, n *html.Node) Outcome {
			if v, ok := env.Style.Declared(n, "text-align"); ok {
				return failIf(strings.EqualFold(v, "justify"))
			}
			return failIf(strings.EqualFold(strings.TrimSpace(dom.AttrValue(env.Doc, n, "align")), "justify"))
		},
	}
}

func underlinedText() *Check {
	return &Check{
		ID:         "underlined-text",
		Selector:   "*",
		Filter:     hasText,
		Exemptions: []Exemption{insideLink},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			if dom.IsElement(n, "u") {
				return Fail
			}
			v, ok := env.Style.Declared(n, "text-decoration-line")
			return failIf(ok && strings.Contains(strings.ToLower(v), "underline"))
		},
	}
}

// headingLikePx is the rendered size from which a short paragraph reads as
// a heading.
const headingLikePx = 20

func paragraphStyledAsHeading() *Check {
	return &Check{
		ID:       "paragraph-styled-as-heading",
		Selector: "p",
		Filter:   hasText,
		Evaluate: func(env *Env, n *html.Node) Outcome {
			t := strings.Join(strings.Fields(env.Doc.Text(n)), " ")
			if utf8.RuneCountInString(t) > 50 || strings.ContainsAny(t[len(t)-1:], ".:,;!?") {
				return Pass
			}
			if env.Style.FontPx(n) >= headingLikePx {
				return Fail
			}
			return failIf(env.Style.Bold(n) || wholeTextEmphasised(env, n))
		},
	}
}

// wholeTextEmphasised reports whether all of n's text sits inside b/strong
// children.
func wholeTextEmphasised(env *Env, n *html.Node) bool {
	if strings.TrimSpace(dom.OwnText(env.Doc, n)) != "" {
		return false
	}
	found := false
	for _, c := range dom.Elements(env.Doc, n) {
		if strings.TrimSpace(env.Doc.Text(c)) == "" {
			continue
		}
		if !dom.IsElement(c, "b", "strong") && !env.Style.Bold(c) {
			return false
		}
		found = true
	}
	return found
}
