package rules

import (
	"strings"

	"github.com/mj1618/a11y-audit/internal/aria"
	"github.com/mj1618/a11y-audit/internal/dom"
	"github.com/mj1618/a11y-audit/internal/text"
	"golang.org/x/net/html"
)

// nameExemptions apply to every "has a name" check on interactive content.
var nameExemptions = []Exemption{notRendered, ariaHidden, srOnlySibling, namedGlyph}

func buttonHasName() *Check {
	return &Check{
		ID:         "button-has-name",
		Selector:   "button, [role=button], input[type=submit], input[type=button], input[type=reset]",
		Exemptions: nameExemptions,
		Evaluate: func(env *Env, n *html.Node) Outcome {
			if dom.IsElement(n, "input") {
				t := strings.ToLower(dom.AttrValue(env.Doc, n, "type"))
				if (t == "submit" || t == "reset") && !dom.HasAttr(env.Doc, n, "value") {
					// Browsers label these "Submit" / "Reset".
					return Pass
				}
				return failIf(aria.Empty(aria.ControlName(env.Doc, n)))
			}
			return failIf(aria.Empty(aria.Name(env.Doc, n)))
		},
	}
}

func linkHasName() *Check {
	return &Check{
		ID:         "link-has-name",
		Selector:   "a[href], [role=link]",
		Exemptions: nameExemptions,
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(aria.Empty(aria.Name(env.Doc, n)))
		},
	}
}

func headingHasContent() *Check {
	return &Check{
		ID:         "heading-has-content",
		Selector:   "h1, h2, h3, h4, h5, h6, [role=heading]",
		Exemptions: []Exemption{notRendered, ariaHidden, presentational},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(aria.Empty(aria.Name(env.Doc, n)))
		},
	}
}

func tableHeaderHasContent() *Check {
	return &Check{
		ID:         "th-has-content",
		Selector:   "th, [role=columnheader], [role=rowheader]",
		Exemptions: []Exemption{notRendered, ariaHidden, srOnlySibling},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(aria.Empty(aria.Name(env.Doc, n)))
		},
	}
}

// labelableInput excludes input types that are labelled by their value or
// are not user-facing.
func labelableInput(env *Env, n *html.Node) bool {
	if !dom.IsElement(n, "input") {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(dom.AttrValue(env.Doc, n, "type"))) {
	case "hidden", "submit", "button", "reset", "image":
		return false
	}
	return true
}

func inputHasLabel() *Check {
	return &Check{
		ID:         "input-has-label",
		Selector:   "input, select, textarea",
		Filter:     labelableInput,
		Exemptions: []Exemption{notRendered, ariaHidden},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(aria.Empty(aria.ControlName(env.Doc, n)))
		},
	}
}

func labelNotDuplicated() *Check {
	return &Check{
		ID:       "label-not-duplicated",
		Selector: "input[id], select[id], textarea[id]",
		Filter:   labelableInput,
		Evaluate: func(env *Env, n *html.Node) Outcome {
			id := dom.AttrValue(env.Doc, n, "id")
			if id == "" {
				return NotApplicable
			}
			return failIf(len(aria.Labels(env.Doc, id)) > 1)
		},
	}
}

func linkPurpose() *Check {
	return &Check{
		ID:         "link-purpose",
		Selector:   "a[href], [role=link]",
		Exemptions: []Exemption{notRendered, ariaHidden},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			name := aria.Name(env.Doc, n)
			if aria.Empty(name) {
				return NotApplicable
			}
			return failIf(text.Ambiguous(name))
		},
	}
}
