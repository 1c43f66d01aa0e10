package rules

import (
	"strings"

	"github.com/mj1618/a11y-audit/internal/animation"
	"github.com/mj1618/a11y-audit/internal/aria"
	"github.com/mj1618/a11y-audit/internal/dom"
	"github.com/mj1618/a11y-audit/internal/text"
	"golang.org/x/net/html"
)

func failIf(b bool) Outcome {
	if b {
		return Fail
	}
	return Pass
}

func imageAltPresent() *Check {
	return &Check{
		ID:       "image-alt-present",
		Selector: "img, input[type=image], area[href]",
		Exemptions: []Exemption{
			notRendered,
			ariaHidden,
			presentational,
			{Name: "aria-named", Applies: func(env *Env, n *html.Node) bool {
				return !aria.Empty(dom.AttrValue(env.Doc, n, "aria-label")) || !aria.Empty(aria.LabelledByText(env.Doc, n))
			}},
		},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(!dom.HasAttr(env.Doc, n, "alt"))
		},
	}
}

func imageAltQuality() *Check {
	return &Check{
		ID:       "image-alt-quality",
		Selector: "img[alt], input[type=image][alt], area[alt]",
		Exemptions: []Exemption{
			presentational,
			captionedFigure,
			labelledContainer,
		},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(text.AltQuality(dom.AttrValue(env.Doc, n, "alt")) != text.AltOK)
		},
	}
}

func imageAltLength() *Check {
	return &Check{
		ID:       "image-alt-length",
		Selector: "img[alt]",
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(text.TooLong(dom.AttrValue(env.Doc, n, "alt"), env.Options.AltMaxLength))
		},
	}
}

// nonEmptyAlt narrows the redundancy checks to images with a real alt.
func nonEmptyAlt(env *Env, n *html.Node) bool {
	return strings.TrimSpace(dom.AttrValue(env.Doc, n, "alt")) != ""
}

func altMatchesTitle() *Check {
	return &Check{
		ID:       "alt-matches-title",
		Selector: "img[alt][title]",
		Filter:   nonEmptyAlt,
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(text.Same(dom.AttrValue(env.Doc, n, "alt"), dom.AttrValue(env.Doc, n, "title")))
		},
	}
}

func altMatchesLinkText() *Check {
	return &Check{
		ID:       "alt-matches-link-text",
		Selector: "a[href] img[alt]",
		Filter:   nonEmptyAlt,
		Evaluate: func(env *Env, n *html.Node) Outcome {
			link := enclosingLink(env, n)
			if link == nil {
				return NotApplicable
			}
			return failIf(text.Same(dom.AttrValue(env.Doc, n, "alt"), aria.VisibleText(env.Doc, link)))
		},
	}
}

func altMatchesCaption() *Check {
	return &Check{
		ID:       "alt-matches-caption",
		Selector: "figure img[alt]",
		Filter:   nonEmptyAlt,
		Evaluate: func(env *Env, n *html.Node) Outcome {
			caption := figureCaption(env, n)
			if caption == "" {
				return NotApplicable
			}
			return failIf(text.Same(dom.AttrValue(env.Doc, n, "alt"), caption))
		},
	}
}

func altReused() *Check {
	return &Check{
		ID:       "alt-reused",
		Selector: "img[alt]",
		Filter:   nonEmptyAlt,
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(env.Alts.Reused(n))
		},
	}
}

func animatedImage() *Check {
	return &Check{
		ID:         "animated-image",
		Selector:   "img[src]",
		Exemptions: []Exemption{notRendered},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			src := strings.TrimSpace(dom.AttrValue(env.Doc, n, "src"))
			if src == "" {
				return NotApplicable
			}
			if env.Animation == nil {
				return failIf(animation.Heuristic(src))
			}
			return failIf(env.Animation.IsAnimated(env.Ctx, src))
		},
	}
}
