// Package rules holds the check catalog and the engine that runs it over a
// document.
//
// A Check is a predicate over one candidate node. A Rule is the user-facing
// grouping of one or more checks with shared metadata. Each check is an
// ordered list of exemptions followed by a base predicate: the first
// exemption that applies decides the node passes, otherwise the predicate
// decides.
package rules

import (
	"context"
	"log/slog"

	"github.com/andybalholm/cascadia"
	"github.com/mj1618/a11y-audit/internal/contrast"
	"github.com/mj1618/a11y-audit/internal/dom"
	"github.com/mj1618/a11y-audit/internal/heading"
	"github.com/mj1618/a11y-audit/internal/model"
	"github.com/mj1618/a11y-audit/internal/style"
	"github.com/mj1618/a11y-audit/internal/text"
	"golang.org/x/net/html"
)

// Outcome is the verdict of a check on one node.
type Outcome int

const (
	NotApplicable Outcome = iota
	Pass
	Fail
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	}
	return "not-applicable"
}

// Exemption is a named predicate that, when it applies, makes a candidate
// pass without consulting the check's base predicate.
type Exemption struct {
	Name    string
	Applies func(env *Env, n *html.Node) bool
}

// Check is a single predicate evaluated per candidate node.
type Check struct {
	ID string
	// Selector picks candidates, as a CSS selector group.
	Selector string
	// Filter narrows candidates further where a selector cannot express
	// the condition (e.g. "has own text"). Optional.
	Filter     func(env *Env, n *html.Node) bool
	Exemptions []Exemption
	Evaluate   func(env *Env, n *html.Node) Outcome

	matcher cascadia.SelectorGroup
}

// Decide runs the exemption table then the base predicate.
func (c *Check) Decide(env *Env, n *html.Node) (Outcome, string) {
	for _, ex := range c.Exemptions {
		if ex.Applies(env, n) {
			return Pass, ex.Name
		}
	}
	return c.Evaluate(env, n), ""
}

// Matches reports whether n is a candidate for c.
func (c *Check) Matches(env *Env, n *html.Node) bool {
	if !c.matcher.Match(n) {
		return false
	}
	return c.Filter == nil || c.Filter(env, n)
}

// Rule is a user-facing finding type.
type Rule struct {
	Slug        string         `yaml:"slug"           json:"slug"`
	Type        model.RuleType `yaml:"type"           json:"type"`
	Severity    model.Severity `yaml:"severity"       json:"severity"`
	WCAG        string         `yaml:"wcag"           json:"wcag"`
	Description string         `yaml:"description"    json:"description"`
	Combines    []string       `yaml:"combines"       json:"combines"`
	Selectors   []string       `yaml:"selectors"      json:"selectors"`
}

// Options are the tunable check thresholds.
type Options struct {
	AltMaxLength    int
	SmallTextPx     float64
	SubheadingWords int
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		AltMaxLength:    text.DefaultAltMaxLength,
		SmallTextPx:     10,
		SubheadingWords: 400,
	}
}

// AnimationDetector answers whether an image reference is animated.
type AnimationDetector interface {
	IsAnimated(ctx context.Context, ref string) bool
}

// Env is the read-only state shared by every check in one scan.
type Env struct {
	Ctx       context.Context
	Doc       dom.Document
	Style     *style.Resolver
	Contrast  *contrast.Analyzer
	Headings  *heading.Validator
	Alts      *text.AltIndex
	Animation AnimationDetector
	Options   Options
	Logger    *slog.Logger
}

// NewEnv builds the shared analytic state for doc. A nil detector disables
// the animated-image check's byte inspection; the heuristic still applies.
func NewEnv(ctx context.Context, doc dom.Document, opts Options, detector AnimationDetector, logger *slog.Logger) *Env {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultOptions()
	if opts.AltMaxLength <= 0 {
		opts.AltMaxLength = defaults.AltMaxLength
	}
	if opts.SmallTextPx <= 0 {
		opts.SmallTextPx = defaults.SmallTextPx
	}
	if opts.SubheadingWords <= 0 {
		opts.SubheadingWords = defaults.SubheadingWords
	}
	return &Env{
		Ctx:       ctx,
		Doc:       doc,
		Style:     style.NewResolver(doc),
		Contrast:  contrast.NewAnalyzer(doc),
		Headings:  heading.NewValidator(doc),
		Alts:      text.NewAltIndex(doc),
		Animation: detector,
		Options:   opts,
		Logger:    logger,
	}
}
