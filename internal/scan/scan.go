// Package scan is the entry point that runs the check catalog over one
// document and returns its issues.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mj1618/a11y-audit/internal/animation"
	"github.com/mj1618/a11y-audit/internal/dom"
	"github.com/mj1618/a11y-audit/internal/issues"
	"github.com/mj1618/a11y-audit/internal/model"
	"github.com/mj1618/a11y-audit/internal/rules"
	"github.com/mj1618/a11y-audit/internal/text"
)

// ErrCanceled is returned when the context is canceled mid-scan.
var ErrCanceled = context.Canceled

// Options configures one scan. Start from DefaultOptions; zero thresholds
// fall back to the stock values.
type Options struct {
	AltMaxLength      int
	SmallTextPx       float64
	SubheadingWords   int
	AnimationTimeout  time.Duration
	AnimationFetch    bool
	MaxAnimationBytes int
	DisabledRules     []string
	IgnoredIssueIDs   []string
	// PreviousIssues are the issues of an earlier scan of the same
	// document; their ignored flags carry forward.
	PreviousIssues []model.Issue
	Workers        int

	// Fetcher overrides how image bytes are read. Nil uses HTTP and file
	// access.
	Fetcher animation.Fetcher
	// Now stamps the result. Nil uses time.Now.
	Now      func() time.Time
	Registry *rules.Registry
	Logger   *slog.Logger
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		AltMaxLength:      text.DefaultAltMaxLength,
		SmallTextPx:       10,
		SubheadingWords:   400,
		AnimationTimeout:  animation.DefaultTimeout,
		AnimationFetch:    true,
		MaxAnimationBytes: animation.DefaultWindow,
		Workers:           1,
	}
}

// Summary describes a completed scan.
type Summary struct {
	StartedAt time.Time      `yaml:"started_at" json:"started_at"`
	Errors    int            `yaml:"errors"     json:"errors"`
	Warnings  int            `yaml:"warnings"   json:"warnings"`
	Ignored   int            `yaml:"ignored"    json:"ignored"`
	Engine    rules.Stats    `yaml:"engine"     json:"engine"`
	ByRule    map[string]int `yaml:"by_rule"    json:"by_rule"`
}

// Result is the outcome of Scan.
type Result struct {
	Issues  []model.Issue `yaml:"issues"  json:"issues"`
	Summary Summary       `yaml:"summary" json:"summary"`
}

// Scan runs every enabled rule over doc and aggregates the failures. The
// only error it returns is ctx.Err() when the scan is abandoned.
func Scan(ctx context.Context, doc dom.Document, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	reg := opts.Registry
	if reg == nil {
		reg = rules.Default()
	}
	for _, slug := range opts.DisabledRules {
		if _, ok := reg.Rule(slug); !ok {
			logger.Warn("unknown rule in disabled list", "rule", slug)
		}
	}
	started := now()

	detector := animation.NewDetector(animation.Options{
		Fetcher: opts.Fetcher,
		Fetch:   opts.AnimationFetch,
		Timeout: opts.AnimationTimeout,
		Window:  opts.MaxAnimationBytes,
		BaseURL: doc.BaseURL(),
		Logger:  logger,
	})
	env := rules.NewEnv(ctx, doc, rules.Options{
		AltMaxLength:    opts.AltMaxLength,
		SmallTextPx:     opts.SmallTextPx,
		SubheadingWords: opts.SubheadingWords,
	}, detector, logger)

	engine := &rules.Engine{
		Registry: reg,
		Disabled: toSet(opts.DisabledRules),
		Workers:  opts.Workers,
		Logger:   logger,
	}
	// Image fetches run alongside the engine; the animated-image check then
	// reads a memoised verdict or joins the fetch in flight.
	prefetched := make(chan struct{})
	go func() {
		defer close(prefetched)
		if owner := reg.Owner("animated-image"); owner != "" && !engine.Disabled[owner] {
			detector.Prefetch(ctx, imageSources(doc))
		}
	}()
	raw, stats, err := engine.Run(ctx, env)
	<-prefetched
	if err != nil {
		return Result{}, fmt.Errorf("scan: %w", err)
	}

	found := issues.NewAggregator(reg, doc).Aggregate(raw, opts.PreviousIssues, opts.IgnoredIssueIDs)
	summary := Summary{StartedAt: started, Engine: stats, ByRule: make(map[string]int)}
	for _, is := range found {
		if is.Ignored {
			summary.Ignored++
			continue
		}
		summary.ByRule[is.RuleSlug]++
		switch is.RuleType {
		case model.RuleError:
			summary.Errors++
		case model.RuleWarning:
			summary.Warnings++
		}
	}
	logger.Debug("scan complete", "issues", len(found), "errors", summary.Errors, "warnings", summary.Warnings, "ignored", summary.Ignored)
	return Result{Issues: found, Summary: summary}, nil
}

// imageSources lists the src of every rendered img element.
func imageSources(doc dom.Document) []string {
	var refs []string
	for _, n := range dom.Descendants(doc, doc.Root()) {
		if !dom.IsElement(n, "img") || !doc.IsVisible(n) {
			continue
		}
		if src := strings.TrimSpace(dom.AttrValue(doc, n, "src")); src != "" {
			refs = append(refs, src)
		}
	}
	return refs
}

func toSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s] = true
	}
	return set
}
