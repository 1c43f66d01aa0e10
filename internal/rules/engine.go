package rules

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/mj1618/a11y-audit/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// RawFailure is one check failing on one node.
type RawFailure struct {
	Rule  string
	Check string
	Node  *html.Node
}

// CheckError records a check that panicked. Its results for the scan are
// discarded.
type CheckError struct {
	Rule  string `yaml:"rule"  json:"rule"`
	Check string `yaml:"check" json:"check"`
	Error string `yaml:"error" json:"error"`
}

// Stats summarises one engine run.
type Stats struct {
	Checks      int           `yaml:"checks"         json:"checks"`
	Nodes       int           `yaml:"nodes"          json:"nodes"`
	Evaluations int           `yaml:"evaluations"    json:"evaluations"`
	Exempted    int           `yaml:"exempted"       json:"exempted"`
	Failures    int           `yaml:"failures"       json:"failures"`
	Errors      []CheckError  `yaml:"errors,omitempty" json:"errors,omitempty"`
	Elapsed     time.Duration `yaml:"elapsed"        json:"elapsed"`
}

// Engine runs a registry's checks over a document.
type Engine struct {
	Registry *Registry
	// Disabled rule slugs are skipped entirely.
	Disabled map[string]bool
	// Workers above 1 runs checks concurrently. Results are merged in
	// registration order either way.
	Workers int
	Logger  *slog.Logger
}

type checkResult struct {
	failures    []RawFailure
	evaluations int
	exempted    int
	err         *CheckError
}

// Run evaluates every enabled check against its candidates, visiting nodes
// in document order. A panicking check is isolated and recorded in Stats.
// Cancellation is observed between checks; the error is ctx.Err().
func (e *Engine) Run(ctx context.Context, env *Env) ([]RawFailure, Stats, error) {
	start := time.Now()
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nodes := dom.Descendants(env.Doc, env.Doc.Root())

	var checks []*Check
	for _, c := range e.Registry.Checks() {
		if !e.Disabled[e.Registry.Owner(c.ID)] {
			checks = append(checks, c)
		}
	}
	results := make([]checkResult, len(checks))

	var err error
	if e.Workers > 1 {
		err = e.runParallel(ctx, env, checks, nodes, results, logger)
	} else {
		for i, c := range checks {
			if err = ctx.Err(); err != nil {
				break
			}
			results[i] = e.runCheck(env, c, nodes, logger)
		}
	}

	stats := Stats{Checks: len(checks), Nodes: len(nodes)}
	var failures []RawFailure
	for _, r := range results {
		stats.Evaluations += r.evaluations
		stats.Exempted += r.exempted
		if r.err != nil {
			stats.Errors = append(stats.Errors, *r.err)
			continue
		}
		failures = append(failures, r.failures...)
	}
	stats.Failures = len(failures)
	stats.Elapsed = time.Since(start)
	if err != nil {
		return nil, stats, err
	}
	logger.Debug("checks complete", "checks", stats.Checks, "nodes", stats.Nodes, "failures", stats.Failures, "elapsed", stats.Elapsed)
	return failures, stats, nil
}

func (e *Engine) runParallel(ctx context.Context, env *Env, checks []*Check, nodes []*html.Node, results []checkResult, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Workers)
	var mu sync.Mutex
	for i, c := range checks {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := e.runCheck(env, c, nodes, logger)
			mu.Lock()
			results[i] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (e *Engine) runCheck(env *Env, c *Check, nodes []*html.Node, logger *slog.Logger) (res checkResult) {
	rule := e.Registry.Owner(c.ID)
	defer func() {
		if p := recover(); p != nil {
			logger.Warn("check panicked", "rule", rule, "check", c.ID, "panic", p)
			logger.Debug("check panic stack", "check", c.ID, "stack", string(debug.Stack()))
			res = checkResult{
				evaluations: res.evaluations,
				err:         &CheckError{Rule: rule, Check: c.ID, Error: fmt.Sprint(p)},
			}
		}
	}()
	for _, n := range nodes {
		if !c.Matches(env, n) {
			continue
		}
		res.evaluations++
		outcome, exemption := c.Decide(env, n)
		if exemption != "" {
			res.exempted++
		}
		if outcome == Fail {
			res.failures = append(res.failures, RawFailure{Rule: rule, Check: c.ID, Node: n})
		}
	}
	return res
}
