package issues

import (
	"github.com/mj1618/a11y-audit/internal/dom"
	"github.com/mj1618/a11y-audit/internal/model"
	"github.com/mj1618/a11y-audit/internal/rules"
	"golang.org/x/net/html"
)

// DefaultSnippetLength bounds issue snippets.
const DefaultSnippetLength = 200

// Aggregator groups raw failures by (node identity, rule).
type Aggregator struct {
	Registry      *rules.Registry
	Doc           dom.Document
	SnippetLength int

	fp *Fingerprints
}

// NewAggregator returns an aggregator for failures found in doc.
func NewAggregator(reg *rules.Registry, doc dom.Document) *Aggregator {
	return &Aggregator{Registry: reg, Doc: doc, SnippetLength: DefaultSnippetLength, fp: NewFingerprints(doc)}
}

// Aggregate collapses raw failures into issues. Failures of several checks
// combined by one rule on one node yield a single issue. An issue is marked
// ignored when an issue with the same id was ignored in previous, or when
// its id is listed in ignoredIDs. The result is sorted with
// model.SortIssues.
func (a *Aggregator) Aggregate(raw []rules.RawFailure, previous []model.Issue, ignoredIDs []string) []model.Issue {
	ignored := make(map[string]bool, len(ignoredIDs)+len(previous))
	for _, id := range ignoredIDs {
		ignored[id] = true
	}
	for _, is := range previous {
		if is.Ignored {
			ignored[is.ID] = true
		}
	}

	seen := make(map[string]bool)
	var out []model.Issue
	for _, f := range raw {
		rule, ok := a.Registry.Rule(f.Rule)
		if !ok {
			continue
		}
		id := IssueID(a.fp.Key(f.Node), rule.Slug)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, model.Issue{
			ID:            id,
			RuleSlug:      rule.Slug,
			RuleType:      rule.Type,
			Severity:      rule.Severity,
			WCAGReference: rule.WCAG,
			Snippet:       a.snippet(f.Node),
			Ignored:       ignored[id],
		})
	}
	model.SortIssues(out)
	return out
}

func (a *Aggregator) snippet(n *html.Node) string {
	max := a.SnippetLength
	if max <= 0 {
		max = DefaultSnippetLength
	}
	return dom.Snippet(a.Doc, n, max)
}
