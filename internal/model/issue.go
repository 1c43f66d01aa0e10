// Package model holds the issue records a scan reports and the helpers that
// compare and persist them.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// RuleType classifies a rule as a hard failure or an advisory.
type RuleType string

const (
	RuleError   RuleType = "error"
	RuleWarning RuleType = "warning"
)

// ParseRuleType accepts "error" or "warning", case-insensitively.
func ParseRuleType(s string) (RuleType, error) {
	switch RuleType(strings.ToLower(strings.TrimSpace(s))) {
	case RuleError:
		return RuleError, nil
	case RuleWarning:
		return RuleWarning, nil
	}
	return "", fmt.Errorf("unknown rule type %q (valid: error, warning)", s)
}

// Severity ranks impact from 1 (critical) to 4 (low).
type Severity int

const (
	SeverityCritical Severity = 1
	SeverityHigh     Severity = 2
	SeverityMedium   Severity = 3
	SeverityLow      Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Valid reports whether s is in 1..4.
func (s Severity) Valid() bool { return s >= SeverityCritical && s <= SeverityLow }

// Issue is a deduplicated finding. ID is derived from the failing node's
// content fingerprint and the rule slug, so it survives rescans.
type Issue struct {
	ID            string   `yaml:"id"             json:"id"`
	RuleSlug      string   `yaml:"rule_slug"      json:"rule_slug"`
	RuleType      RuleType `yaml:"rule_type"      json:"rule_type"`
	Severity      Severity `yaml:"severity"       json:"severity"`
	WCAGReference string   `yaml:"wcag_reference" json:"wcag_reference"`
	Snippet       string   `yaml:"snippet"        json:"snippet"`
	Ignored       bool     `yaml:"ignored"        json:"ignored"`
}

// SortIssues orders issues by severity, then rule slug, then id, so output
// does not depend on check scheduling.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		if a.RuleSlug != b.RuleSlug {
			return a.RuleSlug < b.RuleSlug
		}
		return a.ID < b.ID
	})
}

// CountByType tallies issues that are not ignored.
func CountByType(issues []Issue) map[RuleType]int {
	counts := map[RuleType]int{RuleError: 0, RuleWarning: 0}
	for _, is := range issues {
		if !is.Ignored {
			counts[is.RuleType]++
		}
	}
	return counts
}

// IgnoredIDs returns the ids of issues flagged ignored.
func IgnoredIDs(issues []Issue) []string {
	var ids []string
	for _, is := range issues {
		if is.Ignored {
			ids = append(ids, is.ID)
		}
	}
	return ids
}
