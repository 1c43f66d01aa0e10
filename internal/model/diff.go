package model

import "fmt"

// ChangeType is the kind of change between two scans.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeResolved ChangeType = "resolved"
	ChangeChanged  ChangeType = "changed"
)

// IssueChange is an issue present in both scans whose mutable fields moved.
type IssueChange struct {
	ID       string               `yaml:"id"       json:"id"`
	RuleSlug string               `yaml:"rule_slug" json:"rule_slug"`
	Changes  map[string][2]string `yaml:"changes"  json:"changes"`
}

// IssueDiff is the result of comparing two issue sets by id.
type IssueDiff struct {
	Added          []Issue       `yaml:"added,omitempty"    json:"added,omitempty"`
	Resolved       []Issue       `yaml:"resolved,omitempty" json:"resolved,omitempty"`
	Changed        []IssueChange `yaml:"changed,omitempty"  json:"changed,omitempty"`
	UnchangedCount int           `yaml:"unchanged_count"    json:"unchanged_count"`
}

// Empty reports whether nothing was added, resolved or changed.
func (d IssueDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Resolved) == 0 && len(d.Changed) == 0
}

// DiffIssues matches issues across scans by id. An id present only in curr
// is added, only in prev is resolved. Matched issues are compared on their
// mutable fields (snippet, severity, ignored).
func DiffIssues(prev, curr []Issue) IssueDiff {
	prevByID := make(map[string]Issue, len(prev))
	for _, is := range prev {
		prevByID[is.ID] = is
	}
	currByID := make(map[string]Issue, len(curr))
	for _, is := range curr {
		currByID[is.ID] = is
	}

	var diff IssueDiff
	for _, is := range curr {
		old, existed := prevByID[is.ID]
		if !existed {
			diff.Added = append(diff.Added, is)
			continue
		}
		if changes := diffIssueFields(old, is); changes != nil {
			diff.Changed = append(diff.Changed, IssueChange{ID: is.ID, RuleSlug: is.RuleSlug, Changes: changes})
		} else {
			diff.UnchangedCount++
		}
	}
	for _, is := range prev {
		if _, exists := currByID[is.ID]; !exists {
			diff.Resolved = append(diff.Resolved, is)
		}
	}
	return diff
}

func diffIssueFields(prev, curr Issue) map[string][2]string {
	diffs := make(map[string][2]string)
	if prev.Snippet != curr.Snippet {
		diffs["snippet"] = [2]string{prev.Snippet, curr.Snippet}
	}
	if prev.Severity != curr.Severity {
		diffs["severity"] = [2]string{fmt.Sprintf("%d", prev.Severity), fmt.Sprintf("%d", curr.Severity)}
	}
	if prev.Ignored != curr.Ignored {
		diffs["ignored"] = [2]string{fmt.Sprintf("%v", prev.Ignored), fmt.Sprintf("%v", curr.Ignored)}
	}
	if len(diffs) == 0 {
		return nil
	}
	return diffs
}
