package model

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func sampleIssues() []Issue {
	return []Issue{
		{ID: "b2", RuleSlug: "empty_link", RuleType: RuleError, Severity: 1, WCAGReference: "2.4.4", Snippet: `<a href="/">`},
		{ID: "a1", RuleSlug: "text_small", RuleType: RuleWarning, Severity: 3, WCAGReference: "1.4.4", Snippet: "<p>tiny</p>", Ignored: true},
		{ID: "c3", RuleSlug: "empty_button", RuleType: RuleError, Severity: 1, WCAGReference: "4.1.2", Snippet: "<button>"},
	}
}

func TestSortIssues(t *testing.T) {
	issues := sampleIssues()
	SortIssues(issues)
	var ids []string
	for _, is := range issues {
		ids = append(ids, is.ID)
	}
	if got := strings.Join(ids, ","); got != "c3,b2,a1" {
		t.Errorf("order = %s, want c3,b2,a1 (severity, then slug)", got)
	}
}

func TestCountByTypeAndIgnoredIDs(t *testing.T) {
	issues := sampleIssues()
	counts := CountByType(issues)
	if counts[RuleError] != 2 || counts[RuleWarning] != 0 {
		t.Errorf("CountByType = %v", counts)
	}
	if got := IgnoredIDs(issues); !reflect.DeepEqual(got, []string{"a1"}) {
		t.Errorf("IgnoredIDs = %v", got)
	}
}

func TestParseRuleType(t *testing.T) {
	tests := []struct {
		in      string
		want    RuleType
		wantErr bool
	}{
		{"error", RuleError, false},
		{" Warning ", RuleWarning, false},
		{"info", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRuleType(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRuleType(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSeverity(t *testing.T) {
	if SeverityCritical.String() != "critical" || SeverityLow.String() != "low" {
		t.Error("severity names wrong")
	}
	if Severity(0).Valid() || Severity(5).Valid() || !Severity(2).Valid() {
		t.Error("Valid range wrong")
	}
}

func TestDiffIssues(t *testing.T) {
	prev := sampleIssues()
	curr := []Issue{
		prev[0],
		{ID: "a1", RuleSlug: "text_small", RuleType: RuleWarning, Severity: 3, Snippet: "<p>tiny text</p>", Ignored: false},
		{ID: "d4", RuleSlug: "duplicate_id", RuleType: RuleWarning, Severity: 3},
	}

	diff := DiffIssues(prev, curr)
	if len(diff.Added) != 1 || diff.Added[0].ID != "d4" {
		t.Errorf("Added = %+v", diff.Added)
	}
	if len(diff.Resolved) != 1 || diff.Resolved[0].ID != "c3" {
		t.Errorf("Resolved = %+v", diff.Resolved)
	}
	if len(diff.Changed) != 1 {
		t.Fatalf("Changed = %+v", diff.Changed)
	}
	ch := diff.Changed[0]
	if ch.ID != "a1" || ch.Changes["snippet"] != [2]string{"<p>tiny</p>", "<p>tiny text</p>"} || ch.Changes["ignored"] != [2]string{"true", "false"} {
		t.Errorf("Changed[0] = %+v", ch)
	}
	if _, ok := ch.Changes["severity"]; ok {
		t.Error("unchanged severity reported")
	}
	if diff.UnchangedCount != 1 {
		t.Errorf("UnchangedCount = %d", diff.UnchangedCount)
	}
	if diff.Empty() {
		t.Error("diff reported empty")
	}
	if !DiffIssues(curr, curr).Empty() {
		t.Error("self diff not empty")
	}
}

func TestBaseline_SaveLoad(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	b := Baseline{Source: "https://example.com/", CreatedAt: created, Issues: sampleIssues()}

	for _, name := range []string{"baseline.yaml", "nested/dir/baseline.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := SaveBaseline(path, b); err != nil {
				t.Fatalf("SaveBaseline: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			isJSON := strings.HasPrefix(string(data), "{")
			if isJSON != strings.HasSuffix(name, ".json") {
				t.Errorf("format mismatch for %s: %q", name, data[:20])
			}
			got, err := LoadBaseline(path)
			if err != nil {
				t.Fatalf("LoadBaseline: %v", err)
			}
			if got.Source != b.Source || !got.CreatedAt.Equal(created) || !reflect.DeepEqual(got.Issues, b.Issues) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, b)
			}
		})
	}
}

func TestDecodeBaseline_IssueLists(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"json list", `[{"id": "x1", "rule_slug": "empty_link", "ignored": true}]`},
		{"yaml list", "- id: x1\n  rule_slug: empty_link\n  ignored: true\n"},
		{"scan report", "source: page.html\nissues:\n  - id: x1\n    rule_slug: empty_link\n    ignored: true\nsummary:\n  errors: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := DecodeBaseline([]byte(tt.data))
			if err != nil {
				t.Fatal(err)
			}
			if len(b.Issues) != 1 || b.Issues[0].ID != "x1" || !b.Issues[0].Ignored {
				t.Errorf("Issues = %+v", b.Issues)
			}
		})
	}

	if _, err := DecodeBaseline([]byte("{not json")); err == nil {
		t.Error("malformed JSON accepted")
	}
	if _, err := LoadBaseline(filepath.Join(t.TempDir(), "absent.yaml")); err == nil || !strings.Contains(err.Error(), "load baseline") {
		t.Errorf("LoadBaseline(absent) error = %v", err)
	}
}
