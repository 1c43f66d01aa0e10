package cmd

import (
	"testing"

	"github.com/mj1618/a11y-audit/internal/model"
)

func TestScanCommand_Flags(t *testing.T) {
	flags := scanCmd.Flags()

	tests := []struct {
		name     string
		flagType string
	}{
		{"alt-max-length", "int"},
		{"small-text-px", "float64"},
		{"subheading-words", "int"},
		{"animation-timeout", "duration"},
		{"no-animation-fetch", "bool"},
		{"max-animation-bytes", "int"},
		{"disable", "stringSlice"},
		{"ignore", "stringSlice"},
		{"workers", "int"},
		{"base-url", "string"},
		{"fetch-styles", "bool"},
		{"baseline", "string"},
		{"update-baseline", "bool"},
		{"fail-on", "string"},
		{"timeout", "duration"},
	}

	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flags := serveCmd.Flags()
	for _, name := range []string{"transport", "port", "cache-ttl", "alt-max-length", "disable"} {
		if flags.Lookup(name) == nil {
			t.Errorf("expected flag %q not found", name)
		}
	}
	if got := flags.Lookup("transport").DefValue; got != "stdio" {
		t.Errorf("transport default = %q, want stdio", got)
	}
}

func TestRulesCommand_Flags(t *testing.T) {
	if rulesCmd.Flags().Lookup("type") == nil {
		t.Error("expected flag \"type\" not found")
	}
}

func TestFailOn(t *testing.T) {
	errIssue := model.Issue{ID: "a", RuleType: model.RuleError}
	warnIssue := model.Issue{ID: "b", RuleType: model.RuleWarning}
	ignoredErr := model.Issue{ID: "c", RuleType: model.RuleError, Ignored: true}

	tests := []struct {
		name    string
		level   string
		issues  []model.Issue
		want    bool
		wantErr bool
	}{
		{"none never fails", "none", []model.Issue{errIssue}, false, false},
		{"empty level never fails", "", []model.Issue{errIssue}, false, false},
		{"error with error", "error", []model.Issue{errIssue}, true, false},
		{"error with warning only", "error", []model.Issue{warnIssue}, false, false},
		{"warning with warning", "warning", []model.Issue{warnIssue}, true, false},
		{"warning with error", "warning", []model.Issue{errIssue}, true, false},
		{"ignored issues do not count", "error", []model.Issue{ignoredErr}, false, false},
		{"no issues", "warning", nil, false, false},
		{"bad level", "fatal", nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := failOn(tt.level, tt.issues)
			if (err != nil) != tt.wantErr {
				t.Fatalf("failOn(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("failOn(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}
