package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mj1618/a11y-audit/internal/model"
)

// writeText renders the report types as aligned tables. Other values fall
// back to YAML.
func writeText(w io.Writer, v interface{}) error {
	switch r := v.(type) {
	case ScanReport:
		return writeScanText(w, r)
	case *ScanReport:
		return writeScanText(w, *r)
	case RulesReport:
		return writeRulesText(w, r)
	case model.IssueDiff:
		return writeDiffText(w, r)
	}
	return writeYAML(w, v)
}

func writeScanText(w io.Writer, r ScanReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tRULE\tTYPE\tSEV\tWCAG\tSNIPPET\n")
	for _, is := range r.Issues {
		rule := is.RuleSlug
		if is.Ignored {
			rule += " (ignored)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", is.ID, rule, is.RuleType, is.Severity, is.WCAGReference, oneLine(is.Snippet, 80))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	s := r.Summary
	_, err := fmt.Fprintf(w, "\n%s: %d errors, %d warnings, %d ignored (%d checks over %d elements in %s)\n",
		r.Source, s.Errors, s.Warnings, s.Ignored, s.Engine.Checks, s.Engine.Nodes, s.Engine.Elapsed.Round(1e6))
	if err != nil {
		return err
	}
	for _, ce := range s.Engine.Errors {
		fmt.Fprintf(w, "check %s (%s) failed: %s\n", ce.Check, ce.Rule, ce.Error)
	}
	if r.Diff != nil {
		fmt.Fprintln(w)
		return writeDiffText(w, *r.Diff)
	}
	return nil
}

func writeRulesText(w io.Writer, r RulesReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "RULE\tTYPE\tSEV\tWCAG\tCHECKS\tDESCRIPTION\n")
	for _, rule := range r.Rules {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", rule.Slug, rule.Type, rule.Severity, rule.WCAG, strings.Join(rule.Combines, ","), rule.Description)
	}
	return tw.Flush()
}

func writeDiffText(w io.Writer, d model.IssueDiff) error {
	for _, is := range d.Added {
		fmt.Fprintf(w, "+ %s %s %s\n", is.ID, is.RuleSlug, oneLine(is.Snippet, 80))
	}
	for _, is := range d.Resolved {
		fmt.Fprintf(w, "- %s %s %s\n", is.ID, is.RuleSlug, oneLine(is.Snippet, 80))
	}
	for _, c := range d.Changed {
		fmt.Fprintf(w, "~ %s %s %d field(s)\n", c.ID, c.RuleSlug, len(c.Changes))
	}
	_, err := fmt.Fprintf(w, "%d added, %d resolved, %d changed, %d unchanged\n", len(d.Added), len(d.Resolved), len(d.Changed), d.UnchangedCount)
	return err
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}
