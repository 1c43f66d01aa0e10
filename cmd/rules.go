package cmd

import (
	"github.com/mj1618/a11y-audit/internal/model"
	"github.com/mj1618/a11y-audit/internal/output"
	"github.com/mj1618/a11y-audit/internal/rules"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules the scanner checks",
	Long:  "List every rule with its type, severity, WCAG reference and the checks it combines.",
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().String("type", "", "Filter by rule type: error, warning")
}

func runRules(cmd *cobra.Command, args []string) error {
	filter, _ := cmd.Flags().GetString("type")
	var want model.RuleType
	if filter != "" {
		t, err := model.ParseRuleType(filter)
		if err != nil {
			return err
		}
		want = t
	}
	report := output.RulesReport{Rules: []rules.Rule{}}
	for _, r := range rules.Default().Rules() {
		if want == "" || r.Type == want {
			report.Rules = append(report.Rules, r)
		}
	}
	return output.Print(report)
}
