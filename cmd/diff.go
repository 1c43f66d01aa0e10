package cmd

import (
	"github.com/mj1618/a11y-audit/internal/model"
	"github.com/mj1618/a11y-audit/internal/output"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare two saved scans",
	Long: `Compare two saved scans (baseline files or scan output) by issue id and
list the issues added, resolved and changed.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	prev, err := model.LoadBaseline(args[0])
	if err != nil {
		return err
	}
	curr, err := model.LoadBaseline(args[1])
	if err != nil {
		return err
	}
	return output.Print(model.DiffIssues(prev.Issues, curr.Issues))
}
