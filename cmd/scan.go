package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mj1618/a11y-audit/internal/model"
	"github.com/mj1618/a11y-audit/internal/output"
	"github.com/mj1618/a11y-audit/internal/scan"
	"github.com/mj1618/a11y-audit/internal/source"
	"github.com/mj1618/a11y-audit/internal/store"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <file|url|->",
	Short: "Scan an HTML document for accessibility issues",
	Long: `Scan an HTML document and print the issues found.

The document may be a file path, a file:// or http(s):// URL, or - for stdin.
With --baseline, ignore flags from the saved baseline carry forward and the
result is compared against it; --update-baseline writes the new result back.

Examples:
  a11y-audit scan index.html
  a11y-audit scan https://example.com --fetch-styles --format text
  cat page.html | a11y-audit scan - --base-url https://example.com/
  a11y-audit scan index.html --baseline .a11y-baseline.yaml --update-baseline
  a11y-audit scan index.html --baseline redis://localhost:6379/0 --fail-on error`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addScanOptionFlags(scanCmd)
	scanCmd.Flags().String("base-url", "", "Base URL for relative references (default: the document location)")
	scanCmd.Flags().Bool("fetch-styles", false, "Fetch same-origin <link rel=stylesheet> sheets")
	scanCmd.Flags().String("baseline", "", "Baseline file path or redis:// URL")
	scanCmd.Flags().Bool("update-baseline", false, "Save this scan as the new baseline")
	scanCmd.Flags().String("fail-on", "none", "Exit 2 when issues of this type remain: error, warning, none")
	scanCmd.Flags().Duration("timeout", 0, "Abandon the scan after this long (0 = no limit)")
}

func runScan(cmd *cobra.Command, args []string) error {
	location := args[0]
	opts, cfg, err := scanOptions(cmd)
	if err != nil {
		return err
	}
	failLevel, _ := cmd.Flags().GetString("fail-on")
	if _, err := failOn(failLevel, nil); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d := overallTimeout(cmd); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = cfg.BaseURL
	}
	fetchStyles, _ := cmd.Flags().GetBool("fetch-styles")
	doc, err := source.Load(ctx, location, source.Options{
		BaseURL:     baseURL,
		FetchStyles: fetchStyles,
		Stdin:       cmd.InOrStdin(),
	})
	if err != nil {
		return err
	}

	baselineTarget, _ := cmd.Flags().GetString("baseline")
	var (
		baseStore store.Store
		previous  *model.Baseline
	)
	if baselineTarget != "" {
		baseStore, err = store.Open(ctx, baselineTarget)
		if err != nil {
			return err
		}
		defer baseStore.Close()
		b, err := baseStore.Load(ctx, location)
		switch {
		case errors.Is(err, store.ErrNotFound):
			slog.Info("no baseline yet", "baseline", baselineTarget)
		case err != nil:
			return err
		default:
			previous = &b
			opts.PreviousIssues = b.Issues
		}
	}

	result, err := scan.Scan(ctx, doc, opts)
	if err != nil {
		return err
	}

	report := output.ScanReport{Source: location, Issues: result.Issues, Summary: result.Summary}
	if report.Issues == nil {
		report.Issues = []model.Issue{}
	}
	if previous != nil {
		d := model.DiffIssues(previous.Issues, result.Issues)
		report.Diff = &d
	}
	if err := output.Print(report); err != nil {
		return err
	}

	if update, _ := cmd.Flags().GetBool("update-baseline"); update {
		if baseStore == nil {
			return fmt.Errorf("--update-baseline requires --baseline")
		}
		now := opts.Now
		if now == nil {
			now = time.Now
		}
		b := model.Baseline{Source: location, CreatedAt: now().UTC(), Issues: result.Issues}
		if err := baseStore.Save(ctx, location, b); err != nil {
			return err
		}
		slog.Info("baseline updated", "baseline", baselineTarget, "issues", len(result.Issues))
	}

	failed, _ := failOn(failLevel, result.Issues)
	if failed {
		return &ExitError{Code: 2, Msg: fmt.Sprintf("%d error(s), %d warning(s) found (--fail-on %s)", result.Summary.Errors, result.Summary.Warnings, failLevel)}
	}
	return nil
}
