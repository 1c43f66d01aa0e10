package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/a11y-audit/internal/config"
	"github.com/mj1618/a11y-audit/internal/model"
	"github.com/mj1618/a11y-audit/internal/scan"
	"github.com/spf13/cobra"
)

// addScanOptionFlags registers the flags that tune checks. Shared by scan
// and serve.
func addScanOptionFlags(cmd *cobra.Command) {
	d := scan.DefaultOptions()
	cmd.Flags().Int("alt-max-length", d.AltMaxLength, "Report alt text longer than this many characters")
	cmd.Flags().Float64("small-text-px", d.SmallTextPx, "Report text rendered below this many pixels")
	cmd.Flags().Int("subheading-words", d.SubheadingWords, "Word count above which content needs headings")
	cmd.Flags().Duration("animation-timeout", d.AnimationTimeout, "Timeout for each image fetch during animation detection")
	cmd.Flags().Bool("no-animation-fetch", false, "Detect animated images from their names only")
	cmd.Flags().Int("max-animation-bytes", d.MaxAnimationBytes, "Leading image bytes inspected for animation")
	cmd.Flags().StringSlice("disable", nil, "Rule slugs to skip (repeatable)")
	cmd.Flags().StringSlice("ignore", nil, "Issue ids to mark ignored (repeatable)")
	cmd.Flags().Int("workers", d.Workers, "Checks evaluated concurrently")
}

// scanOptions layers defaults, the config file and explicitly set flags,
// later wins.
func scanOptions(cmd *cobra.Command) (scan.Options, *config.Config, error) {
	opts := scan.DefaultOptions()
	path, _ := rootCmd.PersistentFlags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return opts, nil, err
	}
	cfg.Apply(&opts)

	flags := cmd.Flags()
	if flags.Changed("alt-max-length") {
		opts.AltMaxLength, _ = flags.GetInt("alt-max-length")
	}
	if flags.Changed("small-text-px") {
		opts.SmallTextPx, _ = flags.GetFloat64("small-text-px")
	}
	if flags.Changed("subheading-words") {
		opts.SubheadingWords, _ = flags.GetInt("subheading-words")
	}
	if flags.Changed("animation-timeout") {
		opts.AnimationTimeout, _ = flags.GetDuration("animation-timeout")
	}
	if noFetch, _ := flags.GetBool("no-animation-fetch"); noFetch {
		opts.AnimationFetch = false
	}
	if flags.Changed("max-animation-bytes") {
		opts.MaxAnimationBytes, _ = flags.GetInt("max-animation-bytes")
	}
	if flags.Changed("workers") {
		opts.Workers, _ = flags.GetInt("workers")
	}
	disabled, _ := flags.GetStringSlice("disable")
	opts.DisabledRules = append(opts.DisabledRules, disabled...)
	ignored, _ := flags.GetStringSlice("ignore")
	opts.IgnoredIssueIDs = append(opts.IgnoredIssueIDs, ignored...)

	if opts.AltMaxLength <= 0 || opts.SmallTextPx <= 0 || opts.SubheadingWords <= 0 {
		return opts, nil, fmt.Errorf("thresholds must be positive")
	}
	if opts.Workers < 1 {
		return opts, nil, fmt.Errorf("--workers must be at least 1")
	}
	return opts, cfg, nil
}

// failOn reports whether issues should fail the run under level
// (error, warning or none).
func failOn(level string, issues []model.Issue) (bool, error) {
	counts := model.CountByType(issues)
	switch level {
	case "none", "":
		return false, nil
	case "error":
		return counts[model.RuleError] > 0, nil
	case "warning":
		return counts[model.RuleError]+counts[model.RuleWarning] > 0, nil
	}
	return false, fmt.Errorf("unsupported --fail-on: %s (use error, warning, or none)", level)
}

// overallTimeout returns 0 for no limit.
func overallTimeout(cmd *cobra.Command) time.Duration {
	d, _ := cmd.Flags().GetDuration("timeout")
	return d
}
