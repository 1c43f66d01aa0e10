package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mj1618/a11y-audit/internal/logging"
	"github.com/mj1618/a11y-audit/internal/output"
	"github.com/mj1618/a11y-audit/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "a11y-audit",
	Short: "Audit HTML documents for WCAG accessibility issues",
	Long: `Audit HTML documents for WCAG accessibility issues: contrast, alt text,
names of links and buttons, heading order, ARIA references and more.

Issues carry ids derived from the failing markup, so they stay stable across
rescans and can be ignored once and stay ignored.`,
	SilenceUsage: true,
}

// ExitError makes Execute exit with Code instead of 1.
type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string { return e.Msg }

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exit *ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json, text")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default .a11y-audit.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default $"+logging.EnvLevel+" or info)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format on stderr: text, json")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, _ := rootCmd.PersistentFlags().GetString("log-level")
		logFormat, _ := rootCmd.PersistentFlags().GetString("log-format")
		if _, err := logging.Init(level, logFormat); err != nil {
			return err
		}

		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}
