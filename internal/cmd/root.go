package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "ghsync",
	Short: "Keep GitHub labels and milestones in sync with a declarative configuration",
	Long: `ghsync reconciles the labels and milestones of a set of GitHub repositories
against a YAML configuration file. It reports what differs, and with --confirm it
creates or updates labels and milestones and moves open issues from a retiring
milestone to its replacement.

It is meant to run in GitHub Actions, where notices are emitted as workflow commands.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Diagnostic log level written to stderr (debug, info, warn, error)")

	rootCmd.AddCommand(labelsCmd)
	rootCmd.AddCommand(milestonesCmd)
	rootCmd.AddCommand(verifyPRCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
}

func parseLogLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q: use debug, info, warn or error", value)
	}
	return level, nil
}

// setupLogging installs a clog logger on the command context
func setupLogging(cmd *cobra.Command, _ []string) error {
	level, err := parseLogLevel(logLevel)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	cmd.SetContext(clog.WithLogger(ctx, clog.New(handler)))
	return nil
}
