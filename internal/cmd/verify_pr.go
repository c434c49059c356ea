package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v66/github"
	"github.com/spf13/cobra"

	"ghsync/pkg/action"
	"ghsync/pkg/pr"
)

var eventPath string

var verifyPRCmd = &cobra.Command{
	Use:   "verify-pr",
	Short: "Check that the pull request title carries a release-note prefix",
	Long: `Read the pull request event that triggered the workflow and classify its title.
The title may start with a WIP marker and a [tag], followed by one of:

  :sparkles:  feature
  :bug:       bug fix
  :book:      documentation
  :seedling:  infrastructure
  :warning:   breaking change
  :ghost:     no release note

The event is read from GITHUB_EVENT_PATH unless --event-path is given.`,
	Args: cobra.NoArgs,
	RunE: runVerifyPR,
}

func init() {
	verifyPRCmd.Flags().StringVar(&eventPath, "event-path", "", "Path to the pull request event JSON (defaults to GITHUB_EVENT_PATH)")
}

// readPullRequestTitle extracts the title from a pull_request event payload
func readPullRequestTitle(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read event file: %w", err)
	}

	var event github.PullRequestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return "", fmt.Errorf("failed to parse pull request event %s: %w", path, err)
	}
	if event.PullRequest == nil || event.PullRequest.Title == nil {
		return "", fmt.Errorf("event %s has no pull request title", path)
	}

	return event.PullRequest.GetTitle(), nil
}

func runVerifyPR(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	vars, err := loadVariables(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	notifier := action.NewNotifier(out, action.DetectFormat(out, vars))

	path := eventPath
	if path == "" {
		path = vars.EventPath
	}
	if path == "" {
		return errors.New("no event file: set GITHUB_EVENT_PATH or pass --event-path")
	}

	clog.FromContext(ctx).With("event", vars.EventName).Debugf("Reading pull request event from %s", path)

	title, err := readPullRequestTitle(path)
	if err != nil {
		return err
	}

	classified, err := pr.Classify(title)
	if err != nil {
		notifier.Error(err.Error())
		return err
	}

	fmt.Fprintln(out, classified.String())
	return nil
}
