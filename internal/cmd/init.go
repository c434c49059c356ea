package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ghsync/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample desired-state document",
	Long:  "Create a sample configuration with one repository, a few labels and a milestone that replaces another. Defaults to ghsync.yaml.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing file without asking")
}

// sampleConfiguration is the document written by init
func sampleConfiguration() *config.Configuration {
	return &config.Configuration{
		Repos: []config.Repo{
			{Org: "your-org", Repo: "your-repo"},
		},
		Labels: []config.Label{
			{Name: "kind/bug", Color: "d73a4a", Description: "Something isn't working"},
			{Name: "kind/feature", Color: "a2eeef", Description: "New feature or request"},
			{Name: "kind/documentation", Color: "0075ca", Description: "Improvements or additions to documentation"},
		},
		Milestones: []config.Milestone{
			{Title: "v0.1.0", State: config.StateClosed},
			{Title: "v0.2.0", Description: "Next release", Due: "2030-01-31", Replaces: "v0.1.0"},
		},
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := "ghsync.yaml"
	if len(args) == 1 {
		configPath = args[0]
	}

	out := cmd.OutOrStdout()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(out, "⚠️  Configuration file already exists at: %s\n", configPath)
		fmt.Fprint(out, "Do you want to overwrite it? (y/N): ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Configuration initialization cancelled.")
			return nil
		}
	}

	if err := sampleConfiguration().SaveToPath(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "✅ Configuration file created at: %s\n", configPath)
	fmt.Fprintln(out, "📝 Please edit the repositories, labels and milestones, then run: ghsync validate --config "+configPath)
	return nil
}
