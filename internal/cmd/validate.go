package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ghsync/pkg/config"
)

var validateConfigPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a desired-state document without contacting GitHub",
	Long: `Parse the configuration and check it for errors: unknown fields, missing
names and titles, duplicate labels, milestones or repositories, malformed colors,
states and due dates, and milestones that replace themselves.

Examples:
  ghsync validate --config sync.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "", "Path to the desired-state YAML document")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFromPath(validateConfigPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is valid: %d repositories, %d labels, %d milestones\n",
		validateConfigPath, len(cfg.Repos), len(cfg.Labels), len(cfg.Milestones))
	return nil
}
