package cmd

import (
	"github.com/spf13/cobra"

	"ghsync/pkg/github"
)

var labelsOpts reconcileOptions

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Reconcile repository labels",
	Long: `Compare the labels declared in the configuration with the labels of every
listed repository. Missing labels are created and labels whose color or
description differ are updated. Labels that are not declared are left alone.

Examples:
  # Show what would change
  ghsync labels --config labels.yaml

  # Apply the changes
  ghsync labels --config labels.yaml --confirm`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runReconcile(cmd, labelsOpts, github.Reconciler.PlanLabels)
	},
}

func init() {
	labelsOpts.addFlags(labelsCmd)
}
