package cmd

import (
	"github.com/spf13/cobra"

	"ghsync/pkg/github"
)

var milestonesOpts reconcileOptions

var milestonesCmd = &cobra.Command{
	Use:   "milestones",
	Short: "Reconcile repository milestones and migrate their issues",
	Long: `Compare the milestones declared in the configuration with the milestones of
every listed repository, open and closed. Missing milestones are created and
milestones whose description, state or due date differ are updated.

A milestone that declares "replaces: <title>" takes over the open issues of the
named milestone. The replaced milestone must exist in every repository.

Examples:
  # Show what would change
  ghsync milestones --config milestones.yaml

  # Apply the changes, at most 5 API requests per second
  ghsync milestones --config milestones.yaml --confirm --rate 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runReconcile(cmd, milestonesOpts, github.Reconciler.PlanMilestones)
	},
}

func init() {
	milestonesOpts.addFlags(milestonesCmd)
}
