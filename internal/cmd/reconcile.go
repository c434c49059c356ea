package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ghsync/pkg/action"
	"ghsync/pkg/config"
	"ghsync/pkg/github"
)

// reconcileOptions are the flags shared by labels and milestones
type reconcileOptions struct {
	configPath string
	confirm    bool
	rate       float64
}

func (o *reconcileOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "Path to the desired-state YAML document")
	cmd.Flags().BoolVar(&o.confirm, "confirm", false, "Apply the changes; without it nothing is written")
	cmd.Flags().Float64Var(&o.rate, "rate", 0, "Maximum GitHub API requests per second (0 means unlimited)")
	_ = cmd.MarkFlagRequired("config")
}

// loadVariables reads the Actions environment; replaced in tests
var loadVariables = action.FromEnv

// newAPIClient builds the API client from the environment; replaced in tests
var newAPIClient = func(ctx context.Context, vars *action.Variables, opts reconcileOptions) (github.APIClient, error) {
	rl := github.DefaultRateLimiterConfig()
	rl.RequestsPerSecond = opts.rate
	return github.NewClientFromVariables(ctx, vars, github.ClientOptions{RateLimit: rl})
}

// planFunc is a Reconciler method expression such as github.Reconciler.PlanLabels
type planFunc func(r github.Reconciler, ctx context.Context, cfg *config.Configuration) (*github.ReconciliationPlan, error)

// runReconcile loads the configuration, plans against the remote state,
// prints the plan and applies it when confirmed
func runReconcile(cmd *cobra.Command, opts reconcileOptions, plan planFunc) error {
	ctx := cmd.Context()

	// The document is loaded before anything touches the network
	cfg, err := config.LoadFromPath(opts.configPath)
	if err != nil {
		return err
	}

	vars, err := loadVariables(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	notifier := action.NewNotifier(out, action.DetectFormat(out, vars))

	client, err := newAPIClient(ctx, vars, opts)
	if err != nil {
		if errors.Is(err, action.ErrNoToken) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n\n", github.GetAuthInstructions())
		}
		return err
	}

	reconciler := github.NewReconciler(client)

	p, err := plan(reconciler, ctx, cfg)
	if err != nil {
		notifier.Error(err.Error())
		return err
	}

	if p.IsEmpty() {
		notifier.Notice("Yay, there are no changes to be made")
		return nil
	}

	notifier.Notice(fmt.Sprintf("Changes will be made: %d", p.Len()))
	if err := dumpPlan(cmd, p); err != nil {
		return err
	}

	report, err := reconciler.Apply(ctx, p, opts.confirm)
	if err != nil {
		notifier.Error(err.Error())
		return err
	}

	if report.DryRun {
		notifier.Notice("Running without confirm, no mutations will be made")
		return nil
	}

	for _, op := range report.Applied {
		notifier.Debug(op)
	}
	notifier.Notice(fmt.Sprintf("Yay, %d changes applied", len(report.Applied)))
	return nil
}

// dumpPlan prints the plan as YAML before anything is written
func dumpPlan(cmd *cobra.Command, p *github.ReconciliationPlan) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}
	return enc.Close()
}
