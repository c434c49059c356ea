package github

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// reconciler implements the Reconciler interface
type reconciler struct {
	client APIClient
}

// NewReconciler creates a new reconciler instance
func NewReconciler(client APIClient) Reconciler {
	return &reconciler{client: client}
}

// Apply performs the changes of plan in order: labels, then milestones with
// their issue migrations. Without confirm nothing is written. The first
// failure stops the run; what was already written stays.
func (r *reconciler) Apply(ctx context.Context, plan *ReconciliationPlan, confirm bool) (*ApplyReport, error) {
	report := &ApplyReport{DryRun: !confirm}
	if !confirm || plan.IsEmpty() {
		return report, nil
	}

	log := clog.FromContext(ctx)
	log.Infof("Applying %d changes", plan.Len())

	for _, change := range plan.Labels {
		op, err := r.applyLabel(ctx, change)
		if err != nil {
			return report, &MutationError{Operation: op, Succeeded: report.Applied, Err: err}
		}
		report.Applied = append(report.Applied, op)
	}

	for _, change := range plan.Milestones {
		done, op, err := r.applyMilestone(ctx, change)
		report.Applied = append(report.Applied, done...)
		if err != nil {
			return report, &MutationError{Operation: op, Succeeded: report.Applied, Err: err}
		}
	}

	return report, nil
}
