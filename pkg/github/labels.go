package github

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"ghsync/pkg/config"
)

// labelMap indexes remote labels by name. A later duplicate overwrites an
// earlier one.
func labelMap(labels []RemoteLabel) map[string]RemoteLabel {
	m := make(map[string]RemoteLabel, len(labels))
	for _, l := range labels {
		m[l.Name] = l
	}
	return m
}

// labelsEqual compares the tracked fields of a label
func labelsEqual(wanted config.Label, current RemoteLabel) bool {
	return config.NormalizeColor(wanted.Color) == config.NormalizeColor(current.Color) &&
		wanted.Description == current.Description
}

// DiffLabels compares the desired labels of repo against its remote labels.
// Remote labels that are not declared are ignored.
func DiffLabels(repo config.Repo, desired []config.Label, current map[string]RemoteLabel) []LabelChange {
	var changes []LabelChange

	for _, wanted := range desired {
		remote, ok := current[wanted.Name]
		if !ok {
			changes = append(changes, LabelChange{
				Org:    repo.Org,
				Repo:   repo.Repo,
				Type:   ChangeTypeMissing,
				Wanted: wanted,
			})
			continue
		}

		if labelsEqual(wanted, remote) {
			continue
		}

		declared := remote.Declared()
		changes = append(changes, LabelChange{
			Org:     repo.Org,
			Repo:    repo.Repo,
			Type:    ChangeTypeChanged,
			Wanted:  wanted,
			Current: &declared,
		})
	}

	return changes
}

// PlanLabels fetches the labels of every configured repository, then diffs
// them. The first fetch failure aborts the plan.
func (r *reconciler) PlanLabels(ctx context.Context, cfg *config.Configuration) (*ReconciliationPlan, error) {
	plan := &ReconciliationPlan{}

	for _, repo := range cfg.Repos {
		log := clog.FromContext(ctx).With("org", repo.Org, "repo", repo.Repo)
		log.Debug("Fetching labels")

		remote, err := r.client.ListLabels(ctx, repo.Org, repo.Repo)
		if err != nil {
			return nil, &FetchError{Repo: repo.String(), Resource: "labels", Err: err}
		}

		changes := DiffLabels(repo, cfg.Labels, labelMap(remote))
		log.Infof("Found %d labels, %d need changes", len(remote), len(changes))

		plan.Labels = append(plan.Labels, changes...)
	}

	return plan, nil
}

func (r *reconciler) applyLabel(ctx context.Context, change LabelChange) (string, error) {
	log := clog.FromContext(ctx).With("org", change.Org, "repo", change.Repo)

	switch change.Type {
	case ChangeTypeMissing:
		op := fmt.Sprintf("create label %q in %s/%s", change.Wanted.Name, change.Org, change.Repo)
		if _, err := r.client.CreateLabel(ctx, change.Org, change.Repo, change.Wanted); err != nil {
			return op, err
		}
		log.Infof("Created label %q", change.Wanted.Name)
		return op, nil

	case ChangeTypeChanged:
		currentName := change.Wanted.Name
		if change.Current != nil {
			currentName = change.Current.Name
		}
		op := fmt.Sprintf("update label %q in %s/%s", currentName, change.Org, change.Repo)
		if _, err := r.client.UpdateLabel(ctx, change.Org, change.Repo, currentName, change.Wanted); err != nil {
			return op, err
		}
		log.Infof("Updated label %q", currentName)
		return op, nil
	}

	return "", fmt.Errorf("unknown change type %q for label %q", change.Type, change.Wanted.Name)
}
