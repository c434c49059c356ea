package github

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"ghsync/pkg/config"
)

// milestoneMap indexes remote milestones by title. A later duplicate
// overwrites an earlier one.
func milestoneMap(milestones []RemoteMilestone) map[string]RemoteMilestone {
	m := make(map[string]RemoteMilestone, len(milestones))
	for _, ms := range milestones {
		m[ms.Title] = ms
	}
	return m
}

// normalizedDue returns the desired due date in the layout remote dates are
// rendered in
func normalizedDue(m config.Milestone) string {
	due, err := m.DueTime()
	if err != nil || due.IsZero() {
		return m.Due
	}
	return due.Format(config.DueDateLayout)
}

// milestonesEqual compares the tracked fields of a milestone
func milestonesEqual(wanted config.Milestone, current RemoteMilestone) bool {
	return wanted.Description == current.Description &&
		wanted.EffectiveState() == current.State &&
		normalizedDue(wanted) == current.DueDate()
}

// DiffMilestones compares the desired milestones of repo against its remote
// milestones. migrations maps a desired title to the open issues it takes
// over; a milestone with issues to migrate is reported even when its own
// fields already match.
func DiffMilestones(repo config.Repo, desired []config.Milestone, current map[string]RemoteMilestone, migrations map[string][]Issue) []MilestoneChange {
	var changes []MilestoneChange

	for _, wanted := range desired {
		issues := migrations[wanted.Title]

		remote, ok := current[wanted.Title]
		if !ok {
			changes = append(changes, MilestoneChange{
				Org:    repo.Org,
				Repo:   repo.Repo,
				Type:   ChangeTypeMissing,
				Wanted: wanted,
				Issues: issues,
			})
			continue
		}

		if milestonesEqual(wanted, remote) && len(issues) == 0 {
			continue
		}

		declared := remote.Declared()
		changes = append(changes, MilestoneChange{
			Org:           repo.Org,
			Repo:          repo.Repo,
			Type:          ChangeTypeChanged,
			Wanted:        wanted,
			CurrentNumber: remote.Number,
			Current:       &declared,
			Issues:        issues,
		})
	}

	return changes
}

// planMigrations collects the open issues of every replaced milestone. It
// only reads; a replaced title that does not exist remotely is an error.
func (r *reconciler) planMigrations(ctx context.Context, repo config.Repo, desired []config.Milestone, current map[string]RemoteMilestone) (map[string][]Issue, error) {
	log := clog.FromContext(ctx).With("org", repo.Org, "repo", repo.Repo)
	migrations := make(map[string][]Issue)

	for _, wanted := range desired {
		if wanted.Replaces == "" {
			continue
		}

		predecessor, ok := current[wanted.Replaces]
		if !ok {
			return nil, &ReplacementTargetError{
				Repo:      repo.String(),
				Milestone: wanted.Title,
				Replaces:  wanted.Replaces,
			}
		}

		if predecessor.OpenIssues == 0 {
			log.Debugf("Milestone %q has no open issues to move to %q", predecessor.Title, wanted.Title)
			continue
		}

		issues, err := r.client.ListOpenIssuesByMilestone(ctx, repo.Org, repo.Repo, predecessor.Number)
		if err != nil {
			return nil, &FetchError{
				Repo:     repo.String(),
				Resource: fmt.Sprintf("open issues of milestone %q", predecessor.Title),
				Err:      err,
			}
		}

		log.Infof("Moving %d open issues from %q to %q", len(issues), predecessor.Title, wanted.Title)
		migrations[wanted.Title] = issues
	}

	return migrations, nil
}

// PlanMilestones fetches the milestones of every configured repository and
// the issues that need migrating, then diffs them. The first fetch failure
// aborts the plan.
func (r *reconciler) PlanMilestones(ctx context.Context, cfg *config.Configuration) (*ReconciliationPlan, error) {
	plan := &ReconciliationPlan{}

	for _, repo := range cfg.Repos {
		log := clog.FromContext(ctx).With("org", repo.Org, "repo", repo.Repo)
		log.Debug("Fetching milestones")

		remote, err := r.client.ListMilestones(ctx, repo.Org, repo.Repo)
		if err != nil {
			return nil, &FetchError{Repo: repo.String(), Resource: "milestones", Err: err}
		}
		current := milestoneMap(remote)

		migrations, err := r.planMigrations(ctx, repo, cfg.Milestones, current)
		if err != nil {
			return nil, err
		}

		changes := DiffMilestones(repo, cfg.Milestones, current, migrations)
		log.Infof("Found %d milestones, %d need changes", len(remote), len(changes))

		plan.Milestones = append(plan.Milestones, changes...)
	}

	return plan, nil
}

// applyMilestone creates or updates the milestone, then points every
// migrated issue at it. It returns the operations that succeeded.
func (r *reconciler) applyMilestone(ctx context.Context, change MilestoneChange) ([]string, string, error) {
	log := clog.FromContext(ctx).With("org", change.Org, "repo", change.Repo)
	var done []string
	var number int

	switch change.Type {
	case ChangeTypeMissing:
		op := fmt.Sprintf("create milestone %q in %s/%s", change.Wanted.Title, change.Org, change.Repo)
		created, err := r.client.CreateMilestone(ctx, change.Org, change.Repo, change.Wanted)
		if err != nil {
			return done, op, err
		}
		log.Infof("Created milestone %q as #%d", change.Wanted.Title, created.Number)
		number = created.Number
		done = append(done, op)

	case ChangeTypeChanged:
		number = change.CurrentNumber
		// Fields can already match when only issues move
		if change.Current == nil || !declaredMilestonesEqual(change.Wanted, *change.Current) {
			op := fmt.Sprintf("update milestone %q (#%d) in %s/%s", change.Wanted.Title, number, change.Org, change.Repo)
			updated, err := r.client.UpdateMilestone(ctx, change.Org, change.Repo, number, change.Wanted)
			if err != nil {
				return done, op, err
			}
			log.Infof("Updated milestone %q (#%d)", change.Wanted.Title, number)
			if updated != nil && updated.Number != 0 {
				number = updated.Number
			}
			done = append(done, op)
		}

	default:
		return done, "", fmt.Errorf("unknown change type %q for milestone %q", change.Type, change.Wanted.Title)
	}

	for _, issue := range change.Issues {
		op := fmt.Sprintf("move issue #%d to milestone %q in %s/%s", issue.Number, change.Wanted.Title, change.Org, change.Repo)
		if err := r.client.SetIssueMilestone(ctx, change.Org, change.Repo, issue.Number, number); err != nil {
			return done, op, err
		}
		log.Debugf("Moved issue #%d to milestone #%d", issue.Number, number)
		done = append(done, op)
	}

	return done, "", nil
}

func declaredMilestonesEqual(wanted, current config.Milestone) bool {
	return wanted.Description == current.Description &&
		wanted.EffectiveState() == current.EffectiveState() &&
		normalizedDue(wanted) == current.Due
}
