package github

import (
	"context"

	"ghsync/pkg/config"
)

// APIClient defines the interface for GitHub API operations
type APIClient interface {
	// Label operations
	ListLabels(ctx context.Context, owner, name string) ([]RemoteLabel, error)
	CreateLabel(ctx context.Context, owner, name string, label config.Label) (*RemoteLabel, error)
	UpdateLabel(ctx context.Context, owner, name, currentName string, label config.Label) (*RemoteLabel, error)

	// Milestone operations
	ListMilestones(ctx context.Context, owner, name string) ([]RemoteMilestone, error)
	CreateMilestone(ctx context.Context, owner, name string, milestone config.Milestone) (*RemoteMilestone, error)
	UpdateMilestone(ctx context.Context, owner, name string, number int, milestone config.Milestone) (*RemoteMilestone, error)

	// Issue operations
	ListOpenIssuesByMilestone(ctx context.Context, owner, name string, milestone int) ([]Issue, error)
	SetIssueMilestone(ctx context.Context, owner, name string, issue, milestone int) error
}

// Reconciler defines the interface for state reconciliation operations
type Reconciler interface {
	PlanLabels(ctx context.Context, cfg *config.Configuration) (*ReconciliationPlan, error)
	PlanMilestones(ctx context.Context, cfg *config.Configuration) (*ReconciliationPlan, error)
	Apply(ctx context.Context, plan *ReconciliationPlan, confirm bool) (*ApplyReport, error)
}

// ChangeType represents the type of discrepancy in a reconciliation plan
type ChangeType string

const (
	// ChangeTypeMissing means the entity is absent remotely
	ChangeTypeMissing ChangeType = "missing"
	// ChangeTypeChanged means the entity exists but a tracked field differs
	ChangeTypeChanged ChangeType = "changed"
)

// ReconciliationPlan holds the discrepancies of one run, in configuration
// order: repositories first, then desired entities
type ReconciliationPlan struct {
	Labels     []LabelChange     `json:"labels,omitempty" yaml:"labels,omitempty"`
	Milestones []MilestoneChange `json:"milestones,omitempty" yaml:"milestones,omitempty"`
}

// IsEmpty reports whether nothing needs to change
func (p *ReconciliationPlan) IsEmpty() bool {
	return p == nil || (len(p.Labels) == 0 && len(p.Milestones) == 0)
}

// Len returns the number of discrepancies
func (p *ReconciliationPlan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Labels) + len(p.Milestones)
}

// LabelChange represents a label discrepancy
type LabelChange struct {
	Org    string       `json:"org" yaml:"org"`
	Repo   string       `json:"repo" yaml:"repo"`
	Type   ChangeType   `json:"type" yaml:"type"`
	Wanted config.Label `json:"wanted" yaml:"wanted"`
	// Current is set for ChangeTypeChanged only
	Current *config.Label `json:"current,omitempty" yaml:"current,omitempty"`
}

// MilestoneChange represents a milestone discrepancy
type MilestoneChange struct {
	Org    string           `json:"org" yaml:"org"`
	Repo   string           `json:"repo" yaml:"repo"`
	Type   ChangeType       `json:"type" yaml:"type"`
	Wanted config.Milestone `json:"wanted" yaml:"wanted"`
	// CurrentNumber and Current are set for ChangeTypeChanged only
	CurrentNumber int               `json:"current_number,omitempty" yaml:"current_number,omitempty"`
	Current       *config.Milestone `json:"current,omitempty" yaml:"current,omitempty"`
	// Issues are open issues of the replaced milestone that move to this one
	Issues []Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// ApplyReport describes what an Apply call did
type ApplyReport struct {
	DryRun  bool     `json:"dry_run" yaml:"dry_run"`
	Applied []string `json:"applied,omitempty" yaml:"applied,omitempty"`
}
