package github

import (
	"time"

	"ghsync/pkg/config"
)

// RemoteLabel is a label as reported by the API
type RemoteLabel struct {
	Name        string `json:"name" yaml:"name"`
	Color       string `json:"color" yaml:"color"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// RemoteMilestone is a milestone as reported by the API
type RemoteMilestone struct {
	Number      int        `json:"number" yaml:"number"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	State       string     `json:"state" yaml:"state"`
	DueOn       *time.Time `json:"due_on,omitempty" yaml:"due_on,omitempty"`
	OpenIssues  int        `json:"open_issues" yaml:"open_issues"`
}

// DueDate returns the due date as YYYY-MM-DD, or "" when there is none
func (m RemoteMilestone) DueDate() string {
	if m.DueOn == nil || m.DueOn.IsZero() {
		return ""
	}
	return m.DueOn.UTC().Format(config.DueDateLayout)
}

// Declared converts the milestone to its declarative form
func (m RemoteMilestone) Declared() config.Milestone {
	return config.Milestone{
		Title:       m.Title,
		Description: m.Description,
		State:       m.State,
		Due:         m.DueDate(),
	}
}

// Declared converts the label to its declarative form
func (l RemoteLabel) Declared() config.Label {
	return config.Label{
		Name:        l.Name,
		Color:       l.Color,
		Description: l.Description,
	}
}

// Issue is an issue (or pull request) assigned to a milestone
type Issue struct {
	Number int    `json:"number" yaml:"number"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
}
