package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DueDateLayout is the date-only layout used for milestone due dates
const DueDateLayout = "2006-01-02"

// Milestone states accepted by the GitHub API
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Configuration represents the repositories we manage, plus the labels and
// milestones each of them should carry
type Configuration struct {
	Repos      []Repo      `yaml:"repos"`
	Labels     []Label     `yaml:"labels,omitempty"`
	Milestones []Milestone `yaml:"milestones,omitempty"`
}

// Repo represents the coordinates of a repository
type Repo struct {
	Org  string `yaml:"org"`
	Repo string `yaml:"repo"`
}

// String returns the org/repo form of the coordinates
func (r Repo) String() string {
	return r.Org + "/" + r.Repo
}

// Label holds declarative data about a label
type Label struct {
	// Name is the natural key of the label
	Name string `yaml:"name"`

	// Color is rrggbb or a named color
	Color string `yaml:"color"`

	// Description is brief text explaining its meaning, who can apply it
	Description string `yaml:"description,omitempty"`
}

// Milestone holds declarative data about a milestone
type Milestone struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	State       string `yaml:"state,omitempty"`
	Due         string `yaml:"due,omitempty"`

	// Replaces is the title of a retiring milestone whose open issues move here
	Replaces string `yaml:"replaces,omitempty"`
}

// String renders the milestone for log output
func (m Milestone) String() string {
	return fmt.Sprintf("title: %q, description: %q, state: %q, due: %q, replaces: %q",
		m.Title, m.Description, m.State, m.Due, m.Replaces)
}

// EffectiveState returns the state the API assigns when none is declared
func (m Milestone) EffectiveState() string {
	if m.State == "" {
		return StateOpen
	}
	return m.State
}

// DueTime parses Due as a UTC date. It returns the zero time when Due is empty.
func (m Milestone) DueTime() (time.Time, error) {
	if m.Due == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DueDateLayout, m.Due)
	if err != nil {
		return time.Time{}, fmt.Errorf("due %q is not a YYYY-MM-DD date: %w", m.Due, err)
	}
	return t.UTC(), nil
}

// NormalizeColor strips a leading '#' and lowercases the color so that
// remote and declared colors compare equal regardless of notation
func NormalizeColor(color string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(color), "#"))
}

var (
	hexColor   = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)
	namedColor = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// Validate validates the desired-state document
func (c *Configuration) Validate() error {
	var validationErrors ValidationErrors

	if len(c.Repos) == 0 {
		validationErrors.Add("repos", "", "at least one repository must be defined")
	}

	seenRepos := make(map[string]bool)
	for i, repo := range c.Repos {
		field := fmt.Sprintf("repos[%d]", i)
		if repo.Org == "" {
			validationErrors.Add(field+".org", "", "organization is required")
		}
		if repo.Repo == "" {
			validationErrors.Add(field+".repo", "", "repository name is required")
		}
		key := strings.ToLower(repo.String())
		if seenRepos[key] {
			validationErrors.Add(field, repo.String(), "duplicate repository")
		}
		seenRepos[key] = true
	}

	seenLabels := make(map[string]bool)
	for i, label := range c.Labels {
		field := fmt.Sprintf("labels[%d]", i)
		if label.Name == "" {
			validationErrors.Add(field+".name", "", "label name is required")
		} else if seenLabels[label.Name] {
			validationErrors.Add(field+".name", label.Name, "duplicate label name")
		}
		seenLabels[label.Name] = true

		if !hexColor.MatchString(label.Color) && !namedColor.MatchString(label.Color) {
			validationErrors.Add(field+".color", label.Color, "color must be rrggbb hex or a named color")
		}
	}

	seenMilestones := make(map[string]bool)
	for i, milestone := range c.Milestones {
		field := fmt.Sprintf("milestones[%d]", i)
		if milestone.Title == "" {
			validationErrors.Add(field+".title", "", "milestone title is required")
		} else if seenMilestones[milestone.Title] {
			validationErrors.Add(field+".title", milestone.Title, "duplicate milestone title")
		}
		seenMilestones[milestone.Title] = true

		switch milestone.State {
		case "", StateOpen, StateClosed:
		default:
			validationErrors.Add(field+".state", milestone.State, "state must be one of: open, closed")
		}

		if milestone.Due != "" {
			if _, err := time.Parse(DueDateLayout, milestone.Due); err != nil {
				validationErrors.Add(field+".due", milestone.Due, "due must be a YYYY-MM-DD date")
			}
		}

		if milestone.Replaces != "" && milestone.Replaces == milestone.Title {
			validationErrors.Add(field+".replaces", milestone.Replaces, "a milestone cannot replace itself")
		}
	}

	if validationErrors.HasErrors() {
		return validationErrors
	}

	return nil
}

// Load parses and validates a desired-state document
func Load(data []byte) (*Configuration, error) {
	var config Configuration

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: document is empty")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// LoadFromPath loads the desired-state document from a file
func LoadFromPath(path string) (*Configuration, error) {
	if path == "" {
		return nil, &LoadError{Path: path, Err: errors.New("no configuration path given")}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	config, err := Load(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return config, nil
}

// SaveToPath writes the document to path, creating parent directories
func (c *Configuration) SaveToPath(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
