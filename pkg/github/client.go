package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/go-github/v66/github"

	"ghsync/pkg/config"
)

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client *github.Client
}

// NewClient creates a GitHub API client on top of httpClient, which carries
// authentication and rate limiting
func NewClient(httpClient *http.Client) *Client {
	return &Client{client: github.NewClient(httpClient)}
}

// NewEnterpriseClient creates a client for a GitHub Enterprise server
func NewEnterpriseClient(httpClient *http.Client, baseURL string) (*Client, error) {
	gh, err := github.NewClient(httpClient).WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
	}
	return &Client{client: gh}, nil
}

// ListLabels retrieves every label of a repository, following pagination
func (c *Client) ListLabels(ctx context.Context, owner, name string) ([]RemoteLabel, error) {
	opts := &github.ListOptions{PerPage: 100}

	var labels []RemoteLabel
	for {
		page, resp, err := c.client.Issues.ListLabels(ctx, owner, name, opts)
		if err != nil {
			return nil, WrapGitHubError(err, fmt.Sprintf("repository %s/%s", owner, name))
		}

		for _, l := range page {
			labels = append(labels, convertGitHubLabel(l))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return labels, nil
}

// CreateLabel creates a label
func (c *Client) CreateLabel(ctx context.Context, owner, name string, label config.Label) (*RemoteLabel, error) {
	created, _, err := c.client.Issues.CreateLabel(ctx, owner, name, buildLabelRequest(label))
	if err != nil {
		return nil, WrapGitHubError(err, fmt.Sprintf("label %q in %s/%s", label.Name, owner, name))
	}

	result := convertGitHubLabel(created)
	return &result, nil
}

// UpdateLabel edits the label currently named currentName
func (c *Client) UpdateLabel(ctx context.Context, owner, name, currentName string, label config.Label) (*RemoteLabel, error) {
	updated, _, err := c.client.Issues.EditLabel(ctx, owner, name, currentName, buildLabelRequest(label))
	if err != nil {
		return nil, WrapGitHubError(err, fmt.Sprintf("label %q in %s/%s", currentName, owner, name))
	}

	result := convertGitHubLabel(updated)
	return &result, nil
}

// ListMilestones retrieves every milestone of a repository, open and closed
func (c *Client) ListMilestones(ctx context.Context, owner, name string) ([]RemoteMilestone, error) {
	opts := &github.MilestoneListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var milestones []RemoteMilestone
	for {
		page, resp, err := c.client.Issues.ListMilestones(ctx, owner, name, opts)
		if err != nil {
			return nil, WrapGitHubError(err, fmt.Sprintf("repository %s/%s", owner, name))
		}

		for _, m := range page {
			milestones = append(milestones, convertGitHubMilestone(m))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return milestones, nil
}

// milestoneRequest is the body of milestone writes. DueOn has no omitempty
// so a milestone without a due date clears the remote one.
type milestoneRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	State       string  `json:"state"`
	DueOn       *string `json:"due_on"`
}

func buildMilestoneRequest(m config.Milestone) (*milestoneRequest, error) {
	req := &milestoneRequest{
		Title:       m.Title,
		Description: m.Description,
		State:       m.EffectiveState(),
	}

	if m.Due != "" {
		due, err := m.DueTime()
		if err != nil {
			return nil, err
		}
		formatted := due.Format("2006-01-02T15:04:05Z")
		req.DueOn = &formatted
	}

	return req, nil
}

// CreateMilestone creates a milestone
func (c *Client) CreateMilestone(ctx context.Context, owner, name string, milestone config.Milestone) (*RemoteMilestone, error) {
	return c.writeMilestone(ctx, http.MethodPost,
		fmt.Sprintf("repos/%s/%s/milestones", owner, name),
		fmt.Sprintf("milestone %q in %s/%s", milestone.Title, owner, name),
		milestone)
}

// UpdateMilestone edits milestone number, overwriting every tracked field
func (c *Client) UpdateMilestone(ctx context.Context, owner, name string, number int, milestone config.Milestone) (*RemoteMilestone, error) {
	return c.writeMilestone(ctx, http.MethodPatch,
		fmt.Sprintf("repos/%s/%s/milestones/%d", owner, name, number),
		fmt.Sprintf("milestone %d in %s/%s", number, owner, name),
		milestone)
}

func (c *Client) writeMilestone(ctx context.Context, method, path, resource string, milestone config.Milestone) (*RemoteMilestone, error) {
	body, err := buildMilestoneRequest(milestone)
	if err != nil {
		return nil, fmt.Errorf("invalid milestone %q: %w", milestone.Title, err)
	}

	req, err := c.client.NewRequest(method, path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", resource, err)
	}

	written := new(github.Milestone)
	if _, err := c.client.Do(ctx, req, written); err != nil {
		return nil, WrapGitHubError(err, resource)
	}

	result := convertGitHubMilestone(written)
	return &result, nil
}

// ListOpenIssuesByMilestone retrieves the open issues and pull requests
// assigned to milestone number
func (c *Client) ListOpenIssuesByMilestone(ctx context.Context, owner, name string, milestone int) ([]Issue, error) {
	opts := &github.IssueListByRepoOptions{
		Milestone:   strconv.Itoa(milestone),
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var issues []Issue
	for {
		page, resp, err := c.client.Issues.ListByRepo(ctx, owner, name, opts)
		if err != nil {
			return nil, WrapGitHubError(err, fmt.Sprintf("milestone %d in %s/%s", milestone, owner, name))
		}

		for _, i := range page {
			issues = append(issues, Issue{Number: i.GetNumber(), Title: i.GetTitle()})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return issues, nil
}

// SetIssueMilestone assigns issue to milestone
func (c *Client) SetIssueMilestone(ctx context.Context, owner, name string, issue, milestone int) error {
	_, _, err := c.client.Issues.Edit(ctx, owner, name, issue, &github.IssueRequest{
		Milestone: github.Int(milestone),
	})
	if err != nil {
		return WrapGitHubError(err, fmt.Sprintf("issue #%d in %s/%s", issue, owner, name))
	}
	return nil
}

func buildLabelRequest(label config.Label) *github.Label {
	return &github.Label{
		Name:        github.String(label.Name),
		Color:       github.String(config.NormalizeColor(label.Color)),
		Description: github.String(label.Description),
	}
}

func convertGitHubLabel(l *github.Label) RemoteLabel {
	return RemoteLabel{
		Name:        l.GetName(),
		Color:       l.GetColor(),
		Description: l.GetDescription(),
	}
}

func convertGitHubMilestone(m *github.Milestone) RemoteMilestone {
	result := RemoteMilestone{
		Number:      m.GetNumber(),
		Title:       m.GetTitle(),
		Description: m.GetDescription(),
		State:       m.GetState(),
		OpenIssues:  m.GetOpenIssues(),
	}
	if m.DueOn != nil {
		due := m.DueOn.Time
		result.DueOn = &due
	}
	return result
}
