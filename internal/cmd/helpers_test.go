package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ghsync/pkg/action"
	"ghsync/pkg/config"
	"ghsync/pkg/github"
)

// fakeClient is an in-memory GitHub keyed by "org/repo"
type fakeClient struct {
	labels     map[string][]github.RemoteLabel
	milestones map[string][]github.RemoteMilestone
	// issues maps "org/repo#milestone" to the open issues assigned to it
	issues map[string][]github.Issue

	failOn string
	writes []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		labels:     map[string][]github.RemoteLabel{},
		milestones: map[string][]github.RemoteMilestone{},
		issues:     map[string][]github.Issue{},
	}
}

func (f *fakeClient) fail(op string) error {
	f.writes = append(f.writes, op)
	if f.failOn != "" && strings.HasPrefix(op, f.failOn) {
		return fmt.Errorf("injected failure for %s", op)
	}
	return nil
}

func (f *fakeClient) ListLabels(_ context.Context, owner, name string) ([]github.RemoteLabel, error) {
	if f.failOn == "list" {
		return nil, fmt.Errorf("injected failure listing labels")
	}
	return append([]github.RemoteLabel(nil), f.labels[owner+"/"+name]...), nil
}

func (f *fakeClient) CreateLabel(_ context.Context, owner, name string, label config.Label) (*github.RemoteLabel, error) {
	if err := f.fail("create label " + label.Name); err != nil {
		return nil, err
	}
	created := github.RemoteLabel{Name: label.Name, Color: config.NormalizeColor(label.Color), Description: label.Description}
	f.labels[owner+"/"+name] = append(f.labels[owner+"/"+name], created)
	return &created, nil
}

func (f *fakeClient) UpdateLabel(_ context.Context, owner, name, currentName string, label config.Label) (*github.RemoteLabel, error) {
	if err := f.fail("update label " + currentName); err != nil {
		return nil, err
	}
	key := owner + "/" + name
	for i, l := range f.labels[key] {
		if l.Name == currentName {
			f.labels[key][i] = github.RemoteLabel{Name: label.Name, Color: config.NormalizeColor(label.Color), Description: label.Description}
			return &f.labels[key][i], nil
		}
	}
	return nil, fmt.Errorf("label %s not found", currentName)
}

func (f *fakeClient) ListMilestones(_ context.Context, owner, name string) ([]github.RemoteMilestone, error) {
	key := owner + "/" + name
	out := append([]github.RemoteMilestone(nil), f.milestones[key]...)
	for i := range out {
		out[i].OpenIssues = len(f.issues[fmt.Sprintf("%s#%d", key, out[i].Number)])
	}
	return out, nil
}

func (f *fakeClient) toRemote(number int, m config.Milestone) github.RemoteMilestone {
	remote := github.RemoteMilestone{
		Number:      number,
		Title:       m.Title,
		Description: m.Description,
		State:       m.EffectiveState(),
	}
	if due, err := m.DueTime(); err == nil && !due.IsZero() {
		remote.DueOn = &due
	}
	return remote
}

func (f *fakeClient) CreateMilestone(_ context.Context, owner, name string, m config.Milestone) (*github.RemoteMilestone, error) {
	if err := f.fail("create milestone " + m.Title); err != nil {
		return nil, err
	}
	key := owner + "/" + name
	created := f.toRemote(len(f.milestones[key])+1, m)
	f.milestones[key] = append(f.milestones[key], created)
	return &created, nil
}

func (f *fakeClient) UpdateMilestone(_ context.Context, owner, name string, number int, m config.Milestone) (*github.RemoteMilestone, error) {
	if err := f.fail("update milestone " + m.Title); err != nil {
		return nil, err
	}
	key := owner + "/" + name
	for i, ms := range f.milestones[key] {
		if ms.Number == number {
			f.milestones[key][i] = f.toRemote(number, m)
			return &f.milestones[key][i], nil
		}
	}
	return nil, fmt.Errorf("milestone %d not found", number)
}

func (f *fakeClient) ListOpenIssuesByMilestone(_ context.Context, owner, name string, milestone int) ([]github.Issue, error) {
	return append([]github.Issue(nil), f.issues[fmt.Sprintf("%s/%s#%d", owner, name, milestone)]...), nil
}

func (f *fakeClient) SetIssueMilestone(_ context.Context, owner, name string, issue, milestone int) error {
	if err := f.fail(fmt.Sprintf("move issue %d", issue)); err != nil {
		return err
	}
	prefix := owner + "/" + name + "#"
	keys := make([]string, 0, len(f.issues))
	for k := range f.issues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		for i, is := range f.issues[k] {
			if is.Number == issue {
				f.issues[k] = append(f.issues[k][:i], f.issues[k][i+1:]...)
				target := fmt.Sprintf("%s%d", prefix, milestone)
				f.issues[target] = append(f.issues[target], is)
				return nil
			}
		}
	}
	return fmt.Errorf("issue %d not found", issue)
}

// resetFlags zeroes the package flag values and the Changed marks that
// cobra keeps between executions
func resetFlags() {
	labelsOpts = reconcileOptions{}
	milestonesOpts = reconcileOptions{}
	validateConfigPath = ""
	eventPath = ""
	initForce = false
	logLevel = "warn"

	var visit func(*cobra.Command)
	visit = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, sub := range c.Commands() {
			visit(sub)
		}
	}
	visit(rootCmd)
}

// executeCommand runs the root command with args against client and vars
func executeCommand(t *testing.T, client github.APIClient, vars *action.Variables, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	origVars, origClient := loadVariables, newAPIClient
	t.Cleanup(func() {
		loadVariables, newAPIClient = origVars, origClient
	})

	loadVariables = func(context.Context) (*action.Variables, error) {
		return vars, nil
	}
	newAPIClient = func(context.Context, *action.Variables, reconcileOptions) (github.APIClient, error) {
		if client == nil {
			return nil, action.ErrNoToken
		}
		return client, nil
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
