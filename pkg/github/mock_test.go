package github

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ghsync/pkg/config"
)

// MockAPIClient is a mock implementation of APIClient for testing
type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) ListLabels(ctx context.Context, owner, name string) ([]RemoteLabel, error) {
	args := m.Called(ctx, owner, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RemoteLabel), args.Error(1)
}

func (m *MockAPIClient) CreateLabel(ctx context.Context, owner, name string, label config.Label) (*RemoteLabel, error) {
	args := m.Called(ctx, owner, name, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RemoteLabel), args.Error(1)
}

func (m *MockAPIClient) UpdateLabel(ctx context.Context, owner, name, currentName string, label config.Label) (*RemoteLabel, error) {
	args := m.Called(ctx, owner, name, currentName, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RemoteLabel), args.Error(1)
}

func (m *MockAPIClient) ListMilestones(ctx context.Context, owner, name string) ([]RemoteMilestone, error) {
	args := m.Called(ctx, owner, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RemoteMilestone), args.Error(1)
}

func (m *MockAPIClient) CreateMilestone(ctx context.Context, owner, name string, milestone config.Milestone) (*RemoteMilestone, error) {
	args := m.Called(ctx, owner, name, milestone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RemoteMilestone), args.Error(1)
}

func (m *MockAPIClient) UpdateMilestone(ctx context.Context, owner, name string, number int, milestone config.Milestone) (*RemoteMilestone, error) {
	args := m.Called(ctx, owner, name, number, milestone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RemoteMilestone), args.Error(1)
}

func (m *MockAPIClient) ListOpenIssuesByMilestone(ctx context.Context, owner, name string, milestone int) ([]Issue, error) {
	args := m.Called(ctx, owner, name, milestone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Issue), args.Error(1)
}

func (m *MockAPIClient) SetIssueMilestone(ctx context.Context, owner, name string, issue, milestone int) error {
	args := m.Called(ctx, owner, name, issue, milestone)
	return args.Error(0)
}
