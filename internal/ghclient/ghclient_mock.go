package ghclient

import (
	"context"
	"time"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
	"github.com/stretchr/testify/mock"
)

// MockGraphClient is a mock implementation of GraphClient for testing.
type MockGraphClient struct {
	mock.Mock
}

var _ contract.GraphClient = &MockGraphClient{} // Compile-time check

// FetchUser implements the GraphClient interface.
func (m *MockGraphClient) FetchUser(ctx context.Context, login string) (schema.UserDetails, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(schema.UserDetails), args.Error(1)
}

// FetchContributionGraph implements the GraphClient interface.
func (m *MockGraphClient) FetchContributionGraph(ctx context.Context, login string, from, to time.Time) (schema.ActivityGraph, error) {
	args := m.Called(ctx, login, from, to)
	return args.Get(0).(schema.ActivityGraph), args.Error(1)
}

// FetchNotifications implements the GraphClient interface.
func (m *MockGraphClient) FetchNotifications(ctx context.Context, since time.Time) ([]schema.Notification, error) {
	args := m.Called(ctx, since)
	if items := args.Get(0); items != nil {
		return items.([]schema.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}
