package client

import (
	"context"
	"fmt"
)

// DashboardService handles dashboard-related API calls
type DashboardService struct {
	client *Client
}

// Stats retrieves the current environment snapshot
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := s.client.doRequest(ctx, "GET", "/api/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Logs retrieves the build log lines in display order
func (s *DashboardService) Logs(ctx context.Context) ([]string, error) {
	var resp LogsResponse
	if err := s.client.doRequest(ctx, "GET", "/api/dashboard/logs", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Logs == nil {
		return nil, fmt.Errorf("logs response missing %q field", "logs")
	}
	return *resp.Logs, nil
}

// Trigger asks the backend to start a build. The response body is ignored.
func (s *DashboardService) Trigger(ctx context.Context) error {
	return s.client.doRequest(ctx, "POST", "/api/dashboard/trigger", nil, nil)
}
