package stats

import (
	"context"
	"encoding/json"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// StatsPort reads calculation counters from the stats module.
type StatsPort interface {
	GetStats(ctx context.Context) (*StatsResponse, error)
}

// StatsAdapter implements StatsPort using the service container.
type StatsAdapter struct {
	container mono.ServiceContainer
}

// NewStatsAdapter creates a new stats adapter.
func NewStatsAdapter(container mono.ServiceContainer) *StatsAdapter {
	return &StatsAdapter{container: container}
}

// GetStats calls the get-stats service.
func (a *StatsAdapter) GetStats(ctx context.Context) (*StatsResponse, error) {
	var resp StatsResponse
	err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceGetStats,
		json.Marshal,
		json.Unmarshal,
		&StatsRequest{},
		&resp,
	)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
