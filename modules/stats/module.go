package stats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/calculator-demo/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Module tallies calculation events. It subscribes to calculator events using
// the EventConsumerModule interface and serves the counters via get-stats.
type Module struct {
	store  *Store
	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
)

// NewModule creates a new stats module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		store:  NewStore(),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "stats"
}

// RegisterEventConsumers registers handlers for calculation events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.CalculationPerformedV1, m.handlePerformed, m); err != nil {
		return fmt.Errorf("failed to register CalculationPerformed consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.CalculationFailedV1, m.handleFailed, m); err != nil {
		return fmt.Errorf("failed to register CalculationFailed consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"CalculationPerformed", "CalculationFailed"})
	return nil
}

// RegisterServices registers the get-stats request-reply service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGetStats, json.Unmarshal, json.Marshal, m.getStats,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetStats, err)
	}
	return nil
}

// handlePerformed counts a successful calculation.
func (m *Module) handlePerformed(_ context.Context, event events.CalculationPerformedEvent, _ *mono.Msg) error {
	m.logger.Debug("Calculation performed", "operation", event.Operation, "result", event.Result)
	m.store.RecordSuccess(event.Operation)
	return nil
}

// handleFailed counts a failed calculation.
func (m *Module) handleFailed(_ context.Context, event events.CalculationFailedEvent, _ *mono.Msg) error {
	m.logger.Debug("Calculation failed", "operation", event.Operation, "error", event.Error)
	m.store.RecordFailure(event.Operation, event.DivByZero)
	return nil
}

func (m *Module) getStats(_ context.Context, _ StatsRequest, _ *mono.Msg) (StatsResponse, error) {
	return m.store.Snapshot(), nil
}

// Start starts the stats module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Stats module started - listening for calculation events")
	return nil
}

// Stop stops the stats module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Stats module stopped")
	return nil
}
