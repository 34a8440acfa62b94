package calculator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/calculator-demo/domain/arith"
	"github.com/example/calculator-demo/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Module provides arithmetic operations via a RequestReplyService.
type Module struct {
	eventBus mono.EventBus
	started  bool
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new calculator module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "calculator"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.CalculationPerformedV1.ToBase(),
		events.CalculationFailedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCalculate, json.Unmarshal, json.Marshal, m.calculate,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCalculate, err)
	}

	m.logger.Info("Registered calculator services", "services", []string{ServiceCalculate})
	return nil
}

// Start initializes the calculator module.
func (m *Module) Start(_ context.Context) error {
	if m.eventBus == nil {
		m.logger.Warn("eventBus not set, calculation events will not be published")
	}
	m.started = true
	m.logger.Info("Calculator module started")
	return nil
}

// Stop gracefully stops the calculator module.
func (m *Module) Stop(_ context.Context) error {
	m.started = false
	m.logger.Info("Calculator module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if !m.started {
		return mono.HealthStatus{
			Healthy: false,
			Message: "not started",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"operations": arith.Operations,
		},
	}
}
