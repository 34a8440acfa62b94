package calculator

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/example/calculator-demo/domain/arith"
	"github.com/example/calculator-demo/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// calculate handles the calculator.calculate service request.
func (m *Module) calculate(_ context.Context, req CalculateRequest, _ *mono.Msg) (CalculateResponse, error) {
	result, err := arith.Apply(req.Operation, req.A, req.B)
	if err != nil {
		m.publishFailed(req, err)
		return CalculateResponse{
			Operation: req.Operation,
			Error:     err.Error(),
		}, nil // Return error in response, not as Go error
	}

	resp := CalculateResponse{
		Operation: req.Operation,
		Text:      arith.FormatNumber(result),
	}
	if !math.IsNaN(result) && !math.IsInf(result, 0) {
		resp.Result = &result
	}

	m.publishPerformed(req, resp.Text)
	return resp, nil
}

func (m *Module) publishPerformed(req CalculateRequest, text string) {
	if m.eventBus == nil {
		return
	}
	event := events.CalculationPerformedEvent{
		ID:          uuid.New().String(),
		Operation:   string(req.Operation),
		A:           req.A,
		B:           req.B,
		Result:      text,
		PerformedAt: time.Now(),
	}
	if err := events.CalculationPerformedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish CalculationPerformed event",
			"operation", req.Operation,
			"error", err)
	}
}

func (m *Module) publishFailed(req CalculateRequest, cause error) {
	if m.eventBus == nil {
		return
	}
	event := events.CalculationFailedEvent{
		ID:        uuid.New().String(),
		Operation: string(req.Operation),
		A:         req.A,
		B:         req.B,
		Error:     cause.Error(),
		DivByZero: errors.Is(cause, arith.ErrDivisionByZero),
		FailedAt:  time.Now(),
	}
	if err := events.CalculationFailedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish CalculationFailed event",
			"operation", req.Operation,
			"error", err)
	}
}
