package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/calculator-demo/domain/arith"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ErrServiceUnavailable is returned when the calculate service cannot be reached.
var ErrServiceUnavailable = errors.New("calculator service unavailable")

// CalculatorPort defines the interface for interacting with the calculator module.
// Consumers should use this interface instead of directly referencing the Module.
type CalculatorPort interface {
	Calculate(ctx context.Context, op arith.Operation, a, b float64) (*Outcome, error)
}

// CalculatorAdapter implements CalculatorPort using the service container.
type CalculatorAdapter struct {
	container mono.ServiceContainer
}

// NewCalculatorAdapter creates a new adapter for the calculator service.
func NewCalculatorAdapter(container mono.ServiceContainer) *CalculatorAdapter {
	return &CalculatorAdapter{container: container}
}

// Calculate runs a single operation through the calculate service.
func (a *CalculatorAdapter) Calculate(ctx context.Context, op arith.Operation, x, y float64) (*Outcome, error) {
	if a.container == nil {
		return nil, ErrServiceUnavailable
	}

	req := CalculateRequest{Operation: op, A: x, B: y}
	var resp CalculateResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceCalculate,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	return outcomeFromResponse(resp)
}

// outcomeFromResponse turns a service response into an Outcome or a sentinel error.
func outcomeFromResponse(resp CalculateResponse) (*Outcome, error) {
	if resp.Error != "" {
		return nil, mapServiceError(resp.Error)
	}

	out := &Outcome{
		Operation: resp.Operation,
		Text:      resp.Text,
	}
	if resp.Result != nil {
		out.Value = *resp.Result
		out.Finite = true
	}
	return out, nil
}

// mapServiceError converts service errors back to sentinel errors
// by checking the error message content. This is necessary because
// errors lose their type information when sent over NATS.
func mapServiceError(msg string) error {
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "division by zero"):
		return arith.ErrDivisionByZero
	case strings.Contains(lower, "unknown operation"):
		return arith.ErrUnknownOperation
	case strings.Contains(lower, "invalid parameter"):
		return arith.ErrInvalidParameter
	}
	return errors.New(msg)
}
