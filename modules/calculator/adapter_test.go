package calculator

import (
	"context"
	"errors"
	"testing"

	"github.com/example/calculator-demo/domain/arith"
)

func TestOutcomeFromResponse(t *testing.T) {
	v := 5.0
	out, err := outcomeFromResponse(CalculateResponse{Operation: arith.OpAdd, Result: &v, Text: "5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Finite || out.Value != 5 || out.Text != "5" {
		t.Errorf("outcome = %+v", out)
	}

	out, err = outcomeFromResponse(CalculateResponse{Operation: arith.OpPower, Text: "Infinity"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Finite || out.Text != "Infinity" {
		t.Errorf("outcome = %+v", out)
	}
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		msg  string
		want error
	}{
		{msg: "Division by zero is not allowed", want: arith.ErrDivisionByZero},
		{msg: `unknown operation: "modulo"`, want: arith.ErrUnknownOperation},
		{msg: "invalid parameter: empty value", want: arith.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			_, err := outcomeFromResponse(CalculateResponse{Error: tt.msg})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := outcomeFromResponse(CalculateResponse{Error: "something else"})
	if err == nil || err.Error() != "something else" {
		t.Errorf("error = %v, want passthrough", err)
	}
}

func TestAdapterWithoutContainer(t *testing.T) {
	adapter := NewCalculatorAdapter(nil)
	_, err := adapter.Calculate(context.Background(), arith.OpAdd, 1, 2)
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("error = %v, want ErrServiceUnavailable", err)
	}
}
