package calculator

import (
	"context"
	"testing"

	"github.com/example/calculator-demo/domain/arith"
	"github.com/go-monolith/mono/pkg/types"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)         {}
func (m *mockLogger) Info(msg string, args ...any)          {}
func (m *mockLogger) Warn(msg string, args ...any)          {}
func (m *mockLogger) Error(msg string, args ...any)         {}
func (m *mockLogger) With(args ...any) types.Logger         { return m }
func (m *mockLogger) WithError(err error) types.Logger      { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

func TestCalculateResponse(t *testing.T) {
	m := NewModule(&mockLogger{})

	tests := []struct {
		name       string
		req        CalculateRequest
		wantResult float64
		wantNull   bool
		wantText   string
		wantError  string
	}{
		{
			name:       "successful add",
			req:        CalculateRequest{Operation: arith.OpAdd, A: 2, B: 3},
			wantResult: 5,
			wantText:   "5",
		},
		{
			name:       "multiply negative",
			req:        CalculateRequest{Operation: arith.OpMultiply, A: -3, B: 4},
			wantResult: -12,
			wantText:   "-12",
		},
		{
			name:       "power",
			req:        CalculateRequest{Operation: arith.OpPower, A: 2, B: 10},
			wantResult: 1024,
			wantText:   "1024",
		},
		{
			name:     "power overflow has no JSON result",
			req:      CalculateRequest{Operation: arith.OpPower, A: 10, B: 400},
			wantNull: true,
			wantText: "Infinity",
		},
		{
			name:      "division by zero returns error in response",
			req:       CalculateRequest{Operation: arith.OpDivide, A: 10, B: 0},
			wantError: "Division by zero is not allowed",
		},
		{
			name:      "unknown operation returns error in response",
			req:       CalculateRequest{Operation: "modulo", A: 1, B: 2},
			wantError: `unknown operation: "modulo"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := m.calculate(context.Background(), tt.req, nil)
			if err != nil {
				t.Fatalf("calculate() returned Go error: %v", err)
			}

			if resp.Operation != tt.req.Operation {
				t.Errorf("calculate() operation = %v, want %v", resp.Operation, tt.req.Operation)
			}

			if tt.wantError != "" {
				if resp.Error != tt.wantError {
					t.Errorf("calculate() error = %q, want %q", resp.Error, tt.wantError)
				}
				if resp.Result != nil {
					t.Errorf("calculate() result = %v, want nil", *resp.Result)
				}
				return
			}

			if resp.Text != tt.wantText {
				t.Errorf("calculate() text = %q, want %q", resp.Text, tt.wantText)
			}
			if tt.wantNull {
				if resp.Result != nil {
					t.Errorf("calculate() result = %v, want nil", *resp.Result)
				}
				return
			}
			if resp.Result == nil || *resp.Result != tt.wantResult {
				t.Errorf("calculate() result = %v, want %v", resp.Result, tt.wantResult)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	m := NewModule(&mockLogger{})
	ctx := context.Background()

	if m.Health(ctx).Healthy {
		t.Error("expected unhealthy before Start")
	}
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !m.Health(ctx).Healthy {
		t.Error("expected healthy after Start")
	}
	if err := m.Stop(ctx); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
}
