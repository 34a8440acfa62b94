package calculator

import "github.com/example/calculator-demo/domain/arith"

// ServiceCalculate is the request-reply service name registered by this module.
// The framework exposes it as "services.calculator.calculate".
const ServiceCalculate = "calculate"

// CalculateRequest is the request for a single arithmetic operation.
type CalculateRequest struct {
	Operation arith.Operation `json:"operation"`
	A         float64         `json:"a"`
	B         float64         `json:"b"`
}

// CalculateResponse is the response from a calculation.
// Result is nil when the value cannot be represented in JSON (Inf, NaN).
type CalculateResponse struct {
	Operation arith.Operation `json:"operation"`
	Result    *float64        `json:"result"`
	Text      string          `json:"text,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Outcome is the adapter's view of a successful calculation.
type Outcome struct {
	Operation arith.Operation
	Value     float64
	Finite    bool
	Text      string
}
