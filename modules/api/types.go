package api

import (
	"bytes"
	"encoding/json"
)

// Operand is a request operand kept in its raw textual form so the validator
// sees exactly what the client sent. JSON numbers and strings are accepted.
type Operand struct {
	raw string
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Operand) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		o.raw = ""
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		o.raw = s
	default:
		o.raw = string(trimmed)
	}
	return nil
}

// String returns the raw operand text.
func (o Operand) String() string {
	return o.raw
}

// OperandsRequest is the body of POST /api/:operation.
type OperandsRequest struct {
	A Operand `json:"a"`
	B Operand `json:"b"`
}

// ResultResponse is the success body of POST /api/:operation.
// Result is null when the value is not finite.
type ResultResponse struct {
	Result *float64 `json:"result"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
