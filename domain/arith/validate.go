package arith

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseOperand parses a raw parameter into a finite number.
// Surrounding whitespace is ignored; empty input, hex floats, NaN and
// infinities are rejected.
func ParseOperand(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidParameter)
	}
	if strings.ContainsAny(s, "xX_") {
		return 0, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidParameter, raw)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidParameter, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrInvalidParameter, raw)
	}
	return v, nil
}

// ValidateOperands parses every raw parameter, failing on the first invalid one.
func ValidateOperands(raw ...string) ([]float64, error) {
	values := make([]float64, len(raw))
	for i, r := range raw {
		v, err := ParseOperand(r)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}
