package arith

import (
	"fmt"
	"math"
)

// Add returns a + b.
func Add(a, b float64) float64 {
	return a + b
}

// Subtract returns a - b.
func Subtract(a, b float64) float64 {
	return a - b
}

// Multiply returns a * b.
func Multiply(a, b float64) float64 {
	return a * b
}

// Power returns a raised to b.
func Power(a, b float64) float64 {
	return math.Pow(a, b)
}

// Divide returns a / b, or ErrDivisionByZero when b is zero.
func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

// Apply runs op over a and b.
func Apply(op Operation, a, b float64) (float64, error) {
	switch op {
	case OpAdd:
		return Add(a, b), nil
	case OpSubtract:
		return Subtract(a, b), nil
	case OpMultiply:
		return Multiply(a, b), nil
	case OpDivide:
		return Divide(a, b)
	case OpPower:
		return Power(a, b), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
}
