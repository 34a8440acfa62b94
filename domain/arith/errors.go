package arith

import "errors"

// Calculation errors. The messages are part of the HTTP contract.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrDivisionByZero   = errors.New("Division by zero is not allowed")
	ErrUnknownOperation = errors.New("unknown operation")
)
