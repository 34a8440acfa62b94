// Package arith holds the calculator's operand validation and the five
// arithmetic operations exposed by the service.
package arith

// Operation identifies one of the supported arithmetic operations.
type Operation string

// Supported operations.
const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
	OpPower    Operation = "power"
)

// Operations lists every supported operation in display order.
var Operations = []Operation{OpAdd, OpSubtract, OpMultiply, OpDivide, OpPower}

// Valid reports whether op is a supported operation.
func (op Operation) Valid() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpPower:
		return true
	}
	return false
}

// Symbol returns the infix symbol used by calculator keypads.
func (op Operation) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpPower:
		return "^"
	}
	return ""
}

// OperationForSymbol maps a keypad symbol back to its operation.
func OperationForSymbol(symbol string) (Operation, bool) {
	for _, op := range Operations {
		if op.Symbol() == symbol {
			return op, true
		}
	}
	return "", false
}
