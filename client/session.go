package client

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/example/calculator-demo/domain/arith"
)

// DefaultResetDelay is how long an error stays on the display before the
// session resets itself.
const DefaultResetDelay = 2 * time.Second

// resultPlaces is the number of decimals results are rounded to.
const resultPlaces = 10

// ErrUnknownKey is returned by Press for keys with no binding.
var ErrUnknownKey = errors.New("unknown key")

// Calculator is what a Session evaluates operations against. *Client satisfies it.
type Calculator interface {
	Calculate(ctx context.Context, op arith.Operation, a, b float64) (float64, error)
}

// State is the position of a Session in the keypad state machine.
type State int

const (
	StateEnteringFirst State = iota
	StateOperatorSelected
	StateEnteringSecond
	StateError
)

func (s State) String() string {
	switch s {
	case StateEnteringFirst:
		return "entering-first-operand"
	case StateOperatorSelected:
		return "operator-selected"
	case StateEnteringSecond:
		return "entering-second-operand"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Option configures a Session.
type Option func(*Session)

// WithResetDelay overrides DefaultResetDelay.
func WithResetDelay(d time.Duration) Option {
	return func(s *Session) {
		s.resetDelay = d
	}
}

// Session is a keypad calculator. Operations chain left to right without
// precedence; every evaluation goes through the Calculator.
type Session struct {
	mu sync.Mutex

	calc       Calculator
	current    string
	previous   string
	operator   arith.Operation
	newInput   bool
	state      State
	message    string
	resetDelay time.Duration

	// afterFunc schedules the error reset; replaced in tests.
	afterFunc func(d time.Duration, f func()) (stop func() bool)
	stopReset func() bool
	// resetGen invalidates reset callbacks scheduled before the last clear.
	resetGen uint64
}

// NewSession creates a session in its initial state.
func NewSession(calc Calculator, opts ...Option) *Session {
	s := &Session{
		calc:       calc,
		current:    "0",
		resetDelay: DefaultResetDelay,
		afterFunc: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Display returns what the calculator screen shows.
func (s *Session) Display() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateError {
		return s.message
	}
	return s.current
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending returns the stored operand and operator, if any.
func (s *Session) Pending() (string, arith.Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previous, s.operator
}

// Digit enters one decimal digit.
func (s *Session) Digit(d rune) {
	if d < '0' || d > '9' {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateError {
		return
	}

	if s.newInput || s.current == "0" {
		s.current = string(d)
		s.newInput = false
	} else {
		s.current += string(d)
	}
	s.markEntering()
}

// Decimal enters the decimal point.
func (s *Session) Decimal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateError {
		return
	}

	if s.newInput {
		s.current = "0."
		s.newInput = false
	} else if !strings.Contains(s.current, ".") {
		s.current += "."
	}
	s.markEntering()
}

// Operator selects op. A pending operation with an entered second operand is
// evaluated first.
func (s *Session) Operator(ctx context.Context, op arith.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateError {
		return nil
	}

	if s.operator != "" && !s.newInput {
		if err := s.evaluate(ctx); err != nil {
			return err
		}
	}

	s.previous = s.current
	s.operator = op
	s.newInput = true
	s.state = StateOperatorSelected
	return nil
}

// Equals evaluates the pending operation. Without one it does nothing.
func (s *Session) Equals(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateError || s.operator == "" {
		return nil
	}
	return s.evaluate(ctx)
}

// Clear resets the session (AC). It is the only input honoured in the error state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// ClearEntry resets the current value only (CE).
func (s *Session) ClearEntry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateError {
		return
	}
	s.current = "0"
}

// Backspace removes the last entered character.
func (s *Session) Backspace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateError {
		return
	}

	if len(s.current) > 1 {
		s.current = s.current[:len(s.current)-1]
	} else {
		s.current = "0"
	}
	if s.current == "-" {
		s.current = "0"
	}
}

// Percent divides the current value by 100.
func (s *Session) Percent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateError {
		return
	}

	v, err := arith.ParseOperand(s.current)
	if err != nil {
		s.fail("Invalid number")
		return
	}
	s.current = arith.FormatNumber(arith.RoundTo(v/100, resultPlaces))
}

// Press dispatches a single keyboard key.
func (s *Session) Press(ctx context.Context, key string) error {
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		s.Digit(rune(key[0]))
		return nil
	}
	if op, ok := arith.OperationForSymbol(key); ok {
		return s.Operator(ctx, op)
	}

	switch key {
	case ".", ",":
		s.Decimal()
	case "Enter", "=":
		return s.Equals(ctx)
	case "Escape":
		s.Clear()
	case "Backspace":
		s.Backspace()
	case "%":
		s.Percent()
	default:
		return ErrUnknownKey
	}
	return nil
}

// evaluate runs previous <operator> current. Caller holds s.mu.
func (s *Session) evaluate(ctx context.Context) error {
	a, errA := arith.ParseOperand(s.previous)
	b, errB := arith.ParseOperand(s.current)
	if errA != nil || errB != nil {
		s.fail("Invalid number")
		return errors.Join(errA, errB)
	}

	result, err := s.calc.Calculate(ctx, s.operator, a, b)
	if err != nil {
		var apiErr *APIError
		switch {
		case errors.Is(err, ErrNonFinite):
			s.fail("Result is not a finite number")
		case errors.As(err, &apiErr) && apiErr.Message != "":
			s.fail(apiErr.Message)
		case errors.As(err, &apiErr):
			s.fail("Calculation error")
		default:
			s.fail("Connection error")
		}
		return err
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		s.fail("Result is not a finite number")
		return ErrNonFinite
	}

	s.current = arith.FormatNumber(arith.RoundTo(result, resultPlaces))
	s.previous = ""
	s.operator = ""
	s.newInput = true
	s.state = StateEnteringFirst
	return nil
}

// markEntering updates the state after operand input. Caller holds s.mu.
func (s *Session) markEntering() {
	if s.operator != "" {
		s.state = StateEnteringSecond
	} else {
		s.state = StateEnteringFirst
	}
}

// fail enters the error state and schedules the reset. Caller holds s.mu.
func (s *Session) fail(message string) {
	s.state = StateError
	s.message = message
	if s.stopReset != nil {
		s.stopReset()
	}
	gen := s.resetGen
	s.stopReset = s.afterFunc(s.resetDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.resetGen == gen {
			s.reset()
		}
	})
}

// reset returns to the initial state. Caller holds s.mu.
func (s *Session) reset() {
	if s.stopReset != nil {
		s.stopReset()
		s.stopReset = nil
	}
	s.resetGen++
	s.current = "0"
	s.previous = ""
	s.operator = ""
	s.newInput = false
	s.state = StateEnteringFirst
	s.message = ""
}
