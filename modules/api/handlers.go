package api

import (
	"errors"

	"github.com/example/calculator-demo/domain/arith"
	"github.com/example/calculator-demo/modules/calculator"
	"github.com/example/calculator-demo/modules/stats"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// Response messages that are part of the public contract.
const (
	msgInvalidQuery       = "Invalid query parameters"
	msgInvalidBody        = "Invalid request body"
	msgInvalidOperands    = "Parameters a and b must be valid numbers"
	msgServiceUnavailable = "Calculator service unavailable"
)

// Handlers contains HTTP handlers for the calculator API.
type Handlers struct {
	calculator calculator.CalculatorPort
	stats      stats.StatsPort
	logger     types.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(calc calculator.CalculatorPort, st stats.StatsPort, logger types.Logger) *Handlers {
	return &Handlers{
		calculator: calc,
		stats:      st,
		logger:     logger,
	}
}

// TextOperation handles GET /<operation>?a=&b= and answers in plain text.
func (h *Handlers) TextOperation(op arith.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		values, err := arith.ValidateOperands(c.Query("a"), c.Query("b"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(msgInvalidQuery)
		}

		out, err := h.calculator.Calculate(c.UserContext(), op, values[0], values[1])
		if err != nil {
			status, message := h.classify(err)
			return c.Status(status).SendString(message)
		}

		return c.SendString(out.Text)
	}
}

// JSONOperation handles POST /api/<operation> with a {"a", "b"} body.
func (h *Handlers) JSONOperation(op arith.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req OperandsRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidBody})
		}

		values, err := arith.ValidateOperands(req.A.String(), req.B.String())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidOperands})
		}

		out, err := h.calculator.Calculate(c.UserContext(), op, values[0], values[1])
		if err != nil {
			status, message := h.classify(err)
			return c.Status(status).JSON(ErrorResponse{Error: message})
		}

		resp := ResultResponse{}
		if out.Finite {
			v := out.Value
			resp.Result = &v
		}
		return c.JSON(resp)
	}
}

// UnknownOperation handles POST /api/:operation for unsupported operations.
func (h *Handlers) UnknownOperation(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error: "Unknown operation: " + c.Params("operation"),
	})
}

// Stats handles GET /api/stats.
func (h *Handlers) Stats(c *fiber.Ctx) error {
	if h.stats == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "Stats are not available"})
	}
	resp, err := h.stats.GetStats(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to get stats", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "Stats are not available"})
	}
	return c.JSON(resp)
}

// Health handles GET /health.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "healthy",
		Service: "calculator-demo",
	})
}

// classify maps a calculation error to an HTTP status and client message.
func (h *Handlers) classify(err error) (int, string) {
	switch {
	case errors.Is(err, arith.ErrDivisionByZero):
		return fiber.StatusBadRequest, arith.ErrDivisionByZero.Error()
	case errors.Is(err, arith.ErrInvalidParameter):
		return fiber.StatusBadRequest, msgInvalidOperands
	case errors.Is(err, arith.ErrUnknownOperation):
		return fiber.StatusNotFound, "Unknown operation"
	case errors.Is(err, calculator.ErrServiceUnavailable):
		h.logger.Error("Calculator service call failed", "error", err)
		return fiber.StatusBadGateway, msgServiceUnavailable
	default:
		h.logger.Error("Unexpected calculation error", "error", err)
		return fiber.StatusInternalServerError, "Internal Server Error"
	}
}
