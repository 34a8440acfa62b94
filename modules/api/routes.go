package api

import (
	"github.com/example/calculator-demo/domain/arith"
	"github.com/gofiber/fiber/v2"
)

type routeKind int

const (
	textRoute routeKind = iota
	jsonRoute
	infoRoute
)

// route is one annotated endpoint. The same table drives route registration
// and the generated OpenAPI document.
type route struct {
	Method    string
	Path      string
	Summary   string
	Tag       string
	Kind      routeKind
	Operation arith.Operation
	Limited   bool
	Handler   fiber.Handler
}

// textPaths maps operations to their plain-text GET paths.
var textPaths = map[arith.Operation]string{
	arith.OpAdd:      "/add",
	arith.OpSubtract: "/subtract",
	arith.OpMultiply: "/multiply",
	arith.OpDivide:   "/divide",
	arith.OpPower:    "/pow",
}

var summaries = map[arith.Operation]string{
	arith.OpAdd:      "Adds two numbers",
	arith.OpSubtract: "Subtracts b from a",
	arith.OpMultiply: "Multiplies two numbers",
	arith.OpDivide:   "Divides a by b",
	arith.OpPower:    "Raises a to the power of b",
}

// routes returns every documented endpoint.
func (h *Handlers) routes() []route {
	var rs []route

	for _, op := range arith.Operations {
		rs = append(rs, route{
			Method:    fiber.MethodGet,
			Path:      textPaths[op],
			Summary:   summaries[op],
			Tag:       "text",
			Kind:      textRoute,
			Operation: op,
			Limited:   true,
			Handler:   h.TextOperation(op),
		})
	}

	for _, op := range arith.Operations {
		rs = append(rs, route{
			Method:    fiber.MethodPost,
			Path:      "/api/" + string(op),
			Summary:   summaries[op],
			Tag:       "json",
			Kind:      jsonRoute,
			Operation: op,
			Limited:   true,
			Handler:   h.JSONOperation(op),
		})
	}

	rs = append(rs,
		route{
			Method:  fiber.MethodGet,
			Path:    "/api/stats",
			Summary: "Per-operation calculation counters",
			Tag:     "info",
			Kind:    infoRoute,
			Handler: h.Stats,
		},
		route{
			Method:  fiber.MethodGet,
			Path:    "/health",
			Summary: "Health check",
			Tag:     "info",
			Kind:    infoRoute,
			Handler: h.Health,
		},
	)
	return rs
}
