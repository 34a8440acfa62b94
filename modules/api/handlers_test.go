package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/example/calculator-demo/config"
	"github.com/example/calculator-demo/domain/arith"
	"github.com/example/calculator-demo/modules/calculator"
	"github.com/example/calculator-demo/modules/stats"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

// mockCalculator implements calculator.CalculatorPort with the real arithmetic.
type mockCalculator struct {
	calls atomic.Int32
	err   error
}

func (m *mockCalculator) Calculate(_ context.Context, op arith.Operation, a, b float64) (*calculator.Outcome, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	v, err := arith.Apply(op, a, b)
	if err != nil {
		return nil, err
	}
	finite := !math.IsInf(v, 0) && !math.IsNaN(v)
	return &calculator.Outcome{Operation: op, Value: v, Finite: finite, Text: arith.FormatNumber(v)}, nil
}

// mockStats implements stats.StatsPort for testing
type mockStats struct {
	resp *stats.StatsResponse
	err  error
}

func (m *mockStats) GetStats(_ context.Context) (*stats.StatsResponse, error) {
	return m.resp, m.err
}

func newTestApp(t *testing.T, calc calculator.CalculatorPort, limiter fiber.Handler) *fiber.App {
	t.Helper()

	publicDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "index.html"), []byte("<h1>Calculator</h1>"), 0o644))

	cfg := config.Default()
	cfg.PublicDir = publicDir

	st := &mockStats{resp: &stats.StatsResponse{Total: 3, Operations: map[string]stats.OperationStats{}}}
	app, err := newApp(cfg, NewHandlers(calc, st, &mockLogger{}), limiter, &mockLogger{})
	require.NoError(t, err)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestTextOperations(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
	}{
		{"add", "/add?a=2&b=3", http.StatusOK, "5"},
		{"subtract", "/subtract?a=10&b=4", http.StatusOK, "6"},
		{"multiply", "/multiply?a=-3&b=4", http.StatusOK, "-12"},
		{"divide", "/divide?a=10&b=4", http.StatusOK, "2.5"},
		{"power", "/pow?a=2&b=10", http.StatusOK, "1024"},
		{"fractional sum", "/add?a=0.1&b=0.2", http.StatusOK, "0.30000000000000004"},
		{"surrounding whitespace", "/add?a=%202%20&b=3", http.StatusOK, "5"},
		{"power overflow", "/pow?a=10&b=400", http.StatusOK, "Infinity"},
		{"divide by zero", "/divide?a=1&b=0", http.StatusBadRequest, "Division by zero is not allowed"},
		{"non numeric", "/add?a=abc&b=3", http.StatusBadRequest, "Invalid query parameters"},
		{"missing b", "/add?a=1", http.StatusBadRequest, "Invalid query parameters"},
		{"empty a", "/multiply?a=&b=2", http.StatusBadRequest, "Invalid query parameters"},
		{"infinity literal", "/add?a=Infinity&b=1", http.StatusBadRequest, "Invalid query parameters"},
	}

	app := newTestApp(t, &mockCalculator{}, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doRequest(t, app, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestTextOperationRejectsBeforeCalculating(t *testing.T) {
	calc := &mockCalculator{}
	app := newTestApp(t, calc, nil)

	resp, _ := doRequest(t, app, http.MethodGet, "/add?a=abc&b=3", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(0), calc.calls.Load())
}

func TestJSONOperationRejectsBeforeCalculating(t *testing.T) {
	calc := &mockCalculator{}
	app := newTestApp(t, calc, nil)

	for _, body := range []string{`{"a":"abc","b":1}`, `{"a":1}`, `{"a":`} {
		resp, _ := doRequest(t, app, http.MethodPost, "/api/add", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
	assert.Equal(t, int32(0), calc.calls.Load())
}

func TestJSONOperations(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"add", "/api/add", `{"a":2,"b":3}`, http.StatusOK, `{"result":5}`},
		{"subtract", "/api/subtract", `{"a":2,"b":5}`, http.StatusOK, `{"result":-3}`},
		{"multiply", "/api/multiply", `{"a":-3,"b":4}`, http.StatusOK, `{"result":-12}`},
		{"divide", "/api/divide", `{"a":9,"b":3}`, http.StatusOK, `{"result":3}`},
		{"power", "/api/power", `{"a":2,"b":-1}`, http.StatusOK, `{"result":0.5}`},
		{"string operands", "/api/add", `{"a":"1.5","b":" 2 "}`, http.StatusOK, `{"result":3.5}`},
		{"power overflow", "/api/power", `{"a":10,"b":400}`, http.StatusOK, `{"result":null}`},
		{"divide by zero", "/api/divide", `{"a":10,"b":0}`, http.StatusBadRequest, `{"error":"Division by zero is not allowed"}`},
		{"missing operand", "/api/add", `{"a":1}`, http.StatusBadRequest, `{"error":"Parameters a and b must be valid numbers"}`},
		{"null operand", "/api/add", `{"a":null,"b":1}`, http.StatusBadRequest, `{"error":"Parameters a and b must be valid numbers"}`},
		{"non numeric string", "/api/add", `{"a":"abc","b":1}`, http.StatusBadRequest, `{"error":"Parameters a and b must be valid numbers"}`},
		{"boolean operand", "/api/add", `{"a":true,"b":1}`, http.StatusBadRequest, `{"error":"Parameters a and b must be valid numbers"}`},
		{"malformed body", "/api/add", `{"a":`, http.StatusBadRequest, `{"error":"Invalid request body"}`},
		{"unknown operation", "/api/modulo", `{"a":1,"b":2}`, http.StatusNotFound, `{"error":"Unknown operation: modulo"}`},
	}

	app := newTestApp(t, &mockCalculator{}, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doRequest(t, app, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.JSONEq(t, tt.wantBody, body)
		})
	}
}

func TestServiceUnavailable(t *testing.T) {
	calc := &mockCalculator{err: errors.Join(calculator.ErrServiceUnavailable, errors.New("nats: timeout"))}
	app := newTestApp(t, calc, nil)

	resp, body := doRequest(t, app, http.MethodPost, "/api/add", `{"a":1,"b":2}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Calculator service unavailable"}`, body)

	resp, body = doRequest(t, app, http.MethodGet, "/add?a=1&b=2", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Calculator service unavailable", body)
}

func TestRequestIDHeader(t *testing.T) {
	app := newTestApp(t, &mockCalculator{}, nil)

	resp, _ := doRequest(t, app, http.MethodGet, "/add?a=1&b=1", "")
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestLimiterAppliesToOperationsOnly(t *testing.T) {
	var limited atomic.Int32
	limiter := func(c *fiber.Ctx) error {
		limited.Add(1)
		return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{Error: "Rate limit exceeded"})
	}
	calc := &mockCalculator{}
	app := newTestApp(t, calc, limiter)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/add", `{"a":1,"b":2}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, int32(1), limited.Load())
	assert.Equal(t, int32(0), calc.calls.Load())
}

func TestStatsAndHealth(t *testing.T) {
	app := newTestApp(t, &mockCalculator{}, nil)

	resp, body := doRequest(t, app, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got stats.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, int64(3), got.Total)

	resp, body = doRequest(t, app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy","service":"calculator-demo"}`, body)
}

func TestDocsEndpoints(t *testing.T) {
	app := newTestApp(t, &mockCalculator{}, nil)

	resp, body := doRequest(t, app, http.MethodGet, "/api-docs/openapi.json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc openAPIDoc
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	for _, path := range []string{"/add", "/subtract", "/multiply", "/divide", "/pow"} {
		require.Contains(t, doc.Paths, path)
		assert.Contains(t, doc.Paths[path], "get")
	}
	for _, op := range arith.Operations {
		require.Contains(t, doc.Paths, "/api/"+string(op))
		assert.Contains(t, doc.Paths["/api/"+string(op)], "post")
	}
	assert.Contains(t, doc.Paths["/divide"]["get"].Responses["400"].Description, "division by zero")

	resp, body = doRequest(t, app, http.MethodGet, "/api-docs/openapi.yaml", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "openapi: 3.0.3")

	resp, body = doRequest(t, app, http.MethodGet, "/api-docs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "/api-docs/openapi.json")
}

func TestStaticFiles(t *testing.T) {
	app := newTestApp(t, &mockCalculator{}, nil)

	resp, body := doRequest(t, app, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Calculator")

	resp, _ = doRequest(t, app, http.MethodGet, "/missing.html", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOperandUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`12.5`, "12.5"},
		{`"7"`, "7"},
		{`null`, ""},
		{`-1e3`, "-1e3"},
	}
	for _, tt := range tests {
		var o Operand
		require.NoError(t, json.Unmarshal([]byte(tt.in), &o))
		assert.Equal(t, tt.want, o.String())
	}
}
