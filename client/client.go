// Package client talks to the calculator HTTP API and drives a keypad-style
// calculator session on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/calculator-demo/domain/arith"
)

// DefaultBaseURL is the address of a locally running server.
const DefaultBaseURL = "http://localhost:3000"

// ErrNonFinite is returned when the server computed an infinite or NaN
// result, which the JSON API reports as null.
var ErrNonFinite = errors.New("result is not a finite number")

// APIError is returned for any non-200 response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Client calls the calculator API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type operandsRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

type resultResponse struct {
	Result *float64 `json:"result"`
	Error  string   `json:"error"`
}

// Calculate performs op through POST /api/<op>. A null result from the server
// is reported as ErrNonFinite.
func (c *Client) Calculate(ctx context.Context, op arith.Operation, a, b float64) (float64, error) {
	body, err := json.Marshal(operandsRequest{A: a, B: b})
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/"+string(op), bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var out resultResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, &APIError{Status: resp.StatusCode, Message: "malformed response"}
	}
	if resp.StatusCode != http.StatusOK {
		return 0, &APIError{Status: resp.StatusCode, Message: out.Error}
	}
	if out.Result == nil {
		return 0, ErrNonFinite
	}
	return *out.Result, nil
}

// CalculateText performs op through the plain-text GET endpoint and returns
// the body as sent by the server.
func (c *Client) CalculateText(ctx context.Context, op arith.Operation, a, b float64) (string, error) {
	path := "/" + string(op)
	if op == arith.OpPower {
		path = "/pow"
	}
	q := url.Values{}
	q.Set("a", strconv.FormatFloat(a, 'g', -1, 64))
	q.Set("b", strconv.FormatFloat(b, 'g', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Status: resp.StatusCode, Message: string(data)}
	}
	return string(data), nil
}
