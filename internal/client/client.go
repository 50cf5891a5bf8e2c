// Package client is a typed HTTP client for the students API, used by the
// web client service.
//
// Usage:
//
//	api := client.New("http://localhost:8082", 5*time.Second)
//	students, err := api.List(ctx)
//	created, err := api.Create(ctx, types.Student{Name: "Alice"})
//
// A non-2xx answer comes back as *APIError carrying the status code and the
// message from the API's error envelope, so callers can tell a rejected
// request (4xx) from an API or data store failure (5xx) with errors.As.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aanand-mishra/students-registration/internal/http/middleware"
	"github.com/aanand-mishra/students-registration/internal/types"
	"github.com/aanand-mishra/students-registration/internal/utils/response"
)

// usersPath serves both list (GET) and create (POST).
const usersPath = "/api/users"

// APIError is a non-2xx answer from the API.
type APIError struct {
	// StatusCode is the HTTP status the API answered with.
	StatusCode int

	// Message is the "error" field of the envelope. It is empty when the
	// body was not an envelope (a proxy error page, for example).
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

// Client calls the API. It holds no per-call state and is safe for
// concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the API at baseURL. timeout bounds each call
// end to end, including reading the body.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// List fetches every registered student.
func (c *Client) List(ctx context.Context) ([]types.Student, error) {
	var students []types.Student
	if err := c.do(ctx, http.MethodGet, usersPath, nil, &students); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if students == nil {
		students = []types.Student{}
	}
	return students, nil
}

// Create registers student and returns the stored record with its id.
// Any ID set on student is ignored by the API.
func (c *Client) Create(ctx context.Context, student types.Student) (types.Student, error) {
	body, err := json.Marshal(student)
	if err != nil {
		return types.Student{}, fmt.Errorf("create student: encode: %w", err)
	}

	var created types.Student
	if err := c.do(ctx, http.MethodPost, usersPath, body, &created); err != nil {
		return types.Student{}, fmt.Errorf("create student: %w", err)
	}
	return created, nil
}

// do sends one request and decodes a 2xx body into out. The request id
// of the calling page request, if any, is forwarded so both services log
// the same id.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := middleware.RequestIDFrom(ctx); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope response.Response
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			apiErr.Message = envelope.Error
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
