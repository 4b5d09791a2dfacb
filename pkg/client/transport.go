package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Response is the transport-level result of a request.
type Response struct {
	// Data is the raw response body.
	Data []byte

	// StatusCode is the HTTP status code.
	StatusCode int

	// Header holds the response headers.
	Header http.Header
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Data, v)
}

// Transport executes a single request against the upstream API.
// Implementations return *TransportError for non-2xx statuses and
// network failures. The layer is transport-agnostic: whatever
// serialization the implementation uses is forwarded untouched.
type Transport interface {
	Do(ctx context.Context, method, endpoint string, query url.Values, body any) (*Response, error)
}

// HTTPTransport is the default Transport over net/http with JSON
// request bodies.
type HTTPTransport struct {
	// BaseURL is prepended to every endpoint path.
	BaseURL string

	// Client is the underlying HTTP client.
	Client *http.Client

	// Header holds extra headers sent on every request (e.g. auth).
	Header http.Header
}

// NewHTTPTransport creates a transport for the given base URL with a
// 30 second request timeout.
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		Header: http.Header{},
	}
}

// Do implements Transport.
func (t *HTTPTransport) Do(ctx context.Context, method, endpoint string, query url.Values, body any) (*Response, error) {
	u := t.BaseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range t.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    "read response body",
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    resp.Status,
			Body:       data,
		}
	}

	return &Response{
		Data:       data,
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
	}, nil
}
