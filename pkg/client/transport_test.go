package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestHTTPTransport_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users" {
			t.Errorf("path = %s, want /api/v1/users", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %s, want 2", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"items":[]}`)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL)
	resp, err := transport.Do(context.Background(), http.MethodGet, "/api/v1/users", url.Values{"page": {"2"}}, nil)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Data) != `{"items":[]}` {
		t.Errorf("Data = %s", resp.Data)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Error("response headers should be forwarded")
	}
}

func TestHTTPTransport_PostBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %s", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["name"] != "widget" {
			t.Errorf("body = %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":1}`)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL)
	resp, err := transport.Do(context.Background(), http.MethodPost, "/api/v1/widgets", nil, map[string]any{"name": "widget"})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want 201", resp.StatusCode)
	}
}

func TestHTTPTransport_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"nope"}`, http.StatusForbidden)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL)
	_, err := transport.Do(context.Background(), http.MethodGet, "/api/v1/secret", nil, nil)

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", te.StatusCode)
	}
	if len(te.Body) == 0 {
		t.Error("error body should be captured")
	}
}

func TestHTTPTransport_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	transport := NewHTTPTransport(server.URL)
	_, err := transport.Do(context.Background(), http.MethodGet, "/api/v1/users", nil, nil)

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for network failures", te.StatusCode)
	}
	if te.Unwrap() == nil {
		t.Error("network failures should wrap the underlying error")
	}
}

func TestHTTPTransport_CustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("Authorization = %q", got)
		}
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL)
	transport.Header.Set("Authorization", "Bearer token")

	if _, err := transport.Do(context.Background(), http.MethodGet, "/api/v1/users", nil, nil); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
}

func TestResponse_JSON(t *testing.T) {
	resp := &Response{Data: []byte(`{"id":7,"name":"x"}`)}

	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := resp.JSON(&out); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if out.ID != 7 || out.Name != "x" {
		t.Errorf("out = %+v", out)
	}
}

func TestTransportError_Error(t *testing.T) {
	withStatus := &TransportError{StatusCode: 500, Endpoint: "/x", Message: "500 Internal Server Error"}
	if withStatus.Error() == "" {
		t.Error("empty error string")
	}

	network := &TransportError{Endpoint: "/x", Err: errors.New("connection refused")}
	if network.Error() == "" {
		t.Error("empty error string")
	}
}
