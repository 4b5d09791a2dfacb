package cache

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Key identifies a cached response by the request that produced it.
type Key struct {
	// Endpoint is the API path (e.g. "/api/v1/users")
	Endpoint string

	// Method is the HTTP method; empty defaults to GET
	Method string

	// Query holds the query parameters
	Query url.Values

	// Body is the request body, if any (mutating requests)
	Body any
}

// String builds a deterministic key string.
// Format: endpoint|METHOD|query|body with query parameters sorted by
// name and the body serialized as canonical JSON (encoding/json emits
// map keys in sorted order), so identical logical requests always
// produce identical keys.
//
// Example:
//
//	/api/v1/users|GET|page=1&size=20|{}
func (k Key) String() string {
	method := strings.ToUpper(k.Method)
	if method == "" {
		method = "GET"
	}

	return strings.Join([]string{
		k.Endpoint,
		method,
		encodeQuery(k.Query),
		encodeBody(k.Body),
	}, "|")
}

func encodeQuery(q url.Values) string {
	if len(q) == 0 {
		return "{}"
	}
	// Encode sorts by parameter name.
	return q.Encode()
}

func encodeBody(body any) string {
	if body == nil {
		return "{}"
	}
	data, err := json.Marshal(body)
	if err != nil {
		// Unserializable bodies still need a stable key; the type name
		// keeps differing shapes apart within the same method+endpoint.
		return fmt.Sprintf("<%T>", body)
	}
	return string(data)
}
