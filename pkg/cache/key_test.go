package cache

import (
	"net/url"
	"strings"
	"testing"
)

func TestKey_Deterministic(t *testing.T) {
	key := Key{
		Endpoint: "/api/v1/users",
		Method:   "GET",
		Query:    url.Values{"a": {"1"}},
	}

	first := key.String()
	second := key.String()

	if first != second {
		t.Errorf("Key not deterministic: %q != %q", first, second)
	}
}

func TestKey_DefaultMethod(t *testing.T) {
	explicit := Key{Endpoint: "/api/v1/users", Method: "GET"}.String()
	implicit := Key{Endpoint: "/api/v1/users"}.String()

	if explicit != implicit {
		t.Errorf("empty method should default to GET: %q != %q", implicit, explicit)
	}

	lower := Key{Endpoint: "/api/v1/users", Method: "get"}.String()
	if lower != explicit {
		t.Errorf("method should be uppercased: %q != %q", lower, explicit)
	}
}

func TestKey_QueryOrderIndependent(t *testing.T) {
	// url.Values iteration order is random; the encoded form must not be.
	a := url.Values{}
	a.Set("page", "1")
	a.Set("size", "20")
	a.Set("sort", "name")

	b := url.Values{}
	b.Set("sort", "name")
	b.Set("size", "20")
	b.Set("page", "1")

	keyA := Key{Endpoint: "/api/v1/users", Query: a}.String()
	keyB := Key{Endpoint: "/api/v1/users", Query: b}.String()

	if keyA != keyB {
		t.Errorf("query order should not matter: %q != %q", keyA, keyB)
	}
}

func TestKey_DistinguishesRequests(t *testing.T) {
	base := Key{Endpoint: "/api/v1/users", Method: "GET"}

	variants := []Key{
		{Endpoint: "/api/v1/roles", Method: "GET"},
		{Endpoint: "/api/v1/users", Method: "POST"},
		{Endpoint: "/api/v1/users", Method: "GET", Query: url.Values{"page": {"2"}}},
		{Endpoint: "/api/v1/users", Method: "POST", Body: map[string]any{"name": "x"}},
	}

	seen := map[string]bool{base.String(): true}
	for _, v := range variants {
		s := v.String()
		if seen[s] {
			t.Errorf("key collision for %+v: %q", v, s)
		}
		seen[s] = true
	}
}

func TestKey_BodySerializedCanonically(t *testing.T) {
	// encoding/json emits map keys sorted, so logically equal bodies
	// produce equal keys regardless of construction order.
	bodyA := map[string]any{"name": "x", "role": "admin"}
	bodyB := map[string]any{"role": "admin", "name": "x"}

	keyA := Key{Endpoint: "/api/v1/users", Method: "POST", Body: bodyA}.String()
	keyB := Key{Endpoint: "/api/v1/users", Method: "POST", Body: bodyB}.String()

	if keyA != keyB {
		t.Errorf("body key order should not matter: %q != %q", keyA, keyB)
	}
}

func TestKey_EmptyParts(t *testing.T) {
	key := Key{Endpoint: "/api/v1/users"}.String()

	if got, want := key, "/api/v1/users|GET|{}|{}"; got != want {
		t.Errorf("key = %q, want %q", got, want)
	}
	if strings.Count(key, "|") != 3 {
		t.Errorf("key should have exactly 3 separators: %q", key)
	}
}
