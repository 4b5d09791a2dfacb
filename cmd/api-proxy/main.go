// Command api-proxy runs a caching reverse proxy in front of a REST
// API. GET responses are cached with stale-while-revalidate; mutations
// pass through and invalidate matching cache entries.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/senthilnathang/fastnext-api-client/pkg/client"
	"github.com/senthilnathang/fastnext-api-client/pkg/logging"
)

func main() {
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") == "true",
	})

	upstream := getEnv("UPSTREAM_URL", "http://localhost:8000")
	port := getEnv("PORT", "8080")

	cfg := client.DefaultConfig(client.NewHTTPTransport(upstream))
	cfg.StaleWhileRevalidate = true
	if ttl := getEnv("CACHE_TTL", ""); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Fatal().Err(err).Str("value", ttl).Msg("Invalid CACHE_TTL")
		}
		cfg.CacheTTL = d
	}
	if size := getEnv("CACHE_MAX_SIZE", ""); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			log.Fatal().Err(err).Str("value", size).Msg("Invalid CACHE_MAX_SIZE")
		}
		cfg.CacheMaxSize = n
	}

	c, err := client.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create API client")
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/stats", statsHandler(c))
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/api/", apiHandler(c))

	addr := ":" + port
	log.Info().Str("addr", addr).Str("upstream", upstream).Msg("Starting API proxy")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// statsHandler reports cache occupancy as JSON.
func statsHandler(c *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(c.GetCacheStats()); err != nil {
			log.Warn().Err(err).Msg("Failed to write stats response")
		}
	}
}

// apiHandler forwards /api/* requests through the caching client. GET
// goes through the cache; other methods pass through and invalidate.
func apiHandler(c *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		endpoint := r.URL.Path

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		var resp *client.Response
		var err error

		switch r.Method {
		case http.MethodGet:
			resp, err = c.Get(ctx, endpoint, r.URL.Query(), nil)
		case http.MethodPost:
			resp, err = c.Post(ctx, endpoint, readBody(r), nil)
		case http.MethodPut:
			resp, err = c.Put(ctx, endpoint, readBody(r), nil)
		case http.MethodDelete:
			resp, err = c.Delete(ctx, endpoint, nil, nil)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err != nil {
			var terr *client.TransportError
			if errors.As(err, &terr) && terr.StatusCode > 0 {
				// Upstream answered; forward its status and body.
				w.WriteHeader(terr.StatusCode)
				_, _ = w.Write(terr.Body)
				return
			}
			http.Error(w, "upstream request failed: "+err.Error(), http.StatusBadGateway)
			return
		}

		for key, values := range resp.Header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		w.WriteHeader(resp.StatusCode)
		if _, err := w.Write(resp.Data); err != nil {
			log.Warn().Err(err).Msg("Failed to write response")
		}
	}
}

// readBody decodes a JSON request body, or returns nil when the body
// is empty or not JSON. The client re-serializes it for the upstream.
func readBody(r *http.Request) any {
	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		return nil
	}
	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil
	}
	return body
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
