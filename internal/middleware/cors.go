// Package middleware provides reusable HTTP middleware for the TravelMate API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// Browsers may send the bearer token and an Idempotency-Key on cross-origin writes.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", IdempotencyKeyHeader},
		ExposedHeaders: []string{IdempotentReplayedHeader},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
