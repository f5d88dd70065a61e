package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

// Header names used by NewIdempotencyHandler.
const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
)

const (
	idempotencyLockTTL   = 30 * time.Second
	idempotencyRecordTTL = 24 * time.Hour
	idempotencyPending   = "PROCESSING"
)

// storedResponse is what a completed request leaves behind in Redis.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

// NewIdempotencyHandler returns a middleware that makes POST requests carrying
// an Idempotency-Key safe to retry. Keys are scoped to the authenticated user,
// so wire it after NewAuthHandler.
//
//   - The first request takes a short lock (SETNX) and runs normally.
//   - A 2xx response is stored for 24h and replayed verbatim, with
//     Idempotent-Replayed: true, to every later request with the same key.
//   - A duplicate that arrives while the first is still running gets 409.
//   - Any other response releases the key so the client can retry.
//
// Redis failures fail open: the request runs as if no key was sent.
// A nil client disables the middleware.
func NewIdempotencyHandler(client redis.UniversalClient, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if r.Method != http.MethodPost || key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			redisKey := idempotencyRedisKey(ctx, key)

			raw, err := client.Get(ctx, redisKey).Bytes()
			switch {
			case err == nil && string(raw) == idempotencyPending:
				writeError(w, http.StatusConflict, "conflict", "a request with this Idempotency-Key is still in progress")
				return
			case err == nil:
				var stored storedResponse
				if jerr := json.Unmarshal(raw, &stored); jerr == nil {
					replay(w, stored)
					return
				}
				log.WarnContext(ctx, "idempotency: unreadable stored response", "key", redisKey)
				next.ServeHTTP(w, r)
				return
			case !errors.Is(err, redis.Nil):
				log.WarnContext(ctx, "idempotency: redis unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := client.SetNX(ctx, redisKey, idempotencyPending, idempotencyLockTTL).Result()
			if err != nil {
				log.WarnContext(ctx, "idempotency: redis unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				writeError(w, http.StatusConflict, "conflict", "a request with this Idempotency-Key is still in progress")
				return
			}

			var body bytes.Buffer
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)

			next.ServeHTTP(ww, r)

			// The response is already sent; finish bookkeeping even if the
			// client has gone away.
			bg := context.WithoutCancel(ctx)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			if status < 200 || status >= 300 {
				if err := client.Del(bg, redisKey).Err(); err != nil {
					log.WarnContext(ctx, "idempotency: release key", "error", err)
				}
				return
			}

			data, err := json.Marshal(storedResponse{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        body.Bytes(),
			})
			if err == nil {
				err = client.Set(bg, redisKey, data, idempotencyRecordTTL).Err()
			}
			if err != nil {
				log.WarnContext(ctx, "idempotency: store response", "error", err)
			}
		})
	}
}

func idempotencyRedisKey(ctx context.Context, key string) string {
	owner := "anonymous"
	if id, ok := UserIDFrom(ctx); ok {
		owner = id.String()
	}
	return fmt.Sprintf("idempotency:%s:%s", owner, key)
}

func replay(w http.ResponseWriter, stored storedResponse) {
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(IdempotentReplayedHeader, "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}
