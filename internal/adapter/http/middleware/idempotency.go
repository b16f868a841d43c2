package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Benbok/friendly-loan/internal/usecase"
)

// IdempotencyKeyHeader is the client-supplied retry key.
const IdempotencyKeyHeader = "Idempotency-Key"

// storedResponse is the cached shape of a completed request.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// responseRecorder captures the response so it can be replayed.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// IdempotencyMiddleware makes mutating requests safe to retry.
// Clients send an Idempotency-Key header; a repeated key replays the
// stored response instead of executing the handler again. Requests
// without the header pass through untouched.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new idempotency middleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap applies idempotency handling to the next handler.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" || (r.Method != http.MethodPost && r.Method != http.MethodDelete) {
			next.ServeHTTP(w, r)
			return
		}

		key = r.Method + ":" + r.URL.Path + ":" + key

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, []byte("processing"), m.ttl)
		if err != nil {
			log.Error().Err(err).Msg("idempotency check failed")
			next.ServeHTTP(w, r)
			return
		}

		if exists {
			var stored storedResponse
			if err := json.Unmarshal(cached, &stored); err != nil {
				// Original request still in flight.
				writeJSONError(w, http.StatusConflict, "request with this idempotency key is being processed")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			w.WriteHeader(stored.Status)
			w.Write(stored.Body)
			return
		}

		recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		// Client errors replay like successes: the same key means the
		// same request, so it gets the same verdict. Server errors are
		// not stored; the lock expires with the TTL.
		if recorder.status < 500 {
			stored, err := json.Marshal(storedResponse{
				Status: recorder.status,
				Body:   recorder.body.Bytes(),
			})
			if err == nil {
				if err := m.store.Update(r.Context(), key, stored, m.ttl); err != nil {
					log.Error().Err(err).Msg("failed to store idempotent response")
				}
			}
		}
	})
}
