package api

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"

	"deckofcards/config"
	"deckofcards/database"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
)

type contextKey string

const requestIDKey contextKey = "deckofcards.request_id"

// RequestIDFromContext returns the id set by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithRequestID propagates X-Request-Id, generating one when absent.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", rid)
		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NewServer builds the full emulator handler: routes, CORS, panic
// recovery, request ids and a combined access log written to accessLog.
func NewServer(workerPool *database.WorkerPool, cfg config.Server, logger *log.Logger, accessLog io.Writer) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	if accessLog == nil {
		accessLog = io.Discard
	}

	mux := http.NewServeMux()
	RegisterHandlers(mux, workerPool, cfg)

	var h http.Handler = mux
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet}),
	)(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger),
		handlers.PrintRecoveryStack(true),
	)(h)
	h = WithRequestID(h)
	return handlers.CombinedLoggingHandler(accessLog, h)
}
