package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sermonmate/sermonmate/internal/logging"
	"github.com/sermonmate/sermonmate/internal/server/metrics"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterConfig struct {
	WebhookPath string
	RateLimit   float64
	RateBurst   int
}

// NewRouter wires the webhook, /healthz and /metrics routes. Only the webhook
// route is rate limited.
func NewRouter(c RouterConfig, webhook http.Handler, db Pinger, m *metrics.Metrics, logger logging.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(logger), MetricsMiddleware(m))

	limiter := NewRateLimiter(c.RateLimit, c.RateBurst, m)
	r.Handle(c.WebhookPath, limiter.Middleware(webhook)).Methods(http.MethodPost)

	r.HandleFunc("/healthz", healthHandler(db)).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
