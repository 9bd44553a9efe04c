// Package httpapi serves the Clerk webhook, health and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sermonmate/sermonmate/internal/logging"
	"github.com/sermonmate/sermonmate/internal/server/archive"
	"github.com/sermonmate/sermonmate/internal/server/dedupe"
	"github.com/sermonmate/sermonmate/internal/server/metrics"
	"github.com/sermonmate/sermonmate/internal/server/services"
	"github.com/sermonmate/sermonmate/internal/server/svix"
)

// maxPayload bounds the webhook body read into memory.
const maxPayload = 1 << 20

const (
	msgInternal     = "Internal server error"
	msgVerification = "Verification failed"
	msgInvalid      = "Invalid payload"
	msgTooLarge     = "Payload too large"
	msgStore        = "Failed to create user profile"
)

// EventHandler applies a verified payload.
type EventHandler interface {
	HandleEvent(ctx context.Context, payload []byte) (services.Outcome, error)
}

type WebhookHandler struct {
	verifier *svix.Verifier
	events   EventHandler
	dedupe   dedupe.Store
	archive  archive.Archiver
	metrics  *metrics.Metrics
	logger   logging.Logger
	now      func() time.Time
}

// NewWebhookHandler builds the handler. A nil verifier means no secret is
// configured; every delivery is then answered with 500.
func NewWebhookHandler(v *svix.Verifier, events EventHandler, d dedupe.Store, a archive.Archiver, m *metrics.Metrics, logger logging.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier: v,
		events:   events,
		dedupe:   d,
		archive:  a,
		metrics:  m,
		logger:   logger.With("module", "webhook"),
		now:      time.Now,
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.verifier == nil {
		h.logger.Error(ctx, "webhook secret not configured")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn(ctx, "webhook payload too large", "limit", tooLarge.Limit)
			h.metrics.RecordEvent("", "too_large")
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalid)
		return
	}

	id, err := h.verifier.Verify(payload, r.Header)
	if err != nil {
		status, msg := http.StatusInternalServerError, msgInternal
		if errors.Is(err, svix.ErrVerification) {
			status, msg = http.StatusBadRequest, msgVerification
		}
		h.logger.Warn(ctx, "webhook verification failed", "error", err)
		h.metrics.RecordEvent("", "rejected")
		writeError(w, status, msg)
		return
	}

	eventType := services.EventType(payload)
	logger := h.logger.With("svix_id", id, "event", eventType)

	claimed, err := h.dedupe.Claim(ctx, id)
	if err != nil {
		logger.Warn(ctx, "dedupe unavailable, processing anyway", "error", err)
		claimed = true
	}
	if !claimed {
		logger.Info(ctx, "duplicate delivery acknowledged")
		h.metrics.RecordEvent(eventType, "duplicate")
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}

	if err := h.archive.Store(ctx, id, h.now(), payload); err != nil {
		logger.Error(ctx, "archive failed", "error", err)
	}

	outcome, err := h.events.HandleEvent(ctx, payload)
	if err != nil {
		if rerr := h.dedupe.Release(ctx, id); rerr != nil {
			logger.Warn(ctx, "failed to release delivery", "error", rerr)
		}
		if errors.Is(err, services.ErrInvalidEvent) {
			logger.Warn(ctx, "invalid event payload")
			h.metrics.RecordEvent(eventType, "invalid")
			writeError(w, http.StatusBadRequest, msgInvalid)
			return
		}
		logger.Error(ctx, "failed to apply event", "error", err)
		h.metrics.RecordEvent(eventType, "failed")
		writeError(w, http.StatusInternalServerError, msgStore)
		return
	}

	h.metrics.RecordEvent(eventType, string(outcome))
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
