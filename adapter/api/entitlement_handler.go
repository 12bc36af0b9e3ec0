package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/biblechat/biblechat-api/internal/entitlement/domain"
)

// StatusEvaluator computes an entitlement snapshot for a bearer credential at
// a fixed instant.
type StatusEvaluator interface {
	Evaluate(ctx context.Context, credential string, now time.Time) (domain.EntitlementStatus, error)
}

// EntitlementHandler handles subscription status checks.
type EntitlementHandler struct {
	evaluator StatusEvaluator
	clock     func() time.Time
	logger    *slog.Logger
}

// NewEntitlementHandler creates a handler. A nil clock falls back to time.Now.
func NewEntitlementHandler(evaluator StatusEvaluator, clock func() time.Time, logger *slog.Logger) *EntitlementHandler {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EntitlementHandler{evaluator: evaluator, clock: clock, logger: logger}
}

// CheckSubscription handles POST /functions/v1/check-subscription.
// Unauthorized maps to 401 and backend failures to 503; the legitimate
// "never subscribed" state is a 200 with an all-null snapshot.
func (h *EntitlementHandler) CheckSubscription(w http.ResponseWriter, r *http.Request) {
	status, err := h.evaluator.Evaluate(r.Context(), bearerToken(r), h.clock())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "Invalid token or user not found")
		case errors.Is(err, domain.ErrBackendUnavailable):
			h.logger.Error("subscription check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "Subscription service temporarily unavailable")
		default:
			h.logger.Error("subscription check failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// bearerToken extracts the credential from the Authorization header. A header
// without the Bearer prefix is passed through as-is, matching the platform's
// lenient parsing.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
