package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/biblechat/biblechat-api/internal/chat"
	"github.com/biblechat/biblechat-api/internal/entitlement/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvaluator struct {
	status     domain.EntitlementStatus
	err        error
	credential string
	now        time.Time
	calls      int
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, credential string, now time.Time) (domain.EntitlementStatus, error) {
	f.calls++
	f.credential = credential
	f.now = now
	if f.err != nil {
		return domain.EntitlementStatus{}, f.err
	}
	return f.status, nil
}

func testClock() time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
}

func newTestServer(eval StatusEvaluator) *Server {
	entitlement := NewEntitlementHandler(eval, testClock, nil)
	chatHandler := NewChatHandler(chat.NewResponder(testClock), nil)
	return NewServer(DefaultServerConfig(), entitlement, chatHandler, nil)
}

func TestCheckSubscription_ReturnsStatus(t *testing.T) {
	plan := "premium-monthly"
	trialEnd := "2024-06-15T00:00:00.000Z"
	eval := &fakeEvaluator{status: domain.EntitlementStatus{
		IsActive:    true,
		Plan:        &plan,
		TrialEndsAt: &trialEnd,
	}}
	srv := newTestServer(eval)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/check-subscription", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-token", eval.credential)
	assert.Equal(t, testClock(), eval.now)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["isActive"])
	assert.Equal(t, plan, body["plan"])
	assert.Equal(t, trialEnd, body["trialEndsAt"])
	assert.Nil(t, body["currentPeriodEnd"])
	assert.Equal(t, false, body["cancelAtPeriodEnd"])
}

func TestCheckSubscription_MissingHeaderIsUnauthorized(t *testing.T) {
	eval := &fakeEvaluator{err: domain.ErrUnauthorized}
	srv := newTestServer(eval)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/check-subscription", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, eval.credential)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestCheckSubscription_BackendFailureIs503(t *testing.T) {
	eval := &fakeEvaluator{err: domain.ErrBackendUnavailable}
	srv := newTestServer(eval)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/check-subscription", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCheckSubscription_StripsBearerPrefix(t *testing.T) {
	eval := &fakeEvaluator{}
	srv := newTestServer(eval)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/check-subscription", nil)
	req.Header.Set("Authorization", "Bearer  some-token ")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "some-token", eval.credential)
}

func TestPreflightAnsweredOnEveryRoute(t *testing.T) {
	srv := newTestServer(&fakeEvaluator{})

	for _, path := range []string{"/functions/v1/check-subscription", "/functions/v1/bible-chat", "/health"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "authorization")
	}
}

func TestCORSHeadersOnActualRequests(t *testing.T) {
	srv := newTestServer(&fakeEvaluator{})

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/check-subscription", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&fakeEvaluator{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestBibleChat_RespondsToMessage(t *testing.T) {
	srv := newTestServer(&fakeEvaluator{})

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/bible-chat",
		strings.NewReader(`{"message":"tell me about genesis"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["text"], "Genesis")
	assert.Equal(t, "2024-06-01T00:00:00.000Z", body["timestamp"])
}

func TestBibleChat_MalformedBody(t *testing.T) {
	srv := newTestServer(&fakeEvaluator{})

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/bible-chat",
		strings.NewReader(`{"message":`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
