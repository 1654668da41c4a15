package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	commonerrors "github.com/AlibekovAA/profile-editor/internal/common/errors"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
)

func TestHandleError_DomainErrorKeepsMessageAndFields(t *testing.T) {
	log, _ := logger.New("", "test", "error")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/profile", nil)

	err := commonerrors.ErrProfileValidation.WithDetails(map[string]string{"bio": "Bio must be at least 10 characters"})
	NewErrorHandler(log).HandleError(rec, req, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Success || env.Error != "Validation failed" || env.Code != "VALIDATION_FAILED" {
		t.Errorf("unexpected envelope %+v", env)
	}
	if env.Fields["bio"] == "" {
		t.Errorf("fields dropped: %+v", env.Fields)
	}
}

func TestHandleError_UnknownErrorIsGeneric(t *testing.T) {
	log, _ := logger.New("", "test", "error")
	rec := httptest.NewRecorder()

	NewErrorHandler(log).HandleError(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil), errSecret{})

	var env Envelope
	_ = json.NewDecoder(rec.Body).Decode(&env)
	if rec.Code != http.StatusInternalServerError || env.Error != "internal server error" {
		t.Errorf("unexpected response %d %+v", rec.Code, env)
	}
}

type errSecret struct{}

func (errSecret) Error() string { return "dial tcp 10.0.0.5:5432: refused" }

func TestStrictRateLimiter_WritesHaveTighterBudget(t *testing.T) {
	srl := NewStrictRateLimiter()
	defer srl.Stop()

	h := srl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	limited := false
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/profile", nil))
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected PUT burst to be rate limited")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("health must bypass the limiter, got %d", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := GetClientIP(r); got != "203.0.113.7" {
		t.Errorf("unexpected ip %q", got)
	}
}

func TestBuildBaseHandler_SetsSecurityHeaders(t *testing.T) {
	log, _ := logger.New("", "test", "error")
	h := BuildBaseHandler(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	if got := rec.Header().Get("Content-Security-Policy"); got != APIContentSecurityPolicy {
		t.Errorf("unexpected csp %q", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("nosniff header missing")
	}
}

func TestHealthHandler_DegradedWhenCheckFails(t *testing.T) {
	log, _ := logger.New("", "test", "error")
	h := HealthHandler(log,
		HealthCheck{Name: "store", Check: func(ctx context.Context) error { return errSecret{} }},
		HealthCheck{Name: "events", Check: func(ctx context.Context) error { return nil }},
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "degraded" || body.Checks["store"] != "unavailable" || body.Checks["events"] != "ok" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestRecoveryMiddleware_WritesEnvelope(t *testing.T) {
	log, _ := logger.New("", "test", "critical")
	h := RecoveryMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	var env Envelope
	_ = json.NewDecoder(rec.Body).Decode(&env)
	if rec.Code != http.StatusInternalServerError || env.Success {
		t.Errorf("unexpected response %d %+v", rec.Code, env)
	}
}

func TestWithTimeout_NonPositiveAddsNoDeadline(t *testing.T) {
	testCases := []struct {
		timeout      time.Duration
		wantDeadline bool
	}{
		{0, false},
		{-time.Second, false},
		{time.Minute, true},
	}

	for _, tc := range testCases {
		var hasDeadline bool
		h := WithTimeout(tc.timeout)(func(w http.ResponseWriter, r *http.Request) {
			_, hasDeadline = r.Context().Deadline()
			if r.Context().Err() != nil {
				t.Errorf("%v: context already done", tc.timeout)
			}
		})
		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/profile", nil))

		if hasDeadline != tc.wantDeadline {
			t.Errorf("%v: deadline=%v, want %v", tc.timeout, hasDeadline, tc.wantDeadline)
		}
	}
}
