package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authhttp "github.com/AlibekovAA/profile-editor/internal/auth/http"
	"github.com/AlibekovAA/profile-editor/internal/auth/service"
	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Token   string `json:"token"`
	User    struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		LoginTime string `json:"loginTime"`
	} `json:"user"`
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	log, _ := logger.New("", "test", "error")
	svc := service.NewAuthService(
		service.AuthServiceDeps{Clock: clock.NewMockClock(time.Now()), Log: log},
		service.AuthServiceConfig{JWTSecret: "test-secret-key-must-be-at-least-32-bytes-long", AccessTokenTTL: time.Hour},
	)
	return authhttp.NewHandler(svc, 5*time.Second, log)
}

func doLogin(t *testing.T, h http.Handler, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, authhttp.LoginPath, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec, env
}

func TestAuthHTTP_Login_Success(t *testing.T) {
	body, _ := json.Marshal(map[string]string{"email": "demo@example.com", "password": "demo123"})
	rec, env := doLogin(t, newHandler(t), body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !env.Success || env.Message != "Login successful!" || env.Token == "" {
		t.Errorf("unexpected envelope %+v", env)
	}
	if env.User.Name != "demo" || env.User.ID == "" || env.User.LoginTime == "" {
		t.Errorf("unexpected user %+v", env.User)
	}
	if rec.Header().Get("Cache-Control") != "no-cache, no-store, must-revalidate" {
		t.Errorf("missing no-store header")
	}
}

func TestAuthHTTP_Login_ShortPassword(t *testing.T) {
	body, _ := json.Marshal(map[string]string{"email": "demo@example.com", "password": "ab"})
	rec, env := doLogin(t, newHandler(t), body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if env.Success || env.Error != "Password must be at least 3 characters" {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestAuthHTTP_Login_InvalidJSON(t *testing.T) {
	rec, env := doLogin(t, newHandler(t), []byte("not json"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if env.Code != "INVALID_JSON" || env.Error != "Invalid request body" {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestAuthHTTP_Login_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, authhttp.LoginPath, nil)
	rec := httptest.NewRecorder()
	newHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}
