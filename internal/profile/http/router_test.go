package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdomain "github.com/AlibekovAA/profile-editor/internal/auth/domain"
	authservice "github.com/AlibekovAA/profile-editor/internal/auth/service"
	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/profile-editor/internal/common/crypto"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
	profilehttp "github.com/AlibekovAA/profile-editor/internal/profile/http"
	"github.com/AlibekovAA/profile-editor/internal/profile/repository"
	"github.com/AlibekovAA/profile-editor/internal/profile/service"
	"github.com/AlibekovAA/profile-editor/internal/profile/validation"
)

const testJWTSecret = "test-secret-key-must-be-at-least-32-bytes-long"

type envelope struct {
	Success   bool              `json:"success"`
	Data      *domain.Record    `json:"data"`
	Message   string            `json:"message"`
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Fields    map[string]string `json:"fields"`
	Timestamp string            `json:"timestamp"`
}

type failingStore struct{}

func (failingStore) Read(ctx context.Context) (domain.Profile, error) {
	return domain.Profile{}, errors.New("pq: connection refused to 10.0.0.5")
}

func (failingStore) Write(ctx context.Context, u domain.Update) (domain.Profile, error) {
	return domain.Profile{}, errors.New("pq: connection refused to 10.0.0.5")
}

func newHandler(t *testing.T, store repository.Store, secret string) http.Handler {
	t.Helper()
	log, _ := logger.New("", "test", "error")
	svc := service.NewProfileService(store, validation.NewSchema(), nil, log)
	return profilehttp.NewHandler(svc, nil, profilehttp.HandlerConfig{
		RequestTimeout: 5 * time.Second,
		JWTSecret:      secret,
	}, log)
}

func do(t *testing.T, h http.Handler, method, path string, body []byte, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec, env
}

func assertNoStore(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if got := rec.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
		t.Errorf("unexpected Cache-Control %q", got)
	}
	if got := rec.Header().Get("Pragma"); got != "no-cache" {
		t.Errorf("unexpected Pragma %q", got)
	}
	if got := rec.Header().Get("Expires"); got != "0" {
		t.Errorf("unexpected Expires %q", got)
	}
}

func TestProfileHTTP_Get_Success(t *testing.T) {
	store := repository.NewMemoryStore(clock.NewMockClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
	h := newHandler(t, store, "")

	for _, path := range []string{profilehttp.ProfilePath, profilehttp.ProfileAliasPath} {
		rec, env := do(t, h, http.MethodGet, path, nil, nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rec.Code)
		}
		assertNoStore(t, rec)
		if !env.Success || env.Data == nil {
			t.Fatalf("%s: unexpected envelope %+v", path, env)
		}
		if env.Data.ID != "1" || env.Data.Name != "John Doe" || env.Data.UpdatedAt != "2024-05-01T10:00:00.000Z" {
			t.Errorf("%s: unexpected data %+v", path, env.Data)
		}
		if env.Timestamp == "" {
			t.Errorf("%s: expected timestamp", path)
		}
	}
}

func TestProfileHTTP_Get_StoreFailure(t *testing.T) {
	rec, env := do(t, newHandler(t, failingStore{}, ""), http.MethodGet, profilehttp.ProfilePath, nil, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if env.Success || env.Error != "Failed to fetch profile" {
		t.Errorf("unexpected envelope %+v", env)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("10.0.0.5")) {
		t.Error("internal error details leaked")
	}
	assertNoStore(t, rec)
}

func TestProfileHTTP_Put_MergesAndReturnsRecord(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	store := repository.NewMemoryStore(clk)
	h := newHandler(t, store, "")
	clk.Advance(time.Minute)

	body := []byte(`{"name":"Jane Doe","id":"99","updatedAt":"1999-01-01T00:00:00.000Z","unknown":true}`)
	rec, env := do(t, h, http.MethodPut, profilehttp.ProfileAliasPath, body, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%+v)", rec.Code, env)
	}
	assertNoStore(t, rec)
	if env.Message != "Profile updated successfully" {
		t.Errorf("unexpected message %q", env.Message)
	}
	if env.Data.ID != "1" {
		t.Errorf("id taken from payload: %s", env.Data.ID)
	}
	if env.Data.Name != "Jane Doe" || env.Data.Email != "john.doe@example.com" {
		t.Errorf("unexpected merge %+v", env.Data)
	}
	if env.Data.UpdatedAt != "2024-05-01T10:01:00.000Z" {
		t.Errorf("unexpected timestamp %s", env.Data.UpdatedAt)
	}

	_, after := do(t, h, http.MethodGet, profilehttp.ProfilePath, nil, nil)
	if *after.Data != *env.Data {
		t.Errorf("read after write differs: %+v vs %+v", after.Data, env.Data)
	}
}

func TestProfileHTTP_Put_InvalidJSON(t *testing.T) {
	h := newHandler(t, repository.NewMemoryStore(nil), "")

	rec, env := do(t, h, http.MethodPut, profilehttp.ProfilePath, []byte(`{"name":`), nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if env.Success || env.Error != "Invalid request body" {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestProfileHTTP_Put_ValidationFailed(t *testing.T) {
	store := repository.NewMemoryStore(nil)
	h := newHandler(t, store, "")
	before, _ := store.Read(context.Background())

	rec, env := do(t, h, http.MethodPut, profilehttp.ProfilePath, []byte(`{"bio":"too short","phone":"abc"}`), nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if env.Error != "Validation failed" {
		t.Errorf("unexpected error %q", env.Error)
	}
	if env.Fields["bio"] != "Bio must be at least 10 characters" {
		t.Errorf("unexpected bio field %q", env.Fields["bio"])
	}
	if env.Fields["phone"] != "Phone number must be at least 10 characters" {
		t.Errorf("unexpected phone field %q", env.Fields["phone"])
	}

	after, _ := store.Read(context.Background())
	if after != before {
		t.Error("store changed after rejected update")
	}
}

func TestProfileHTTP_Put_StoreFailure(t *testing.T) {
	rec, env := do(t, newHandler(t, failingStore{}, ""), http.MethodPut, profilehttp.ProfilePath, []byte(`{"name":"Jane Doe"}`), nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if env.Error != "Failed to update profile" {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestProfileHTTP_MethodNotAllowed(t *testing.T) {
	rec, env := do(t, newHandler(t, repository.NewMemoryStore(nil), ""), http.MethodDelete, profilehttp.ProfilePath, nil, nil)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if env.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("unexpected code %s", env.Code)
	}
}

func TestProfileHTTP_Put_RequiresTokenWhenSecretSet(t *testing.T) {
	h := newHandler(t, repository.NewMemoryStore(nil), testJWTSecret)
	body := []byte(`{"name":"Jane Doe"}`)

	rec, env := do(t, h, http.MethodPut, profilehttp.ProfilePath, body, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if env.Code != "MISSING_AUTHORIZATION" {
		t.Errorf("unexpected code %s", env.Code)
	}

	rec, _ = do(t, h, http.MethodPut, profilehttp.ProfilePath, body, http.Header{"Authorization": {"Bearer garbage"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for bad token, got %d", rec.Code)
	}

	issuer := authservice.NewTokenIssuer(testJWTSecret, commoncrypto.NewUUIDGenerator(), time.Hour, clock.NewRealClock())
	token, _, err := issuer.IssueAccessToken(authdomain.NewUser("u1", "demo@example.com", time.Now()))
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, env = do(t, h, http.MethodPut, profilehttp.ProfilePath, body, http.Header{"Authorization": {"Bearer " + token}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 with token, got %d (%+v)", rec.Code, env)
	}

	rec, _ = do(t, h, http.MethodGet, profilehttp.ProfilePath, nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected GET to stay public, got %d", rec.Code)
	}
}

func TestProfileHTTP_ZeroTimeoutUsesDefault(t *testing.T) {
	log, _ := logger.New("", "test", "error")
	svc := service.NewProfileService(repository.NewMemoryStore(nil), validation.NewSchema(), nil, log)
	h := profilehttp.NewHandler(svc, nil, profilehttp.HandlerConfig{}, log)

	rec, env := do(t, h, http.MethodGet, profilehttp.ProfilePath, nil, nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 with zero timeout, got %d %+v", rec.Code, env)
	}

	rec, env = do(t, h, http.MethodPut, profilehttp.ProfilePath, []byte(`{"name":"Jane Doe"}`), nil)
	if rec.Code != http.StatusOK || env.Data == nil || env.Data.Name != "Jane Doe" {
		t.Fatalf("expected 200 update with zero timeout, got %d %+v", rec.Code, env)
	}
}
