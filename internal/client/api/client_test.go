package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	authhttp "github.com/AlibekovAA/profile-editor/internal/auth/http"
	authservice "github.com/AlibekovAA/profile-editor/internal/auth/service"
	"github.com/AlibekovAA/profile-editor/internal/client/api"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
	"github.com/AlibekovAA/profile-editor/internal/profile/events"
	profilehttp "github.com/AlibekovAA/profile-editor/internal/profile/http"
	"github.com/AlibekovAA/profile-editor/internal/profile/repository"
	"github.com/AlibekovAA/profile-editor/internal/profile/service"
	"github.com/AlibekovAA/profile-editor/internal/profile/validation"
)

const testJWTSecret = "test-secret-key-must-be-at-least-32-bytes-long"

type testServer struct {
	srv *httptest.Server
	hub *events.Hub
}

func startServer(t *testing.T, secret string) *testServer {
	t.Helper()
	log, _ := logger.New("", "test", "error")

	hub := events.NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	svc := service.NewProfileService(repository.NewMemoryStore(nil), validation.NewSchema(), hub, log)
	mux := http.NewServeMux()
	profiles := profilehttp.NewHandler(svc, hub, profilehttp.HandlerConfig{
		RequestTimeout: 5 * time.Second,
		JWTSecret:      secret,
	}, log)
	mux.Handle(profilehttp.ProfilePath, profiles)
	mux.Handle(profilehttp.EventsPath, profiles)
	if secret != "" {
		auth := authservice.NewAuthService(authservice.AuthServiceDeps{Log: log}, authservice.AuthServiceConfig{
			JWTSecret:      secret,
			AccessTokenTTL: time.Hour,
		})
		mux.Handle(authhttp.LoginPath, authhttp.NewHandler(auth, 5*time.Second, log))
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return &testServer{srv: srv, hub: hub}
}

func newClient(t *testing.T, baseURL string, token func() string) *api.Client {
	t.Helper()
	c, err := api.NewClient(api.Options{BaseURL: baseURL, Token: token})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"ftp://example.com", "localhost:8080", "://bad"} {
		if _, err := api.NewClient(api.Options{BaseURL: raw}); err == nil {
			t.Errorf("%q: expected error", raw)
		}
	}
}

func TestClient_GetAndUpdateProfile(t *testing.T) {
	ts := startServer(t, "")
	c := newClient(t, ts.srv.URL+"/", nil)
	ctx := context.Background()

	p, err := c.GetProfile(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ID != "1" || p.Name != "John Doe" {
		t.Fatalf("unexpected profile %+v", p)
	}

	res, err := c.UpdateProfile(ctx, domain.Update{Location: domain.StringPtr("Berlin, Germany")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Message != "Profile updated successfully" {
		t.Errorf("unexpected message %q", res.Message)
	}
	if res.Profile.Location != "Berlin, Germany" || res.Profile.Name != p.Name {
		t.Errorf("unexpected merge %+v", res.Profile)
	}
	if !res.Profile.UpdatedAt.After(p.UpdatedAt) {
		t.Errorf("updatedAt did not advance: %v -> %v", p.UpdatedAt, res.Profile.UpdatedAt)
	}
}

func TestClient_UpdateProfile_ValidationError(t *testing.T) {
	ts := startServer(t, "")
	c := newClient(t, ts.srv.URL, nil)

	_, err := c.UpdateProfile(context.Background(), domain.Update{Email: domain.StringPtr("not-an-email")})

	apiErr, ok := api.AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Validation failed" {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if apiErr.Fields["email"] != "Please enter a valid email address" {
		t.Errorf("unexpected fields %v", apiErr.Fields)
	}
}

func TestClient_StatusWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, nil).GetProfile(context.Background())
	if err == nil || err.Error() != "HTTP error! status: 502" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestClient_UnsuccessfulEnvelopeOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, nil).GetProfile(context.Background())
	if err == nil || err.Error() != "Failed to fetch profile" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestClient_SendsNoCacheAndBearer(t *testing.T) {
	var gotCache, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCache = r.Header.Get("Cache-Control")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"1","name":"Jo","bio":"0123456789","email":"a@b.co","phone":"+1234567890","location":"XY","updatedAt":"2024-05-01T10:00:00.000Z"}}`))
	}))
	defer srv.Close()

	if _, err := newClient(t, srv.URL, func() string { return "tok" }).GetProfile(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotCache != "no-cache" {
		t.Errorf("unexpected Cache-Control %q", gotCache)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("unexpected Authorization %q", gotAuth)
	}
}

func TestClient_LoginThenAuthorizedUpdate(t *testing.T) {
	ts := startServer(t, testJWTSecret)

	var mu sync.Mutex
	var token string
	c := newClient(t, ts.srv.URL, func() string {
		mu.Lock()
		defer mu.Unlock()
		return token
	})
	ctx := context.Background()

	_, err := c.UpdateProfile(ctx, domain.Update{Name: domain.StringPtr("Jane Doe")})
	if apiErr, ok := api.AsAPIError(err); !ok || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}

	grant, err := c.Authenticate(ctx, "jane@example.com", "abc")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if grant.Token == "" || grant.User == nil || grant.User.Name != "jane" {
		t.Fatalf("unexpected grant %+v", grant)
	}
	mu.Lock()
	token = grant.Token
	mu.Unlock()

	res, err := c.UpdateProfile(ctx, domain.Update{Name: domain.StringPtr("Jane Doe")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Profile.Name != "Jane Doe" {
		t.Errorf("unexpected profile %+v", res.Profile)
	}
}

func TestClient_Login_RejectsShortPassword(t *testing.T) {
	ts := startServer(t, testJWTSecret)

	_, err := newClient(t, ts.srv.URL, nil).Login(context.Background(), "jane@example.com", "ab")

	apiErr, ok := api.AsAPIError(err)
	if !ok || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if apiErr.Message != "Password must be at least 3 characters" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestClient_WatchReceivesUpdates(t *testing.T) {
	ts := startServer(t, "")
	c := newClient(t, ts.srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan domain.Profile, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.Watch(ctx, func(p domain.Profile) { updates <- p })
	}()

	deadline := time.Now().Add(2 * time.Second)
	for ts.hub.Subscribers() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("watcher never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := c.UpdateProfile(context.Background(), domain.Update{Name: domain.StringPtr("Watched Name")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	select {
	case p := <-updates:
		if p.Name != "Watched Name" {
			t.Errorf("unexpected event %+v", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}
