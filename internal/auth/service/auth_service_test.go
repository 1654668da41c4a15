package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "github.com/AlibekovAA/profile-editor/internal/auth/domain"
	"github.com/AlibekovAA/profile-editor/internal/auth/service"
	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	commonerrors "github.com/AlibekovAA/profile-editor/internal/common/errors"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
)

const testJWTSecret = "test-secret-key-must-be-at-least-32-bytes-long"

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "test-id-123", nil
}

func setupAuthService(t *testing.T, idGen *mockIDGenerator, clk clock.Clock) *service.AuthService {
	t.Helper()
	log, _ := logger.New("", "test", "error")
	return service.NewAuthService(
		service.AuthServiceDeps{IDGenerator: idGen, Clock: clk, Log: log},
		service.AuthServiceConfig{JWTSecret: testJWTSecret, AccessTokenTTL: 15 * time.Minute},
	)
}

func TestAuthService_Login_Success(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	svc := setupAuthService(t, &mockIDGenerator{}, clock.NewMockClock(now))

	result, err := svc.Login(context.Background(), service.LoginInput{
		Email:    " demo@example.com ",
		Password: "demo123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.User.ID != "test-id-123" || result.User.Email != "demo@example.com" || result.User.Name != "demo" {
		t.Errorf("unexpected user %+v", result.User)
	}
	if !result.User.LoginTime.Equal(now) {
		t.Errorf("expected login time %v, got %v", now, result.User.LoginTime)
	}

	claims, err := svc.Tokens().ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.UserID != "test-id-123" || claims.Email != "demo@example.com" || claims.Name != "demo" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestAuthService_Login_ValidationErrors(t *testing.T) {
	svc := setupAuthService(t, &mockIDGenerator{}, clock.NewMockClock(time.Now()))

	_, err := svc.Login(context.Background(), service.LoginInput{Email: "", Password: "demo123"})
	if !errors.Is(err, authdomain.ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}

	_, err = svc.Login(context.Background(), service.LoginInput{Email: "demo@example.com", Password: "ab"})
	if !errors.Is(err, authdomain.ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestAuthService_Login_IDGenerationError(t *testing.T) {
	svc := setupAuthService(t, &mockIDGenerator{
		newIDFunc: func() (string, error) { return "", errors.New("entropy exhausted") },
	}, clock.NewMockClock(time.Now()))

	_, err := svc.Login(context.Background(), service.LoginInput{Email: "demo@example.com", Password: "demo123"})
	if !errors.Is(err, commonerrors.ErrInternalError) {
		t.Fatalf("expected ErrInternalError, got %v", err)
	}
}

func TestTokenIssuer_ParseToken_Expired(t *testing.T) {
	issuer := service.NewTokenIssuer(
		testJWTSecret,
		&mockIDGenerator{},
		15*time.Minute,
		clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
	)

	token, _, err := issuer.IssueAccessToken(authdomain.User{ID: "u1", Email: "a@b.c", Name: "a"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := issuer.ParseToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTokenIssuer_ParseToken_WrongSecret(t *testing.T) {
	issuer := service.NewTokenIssuer(testJWTSecret, &mockIDGenerator{}, time.Hour, clock.NewMockClock(time.Now()))
	other := service.NewTokenIssuer("another-secret-key-that-is-32-bytes-or-more", &mockIDGenerator{}, time.Hour, clock.NewMockClock(time.Now()))

	token, _, _ := issuer.IssueAccessToken(authdomain.User{ID: "u1", Email: "a@b.c", Name: "a"})
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestTokenIssuer_ParseToken_Garbage(t *testing.T) {
	issuer := service.NewTokenIssuer(testJWTSecret, &mockIDGenerator{}, time.Hour, clock.NewMockClock(time.Now()))

	if _, err := issuer.ParseToken("not.a.token"); err == nil {
		t.Fatal("expected error")
	}
}
