package service

import (
	"context"
	"time"

	authdomain "github.com/AlibekovAA/profile-editor/internal/auth/domain"
	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/profile-editor/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/profile-editor/internal/common/errors"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
)

type AuthServiceDeps struct {
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

type AuthServiceConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// AuthService is the demo login: any credentials passing the format rules
// are accepted and receive a signed access token.
type AuthService struct {
	idGenerator commoncrypto.IDGenerator
	tokens      *TokenIssuer
	clock       clock.Clock
	log         *logger.Logger
}

func NewAuthService(deps AuthServiceDeps, cfg AuthServiceConfig) *AuthService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = commoncrypto.NewUUIDGenerator()
	}
	return &AuthService{
		idGenerator: idGen,
		tokens:      NewTokenIssuer(cfg.JWTSecret, idGen, cfg.AccessTokenTTL, clk),
		clock:       clk,
		log:         deps.Log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken string
	User        authdomain.User
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	if err := authdomain.ValidateCredentials(input.Email, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_validation_failed",
		}).Warnf("login rejected: %v", err)
		incrementDemoLogins("invalid")
		return LoginResult{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_id_generation_failed",
		}).Errorf("login failed: id generation error: %v", err)
		incrementDemoLogins("error")
		return LoginResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user := authdomain.NewUser(id, input.Email, s.clock.Now().UTC())

	token, jti, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": user.ID,
			"action":  "login_token_failed",
		}).Errorf("login failed: token issue error: %v", err)
		incrementDemoLogins("error")
		return LoginResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": user.ID,
		"jti":     jti,
		"action":  "login_success",
	}).Info("demo login succeeded")
	incrementDemoLogins("success")

	return LoginResult{AccessToken: token, User: user}, nil
}

func (s *AuthService) Tokens() *TokenIssuer {
	return s.tokens
}
