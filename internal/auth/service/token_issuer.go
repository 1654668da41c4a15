package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authdomain "github.com/AlibekovAA/profile-editor/internal/auth/domain"
	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/profile-editor/internal/common/crypto"
	"github.com/AlibekovAA/profile-editor/internal/common/jwtverify"
)

// accessClaims is the payload jwtverify.ParseToken reads back.
type accessClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs HS256 access tokens for demo sessions.
type TokenIssuer struct {
	secret []byte
	ids    commoncrypto.IDGenerator
	clock  clock.Clock
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ids commoncrypto.IDGenerator, ttl time.Duration, clk clock.Clock) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ids: ids, clock: clk, ttl: ttl}
}

// IssueAccessToken returns the signed token and its jti.
func (ti *TokenIssuer) IssueAccessToken(user authdomain.User) (string, string, error) {
	jti, err := ti.ids.NewID()
	if err != nil {
		return "", "", err
	}

	now := ti.clock.Now()
	claims := accessClaims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	incrementAccessTokensIssued()
	return signed, jti, nil
}

func (ti *TokenIssuer) ParseToken(token string) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(token, ti.secret)
}
