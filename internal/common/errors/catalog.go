package commonerrors

import "net/http"

// Configuration and infrastructure.
var (
	ErrInvalidJWTSecret = NewDomainError("INVALID_JWT_SECRET", CategoryValidation, http.StatusInternalServerError, "JWT_SECRET must be at least 32 bytes")
	ErrCircuitOpen      = NewDomainError("CIRCUIT_OPEN", CategoryExternal, http.StatusServiceUnavailable, "circuit breaker is open")
	ErrInternalError    = NewDomainError("INTERNAL_ERROR", CategoryInternal, http.StatusInternalServerError, "internal server error")
)

// Bearer tokens.
var (
	ErrInvalidToken              = NewDomainError("INVALID_TOKEN", CategoryUnauthorized, http.StatusUnauthorized, "token is not valid")
	ErrInvalidTokenSigningMethod = NewDomainError("INVALID_TOKEN_SIGNING_METHOD", CategoryUnauthorized, http.StatusUnauthorized, "invalid token signing method")
	ErrInvalidTokenClaims        = NewDomainError("INVALID_TOKEN_CLAIMS", CategoryUnauthorized, http.StatusUnauthorized, "invalid token claims")
	ErrMissingTokenClaims        = NewDomainError("MISSING_TOKEN_CLAIMS", CategoryUnauthorized, http.StatusUnauthorized, "missing required token claims")
)

// Profile API. Messages are shown to the user as-is.
var (
	ErrProfileNotFound    = NewDomainError("PROFILE_NOT_FOUND", CategoryNotFound, http.StatusNotFound, "profile not found")
	ErrProfileReadFailed  = NewDomainError("PROFILE_READ_FAILED", CategoryInternal, http.StatusInternalServerError, "Failed to fetch profile")
	ErrProfileWriteFailed = NewDomainError("PROFILE_WRITE_FAILED", CategoryInternal, http.StatusInternalServerError, "Failed to update profile")
	ErrInvalidRequestBody = NewDomainError("INVALID_JSON", CategoryValidation, http.StatusBadRequest, "Invalid request body")
	ErrProfileValidation  = NewDomainError("VALIDATION_FAILED", CategoryValidation, http.StatusBadRequest, "Validation failed")
)
