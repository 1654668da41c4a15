package http

const (
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeBodyTooLarge     = "BODY_TOO_LARGE"
	CodeMissingAuth      = "MISSING_AUTHORIZATION"
	CodeInvalidToken     = "INVALID_TOKEN"
	CodeInternal         = "INTERNAL_ERROR"
)
