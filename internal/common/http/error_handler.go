package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/profile-editor/internal/common/errors"
	"github.com/AlibekovAA/profile-editor/internal/common/httpmetrics"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
	"github.com/AlibekovAA/profile-editor/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// HandleError writes the failure envelope for err. Domain errors expose their
// own message, status and field details; anything else is logged and
// reported as a generic 500.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	ctx := r.Context()

	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok {
		h.log.WithFields(ctx, logger.Fields{"action": "unhandled_error"}).Errorf("unhandled error: %v", err)
		domainErr = commonerrors.ErrInternalError.WithCause(err)
	} else {
		status := domainErr.HTTPStatus()
		entry := h.log.WithFields(ctx, logger.Fields{
			"action":     "domain_error",
			"error_code": domainErr.Code(),
			"status":     status,
		})
		if status >= http.StatusInternalServerError {
			entry.Errorf("request failed: %v", err)
		} else {
			entry.Debugf("request rejected: %v", err)
		}
		metrics.DomainErrorsTotal.WithLabelValues(string(domainErr.Category()), domainErr.Code(), strconv.Itoa(status)).Inc()
	}

	status := domainErr.HTTPStatus()
	metrics.HTTPErrorsTotal.WithLabelValues(strconv.Itoa(status), httpmetrics.NormalizePath(r.URL.Path), r.Method).Inc()
	WriteErrorEnvelope(w, status, domainErr.Code(), domainErr.Message(), domainErr.Details(), TraceIDFromContext(ctx))
}

func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	NewErrorHandler(log).HandleError(w, r, err)
}
