package http

import (
	"context"
	"net/http"
	"time"

	authdomain "github.com/AlibekovAA/profile-editor/internal/auth/domain"
	"github.com/AlibekovAA/profile-editor/internal/auth/service"
	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	commonerrors "github.com/AlibekovAA/profile-editor/internal/common/errors"
	commonhttp "github.com/AlibekovAA/profile-editor/internal/common/http"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
)

const LoginPath = "/api/auth/login"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message"`
	Token     string                `json:"token"`
	User      authdomain.UserRecord `json:"user"`
	Timestamp string                `json:"timestamp"`
}

type Handler struct {
	auth    *service.AuthService
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(auth *service.AuthService, timeout time.Duration, log *logger.Logger) http.Handler {
	if timeout <= 0 {
		timeout = constants.DefaultProfileRequestTimeout
	}
	h := &Handler{auth: auth, timeout: timeout, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc(LoginPath, commonhttp.RequireMethod(http.MethodPost)(h.login))
	return mux
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	commonhttp.SetNoStore(w)

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "login_invalid_json",
		}).Warnf("login failed: invalid json: %v", err)
		commonhttp.HandleError(w, r, commonerrors.ErrInvalidRequestBody.WithCause(err), h.log)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.auth.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{
		Success:   true,
		Message:   "Login successful!",
		Token:     result.AccessToken,
		User:      result.User.ToRecord(),
		Timestamp: clock.FormatTimestamp(time.Now()),
	})
}
