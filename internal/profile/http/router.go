package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	commonerrors "github.com/AlibekovAA/profile-editor/internal/common/errors"
	commonhttp "github.com/AlibekovAA/profile-editor/internal/common/http"
	"github.com/AlibekovAA/profile-editor/internal/common/jwtverify"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
)

const (
	ProfilePath      = "/api/profile"
	ProfileAliasPath = "/profile"
	EventsPath       = "/api/profile/events"
)

type ProfileService interface {
	Get(ctx context.Context) (domain.Profile, error)
	Update(ctx context.Context, u domain.Update) (domain.Profile, error)
}

type HandlerConfig struct {
	RequestTimeout time.Duration
	// JWTSecret, when set, makes PUT require a bearer token.
	JWTSecret string
}

type Handler struct {
	profiles ProfileService
	cfg      HandlerConfig
	log      *logger.Logger
}

// NewHandler mounts the profile routes. events may be nil.
func NewHandler(profiles ProfileService, events http.Handler, cfg HandlerConfig, log *logger.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = constants.DefaultProfileRequestTimeout
	}
	h := &Handler{profiles: profiles, cfg: cfg, log: log}

	var update http.Handler = http.HandlerFunc(h.update)
	if cfg.JWTSecret != "" {
		update = jwtverify.Middleware(cfg.JWTSecret, log)(update)
	}

	profile := commonhttp.WithTimeout(cfg.RequestTimeout)(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.SetNoStore(w)
		switch r.Method {
		case http.MethodGet:
			h.get(w, r)
		case http.MethodPut:
			update.ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET, PUT")
			commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, commonhttp.TraceIDFromContext(r.Context()))
		}
	})

	mux := http.NewServeMux()
	mux.HandleFunc(ProfilePath, profile)
	mux.HandleFunc(ProfileAliasPath, profile)
	if events != nil {
		mux.Handle(EventsPath, events)
	}
	return mux
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context())
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, domain.ToRecord(p), "")
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var patch domain.Patch
	if err := commonhttp.DecodeJSON(r, &patch); err != nil {
		h.log.WithFields(ctx, logger.Fields{
			"action": "profile_update_invalid_json",
		}).Warnf("profile update failed: invalid json: %v", err)
		commonhttp.HandleError(w, r, commonerrors.ErrInvalidRequestBody.WithCause(err), h.log)
		return
	}

	if claims, ok := jwtverify.FromContext(ctx); ok {
		h.log.WithFields(ctx, logger.Fields{
			"user_id": claims.UserID,
			"action":  "profile_update_authorized",
		}).Debug("profile update authorized")
	}

	p, err := h.profiles.Update(ctx, patch.ToUpdate())
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, domain.ToRecord(p), "Profile updated successfully")
}
