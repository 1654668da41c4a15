package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/profile-editor/internal/auth/http"
	authservice "github.com/AlibekovAA/profile-editor/internal/auth/service"
	"github.com/AlibekovAA/profile-editor/internal/common/bootstrap"
	commoncrypto "github.com/AlibekovAA/profile-editor/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/profile-editor/internal/common/http"
	"github.com/AlibekovAA/profile-editor/internal/common/httpmetrics"
	srv "github.com/AlibekovAA/profile-editor/internal/common/server"
	"github.com/AlibekovAA/profile-editor/internal/profile/events"
	profilehttp "github.com/AlibekovAA/profile-editor/internal/profile/http"
	"github.com/AlibekovAA/profile-editor/internal/profile/service"
	"github.com/AlibekovAA/profile-editor/internal/profile/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewProfileApp(ctx)
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to start profile service: %v\n", err))
		os.Exit(1)
	}
	defer app.Close()

	log := app.Log
	cfg := app.Config

	hub := events.NewHub(log)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(hubCtx)
	}()

	profileService := service.NewProfileService(app.Store, validation.NewSchema(), hub, log)
	profileHandler := profilehttp.NewHandler(profileService, nil, profilehttp.HandlerConfig{
		RequestTimeout: cfg.RequestTimeout,
		JWTSecret:      cfg.JWTSecret,
	}, log)

	mux := http.NewServeMux()
	mux.Handle(profilehttp.ProfilePath, profileHandler)
	mux.Handle(profilehttp.ProfileAliasPath, profileHandler)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log, commonhttp.HealthCheck{
		Name: "store",
		Check: func(ctx context.Context) error {
			_, err := app.Store.Read(ctx)
			return err
		},
	}))
	mux.Handle("/metrics", promhttp.Handler())

	if cfg.AuthEnabled() {
		authService := authservice.NewAuthService(authservice.AuthServiceDeps{
			IDGenerator: commoncrypto.NewUUIDGenerator(),
			Log:         log,
		}, authservice.AuthServiceConfig{
			JWTSecret:      cfg.JWTSecret,
			AccessTokenTTL: cfg.AccessTokenTTL,
		})
		mux.Handle(authhttp.LoginPath, authhttp.NewHandler(authService, cfg.RequestTimeout, log))
		httpmetrics.RegisterRoutes(authhttp.LoginPath)
		log.Info("demo login enabled, profile writes require a bearer token")
	}
	httpmetrics.RegisterRoutes(profilehttp.ProfilePath, profilehttp.ProfileAliasPath, profilehttp.EventsPath)

	rateLimiter := commonhttp.NewStrictRateLimiter()
	restHandler := commonhttp.BuildBaseHandler(log, rateLimiter.Middleware(mux))

	// The websocket upgrade needs the raw ResponseWriter, so the events stream
	// bypasses the wrapping middleware.
	mainMux := http.NewServeMux()
	mainMux.Handle(profilehttp.EventsPath, hub)
	mainMux.Handle("/", restHandler)

	server := srv.New("profile", srv.DefaultConfig(cfg.HTTPPort), mainMux, log)
	err = server.Run(ctx,
		func(ctx context.Context) error {
			hubCancel()
			wg.Wait()
			return nil
		},
		func(ctx context.Context) error {
			rateLimiter.Stop()
			return nil
		},
	)
	if err != nil {
		log.Errorf("profile service stopped: %v", err)
		hubCancel()
		rateLimiter.Stop()
		app.Close()
		os.Exit(1)
	}
}
