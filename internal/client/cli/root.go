// Package cli implements the profilectl commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/profile-editor/internal/client/api"
	"github.com/AlibekovAA/profile-editor/internal/client/datasync"
	"github.com/AlibekovAA/profile-editor/internal/client/toast"
	"github.com/AlibekovAA/profile-editor/internal/common/config"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
	"github.com/AlibekovAA/profile-editor/internal/profile/validation"
	"github.com/AlibekovAA/profile-editor/internal/session"
)

var ErrNotLoggedIn = errors.New("not logged in: run `profilectl login` first")

// app holds the collaborators shared by every command. It is built once the
// global flags are parsed.
type app struct {
	cfg     config.ClientConfig
	log     *logger.Logger
	client  *api.Client
	session *session.Store
	toasts  *toast.Notifier
	out     io.Writer
}

// NewRootCommand builds the command tree. cfg supplies flag defaults.
func NewRootCommand(cfg config.ClientConfig) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:   "profilectl",
		Short: "View and edit the profile",
		Long: `profilectl talks to the profile service.

Example usage:
  profilectl show                               # Public profile view
  profilectl login --email jane@example.com     # Start a session
  profilectl edit --name "Jane Doe"             # Save changes (requires a session)
  profilectl watch                              # Follow changes made elsewhere`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.toasts != nil {
				a.toasts.Stop()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.cfg.APIURL, "api-url", cfg.APIURL, "profile service base URL")
	root.PersistentFlags().StringVar(&a.cfg.StateDir, "state-dir", cfg.StateDir, "directory holding the persisted session")
	root.PersistentFlags().StringVar(&a.cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warning, error)")

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newShowCommand(a),
		newEditCommand(a),
		newRefreshCommand(a),
		newWatchCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	log, err := logger.New("", "profilectl", a.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log.SetOutput(cmd.ErrOrStderr())
	a.log = log
	a.out = cmd.OutOrStdout()

	client, err := api.NewClient(api.Options{
		BaseURL: a.cfg.APIURL,
		Timeout: a.cfg.RequestTimeout,
		Token: func() string {
			if a.session == nil {
				return ""
			}
			return a.session.Token()
		},
		Log: log,
	})
	if err != nil {
		return err
	}
	a.client = client

	a.session = session.NewStore(session.Options{
		Storage:       session.NewFileStorage(a.cfg.StateDir),
		Authenticator: remoteOrLocal(client),
		Latency:       a.cfg.LoginLatency,
		Log:           log,
	})
	a.toasts = toast.NewNotifier(a.cfg.ToastDuration, func(t toast.Toast) {
		if t.Visible {
			printToast(a.out, t)
		}
	})
	return nil
}

func (a *app) newEditor(onChange func(domain.Profile)) *datasync.Editor {
	return datasync.NewEditor(datasync.Options{
		API:        a.client,
		Schema:     validation.NewSchema(),
		Notifier:   a.toasts,
		Retries:    a.cfg.FetchRetries,
		RetryDelay: a.cfg.FetchRetryDelay,
		OnChange:   onChange,
		Log:        a.log,
	})
}

func (a *app) requireSession() error {
	if !a.session.CheckAuth() {
		return ErrNotLoggedIn
	}
	return nil
}

// remoteOrLocal asks the service for a token and falls back to a purely local
// session when the service has no login endpoint.
func remoteOrLocal(c *api.Client) session.Authenticator {
	return session.AuthenticatorFunc(func(ctx context.Context, email, password string) (session.Grant, error) {
		grant, err := c.Authenticate(ctx, email, password)
		if apiErr, ok := api.AsAPIError(err); ok && apiErr.Status == http.StatusNotFound {
			return session.Grant{}, nil
		}
		return grant, err
	})
}
