package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	"github.com/AlibekovAA/profile-editor/internal/session"
)

func newLoginCommand(a *app) *cobra.Command {
	var email, password string
	var local bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		Long: `Start a session. Any well-formed email and a password of at least
3 characters are accepted.

Examples:
  profilectl login --email jane@example.com --password secret
  profilectl login --email jane@example.com --password secret --local`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.session
			if local {
				store = session.NewStore(session.Options{
					Storage: session.NewFileStorage(a.cfg.StateDir),
					Latency: a.cfg.LoginLatency,
					Log:     a.log,
				})
			}

			res := store.Login(cmd.Context(), email, password)
			if !res.Success {
				a.toasts.Error(res.Message)
				return errors.New(res.Message)
			}
			a.toasts.Success(res.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&local, "local", false, "create the session without contacting the service")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Logout()
			a.toasts.Info("Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the session user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			u, _ := a.session.User()
			fmt.Fprintf(a.out, "%s <%s>\n", u.Name, u.Email)
			fmt.Fprintf(a.out, "logged in at %s\n", clock.FormatTimestamp(u.LoginTime))
			return nil
		},
	}
}
