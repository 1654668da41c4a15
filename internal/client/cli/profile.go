package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/profile-editor/internal/client/api"
	"github.com/AlibekovAA/profile-editor/internal/client/datasync"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
	"github.com/AlibekovAA/profile-editor/internal/profile/validation"
)

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.GetProfile(cmd.Context())
			if err != nil {
				return err
			}
			printProfile(a.out, p)
			return nil
		},
	}
}

func newEditCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change profile fields",
		Long: `Load the profile, apply the given fields and save them.

Examples:
  profilectl edit --name "Jane Doe"
  profilectl edit --location "Berlin, Germany" --phone "+49 30 1234567"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			ctx := cmd.Context()
			editor := a.newEditor(nil)
			if err := editor.Mount(ctx); err != nil {
				return fmt.Errorf("load profile: %w", err)
			}

			for _, field := range validation.Fields {
				if !cmd.Flags().Changed(field) {
					continue
				}
				value, _ := cmd.Flags().GetString(field)
				if err := editor.SetField(field, value); err != nil {
					return err
				}
			}

			if !editor.HasUnsavedChanges() {
				a.toasts.Info("No changes to save")
				return nil
			}

			err := editor.Submit(ctx)
			editor.Wait()
			if errs := editor.FieldErrors(); errs != nil {
				printFieldErrors(a.out, errs)
			}
			if err != nil {
				return err
			}

			p, _ := editor.Profile()
			printProfile(a.out, p)
			return nil
		},
	}

	for _, field := range validation.Fields {
		cmd.Flags().String(field, "", "new "+field)
	}
	return cmd
}

func newRefreshCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Discard cached data and read the profile again",
		RunE: func(cmd *cobra.Command, args []string) error {
			editor := a.newEditor(nil)
			if err := editor.Refresh(cmd.Context()); err != nil {
				return err
			}
			p, _ := editor.Profile()
			printProfile(a.out, p)
			return nil
		},
	}
}

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the profile whenever it changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			editor := a.newEditor(func(p domain.Profile) {
				printProfile(a.out, p)
				fmt.Fprintln(a.out)
			})
			if err := editor.Mount(ctx); err != nil {
				return fmt.Errorf("load profile: %w", err)
			}

			err := editor.Watch(ctx, a.client)
			if errors.Is(err, context.Canceled) || errors.Is(err, api.ErrStreamClosed) {
				return nil
			}
			return err
		},
	}
}

var _ datasync.EventSource = (*api.Client)(nil)
