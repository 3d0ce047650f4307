package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/marketplace-txn/internal/domain"
)

func newLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in through the browser",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.authorizer.Present = func(authURL string) error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to sign in:\n%s\n", authURL)
				return err
			}

			identity, err := app.session.Login(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrAuthCanceled) {
					return fmt.Errorf("login canceled: %w", err)
				}
				return fmt.Errorf("login: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", displayName(identity))
			return err
		},
	}
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.LoadPersisted(cmd.Context()); err != nil {
				return err
			}
			if err := app.session.Logout(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return err
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := requireSession(cmd, app)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "name:    %s\n", displayName(identity))
			_, _ = fmt.Fprintf(out, "subject: %s\n", identity.Subject)
			if identity.Email != "" {
				_, _ = fmt.Fprintf(out, "email:   %s\n", identity.Email)
			}
			if expires := app.session.Snapshot().AccessExpiresAt; !expires.IsZero() {
				_, _ = fmt.Fprintf(out, "expires: %s\n", expires.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func displayName(identity domain.Identity) string {
	if identity.DisplayName != "" && identity.DisplayName != identity.Subject {
		return fmt.Sprintf("%s (%s)", identity.DisplayName, identity.Subject)
	}
	return identity.Subject
}
