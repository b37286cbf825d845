package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/glance/internal/render"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in to Google",
		Long: `Sign in to Google with your browser. glance listens on a loopback
address for the redirect and stores the credential in the configured storage.

The OAuth client is configured with GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET
or google.client_id and google.client_secret in glance.yaml.`,
		Args: cobra.NoArgs,
		RunE: withApp(appOptions{}, func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			if err := a.auth.Initialize(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Opening your browser to sign in to Google...")
			if err := a.auth.Login(ctx); err != nil {
				return fmt.Errorf("sign-in failed: %w", err)
			}
			return render.Fprint(cmd.OutOrStdout(), render.New().Session(a.auth.Session()))
		}),
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the Google grant and forget the credential",
		Long: `Revoke the stored token with Google and delete the local credential.
The local credential is deleted even when Google cannot be reached.`,
		Args: cobra.NoArgs,
		RunE: withApp(appOptions{}, func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			_ = a.auth.Initialize(ctx)
			if err := a.auth.Logout(ctx); err != nil {
				if a.creds.Authenticated() {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		}),
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Renew the access token without user interaction",
		Args:  cobra.NoArgs,
		RunE: withApp(appOptions{}, func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			if err := a.auth.Initialize(ctx); err != nil {
				return err
			}
			if !a.creds.Authenticated() {
				return errNotSignedIn
			}
			if err := a.auth.Refresh(ctx); err != nil {
				return fmt.Errorf("refresh failed: %w", err)
			}
			return render.Fprint(cmd.OutOrStdout(), render.New().Session(a.auth.Session()))
		}),
	}
}

func newStatusCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the sign-in state",
		Args:  cobra.NoArgs,
		RunE: withApp(appOptions{}, func(_ context.Context, cmd *cobra.Command, _ []string, a *app) error {
			session := a.auth.Session()
			if asJSON {
				return printJSON(cmd, session)
			}
			return render.Fprint(cmd.OutOrStdout(), render.New().Session(session))
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON")
	return cmd
}
