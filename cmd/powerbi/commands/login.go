package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/powerbi/internal/auth"
	"github.com/fivetwenty-io/powerbi/pkg/pbiclient"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		force    bool
		useStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to Power BI",
		Long: `Authenticate with the Microsoft identity platform.

Stored credentials are reused or refreshed when possible. Otherwise an
authorization URL is printed; open it, sign in and paste back the URL the
browser was redirected to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var prompter powerbi.Prompter = pbiclient.NewTerminalPrompter()
			if useStdin {
				prompter = auth.NewReaderPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			}

			authenticator, store, err := createAuthenticator(loadConfig(), prompter)
			if err != nil {
				return err
			}

			if force {
				err = store.Delete()
				if err != nil {
					return err
				}
			}

			err = authenticator.Login(cmd.Context())
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Logged in, credentials saved to %s\n", store.Path())

			claims, err := authenticator.IDTokenClaims()
			if err == nil {
				_, _ = fmt.Fprintf(out, "User: %s (%s)\n", claims.Name, claims.PreferredUsername)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "discard stored credentials and log in interactively")
	cmd.Flags().BoolVar(&useStdin, "stdin", false, "read the redirect URL from stdin even when it is not a terminal")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out from Power BI",
		Long:  "Delete the stored credentials file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := credentialsPath(loadConfig())
			if err != nil {
				return err
			}

			err = auth.NewFileStore(path).Delete()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged out, removed %s\n", path)

			return nil
		},
	}
}
