package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/powerbi/internal/auth"
	"github.com/fivetwenty-io/powerbi/internal/constants"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// TokenStatus describes the stored credentials.
type TokenStatus struct {
	CredentialsPath         string     `json:"credentials_path"             yaml:"credentials_path"`
	User                    string     `json:"user,omitempty"               yaml:"user,omitempty"`
	TenantID                string     `json:"tenant_id,omitempty"          yaml:"tenant_id,omitempty"`
	AccessTokenStatus       string     `json:"access_token_status"          yaml:"access_token_status"`
	AccessExpiresAt         *time.Time `json:"access_expires_at,omitempty"  yaml:"access_expires_at,omitempty"`
	AccessSecondsRemaining  int        `json:"access_seconds_remaining"     yaml:"access_seconds_remaining"`
	RefreshTokenStatus      string     `json:"refresh_token_status"         yaml:"refresh_token_status"`
	RefreshExpiresAt        *time.Time `json:"refresh_expires_at,omitempty" yaml:"refresh_expires_at,omitempty"`
	RefreshSecondsRemaining int        `json:"refresh_seconds_remaining"    yaml:"refresh_seconds_remaining"`
}

// NewTokenCommand creates the token command group.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage authentication tokens",
		Long:  "Commands for managing the stored tokens including status and refresh",
	}

	cmd.AddCommand(newTokenStatusCommand())
	cmd.AddCommand(newTokenRefreshCommand())

	return cmd
}

func newTokenStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show token status and expiration",
		Long:  "Display the lifetime of the stored access and refresh tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := credentialsPath(loadConfig())
			if err != nil {
				return err
			}

			bundle, err := loadBundle(path)
			if err != nil {
				return err
			}

			status := buildTokenStatus(path, bundle, time.Now())

			return renderObject(cmd.OutOrStdout(), outputFormat(), status, [][2]string{
				{"Credentials", status.CredentialsPath},
				{"User", valueOrNotAvailable(status.User)},
				{"Access Token", status.AccessTokenStatus},
				{"Access Expires", formatTime(status.AccessExpiresAt)},
				{"Access Remaining", formatSeconds(status.AccessSecondsRemaining)},
				{"Refresh Token", status.RefreshTokenStatus},
				{"Refresh Expires", formatTime(status.RefreshExpiresAt)},
				{"Refresh Remaining", formatSeconds(status.RefreshSecondsRemaining)},
			})
		},
	}
}

func newTokenRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the access token",
		Long:  "Force a refresh of the access token using the stored refresh token",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			authenticator, store, err := createAuthenticator(config, nil)
			if err != nil {
				return err
			}

			bundle, err := loadBundle(store.Path())
			if err != nil {
				return err
			}

			now := time.Now()
			if bundle.SecondsRemaining(auth.TokenRefresh, now) == 0 {
				return constants.ErrNoRefreshToken
			}

			// Login refreshes an expired access token itself; only a valid one
			// needs the extra forced refresh.
			accessValid := bundle.SecondsRemaining(auth.TokenAccess, now) > 0

			err = authenticator.Login(cmd.Context())
			if err == nil && accessValid {
				err = authenticator.Refresh(cmd.Context())
			}

			if err != nil {
				return fmt.Errorf("refreshing token: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Access token refreshed, valid for %s\n",
				formatSeconds(authenticator.SecondsRemaining(auth.TokenAccess)))

			return nil
		},
	}
}

func loadBundle(path string) (*auth.TokenBundle, error) {
	bundle, err := auth.NewFileStore(path).Load()
	if errors.Is(err, powerbi.ErrCredentialsNotFound) {
		return nil, constants.ErrNotLoggedIn
	}

	if err != nil {
		return nil, err
	}

	return bundle, nil
}

func buildTokenStatus(path string, bundle *auth.TokenBundle, now time.Time) TokenStatus {
	status := TokenStatus{
		CredentialsPath:         path,
		AccessSecondsRemaining:  bundle.SecondsRemaining(auth.TokenAccess, now),
		RefreshSecondsRemaining: bundle.SecondsRemaining(auth.TokenRefresh, now),
	}

	status.AccessTokenStatus = tokenState(status.AccessSecondsRemaining)
	status.RefreshTokenStatus = tokenState(status.RefreshSecondsRemaining)

	if !bundle.AccessExpiresAt.IsZero() {
		expires := bundle.AccessExpiresAt
		status.AccessExpiresAt = &expires
	}

	if !bundle.RefreshExpiresAt.IsZero() {
		expires := bundle.RefreshExpiresAt
		status.RefreshExpiresAt = &expires
	}

	claims, err := auth.ParseIDToken(bundle.IDToken)
	if err == nil {
		status.User = claims.PreferredUsername
		if status.User == "" {
			status.User = claims.Name
		}

		status.TenantID = claims.TenantID
	}

	return status
}

func tokenState(secondsRemaining int) string {
	if secondsRemaining > 0 {
		return constants.StatusValid
	}

	return constants.StatusExpired
}

func formatSeconds(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}

	return (time.Duration(seconds) * time.Second).String()
}
