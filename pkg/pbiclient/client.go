package pbiclient

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/fivetwenty-io/powerbi/internal/auth"
	"github.com/fivetwenty-io/powerbi/internal/client"
	"github.com/fivetwenty-io/powerbi/internal/constants"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// New creates a Power BI client. It initializes the credential store, then
// logs in: stored tokens are reused, refreshed silently, or replaced through
// the interactive flow driven by config.Prompter.
//
// The caller's config is copied; later changes to it have no effect.
func New(ctx context.Context, config *powerbi.Config) (powerbi.Client, error) {
	normalized, authenticator, err := login(ctx, config)
	if err != nil {
		return nil, err
	}

	apiClient, err := client.New(normalized, authenticator)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// NewTokenCredential logs in like New and returns the session as an
// azcore.TokenCredential, so Azure SDK clients can share the stored tokens.
// The scopes requested by the SDK are ignored; tokens carry config.Scopes.
func NewTokenCredential(ctx context.Context, config *powerbi.Config) (azcore.TokenCredential, error) {
	_, authenticator, err := login(ctx, config)
	if err != nil {
		return nil, err
	}

	return auth.NewAzureCredential(authenticator), nil
}

func login(ctx context.Context, config *powerbi.Config) (*powerbi.Config, *auth.Authenticator, error) {
	if config == nil {
		return nil, nil, powerbi.ErrConfigRequired
	}

	err := validate(config)
	if err != nil {
		return nil, nil, err
	}

	normalized := normalize(config)

	store := auth.NewFileStore(normalized.CredentialsPath)

	err = store.Init()
	if err != nil {
		return nil, nil, fmt.Errorf("initializing credential store: %w", err)
	}

	authenticator := NewAuthenticator(normalized, store)

	err = authenticator.Login(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("logging in: %w", err)
	}

	return normalized, authenticator, nil
}

// NewWithToken creates a client around an access token obtained elsewhere,
// e.g. from a CI secret. The token is never refreshed.
func NewWithToken(config *powerbi.Config, accessToken string) (powerbi.Client, error) {
	if config == nil {
		return nil, powerbi.ErrConfigRequired
	}

	if accessToken == "" {
		return nil, powerbi.ErrNotAuthenticated
	}

	apiClient, err := client.New(normalize(config), client.StaticTokenSource(accessToken))
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// NewAuthenticator builds the authenticator New uses, without logging in.
// The CLI uses it to inspect and refresh stored tokens.
func NewAuthenticator(config *powerbi.Config, store auth.CredentialStore) *auth.Authenticator {
	return auth.NewAuthenticator(&auth.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURI:  config.RedirectURI,
		Scopes:       config.Scopes,
		AccountType:  config.AccountType,
		AuthorityURL: config.AuthorityURL,
		Prompter:     config.Prompter,
		Logger:       config.Logger,
	}, store)
}

// NewTerminalPrompter returns a Prompter that prints the authorization URL
// and reads the redirect URL from stdin.
func NewTerminalPrompter() powerbi.Prompter {
	return auth.NewTerminalPrompter()
}

func validate(config *powerbi.Config) error {
	switch {
	case config.ClientID == "":
		return powerbi.ErrClientIDRequired
	case config.RedirectURI == "":
		return powerbi.ErrRedirectURIRequired
	case config.CredentialsPath == "":
		return powerbi.ErrCredentialsPathNeeded
	}

	return nil
}

// normalize returns a copy of config with defaults filled in.
func normalize(config *powerbi.Config) *powerbi.Config {
	normalized := *config
	normalized.Scopes = slices.Clone(config.Scopes)

	normalized.APIEndpoint = normalizeEndpoint(normalized.APIEndpoint, constants.DefaultAPIEndpoint)
	normalized.AuthorityURL = normalizeEndpoint(normalized.AuthorityURL, constants.DefaultAuthorityURL)

	if normalized.APIVersion == "" {
		normalized.APIVersion = constants.DefaultAPIVersion
	}

	normalized.APIVersion = strings.Trim(normalized.APIVersion, "/")

	if normalized.AccountType == "" {
		normalized.AccountType = constants.DefaultAccountType
	}

	if len(normalized.Scopes) == 0 {
		normalized.Scopes = []string{constants.DefaultScope}
	}

	if normalized.HTTPTimeout <= 0 {
		normalized.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	if normalized.UserAgent == "" {
		normalized.UserAgent = constants.DefaultUserAgent
	}

	if normalized.Logger == nil {
		normalized.Logger = powerbi.NopLogger{}
	}

	return &normalized
}

// normalizeEndpoint adds a scheme when missing and a single trailing slash.
func normalizeEndpoint(endpoint, fallback string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return fallback
	}

	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return strings.TrimRight(endpoint, "/") + "/"
}
