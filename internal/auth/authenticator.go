package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/fivetwenty-io/powerbi/internal/constants"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// State describes the login state of an Authenticator.
type State int

const (
	// StateUnauthenticated means no tokens are held.
	StateUnauthenticated State = iota
	// StateAuthenticated means the access token is usable.
	StateAuthenticated
	// StateExpired means tokens are held but the access token needs a refresh.
	StateExpired
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "unauthenticated"
	}
}

const (
	grantAuthorizationCode = "authorization_code"
	grantRefreshToken      = "refresh_token"
)

// reservedScopes are always requested so the provider returns a refresh and an ID token.
var reservedScopes = []string{constants.OfflineAccessScope, "openid", "profile"}

// Config configures an Authenticator.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	// AccountType is the tenant segment of the authority, e.g. "common".
	AccountType string
	// AuthorityURL overrides the identity provider host.
	AuthorityURL string
	// HTTPClient is used for token requests.
	HTTPClient *http.Client
	Prompter   powerbi.Prompter
	Logger     powerbi.Logger
}

// Authenticator runs the OAuth2 authorization code flow against the
// Microsoft identity platform and keeps the resulting tokens fresh.
// It is safe for concurrent use.
type Authenticator struct {
	oauth      *oauth2.Config
	store      CredentialStore
	prompter   powerbi.Prompter
	logger     powerbi.Logger
	httpClient *http.Client
	now        func() time.Time

	mutex    sync.Mutex
	bundle   TokenBundle
	state    string
	verifier string
}

// NewAuthenticator creates an Authenticator persisting tokens to store.
func NewAuthenticator(config *Config, store CredentialStore) *Authenticator {
	accountType := config.AccountType
	if accountType == "" {
		accountType = constants.DefaultAccountType
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.ShortHTTPTimeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = powerbi.NopLogger{}
	}

	return &Authenticator{
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURI,
			Scopes:       requestScopes(config.Scopes),
			Endpoint:     endpoint(config.AuthorityURL, accountType),
		},
		store:      store,
		prompter:   config.Prompter,
		logger:     logger,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func endpoint(authorityURL, accountType string) oauth2.Endpoint {
	var ep oauth2.Endpoint

	authority := strings.TrimSuffix(authorityURL, "/")
	if authority == "" || authority == strings.TrimSuffix(constants.DefaultAuthorityURL, "/") {
		ep = microsoft.AzureADEndpoint(accountType)
	} else {
		ep = oauth2.Endpoint{
			AuthURL:  authority + "/" + accountType + constants.AuthorizePath,
			TokenURL: authority + "/" + accountType + constants.TokenPath,
		}
	}

	// A fixed style keeps a rejected grant to a single request.
	ep.AuthStyle = oauth2.AuthStyleInParams

	return ep
}

func requestScopes(scopes []string) []string {
	if len(scopes) == 0 {
		scopes = []string{constants.DefaultScope}
	}

	result := slices.Clone(scopes)

	for _, scope := range reservedScopes {
		if !slices.Contains(result, scope) {
			result = append(result, scope)
		}
	}

	return result
}

// Login establishes a usable session. Stored credentials are used when the
// access token is still valid, refreshed silently when only the refresh token
// is, and otherwise the interactive authorization code flow runs through the
// Prompter. A failed silent refresh is fatal and is not followed by the
// interactive flow.
func (a *Authenticator) Login(ctx context.Context) error {
	bundle, err := a.store.Load()
	if err != nil {
		a.logger.Info("No usable stored credentials", map[string]interface{}{
			"path":  a.store.Path(),
			"error": err.Error(),
		})
	} else {
		a.mutex.Lock()
		a.bundle = *bundle
		a.mutex.Unlock()
	}

	if a.SecondsRemaining(TokenAccess) > 0 {
		a.logger.Debug("Using stored access token", nil)

		return nil
	}

	if a.SecondsRemaining(TokenRefresh) > 0 {
		a.logger.Debug("Refreshing stored access token", nil)

		return a.Refresh(ctx)
	}

	return a.interactiveLogin(ctx)
}

func (a *Authenticator) interactiveLogin(ctx context.Context) error {
	if a.prompter == nil {
		return powerbi.ErrNoPrompter
	}

	redirectURL, err := a.prompter.Prompt(ctx, a.AuthorizationURL())
	if err != nil {
		return fmt.Errorf("prompting for redirect URL: %w", err)
	}

	return a.ExchangeAuthorizationCode(ctx, redirectURL)
}

// AuthorizationURL builds the URL the user visits to grant access. Each call
// starts a new flow with a fresh state and PKCE verifier.
func (a *Authenticator) AuthorizationURL() string {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.state = uuid.NewString()
	a.verifier = oauth2.GenerateVerifier()

	return a.oauth.AuthCodeURL(a.state, oauth2.S256ChallengeOption(a.verifier))
}

// ExchangeAuthorizationCode completes the interactive flow with the URL the
// browser was redirected to.
func (a *Authenticator) ExchangeAuthorizationCode(ctx context.Context, redirectURL string) error {
	parsed, err := url.Parse(strings.TrimSpace(redirectURL))
	if err != nil {
		return fmt.Errorf("parsing redirect URL: %w", err)
	}

	query := parsed.Query()

	if code := query.Get("error"); code != "" {
		return &powerbi.AuthExchangeError{
			Grant:       grantAuthorizationCode,
			Code:        code,
			Description: query.Get("error_description"),
		}
	}

	code := query.Get("code")
	if code == "" {
		return powerbi.ErrAuthorizationCode
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if state := query.Get("state"); state != "" && a.state != "" && state != a.state {
		return powerbi.ErrStateMismatch
	}

	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("scope", strings.Join(a.oauth.Scopes, " ")),
	}
	if a.verifier != "" {
		opts = append(opts, oauth2.VerifierOption(a.verifier))
	}

	token, err := a.oauth.Exchange(a.tokenContext(ctx), code, opts...)
	if err != nil {
		return a.exchangeError(grantAuthorizationCode, err)
	}

	a.state, a.verifier = "", ""

	err = a.persistLocked(token)
	if err != nil {
		return err
	}

	a.logger.Info("Logged in", map[string]interface{}{"expires_in": a.secondsRemainingLocked(TokenAccess)})

	return nil
}

// Refresh obtains a new access token with the stored refresh token. Any
// rejection is returned as *powerbi.AuthExchangeError.
func (a *Authenticator) Refresh(ctx context.Context) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.refreshLocked(ctx)
}

func (a *Authenticator) refreshLocked(ctx context.Context) error {
	if a.bundle.RefreshToken == "" {
		return fmt.Errorf("refreshing token: %w", powerbi.ErrNotAuthenticated)
	}

	source := a.oauth.TokenSource(a.tokenContext(ctx), &oauth2.Token{RefreshToken: a.bundle.RefreshToken})

	token, err := source.Token()
	if err != nil {
		a.logger.Error("Token refresh rejected", map[string]interface{}{"path": a.store.Path()})

		return a.exchangeError(grantRefreshToken, err)
	}

	// The provider may omit the refresh token when it is not rotated.
	if token.RefreshToken == "" {
		token.RefreshToken = a.bundle.RefreshToken
	}

	err = a.persistLocked(token)
	if err != nil {
		return err
	}

	a.logger.Info("Access token refreshed", map[string]interface{}{"expires_in": a.secondsRemainingLocked(TokenAccess)})

	return nil
}

// EnsureValid refreshes the access token when fewer than minSeconds of
// validity remain.
func (a *Authenticator) EnsureValid(ctx context.Context, minSeconds int) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.secondsRemainingLocked(TokenAccess) >= minSeconds {
		return nil
	}

	return a.refreshLocked(ctx)
}

// Token returns an access token valid for at least MinTokenValiditySeconds.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.secondsRemainingLocked(TokenAccess) < constants.MinTokenValiditySeconds {
		err := a.refreshLocked(ctx)
		if err != nil {
			return "", err
		}
	}

	return a.bundle.AccessToken, nil
}

// SecondsRemaining reports the usable lifetime of a token.
func (a *Authenticator) SecondsRemaining(kind TokenKind) int {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.secondsRemainingLocked(kind)
}

func (a *Authenticator) secondsRemainingLocked(kind TokenKind) int {
	return a.bundle.SecondsRemaining(kind, a.now())
}

// State reports the current login state.
func (a *Authenticator) State() State {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	switch {
	case a.bundle.AccessToken == "" && a.bundle.RefreshToken == "":
		return StateUnauthenticated
	case a.secondsRemainingLocked(TokenAccess) > 0:
		return StateAuthenticated
	default:
		return StateExpired
	}
}

// Bundle returns a copy of the held tokens.
func (a *Authenticator) Bundle() TokenBundle {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.bundle
}

// CredentialsPath returns where tokens are persisted.
func (a *Authenticator) CredentialsPath() string {
	return a.store.Path()
}

func (a *Authenticator) tokenContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

func (a *Authenticator) persistLocked(token *oauth2.Token) error {
	bundle, err := a.store.Save(a.grantFromToken(token))
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	a.bundle = *bundle

	return nil
}

func (a *Authenticator) grantFromToken(token *oauth2.Token) *Grant {
	grant := &Grant{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresIn:    token.ExpiresIn,
	}

	if grant.ExpiresIn == 0 && !token.Expiry.IsZero() {
		grant.ExpiresIn = int64(token.Expiry.Sub(a.now()) / time.Second)
	}

	if idToken, ok := token.Extra("id_token").(string); ok {
		grant.IDToken = idToken
	}

	if scope, ok := token.Extra("scope").(string); ok {
		grant.Scope = scope
	}

	grant.ExtExpiresIn = extraSeconds(token.Extra("ext_expires_in"))

	return grant
}

func extraSeconds(value interface{}) int64 {
	switch v := value.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, _ := v.Int64()

		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)

		return n
	default:
		return 0
	}
}

func (a *Authenticator) exchangeError(grant string, err error) error {
	exchangeErr := &powerbi.AuthExchangeError{
		Grant:           grant,
		CredentialsPath: a.store.Path(),
		Err:             err,
	}

	retrieveErr := &oauth2.RetrieveError{}
	if errors.As(err, &retrieveErr) {
		exchangeErr.Code = retrieveErr.ErrorCode
		exchangeErr.Description = retrieveErr.ErrorDescription
	}

	return exchangeErr
}
