package pbiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/powerbi/pkg/pbiclient"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

const (
	testClientID    = "client-id"
	testRedirectURI = "http://localhost:8400/callback"
)

type fakePrompter struct {
	redirectURL string
	calls       atomic.Int32
}

func (p *fakePrompter) Prompt(_ context.Context, authURL string) (string, error) {
	p.calls.Add(1)

	if !strings.Contains(authURL, "client_id="+testClientID) {
		return "", powerbi.ErrAuthorizationCode
	}

	return p.redirectURL, nil
}

// newGroupsAPI serves an empty group list and records the Authorization header.
func newGroupsAPI(t *testing.T) (*httptest.Server, chan string) {
	t.Helper()

	headers := make(chan string, 8)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.0/myorg/groups", request.URL.Path)

		headers <- request.Header.Get("Authorization")

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"value":[]}`))
	}))
	t.Cleanup(server.Close)

	return server, headers
}

// newTokenServer answers every token request with the given status and body.
func newTokenServer(t *testing.T, status int, body map[string]any) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/common/oauth2/v2.0/token", request.URL.Path)

		calls.Add(1)

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		_ = json.NewEncoder(writer).Encode(body)
	}))
	t.Cleanup(server.Close)

	return server, &calls
}

func writeCredentials(t *testing.T, path string, accessExpiresAt, refreshExpiresAt time.Time) {
	t.Helper()

	data, err := json.Marshal(map[string]any{
		"access_token":   "stored-token",
		"refresh_token":  "stored-refresh",
		"id_token":       "",
		"expires_in":     float64(accessExpiresAt.Unix()),
		"ext_expires_in": float64(refreshExpiresAt.Unix()),
	})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func readStoredAccessToken(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var stored map[string]any

	require.NoError(t, json.Unmarshal(data, &stored))

	token, _ := stored["access_token"].(string)

	return token
}

func baseConfig(t *testing.T) *powerbi.Config {
	t.Helper()

	return &powerbi.Config{
		ClientID:        testClientID,
		ClientSecret:    "secret",
		RedirectURI:     testRedirectURI,
		CredentialsPath: filepath.Join(t.TempDir(), "powerbi", "credentials.json"),
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(config *powerbi.Config)
		wantErr error
	}{
		{"without client ID", func(c *powerbi.Config) { c.ClientID = "" }, powerbi.ErrClientIDRequired},
		{"without redirect URI", func(c *powerbi.Config) { c.RedirectURI = "" }, powerbi.ErrRedirectURIRequired},
		{"without credentials path", func(c *powerbi.Config) { c.CredentialsPath = "" }, powerbi.ErrCredentialsPathNeeded},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			config := baseConfig(t)
			tt.mutate(config)

			client, err := pbiclient.New(context.Background(), config)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, client)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		client, err := pbiclient.New(context.Background(), nil)
		require.ErrorIs(t, err, powerbi.ErrConfigRequired)
		assert.Nil(t, client)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew_Login(t *testing.T) {
	t.Parallel()

	t.Run("uses stored access token", func(t *testing.T) {
		t.Parallel()

		api, headers := newGroupsAPI(t)
		tokenServer, calls := newTokenServer(t, http.StatusOK, nil)

		config := baseConfig(t)
		config.APIEndpoint = api.URL
		config.AuthorityURL = tokenServer.URL
		writeCredentials(t, config.CredentialsPath, time.Now().Add(time.Hour), time.Now().Add(24*time.Hour))

		client, err := pbiclient.New(context.Background(), config)
		require.NoError(t, err)

		_, err = client.Groups().List(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "Bearer stored-token", <-headers)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("refreshes expired access token", func(t *testing.T) {
		t.Parallel()

		api, headers := newGroupsAPI(t)
		tokenServer, calls := newTokenServer(t, http.StatusOK, map[string]any{
			"access_token":   "refreshed-token",
			"refresh_token":  "rotated-refresh",
			"token_type":     "Bearer",
			"expires_in":     3599,
			"ext_expires_in": 3599,
		})

		config := baseConfig(t)
		config.APIEndpoint = api.URL
		config.AuthorityURL = tokenServer.URL
		writeCredentials(t, config.CredentialsPath, time.Now().Add(-time.Minute), time.Now().Add(24*time.Hour))

		client, err := pbiclient.New(context.Background(), config)
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, "refreshed-token", readStoredAccessToken(t, config.CredentialsPath))

		_, err = client.Groups().List(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "Bearer refreshed-token", <-headers)
	})

	t.Run("rejected refresh is fatal", func(t *testing.T) {
		t.Parallel()

		tokenServer, calls := newTokenServer(t, http.StatusBadRequest, map[string]any{
			"error":             "invalid_grant",
			"error_description": "AADSTS70008: The refresh token has expired",
		})
		prompter := &fakePrompter{redirectURL: testRedirectURI + "?code=abc"}

		config := baseConfig(t)
		config.AuthorityURL = tokenServer.URL
		config.Prompter = prompter
		writeCredentials(t, config.CredentialsPath, time.Now().Add(-time.Minute), time.Now().Add(24*time.Hour))

		client, err := pbiclient.New(context.Background(), config)
		require.ErrorIs(t, err, powerbi.ErrPermissionDenied)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), config.CredentialsPath)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, int32(0), prompter.calls.Load())
	})

	t.Run("interactive login without stored credentials", func(t *testing.T) {
		t.Parallel()

		api, headers := newGroupsAPI(t)
		tokenServer, calls := newTokenServer(t, http.StatusOK, map[string]any{
			"access_token":  "interactive-token",
			"refresh_token": "interactive-refresh",
			"token_type":    "Bearer",
			"expires_in":    3599,
		})
		prompter := &fakePrompter{redirectURL: testRedirectURI + "?" + url.Values{"code": {"abc"}}.Encode()}

		config := baseConfig(t)
		config.APIEndpoint = api.URL
		config.AuthorityURL = tokenServer.URL
		config.Prompter = prompter

		client, err := pbiclient.New(context.Background(), config)
		require.NoError(t, err)
		assert.Equal(t, int32(1), prompter.calls.Load())
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, "interactive-token", readStoredAccessToken(t, config.CredentialsPath))

		_, err = client.Groups().List(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "Bearer interactive-token", <-headers)
	})

	t.Run("no credentials and no prompter", func(t *testing.T) {
		t.Parallel()

		config := baseConfig(t)

		client, err := pbiclient.New(context.Background(), config)
		require.ErrorIs(t, err, powerbi.ErrNoPrompter)
		assert.Nil(t, client)

		info, statErr := os.Stat(filepath.Dir(config.CredentialsPath))
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
	})
}

func TestNew_DoesNotModifyConfig(t *testing.T) {
	t.Parallel()

	api, _ := newGroupsAPI(t)

	config := baseConfig(t)
	config.APIEndpoint = api.URL
	writeCredentials(t, config.CredentialsPath, time.Now().Add(time.Hour), time.Now().Add(24*time.Hour))

	_, err := pbiclient.New(context.Background(), config)
	require.NoError(t, err)

	assert.Empty(t, config.APIVersion)
	assert.Empty(t, config.AccountType)
	assert.Empty(t, config.Scopes)
	assert.Equal(t, api.URL, config.APIEndpoint)
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	t.Run("sends the token", func(t *testing.T) {
		t.Parallel()

		api, headers := newGroupsAPI(t)

		client, err := pbiclient.NewWithToken(&powerbi.Config{APIEndpoint: api.URL}, "ci-token")
		require.NoError(t, err)

		token, err := client.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ci-token", token)

		_, err = client.Groups().List(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "Bearer ci-token", <-headers)
	})

	t.Run("requires a token", func(t *testing.T) {
		t.Parallel()

		client, err := pbiclient.NewWithToken(&powerbi.Config{}, "")
		require.ErrorIs(t, err, powerbi.ErrNotAuthenticated)
		assert.Nil(t, client)
	})

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		client, err := pbiclient.NewWithToken(nil, "ci-token")
		require.ErrorIs(t, err, powerbi.ErrConfigRequired)
		assert.Nil(t, client)
	})
}

func TestNewTokenCredential(t *testing.T) {
	t.Parallel()

	t.Run("shares the stored session", func(t *testing.T) {
		t.Parallel()

		tokenServer, calls := newTokenServer(t, http.StatusOK, nil)

		config := baseConfig(t)
		config.AuthorityURL = tokenServer.URL
		accessExpiresAt := time.Now().Add(time.Hour)
		writeCredentials(t, config.CredentialsPath, accessExpiresAt, time.Now().Add(24*time.Hour))

		credential, err := pbiclient.NewTokenCredential(context.Background(), config)
		require.NoError(t, err)

		token, err := credential.GetToken(context.Background(), policy.TokenRequestOptions{Scopes: []string{"https://storage.azure.com/.default"}})
		require.NoError(t, err)
		assert.Equal(t, "stored-token", token.Token)
		assert.True(t, token.ExpiresOn.Before(accessExpiresAt))
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("validates config", func(t *testing.T) {
		t.Parallel()

		credential, err := pbiclient.NewTokenCredential(context.Background(), nil)
		require.ErrorIs(t, err, powerbi.ErrConfigRequired)
		assert.Nil(t, credential)
	})
}

func TestNewTerminalPrompter(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, pbiclient.NewTerminalPrompter())
}
