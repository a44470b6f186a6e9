package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fivetwenty-io/powerbi/internal/constants"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()

	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "dir", "credentials.json"))
	require.NoError(t, store.Init())

	return store
}

func TestFileStore_Init(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directory", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)

		info, err := os.Stat(filepath.Dir(store.Path()))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("requires a path", func(t *testing.T) {
		t.Parallel()

		require.ErrorIs(t, NewFileStore("").Init(), powerbi.ErrCredentialsPathNeeded)
	})
}

func TestFileStore_SaveLoad(t *testing.T) {
	t.Parallel()

	t.Run("round trips tokens", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		now := time.Unix(1_700_000_000, 0)
		store.now = func() time.Time { return now }

		saved, err := store.Save(&Grant{
			AccessToken:  "access",
			RefreshToken: "refresh",
			IDToken:      "id",
			TokenType:    "Bearer",
			ExpiresIn:    3600,
			ExtExpiresIn: 86400,
		})
		require.NoError(t, err)
		assert.Equal(t, now.Add(time.Hour), saved.AccessExpiresAt)
		assert.Equal(t, now.Add(24*time.Hour), saved.RefreshExpiresAt)

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "access", loaded.AccessToken)
		assert.Equal(t, "refresh", loaded.RefreshToken)
		assert.Equal(t, "id", loaded.IDToken)
		assert.True(t, loaded.AccessExpiresAt.Equal(saved.AccessExpiresAt))
		assert.True(t, loaded.RefreshExpiresAt.Equal(saved.RefreshExpiresAt))
	})

	t.Run("writes absolute epoch seconds with restricted permissions", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		store.now = func() time.Time { return time.Unix(1_000, 0) }

		_, err := store.Save(&Grant{AccessToken: "a", RefreshToken: "r", ExpiresIn: 60, ExtExpiresIn: 120})
		require.NoError(t, err)

		data, err := os.ReadFile(store.Path())
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.InDelta(t, 1060, raw["expires_in"], 0)
		assert.InDelta(t, 1120, raw["ext_expires_in"], 0)
		assert.Contains(t, string(data), "\n  \"access_token\"")

		info, err := os.Stat(store.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())
	})

	t.Run("missing ext_expires_in falls back to default lifetime", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		now := time.Unix(1_700_000_000, 0)
		store.now = func() time.Time { return now }

		saved, err := store.Save(&Grant{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600})
		require.NoError(t, err)
		assert.Equal(t, now.Add(constants.DefaultRefreshTokenLifetime), saved.RefreshExpiresAt)
	})

	t.Run("overwrites previous contents", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)

		_, err := store.Save(&Grant{AccessToken: "first", RefreshToken: "r1", IDToken: "id1", ExpiresIn: 60})
		require.NoError(t, err)
		_, err = store.Save(&Grant{AccessToken: "second", RefreshToken: "r2", ExpiresIn: 60})
		require.NoError(t, err)

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.AccessToken)
		assert.Equal(t, "r2", loaded.RefreshToken)
		assert.Empty(t, loaded.IDToken)
	})
}

func TestFileStore_LoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)

		_, err := store.Load()

		loadErr := &powerbi.CredentialLoadError{}
		require.ErrorAs(t, err, &loadErr)
		require.ErrorIs(t, err, powerbi.ErrCredentialsNotFound)
	})

	t.Run("file without refresh token", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte(`{"access_token":"a"}`), constants.ConfigFilePerm))

		_, err := store.Load()
		require.ErrorIs(t, err, powerbi.ErrCredentialsNotFound)
	})

	t.Run("malformed file", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte(`{not json`), constants.ConfigFilePerm))

		_, err := store.Load()

		loadErr := &powerbi.CredentialLoadError{}
		require.ErrorAs(t, err, &loadErr)
		assert.NotErrorIs(t, err, powerbi.ErrCredentialsNotFound)
	})
}

func TestFileStore_Delete(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.Save(&Grant{AccessToken: "a", RefreshToken: "r", ExpiresIn: 60})
	require.NoError(t, err)

	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete(), "deleting twice is fine")

	_, err = store.Load()
	require.ErrorIs(t, err, powerbi.ErrCredentialsNotFound)
}
