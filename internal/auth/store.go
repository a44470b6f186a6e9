package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fivetwenty-io/powerbi/internal/constants"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// CredentialStore persists the token bundle between runs.
type CredentialStore interface {
	Load() (*TokenBundle, error)
	Save(grant *Grant) (*TokenBundle, error)
	Path() string
}

// credentialFile is the on-disk JSON layout. expires_in and ext_expires_in
// hold absolute epoch seconds.
type credentialFile struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	IDToken      string  `json:"id_token"`
	TokenType    string  `json:"token_type,omitempty"`
	Scope        string  `json:"scope,omitempty"`
	ExpiresIn    float64 `json:"expires_in"`
	ExtExpiresIn float64 `json:"ext_expires_in"`
}

// FileStore keeps credentials in a single JSON file that is overwritten in
// full on every save.
type FileStore struct {
	path  string
	mutex sync.Mutex
	now   func() time.Time
}

// NewFileStore creates a store for path. Call Init before the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		now:  time.Now,
	}
}

// Path implements CredentialStore.
func (s *FileStore) Path() string {
	return s.path
}

// Init creates the directory holding the credential file.
func (s *FileStore) Init() error {
	if s.path == "" {
		return powerbi.ErrCredentialsPathNeeded
	}

	err := os.MkdirAll(filepath.Dir(s.path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	return nil
}

// Load implements CredentialStore. Every failure is a *powerbi.CredentialLoadError;
// a missing file or a file without a refresh token wraps powerbi.ErrCredentialsNotFound.
func (s *FileStore) Load() (*TokenBundle, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &powerbi.CredentialLoadError{Path: s.path, Err: powerbi.ErrCredentialsNotFound}
		}

		return nil, &powerbi.CredentialLoadError{Path: s.path, Err: err}
	}

	var file credentialFile

	err = json.Unmarshal(data, &file)
	if err != nil {
		return nil, &powerbi.CredentialLoadError{Path: s.path, Err: fmt.Errorf("parsing credentials: %w", err)}
	}

	if file.RefreshToken == "" {
		return nil, &powerbi.CredentialLoadError{Path: s.path, Err: powerbi.ErrCredentialsNotFound}
	}

	return &TokenBundle{
		AccessToken:      file.AccessToken,
		RefreshToken:     file.RefreshToken,
		IDToken:          file.IDToken,
		TokenType:        file.TokenType,
		Scope:            file.Scope,
		AccessExpiresAt:  fromEpoch(file.ExpiresIn),
		RefreshExpiresAt: fromEpoch(file.ExtExpiresIn),
	}, nil
}

// Save implements CredentialStore. Relative lifetimes are converted to
// absolute times at the moment of saving.
func (s *FileStore) Save(grant *Grant) (*TokenBundle, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	bundle := grant.bundleAt(s.now())

	file := credentialFile{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		IDToken:      bundle.IDToken,
		TokenType:    bundle.TokenType,
		Scope:        bundle.Scope,
		ExpiresIn:    toEpoch(bundle.AccessExpiresAt),
		ExtExpiresIn: toEpoch(bundle.RefreshExpiresAt),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding credentials: %w", err)
	}

	err = os.WriteFile(s.path, data, constants.ConfigFilePerm)
	if err != nil {
		return nil, fmt.Errorf("writing credentials: %w", err)
	}

	return bundle, nil
}

// Delete removes the credential file. A missing file is not an error.
func (s *FileStore) Delete() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing credentials: %w", err)
	}

	return nil
}

func toEpoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromEpoch(seconds float64) time.Time {
	whole, frac := math.Modf(seconds)

	return time.Unix(int64(whole), int64(frac*float64(time.Second)))
}
