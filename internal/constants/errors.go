package constants

import "errors"

// Credential and login errors.
var (
	ErrNoRefreshToken   = errors.New("no refresh token stored, please run 'powerbi login' again")
	ErrInvalidJWTFormat = errors.New("invalid JWT format")
	ErrNoIDToken        = errors.New("no ID token stored")
	ErrTerminalRequired = errors.New("interactive login requires a terminal")
	ErrEmptyRedirectURL = errors.New("no redirect URL entered")
	ErrNotLoggedIn      = errors.New("not logged in, run 'powerbi login' first")
)

// Configuration errors.
var (
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrClientIDRequired = errors.New("client ID is required, set client_id in the config file or POWERBI_CLIENT_ID")
)

// Operation errors.
var (
	ErrUnsupportedOutput = errors.New("unsupported output format")
	ErrGroupRequired     = errors.New("--group flag is required")
	ErrExportFailed      = errors.New("report export failed")
)
