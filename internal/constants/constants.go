package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration and credential directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration and credential files.
	ConfigFilePerm = 0600

	// ExportFilePerm is the permission for exported report files.
	ExportFilePerm = 0640
)

// Service endpoints.
const (
	// DefaultAPIEndpoint is the Power BI REST API host.
	DefaultAPIEndpoint = "https://api.powerbi.com/"

	// DefaultAPIVersion is the version path segment prepended to every resource path.
	DefaultAPIVersion = "v1.0"

	// DefaultAuthorityURL is the identity provider host.
	DefaultAuthorityURL = "https://login.microsoftonline.com/"

	// DefaultAccountType is the tenant segment used when none is configured.
	DefaultAccountType = "common"

	// AuthorizePath and TokenPath follow the account type in the authority URL.
	AuthorizePath = "/oauth2/v2.0/authorize"
	TokenPath     = "/oauth2/v2.0/token"

	// DefaultScope grants the delegated permissions configured on the app registration.
	DefaultScope = "https://analysis.windows.net/powerbi/api/.default"

	// OfflineAccessScope is required to receive a refresh token.
	OfflineAccessScope = "offline_access"

	// DefaultUserAgent identifies the library in outgoing requests.
	DefaultUserAgent = "powerbi-go/1.0"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ExtendedHTTPTimeout is used for exports and imports.
	ExtendedHTTPTimeout = 5 * time.Minute

	// ShortHTTPTimeout is used for token requests.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. Retries are only used when explicitly configured.
const (
	// DefaultRetryMax disables retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Token lifetimes.
const (
	// TokenExpirationBuffer is subtracted from every expiry before a token counts as usable.
	TokenExpirationBuffer = 60 * time.Second

	// MinTokenValiditySeconds is the headroom required before a request uses the access token.
	MinTokenValiditySeconds = 60

	// DefaultRefreshTokenLifetime applies when the identity provider omits ext_expires_in.
	DefaultRefreshTokenLifetime = 90 * 24 * time.Hour
)

// Content types.
const (
	ContentTypeJSON        = "application/json"
	ContentTypeZip         = "application/zip"
	ContentTypeOctetStream = "application/octet-stream"
)

// Validation limits.
const (
	// MaxPercentage bounds memory percentages on capacity workloads.
	MaxPercentage = 100

	// UnassignedID detaches a workspace from its capacity or dataflow storage account.
	UnassignedID = "00000000-0000-0000-0000-000000000000"

	// MinimumArgumentCount is the minimum number of command line arguments.
	MinimumArgumentCount = 2
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// StatusValid and StatusExpired describe token states in CLI output.
	StatusValid   = "valid"
	StatusExpired = "expired"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)
