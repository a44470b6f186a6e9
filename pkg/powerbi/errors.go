package powerbi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// RedactedAuthorization replaces the bearer token in any headers attached to errors or logs.
const RedactedAuthorization = "Bearer XXXXXXX"

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrClientIDRequired      = errors.New("client ID is required")
	ErrRedirectURIRequired   = errors.New("redirect URI is required")
	ErrCredentialsPathNeeded = errors.New("credentials path is required")
	ErrCredentialsNotFound   = errors.New("credentials not found")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrAuthorizationCode     = errors.New("authorization code missing from redirect URL")
	ErrStateMismatch         = errors.New("state returned on redirect does not match")
	ErrInvalidEnumValue      = errors.New("invalid enumeration value")
	ErrPercentageOutOfRange  = errors.New("percentage must be between 0 and 100")
	ErrIDRequired            = errors.New("identifier is required")
	ErrUnsupportedMethod     = errors.New("unsupported HTTP method")
	ErrNoPrompter            = errors.New("interactive login requires a prompter")
)

// HTTPError is returned for any response outside the 2xx range.
type HTTPError struct {
	StatusCode     int               `json:"status_code"`
	URL            string            `json:"url"`
	Method         string            `json:"method"`
	RequestHeaders map[string]string `json:"request_headers"`
	// Body holds the parsed JSON response when the server returned one,
	// otherwise the raw text. Nil for an empty body.
	Body any `json:"response_body,omitempty"`
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Body == nil {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}

	body, err := json.Marshal(e.Body)
	if err != nil {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}

	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, body)
}

// ServiceError extracts the {"error": {"code", "message"}} envelope the service
// returns on most failures. The second return value is false when the body
// doesn't follow that shape.
func (e *HTTPError) ServiceError() (*ServiceError, bool) {
	payload, ok := e.Body.(map[string]any)
	if !ok {
		return nil, false
	}

	inner, ok := payload["error"].(map[string]any)
	if !ok {
		return nil, false
	}

	svcErr := &ServiceError{}
	svcErr.Code, _ = inner["code"].(string)
	svcErr.Message, _ = inner["message"].(string)

	return svcErr, svcErr.Code != "" || svcErr.Message != ""
}

// ServiceError is the error envelope returned by the service.
type ServiceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// RedactHeaders copies headers and masks the Authorization value.
func RedactHeaders(headers http.Header) map[string]string {
	redacted := make(map[string]string, len(headers))

	for key := range headers {
		if http.CanonicalHeaderKey(key) == "Authorization" {
			redacted[key] = RedactedAuthorization

			continue
		}

		redacted[key] = headers.Get(key)
	}

	return redacted
}

// TransportError wraps failures that happen before a response is received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport failure: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// CredentialLoadError reports a credential file that is missing or unreadable.
// Login recovers from it by falling back to the interactive flow.
type CredentialLoadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *CredentialLoadError) Error() string {
	return fmt.Sprintf("loading credentials from %s: %v", e.Path, e.Err)
}

// Unwrap returns the cause.
func (e *CredentialLoadError) Unwrap() error {
	return e.Err
}

// AuthExchangeError is returned when the identity provider rejects a code
// exchange or a refresh. It is fatal: the stored credentials can't be used.
type AuthExchangeError struct {
	Grant           string
	Code            string
	Description     string
	CredentialsPath string
	Err             error
}

// Error implements the error interface.
func (e *AuthExchangeError) Error() string {
	msg := e.Grant + " grant failed"
	if e.Code != "" {
		msg += ": " + e.Code
	}

	if e.Description != "" {
		msg += ": " + e.Description
	}

	if e.Err != nil && e.Code == "" {
		msg += ": " + e.Err.Error()
	}

	if e.CredentialsPath != "" {
		msg += fmt.Sprintf("; delete %s and log in again", e.CredentialsPath)
	}

	return msg
}

// Unwrap lets errors.Is match ErrPermissionDenied as well as the cause.
func (e *AuthExchangeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPermissionDenied}
	}

	return []error{ErrPermissionDenied, e.Err}
}

func hasStatus(err error, status int) bool {
	httpErr := &HTTPError{}
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == status
	}

	return false
}

// IsNotFound checks if the error is a 404 from the service.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is a 401 from the service.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a 403 from the service.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsThrottled checks if the service rejected the call with 429.
func IsThrottled(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

// IsTransport reports whether the request never reached the service.
func IsTransport(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}
