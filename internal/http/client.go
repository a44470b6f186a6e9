// Package http dispatches authenticated requests to the Power BI REST API
// and classifies the responses.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/fivetwenty-io/powerbi/internal/constants"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// ErrMalformedJSON is returned when a JSON response cannot be parsed.
var ErrMalformedJSON = errors.New("malformed JSON response")

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ResponseKind classifies a successful response.
type ResponseKind string

const (
	// KindJSON is a structured JSON body.
	KindJSON ResponseKind = "json"
	// KindBinary is an unparsed file payload.
	KindBinary ResponseKind = "binary"
	// KindEmpty is a success without a body.
	KindEmpty ResponseKind = "empty"
	// KindRaw is a body of any other content type, passed through.
	KindRaw ResponseKind = "raw"
)

var allowedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Request is a single API call. Path is relative to the versioned base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is encoded as JSON. A []byte body is sent as is.
	Body any
	// RawBody takes precedence over Body and is sent unencoded.
	RawBody     []byte
	ContentType string
	Headers     map[string]string
}

// Response is a classified successful response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Kind       ResponseKind
	// Success is set for KindEmpty.
	Success *powerbi.Success
}

// Decode unmarshals a JSON body into v.
func (r *Response) Decode(v any) error {
	if r.Kind != KindJSON {
		return fmt.Errorf("%w: response is %s", ErrMalformedJSON, r.Kind)
	}

	err := json.Unmarshal(r.Body, v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}

	return nil
}

// JSON returns the decoded body, or the success marker for an empty body.
func (r *Response) JSON() (any, error) {
	if r.Kind == KindEmpty {
		return r.Success, nil
	}

	var value any

	err := r.Decode(&value)
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Client performs API requests.
type Client struct {
	baseURL     string
	apiVersion  string
	tokenSource TokenSource
	httpClient  *retryablehttp.Client
	limiter     *rate.Limiter
	observer    powerbi.EventPublisher
	logger      powerbi.Logger
	debug       bool
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger powerbi.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig opts in to retrying throttled and 5xx responses.
func WithRetryConfig(retryMax int, retryWaitMin, retryWaitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = retryWaitMin
		c.httpClient.RetryWaitMax = retryWaitMax
	}
}

// WithHTTPTimeout sets the per attempt timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the limit.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = nil

			return
		}

		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// WithObserver publishes an event for every request.
func WithObserver(observer powerbi.EventPublisher) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// WithAPIVersion overrides the version path segment.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = strings.Trim(version, "/")
	}
}

// NewClient creates a Client for baseURL. A nil tokenSource sends requests
// without an Authorization header.
func NewClient(baseURL string, tokenSource TokenSource, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiVersion:  constants.DefaultAPIVersion,
		tokenSource: tokenSource,
		httpClient:  retryClient,
		logger:      powerbi.NopLogger{},
		userAgent:   constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient.Logger = nil
	if client.debug {
		retryClient.Logger = &leveledLogger{logger: client.logger}
	}

	return client
}

// URL returns the absolute URL for an API path.
func (c *Client) URL(path string) string {
	path = strings.TrimLeft(path, "/")
	if c.apiVersion == "" {
		return c.baseURL + "/" + path
	}

	return c.baseURL + "/" + c.apiVersion + "/" + path
}

// Execute sends req and classifies the response. A non-2xx status returns
// both the response and a *powerbi.HTTPError.
//
//nolint:funlen // Request lifecycle reads best in one place
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	if !slices.Contains(allowedMethods, req.Method) {
		return nil, fmt.Errorf("%w: %s", powerbi.ErrUnsupportedMethod, req.Method)
	}

	fullURL := c.URL(req.Path)
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	httpReq, err := c.buildRequest(ctx, req, fullURL)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		err = c.limiter.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	requestID := uuid.NewString()
	start := time.Now()

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"request_id": requestID,
			"method":     req.Method,
			"url":        fullURL,
			"headers":    powerbi.RedactHeaders(httpReq.Header),
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if httpResp != nil && httpResp.Body != nil {
			_ = httpResp.Body.Close()
		}

		transportErr := &powerbi.TransportError{Method: req.Method, URL: fullURL, Err: err}
		c.logger.Error("HTTP transport failure", map[string]interface{}{
			"request_id": requestID,
			"method":     req.Method,
			"url":        fullURL,
			"error":      err.Error(),
		})
		c.publish(ctx, requestID, req, 0, "", time.Since(start), transportErr)

		return nil, transportErr
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		transportErr := &powerbi.TransportError{Method: req.Method, URL: fullURL, Err: fmt.Errorf("reading response body: %w", err)}
		c.publish(ctx, requestID, req, httpResp.StatusCode, "", time.Since(start), transportErr)

		return nil, transportErr
	}

	duration := time.Since(start)

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"request_id":         requestID,
			"status":             httpResp.StatusCode,
			"duration":           duration.String(),
			"content_type":       httpResp.Header.Get("Content-Type"),
			"service_request_id": httpResp.Header.Get("RequestId"),
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		httpErr := &powerbi.HTTPError{
			StatusCode:     httpResp.StatusCode,
			URL:            fullURL,
			Method:         req.Method,
			RequestHeaders: powerbi.RedactHeaders(httpReq.Header),
			Body:           errorBody(body),
		}

		c.logger.Error("HTTP request failed", map[string]interface{}{
			"request_id": requestID,
			"error":      httpErr,
		})
		c.publish(ctx, requestID, req, httpResp.StatusCode, "", duration, httpErr)

		return resp, httpErr
	}

	err = classify(resp, httpResp.Header.Get("Content-Type"))
	c.publish(ctx, requestID, req, httpResp.StatusCode, string(resp.Kind), duration, err)

	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) buildRequest(ctx context.Context, req *Request, fullURL string) (*retryablehttp.Request, error) {
	var body interface{}

	contentType := constants.ContentTypeJSON

	switch {
	case req.RawBody != nil:
		body = req.RawBody
	case req.Body != nil:
		if raw, ok := req.Body.([]byte); ok {
			body = raw

			break
		}

		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = encoded
	}

	if req.ContentType != "" {
		contentType = req.ContentType
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json, application/zip, application/octet-stream")

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	if c.tokenSource != nil {
		token, err := c.tokenSource.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting access token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

func classify(resp *Response, contentType string) error {
	if len(resp.Body) == 0 {
		resp.Kind = KindEmpty
		resp.Success = &powerbi.Success{Message: powerbi.SuccessMessage, StatusCode: resp.StatusCode}

		return nil
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)

	switch {
	case mediaType == constants.ContentTypeJSON || strings.HasSuffix(mediaType, "+json"):
		if !json.Valid(resp.Body) {
			return fmt.Errorf("%w: %s", ErrMalformedJSON, truncate(resp.Body))
		}

		resp.Kind = KindJSON
	case mediaType == constants.ContentTypeZip || mediaType == constants.ContentTypeOctetStream:
		resp.Kind = KindBinary
	default:
		resp.Kind = KindRaw
	}

	return nil
}

func errorBody(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var parsed any

	err := json.Unmarshal(body, &parsed)
	if err != nil {
		return string(body)
	}

	return parsed
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) <= limit {
		return string(body)
	}

	return string(body[:limit]) + "..."
}

func (c *Client) publish(ctx context.Context, requestID string, req *Request, status int, kind string, duration time.Duration, err error) {
	if c.observer == nil {
		return
	}

	event := powerbi.RequestEvent{
		RequestID:  requestID,
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: status,
		Kind:       kind,
		Duration:   duration,
		Timestamp:  time.Now().UTC(),
	}
	if err != nil {
		event.Error = err.Error()
	}

	publishErr := c.observer.PublishRequestEvent(ctx, event)
	if publishErr != nil {
		c.logger.Warn("Failed to publish request event", map[string]interface{}{
			"request_id": requestID,
			"error":      publishErr.Error(),
		})
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Execute(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Execute(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Execute(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Execute(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Execute(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// leveledLogger adapts powerbi.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger powerbi.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues))
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}

		result[key] = keysAndValues[i+1]
	}

	return result
}
