package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/powerbi/internal/constants"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

const testToken = "test-token"

// Test static errors.
var (
	ErrTestSomeError = errors.New("some error")
)

// NewTestClient creates a client for baseURL that sends a fixed bearer token.
func NewTestClient(baseURL string) *Client {
	client, err := New(&powerbi.Config{APIEndpoint: baseURL}, StaticTokenSource(testToken))
	if err != nil {
		panic(err)
	}

	return client
}

// recordedCall is one request received by a fakeAPI.
type recordedCall struct {
	Method        string
	Path          string
	EscapedPath   string
	Query         url.Values
	Body          []byte
	ContentType   string
	Authorization string
}

// fakeAPI records requests and answers each with the same status and body.
type fakeAPI struct {
	*httptest.Server

	mu    sync.Mutex
	calls []recordedCall
}

func newFakeAPI(t *testing.T, status int, response any) *fakeAPI {
	t.Helper()

	api := &fakeAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		body, err := io.ReadAll(request.Body)
		assert.NoError(t, err)

		api.mu.Lock()
		api.calls = append(api.calls, recordedCall{
			Method:        request.Method,
			Path:          request.URL.Path,
			EscapedPath:   request.URL.EscapedPath(),
			Query:         request.URL.Query(),
			Body:          body,
			ContentType:   request.Header.Get("Content-Type"),
			Authorization: request.Header.Get("Authorization"),
		})
		api.mu.Unlock()

		if response == nil {
			writer.WriteHeader(status)

			return
		}

		writer.Header().Set("Content-Type", constants.ContentTypeJSON)
		writer.WriteHeader(status)
		_ = json.NewEncoder(writer).Encode(response)
	}))
	t.Cleanup(api.Close)

	return api
}

// newUnreachableAPI fails the test on any request.
func newUnreachableAPI(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		t.Errorf("unexpected request: %s %s", request.Method, request.URL.Path)
	}))
	t.Cleanup(server.Close)

	return server
}

func (f *fakeAPI) lastCall(t *testing.T) recordedCall {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.calls, "no request reached the server")

	return f.calls[len(f.calls)-1]
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

// routeCase describes the request an operation is expected to send.
type routeCase struct {
	name   string
	method string
	// path is compared with the escaped request path.
	path string
	// query is compared when set, otherwise no query is expected.
	query url.Values
	// body is compared as JSON when set, otherwise no body is expected.
	body string
	// response defaults to an empty OData list.
	response any
	call     func(ctx context.Context, client *Client) error
}

func runRouteCases(t *testing.T, cases []routeCase) {
	t.Helper()

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			response := testCase.response
			if response == nil {
				response = map[string]any{"value": []any{}}
			}

			api := newFakeAPI(t, http.StatusOK, response)
			client := NewTestClient(api.URL)

			err := testCase.call(context.Background(), client)
			require.NoError(t, err)

			call := api.lastCall(t)
			assert.Equal(t, testCase.method, call.Method)
			assert.Equal(t, testCase.path, call.EscapedPath)
			assert.Equal(t, "Bearer "+testToken, call.Authorization)

			if testCase.query != nil {
				assert.Equal(t, testCase.query, call.Query)
			} else {
				assert.Empty(t, call.Query)
			}

			if testCase.body != "" {
				assert.JSONEq(t, testCase.body, string(call.Body))
			} else {
				assert.Empty(t, call.Body)
			}
		})
	}
}

// validationCase is an operation that must fail before any request is sent.
type validationCase struct {
	name    string
	wantErr error
	call    func(ctx context.Context, client *Client) error
}

func runValidationCases(t *testing.T, cases []validationCase) {
	t.Helper()

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := newUnreachableAPI(t)
			client := NewTestClient(server.URL)

			err := testCase.call(context.Background(), client)
			require.Error(t, err)
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}
