package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	pbihttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secretToken = "super-secret-access-token"

// MockTokenSource for testing.
type MockTokenSource struct {
	token string
	err   error
	calls atomic.Int32
}

func (m *MockTokenSource) Token(ctx context.Context) (string, error) {
	m.calls.Add(1)

	return m.token, m.err
}

// MockLogger for testing.
type MockLogger struct {
	mutex sync.Mutex
	logs  []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.record("debug", msg, fields)
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.record("info", msg, fields)
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.record("warn", msg, fields)
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.record("error", msg, fields)
}

func (l *MockLogger) messages(level string) []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var msgs []string

	for _, entry := range l.logs {
		if entry["level"] == level {
			msgs = append(msgs, entry["msg"].(string))
		}
	}

	return msgs
}

// MockObserver for testing.
type MockObserver struct {
	mutex  sync.Mutex
	events []powerbi.RequestEvent
	err    error
}

func (o *MockObserver) PublishRequestEvent(_ context.Context, event powerbi.RequestEvent) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.events = append(o.events, event)

	return o.err
}

func writeJSON(writer http.ResponseWriter, status int, body string) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_, _ = writer.Write([]byte(body))
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Execute(t *testing.T) {
	t.Parallel()

	t.Run("successful JSON request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1.0/myorg/groups/g1/dashboards", request.URL.Path)
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, "Bearer "+secretToken, request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
			assert.NotEmpty(t, request.Header.Get("User-Agent"))

			writeJSON(writer, http.StatusOK, `{"value":[{"id":"d1","displayName":"Sales"}]}`)
		}))
		defer server.Close()

		tokens := &MockTokenSource{token: secretToken}
		client := pbihttp.NewClient(server.URL, tokens)

		resp, err := client.Execute(context.Background(), &pbihttp.Request{
			Method: http.MethodGet,
			Path:   "myorg/groups/g1/dashboards",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, pbihttp.KindJSON, resp.Kind)
		assert.JSONEq(t, `{"value":[{"id":"d1","displayName":"Sales"}]}`, string(resp.Body))
		assert.Equal(t, int32(1), tokens.calls.Load())

		value, err := resp.JSON()
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"value": []interface{}{map[string]interface{}{"id": "d1", "displayName": "Sales"}},
		}, value)
	})

	t.Run("leading slash and query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1.0/myorg/groups", request.URL.Path)
			assert.Equal(t, "10", request.URL.Query().Get("$top"))
			writeJSON(writer, http.StatusOK, `{"value":[]}`)
		}))
		defer server.Close()

		client := pbihttp.NewClient(server.URL+"/", nil)

		resp, err := client.Get(context.Background(), "/myorg/groups", url.Values{"$top": []string{"10"}})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("request with JSON body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "Finance", body["name"])

			writeJSON(writer, http.StatusCreated, `{"id":"g1","name":"Finance"}`)
		}))
		defer server.Close()

		client := pbihttp.NewClient(server.URL, nil)

		resp, err := client.Post(context.Background(), "myorg/groups", map[string]string{"name": "Finance"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var group powerbi.Group
		require.NoError(t, resp.Decode(&group))
		assert.Equal(t, "g1", group.ID)
	})

	t.Run("raw body with content type override", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "multipart/form-data; boundary=xyz", request.Header.Get("Content-Type"))

			body, err := io.ReadAll(request.Body)
			assert.NoError(t, err)
			assert.Equal(t, "raw-payload", string(body))

			writer.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		client := pbihttp.NewClient(server.URL, nil)

		resp, err := client.Execute(context.Background(), &pbihttp.Request{
			Method:      http.MethodPost,
			Path:        "myorg/imports",
			RawBody:     []byte("raw-payload"),
			ContentType: "multipart/form-data; boundary=xyz",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	})

	t.Run("empty body returns success marker", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := pbihttp.NewClient(server.URL, nil)

		resp, err := client.Delete(context.Background(), "myorg/groups/g1")
		require.NoError(t, err)
		assert.Equal(t, pbihttp.KindEmpty, resp.Kind)
		require.NotNil(t, resp.Success)
		assert.Equal(t, powerbi.Success{Message: "response successful", StatusCode: http.StatusOK}, *resp.Success)

		value, err := resp.JSON()
		require.NoError(t, err)
		assert.Equal(t, resp.Success, value)
	})

	t.Run("zip body is returned unchanged", func(t *testing.T) {
		t.Parallel()

		payload := []byte{0x50, 0x4b, 0x03, 0x04, 0x00, 0xff, '{'}

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/zip")
			_, _ = writer.Write(payload)
		}))
		defer server.Close()

		client := pbihttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "myorg/reports/r1/Export", nil)
		require.NoError(t, err)
		assert.Equal(t, pbihttp.KindBinary, resp.Kind)
		assert.Equal(t, payload, resp.Body)

		_, err = resp.JSON()
		require.ErrorIs(t, err, pbihttp.ErrMalformedJSON)
	})

	t.Run("octet stream is binary", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/octet-stream")
			_, _ = writer.Write([]byte("PBIX"))
		}))
		defer server.Close()

		resp, err := pbihttp.NewClient(server.URL, nil).Get(context.Background(), "myorg/exports/e1/file", nil)
		require.NoError(t, err)
		assert.Equal(t, pbihttp.KindBinary, resp.Kind)
	})

	t.Run("other content types pass through raw", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "text/csv")
			_, _ = writer.Write([]byte("a,b\n1,2\n"))
		}))
		defer server.Close()

		resp, err := pbihttp.NewClient(server.URL, nil).Get(context.Background(), "myorg/anything", nil)
		require.NoError(t, err)
		assert.Equal(t, pbihttp.KindRaw, resp.Kind)
		assert.Equal(t, "a,b\n1,2\n", string(resp.Body))
	})

	t.Run("malformed JSON body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writeJSON(writer, http.StatusOK, `{"value":`)
		}))
		defer server.Close()

		_, err := pbihttp.NewClient(server.URL, nil).Get(context.Background(), "myorg/groups", nil)
		require.ErrorIs(t, err, pbihttp.ErrMalformedJSON)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writeJSON(writer, http.StatusNotFound, `{"error":"not found"}`)
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := pbihttp.NewClient(server.URL, &MockTokenSource{token: secretToken}, pbihttp.WithLogger(logger))

		resp, err := client.Get(context.Background(), "myorg/groups/missing", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		httpErr := &powerbi.HTTPError{}
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
		assert.Equal(t, http.MethodGet, httpErr.Method)
		assert.Equal(t, server.URL+"/v1.0/myorg/groups/missing", httpErr.URL)
		assert.Equal(t, map[string]interface{}{"error": "not found"}, httpErr.Body)
		assert.Equal(t, powerbi.RedactedAuthorization, httpErr.RequestHeaders["Authorization"])
		assert.True(t, powerbi.IsNotFound(err))

		for _, value := range httpErr.RequestHeaders {
			assert.NotContains(t, value, secretToken)
		}

		assert.NotContains(t, err.Error(), secretToken)
		assert.Equal(t, []string{"HTTP request failed"}, logger.messages("error"))
	})

	t.Run("error response with text body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "text/plain")
			writer.WriteHeader(http.StatusBadGateway)
			_, _ = writer.Write([]byte("upstream down"))
		}))
		defer server.Close()

		_, err := pbihttp.NewClient(server.URL, nil).Get(context.Background(), "myorg/groups", nil)

		httpErr := &powerbi.HTTPError{}
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "upstream down", httpErr.Body)
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		serverURL := server.URL
		server.Close()

		_, err := pbihttp.NewClient(serverURL, nil).Get(context.Background(), "myorg/groups", nil)
		require.Error(t, err)

		transportErr := &powerbi.TransportError{}
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, http.MethodGet, transportErr.Method)
		assert.True(t, powerbi.IsTransport(err))
	})

	t.Run("unsupported method", func(t *testing.T) {
		t.Parallel()

		client := pbihttp.NewClient("http://localhost", nil)

		_, err := client.Execute(context.Background(), &pbihttp.Request{Method: http.MethodHead, Path: "myorg/groups"})
		require.ErrorIs(t, err, powerbi.ErrUnsupportedMethod)
	})

	t.Run("token failure stops the request", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		tokens := &MockTokenSource{err: powerbi.ErrNotAuthenticated}

		_, err := pbihttp.NewClient(server.URL, tokens).Get(context.Background(), "myorg/groups", nil)
		require.ErrorIs(t, err, powerbi.ErrNotAuthenticated)
		assert.Equal(t, int32(0), hits.Load())
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := pbihttp.NewClient(server.URL, nil)

		resp, err := client.Execute(context.Background(), &pbihttp.Request{
			Method: http.MethodGet,
			Path:   "myorg/groups",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("api version override", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/beta/myorg/groups", request.URL.Path)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := pbihttp.NewClient(server.URL, nil, pbihttp.WithAPIVersion("/beta/"))

		_, err := client.Get(context.Background(), "myorg/groups", nil)
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/beta/myorg/groups", client.URL("myorg/groups"))
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writeJSON(writer, http.StatusOK, `{"result":"ok"}`)
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := pbihttp.NewClient(server.URL, &MockTokenSource{token: secretToken},
			pbihttp.WithLogger(logger), pbihttp.WithDebug(true))

		_, err := client.Get(context.Background(), "myorg/groups", nil)
		require.NoError(t, err)

		debug := logger.messages("debug")
		assert.Contains(t, debug, "HTTP Request")
		assert.Contains(t, debug, "HTTP Response")

		for _, entry := range logger.logs {
			fields, _ := entry["fields"].(map[string]interface{})
			if headers, ok := fields["headers"].(map[string]string); ok {
				assert.Equal(t, powerbi.RedactedAuthorization, headers["Authorization"])
			}
		}
	})

	t.Run("no debug logging by default", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writeJSON(writer, http.StatusOK, `{}`)
		}))
		defer server.Close()

		logger := &MockLogger{}

		_, err := pbihttp.NewClient(server.URL, nil, pbihttp.WithLogger(logger)).Get(context.Background(), "myorg/groups", nil)
		require.NoError(t, err)
		assert.Empty(t, logger.messages("debug"))
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*pbihttp.Client, context.Context) (*pbihttp.Response, error)
	}{
		{
			name:   "GET",
			method: http.MethodGet,
			fn: func(c *pbihttp.Client, ctx context.Context) (*pbihttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: http.MethodPost,
			fn: func(c *pbihttp.Client, ctx context.Context) (*pbihttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: http.MethodPut,
			fn: func(c *pbihttp.Client, ctx context.Context) (*pbihttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: http.MethodPatch,
			fn: func(c *pbihttp.Client, ctx context.Context) (*pbihttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: http.MethodDelete,
			fn: func(c *pbihttp.Client, ctx context.Context) (*pbihttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/v1.0/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := pbihttp.NewClient(server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()

	t.Run("does not retry by default", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writeJSON(writer, http.StatusInternalServerError, `{"error":{"code":"InternalError","message":"boom"}}`)
		}))
		defer server.Close()

		resp, err := pbihttp.NewClient(server.URL, nil).Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())

		httpErr := &powerbi.HTTPError{}
		require.ErrorAs(t, err, &httpErr)

		serviceErr, ok := httpErr.ServiceError()
		require.True(t, ok)
		assert.Equal(t, "InternalError", serviceErr.Code)
	})

	t.Run("retries on 5xx errors when enabled", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := pbihttp.NewClient(server.URL, nil, pbihttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("retries on throttling when enabled", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := pbihttp.NewClient(server.URL, nil, pbihttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := pbihttp.NewClient(server.URL, nil, pbihttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})
}

func TestClient_RateLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := pbihttp.NewClient(server.URL, nil, pbihttp.WithRateLimit(20))

	start := time.Now()

	for i := 0; i < 3; i++ {
		_, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
	}

	// Burst of one: the second and third calls wait 50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "/test", nil)
	require.Error(t, err)
}

func TestClient_Observer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if strings.HasSuffix(request.URL.Path, "missing") {
			writeJSON(writer, http.StatusNotFound, `{}`)

			return
		}

		writeJSON(writer, http.StatusOK, `{"value":[]}`)
	}))
	defer server.Close()

	observer := &MockObserver{err: errors.New("broker unavailable")}
	logger := &MockLogger{}
	client := pbihttp.NewClient(server.URL, nil, pbihttp.WithObserver(observer), pbihttp.WithLogger(logger))

	_, err := client.Get(context.Background(), "myorg/groups", nil)
	require.NoError(t, err, "publishing failures never fail the call")

	_, err = client.Get(context.Background(), "myorg/missing", nil)
	require.Error(t, err)

	require.Len(t, observer.events, 2)
	assert.Equal(t, http.MethodGet, observer.events[0].Method)
	assert.Equal(t, "myorg/groups", observer.events[0].Path)
	assert.Equal(t, http.StatusOK, observer.events[0].StatusCode)
	assert.Equal(t, string(pbihttp.KindJSON), observer.events[0].Kind)
	assert.Empty(t, observer.events[0].Error)
	assert.NotEmpty(t, observer.events[0].RequestID)

	assert.Equal(t, http.StatusNotFound, observer.events[1].StatusCode)
	assert.NotEmpty(t, observer.events[1].Error)
	assert.NotEqual(t, observer.events[0].RequestID, observer.events[1].RequestID)

	assert.Len(t, logger.messages("warn"), 2)
}
