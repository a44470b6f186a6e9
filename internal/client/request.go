package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

const myOrg = "myorg"

// ErrRequestRequired is returned when an operation is called without its
// request payload.
var ErrRequestRequired = errors.New("request is required")

// scope returns the path prefix of the signed in user's workspace, or of a
// group when groupID is set.
func scope(groupID string) string {
	if groupID == "" {
		return myOrg
	}

	return myOrg + "/groups/" + url.PathEscape(groupID)
}

// join builds a path from segments. Identifiers must be passed through escape.
func join(segments ...string) string {
	return strings.Join(segments, "/")
}

func escape(value string) string {
	return url.PathEscape(value)
}

// requireIDs checks name/value pairs and reports the first empty value.
func requireIDs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return missing(pairs[i])
		}
	}

	return nil
}

func missing(name string) error {
	return fmt.Errorf("%w: %s", powerbi.ErrIDRequired, name)
}

func absent(name string) error {
	return fmt.Errorf("%w: %s", ErrRequestRequired, name)
}

func getRequest(path string, query url.Values) *internalhttp.Request {
	return &internalhttp.Request{Method: http.MethodGet, Path: path, Query: query}
}

func bodyRequest(method, path string, body any) *internalhttp.Request {
	return &internalhttp.Request{Method: method, Path: path, Body: body}
}

// fetch executes req and decodes the JSON response into T.
func fetch[T any](ctx context.Context, httpClient *internalhttp.Client, req *internalhttp.Request, action string) (*T, error) {
	resp, err := httpClient.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	var result T

	err = resp.Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("parsing response of %s: %w", action, err)
	}

	return &result, nil
}

// perform executes req and discards the response body.
func perform(ctx context.Context, httpClient *internalhttp.Client, req *internalhttp.Request, action string) error {
	_, err := httpClient.Execute(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	return nil
}

// download executes a GET and returns the body bytes unchanged.
func download(ctx context.Context, httpClient *internalhttp.Client, path, action string) ([]byte, error) {
	resp, err := httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	return resp.Body, nil
}

// validate runs the boundary checks of typed enumerations.
func validate(validators ...powerbi.Validator) error {
	for _, v := range validators {
		err := v.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}
