package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
)

// UsersClient implements powerbi.UsersClient.
type UsersClient struct {
	httpClient *internalhttp.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *internalhttp.Client) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
	}
}

// RefreshUserPermissions implements powerbi.UsersClient.RefreshUserPermissions.
// The service throttles this call to once per hour per user.
func (c *UsersClient) RefreshUserPermissions(ctx context.Context) error {
	req := bodyRequest(http.MethodPost, join(myOrg, "RefreshUserPermissions"), nil)

	return perform(ctx, c.httpClient, req, "refreshing user permissions")
}
