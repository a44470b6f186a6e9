package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// AzureCredential exposes the Authenticator as an azcore.TokenCredential so
// the signed in session can be handed to Azure SDK clients.
type AzureCredential struct {
	authenticator *Authenticator
}

// NewAzureCredential wraps authenticator.
func NewAzureCredential(authenticator *Authenticator) *AzureCredential {
	return &AzureCredential{authenticator: authenticator}
}

// GetToken implements azcore.TokenCredential. The requested scopes are
// ignored: tokens always carry the scopes granted at login.
func (c *AzureCredential) GetToken(ctx context.Context, _ policy.TokenRequestOptions) (azcore.AccessToken, error) {
	token, err := c.authenticator.Token(ctx)
	if err != nil {
		return azcore.AccessToken{}, fmt.Errorf("getting access token: %w", err)
	}

	remaining := c.authenticator.SecondsRemaining(TokenAccess)

	return azcore.AccessToken{
		Token:     token,
		ExpiresOn: c.authenticator.now().Add(time.Duration(remaining) * time.Second),
	}, nil
}
