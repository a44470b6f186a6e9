package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// TemplateAppsClient implements powerbi.TemplateAppsClient.
type TemplateAppsClient struct {
	httpClient *internalhttp.Client
}

// NewTemplateAppsClient creates a new template apps client.
func NewTemplateAppsClient(httpClient *internalhttp.Client) *TemplateAppsClient {
	return &TemplateAppsClient{
		httpClient: httpClient,
	}
}

// CreateInstallTicket implements powerbi.TemplateAppsClient.CreateInstallTicket.
func (c *TemplateAppsClient) CreateInstallTicket(ctx context.Context, request *powerbi.InstallTicketRequest) (*powerbi.InstallTicket, error) {
	if request == nil {
		return nil, absent("install ticket request")
	}

	err := requireIDs("app", request.AppID, "package key", request.PackageKey, "owner tenant", request.OwnerTenantID)
	if err != nil {
		return nil, err
	}

	req := bodyRequest(http.MethodPost, join(myOrg, "CreateTemplateAppInstallTicket"), request)

	return fetch[powerbi.InstallTicket](ctx, c.httpClient, req, "creating install ticket")
}
