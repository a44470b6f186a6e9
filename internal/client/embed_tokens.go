package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// EmbedTokensClient implements powerbi.EmbedTokensClient.
type EmbedTokensClient struct {
	httpClient *internalhttp.Client
}

// NewEmbedTokensClient creates a new embed tokens client.
func NewEmbedTokensClient(httpClient *internalhttp.Client) *EmbedTokensClient {
	return &EmbedTokensClient{
		httpClient: httpClient,
	}
}

// GenerateDashboardTokenInGroup implements powerbi.EmbedTokensClient.GenerateDashboardTokenInGroup.
func (c *EmbedTokensClient) GenerateDashboardTokenInGroup(ctx context.Context, groupID, dashboardID string, request *powerbi.GenerateTokenRequest) (*powerbi.EmbedToken, error) {
	err := requireIDs("group", groupID, "dashboard", dashboardID)
	if err != nil {
		return nil, err
	}

	return c.generate(ctx, join(scope(groupID), "dashboards", escape(dashboardID), "GenerateToken"), request)
}

// GenerateReportTokenInGroup implements powerbi.EmbedTokensClient.GenerateReportTokenInGroup.
func (c *EmbedTokensClient) GenerateReportTokenInGroup(ctx context.Context, groupID, reportID string, request *powerbi.GenerateTokenRequest) (*powerbi.EmbedToken, error) {
	err := requireIDs("group", groupID, "report", reportID)
	if err != nil {
		return nil, err
	}

	return c.generate(ctx, reportPath(groupID, reportID, "GenerateToken"), request)
}

// GenerateTileTokenInGroup implements powerbi.EmbedTokensClient.GenerateTileTokenInGroup.
func (c *EmbedTokensClient) GenerateTileTokenInGroup(ctx context.Context, groupID, dashboardID, tileID string, request *powerbi.GenerateTokenRequest) (*powerbi.EmbedToken, error) {
	err := requireIDs("group", groupID, "dashboard", dashboardID, "tile", tileID)
	if err != nil {
		return nil, err
	}

	path := join(scope(groupID), "dashboards", escape(dashboardID), "tiles", escape(tileID), "GenerateToken")

	return c.generate(ctx, path, request)
}

// GenerateDatasetTokenInGroup implements powerbi.EmbedTokensClient.GenerateDatasetTokenInGroup.
func (c *EmbedTokensClient) GenerateDatasetTokenInGroup(ctx context.Context, groupID, datasetID string, request *powerbi.GenerateTokenRequest) (*powerbi.EmbedToken, error) {
	err := requireIDs("group", groupID, "dataset", datasetID)
	if err != nil {
		return nil, err
	}

	return c.generate(ctx, datasetPath(groupID, datasetID, "GenerateToken"), request)
}

func (c *EmbedTokensClient) generate(ctx context.Context, path string, request *powerbi.GenerateTokenRequest) (*powerbi.EmbedToken, error) {
	if request == nil {
		return nil, absent("generate token request")
	}

	err := request.AccessLevel.Validate()
	if err != nil {
		return nil, err
	}

	return fetch[powerbi.EmbedToken](ctx, c.httpClient, bodyRequest(http.MethodPost, path, request), "generating embed token")
}

// GenerateToken implements powerbi.EmbedTokensClient.GenerateToken. The
// token covers every dataset, report and workspace listed in request.
func (c *EmbedTokensClient) GenerateToken(ctx context.Context, request *powerbi.MultiResourceTokenRequest) (*powerbi.EmbedToken, error) {
	if request == nil {
		return nil, absent("generate token request")
	}

	req := bodyRequest(http.MethodPost, join(myOrg, "GenerateToken"), request)

	return fetch[powerbi.EmbedToken](ctx, c.httpClient, req, "generating embed token")
}
