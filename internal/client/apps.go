package client

import (
	"context"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// AppsClient implements powerbi.AppsClient.
type AppsClient struct {
	httpClient *internalhttp.Client
}

// NewAppsClient creates a new apps client.
func NewAppsClient(httpClient *internalhttp.Client) *AppsClient {
	return &AppsClient{
		httpClient: httpClient,
	}
}

func appPath(appID string, segments ...string) string {
	return join(append([]string{myOrg, "apps", escape(appID)}, segments...)...)
}

// List implements powerbi.AppsClient.List.
func (c *AppsClient) List(ctx context.Context) (*powerbi.ODataList[powerbi.App], error) {
	return fetch[powerbi.ODataList[powerbi.App]](ctx, c.httpClient, getRequest(join(myOrg, "apps"), nil), "listing apps")
}

// Get implements powerbi.AppsClient.Get.
func (c *AppsClient) Get(ctx context.Context, appID string) (*powerbi.App, error) {
	err := requireIDs("app", appID)
	if err != nil {
		return nil, err
	}

	return fetch[powerbi.App](ctx, c.httpClient, getRequest(appPath(appID), nil), "getting app")
}

// ListDashboards implements powerbi.AppsClient.ListDashboards.
func (c *AppsClient) ListDashboards(ctx context.Context, appID string) (*powerbi.ODataList[powerbi.Dashboard], error) {
	err := requireIDs("app", appID)
	if err != nil {
		return nil, err
	}

	req := getRequest(appPath(appID, "dashboards"), nil)

	return fetch[powerbi.ODataList[powerbi.Dashboard]](ctx, c.httpClient, req, "listing app dashboards")
}

// GetDashboard implements powerbi.AppsClient.GetDashboard.
func (c *AppsClient) GetDashboard(ctx context.Context, appID, dashboardID string) (*powerbi.Dashboard, error) {
	err := requireIDs("app", appID, "dashboard", dashboardID)
	if err != nil {
		return nil, err
	}

	req := getRequest(appPath(appID, "dashboards", escape(dashboardID)), nil)

	return fetch[powerbi.Dashboard](ctx, c.httpClient, req, "getting app dashboard")
}

// ListReports implements powerbi.AppsClient.ListReports.
func (c *AppsClient) ListReports(ctx context.Context, appID string) (*powerbi.ODataList[powerbi.Report], error) {
	err := requireIDs("app", appID)
	if err != nil {
		return nil, err
	}

	req := getRequest(appPath(appID, "reports"), nil)

	return fetch[powerbi.ODataList[powerbi.Report]](ctx, c.httpClient, req, "listing app reports")
}

// GetReport implements powerbi.AppsClient.GetReport.
func (c *AppsClient) GetReport(ctx context.Context, appID, reportID string) (*powerbi.Report, error) {
	err := requireIDs("app", appID, "report", reportID)
	if err != nil {
		return nil, err
	}

	req := getRequest(appPath(appID, "reports", escape(reportID)), nil)

	return fetch[powerbi.Report](ctx, c.httpClient, req, "getting app report")
}

// ListTiles implements powerbi.AppsClient.ListTiles.
func (c *AppsClient) ListTiles(ctx context.Context, appID, dashboardID string) (*powerbi.ODataList[powerbi.Tile], error) {
	err := requireIDs("app", appID, "dashboard", dashboardID)
	if err != nil {
		return nil, err
	}

	req := getRequest(appPath(appID, "dashboards", escape(dashboardID), "tiles"), nil)

	return fetch[powerbi.ODataList[powerbi.Tile]](ctx, c.httpClient, req, "listing app tiles")
}

// GetTile implements powerbi.AppsClient.GetTile.
func (c *AppsClient) GetTile(ctx context.Context, appID, dashboardID, tileID string) (*powerbi.Tile, error) {
	err := requireIDs("app", appID, "dashboard", dashboardID, "tile", tileID)
	if err != nil {
		return nil, err
	}

	req := getRequest(appPath(appID, "dashboards", escape(dashboardID), "tiles", escape(tileID)), nil)

	return fetch[powerbi.Tile](ctx, c.httpClient, req, "getting app tile")
}
