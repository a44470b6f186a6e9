package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// DashboardsClient implements powerbi.DashboardsClient.
type DashboardsClient struct {
	httpClient *internalhttp.Client
}

// NewDashboardsClient creates a new dashboards client.
func NewDashboardsClient(httpClient *internalhttp.Client) *DashboardsClient {
	return &DashboardsClient{
		httpClient: httpClient,
	}
}

// Add implements powerbi.DashboardsClient.Add.
func (c *DashboardsClient) Add(ctx context.Context, name string) (*powerbi.Dashboard, error) {
	return c.add(ctx, "", name)
}

// AddInGroup implements powerbi.DashboardsClient.AddInGroup.
func (c *DashboardsClient) AddInGroup(ctx context.Context, groupID, name string) (*powerbi.Dashboard, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.add(ctx, groupID, name)
}

func (c *DashboardsClient) add(ctx context.Context, groupID, name string) (*powerbi.Dashboard, error) {
	err := requireIDs("dashboard name", name)
	if err != nil {
		return nil, err
	}

	req := bodyRequest(http.MethodPost, join(scope(groupID), "dashboards"), &powerbi.AddDashboardRequest{Name: name})

	return fetch[powerbi.Dashboard](ctx, c.httpClient, req, "adding dashboard")
}

// List implements powerbi.DashboardsClient.List.
func (c *DashboardsClient) List(ctx context.Context) (*powerbi.ODataList[powerbi.Dashboard], error) {
	return c.list(ctx, "")
}

// ListInGroup implements powerbi.DashboardsClient.ListInGroup.
func (c *DashboardsClient) ListInGroup(ctx context.Context, groupID string) (*powerbi.ODataList[powerbi.Dashboard], error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.list(ctx, groupID)
}

func (c *DashboardsClient) list(ctx context.Context, groupID string) (*powerbi.ODataList[powerbi.Dashboard], error) {
	req := getRequest(join(scope(groupID), "dashboards"), nil)

	return fetch[powerbi.ODataList[powerbi.Dashboard]](ctx, c.httpClient, req, "listing dashboards")
}

// Get implements powerbi.DashboardsClient.Get.
func (c *DashboardsClient) Get(ctx context.Context, dashboardID string) (*powerbi.Dashboard, error) {
	return c.get(ctx, "", dashboardID)
}

// GetInGroup implements powerbi.DashboardsClient.GetInGroup.
func (c *DashboardsClient) GetInGroup(ctx context.Context, groupID, dashboardID string) (*powerbi.Dashboard, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.get(ctx, groupID, dashboardID)
}

func (c *DashboardsClient) get(ctx context.Context, groupID, dashboardID string) (*powerbi.Dashboard, error) {
	err := requireIDs("dashboard", dashboardID)
	if err != nil {
		return nil, err
	}

	req := getRequest(join(scope(groupID), "dashboards", escape(dashboardID)), nil)

	return fetch[powerbi.Dashboard](ctx, c.httpClient, req, "getting dashboard")
}

// ListTiles implements powerbi.DashboardsClient.ListTiles.
func (c *DashboardsClient) ListTiles(ctx context.Context, dashboardID string) (*powerbi.ODataList[powerbi.Tile], error) {
	return c.listTiles(ctx, "", dashboardID)
}

// ListTilesInGroup implements powerbi.DashboardsClient.ListTilesInGroup.
func (c *DashboardsClient) ListTilesInGroup(ctx context.Context, groupID, dashboardID string) (*powerbi.ODataList[powerbi.Tile], error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.listTiles(ctx, groupID, dashboardID)
}

func (c *DashboardsClient) listTiles(ctx context.Context, groupID, dashboardID string) (*powerbi.ODataList[powerbi.Tile], error) {
	err := requireIDs("dashboard", dashboardID)
	if err != nil {
		return nil, err
	}

	req := getRequest(join(scope(groupID), "dashboards", escape(dashboardID), "tiles"), nil)

	return fetch[powerbi.ODataList[powerbi.Tile]](ctx, c.httpClient, req, "listing tiles")
}

// GetTile implements powerbi.DashboardsClient.GetTile.
func (c *DashboardsClient) GetTile(ctx context.Context, dashboardID, tileID string) (*powerbi.Tile, error) {
	return c.getTile(ctx, "", dashboardID, tileID)
}

// GetTileInGroup implements powerbi.DashboardsClient.GetTileInGroup.
func (c *DashboardsClient) GetTileInGroup(ctx context.Context, groupID, dashboardID, tileID string) (*powerbi.Tile, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.getTile(ctx, groupID, dashboardID, tileID)
}

func (c *DashboardsClient) getTile(ctx context.Context, groupID, dashboardID, tileID string) (*powerbi.Tile, error) {
	err := requireIDs("dashboard", dashboardID, "tile", tileID)
	if err != nil {
		return nil, err
	}

	req := getRequest(join(scope(groupID), "dashboards", escape(dashboardID), "tiles", escape(tileID)), nil)

	return fetch[powerbi.Tile](ctx, c.httpClient, req, "getting tile")
}

// CloneTile implements powerbi.DashboardsClient.CloneTile.
func (c *DashboardsClient) CloneTile(ctx context.Context, dashboardID, tileID string, request *powerbi.CloneTileRequest) (*powerbi.Tile, error) {
	return c.cloneTile(ctx, "", dashboardID, tileID, request)
}

// CloneTileInGroup implements powerbi.DashboardsClient.CloneTileInGroup.
func (c *DashboardsClient) CloneTileInGroup(ctx context.Context, groupID, dashboardID, tileID string, request *powerbi.CloneTileRequest) (*powerbi.Tile, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.cloneTile(ctx, groupID, dashboardID, tileID, request)
}

func (c *DashboardsClient) cloneTile(ctx context.Context, groupID, dashboardID, tileID string, request *powerbi.CloneTileRequest) (*powerbi.Tile, error) {
	err := requireIDs("dashboard", dashboardID, "tile", tileID)
	if err != nil {
		return nil, err
	}

	if request == nil {
		return nil, absent("clone request")
	}

	if request.TargetDashboardID == "" {
		return nil, missing("target dashboard")
	}

	path := join(scope(groupID), "dashboards", escape(dashboardID), "tiles", escape(tileID), "Clone")

	return fetch[powerbi.Tile](ctx, c.httpClient, bodyRequest(http.MethodPost, path, request), "cloning tile")
}
