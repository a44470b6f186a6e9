package client

import (
	"context"
	"net/http"
	"net/url"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// GatewaysClient implements powerbi.GatewaysClient.
type GatewaysClient struct {
	httpClient *internalhttp.Client
}

// NewGatewaysClient creates a new gateways client.
func NewGatewaysClient(httpClient *internalhttp.Client) *GatewaysClient {
	return &GatewaysClient{
		httpClient: httpClient,
	}
}

func gatewayPath(gatewayID string, segments ...string) string {
	return join(append([]string{myOrg, "gateways", escape(gatewayID)}, segments...)...)
}

func gatewayDatasourcePath(gatewayID, datasourceID string, segments ...string) string {
	return gatewayPath(gatewayID, append([]string{"datasources", escape(datasourceID)}, segments...)...)
}

// List implements powerbi.GatewaysClient.List.
func (c *GatewaysClient) List(ctx context.Context) (*powerbi.ODataList[powerbi.Gateway], error) {
	req := getRequest(join(myOrg, "gateways"), nil)

	return fetch[powerbi.ODataList[powerbi.Gateway]](ctx, c.httpClient, req, "listing gateways")
}

// Get implements powerbi.GatewaysClient.Get.
func (c *GatewaysClient) Get(ctx context.Context, gatewayID string) (*powerbi.Gateway, error) {
	err := requireIDs("gateway", gatewayID)
	if err != nil {
		return nil, err
	}

	return fetch[powerbi.Gateway](ctx, c.httpClient, getRequest(gatewayPath(gatewayID), nil), "getting gateway")
}

// ListDatasources implements powerbi.GatewaysClient.ListDatasources.
func (c *GatewaysClient) ListDatasources(ctx context.Context, gatewayID string) (*powerbi.ODataList[powerbi.GatewayDatasource], error) {
	err := requireIDs("gateway", gatewayID)
	if err != nil {
		return nil, err
	}

	req := getRequest(gatewayPath(gatewayID, "datasources"), nil)

	return fetch[powerbi.ODataList[powerbi.GatewayDatasource]](ctx, c.httpClient, req, "listing gateway datasources")
}

// GetDatasource implements powerbi.GatewaysClient.GetDatasource.
func (c *GatewaysClient) GetDatasource(ctx context.Context, gatewayID, datasourceID string) (*powerbi.GatewayDatasource, error) {
	err := requireIDs("gateway", gatewayID, "datasource", datasourceID)
	if err != nil {
		return nil, err
	}

	req := getRequest(gatewayDatasourcePath(gatewayID, datasourceID), nil)

	return fetch[powerbi.GatewayDatasource](ctx, c.httpClient, req, "getting gateway datasource")
}

// GetDatasourceStatus implements powerbi.GatewaysClient.GetDatasourceStatus.
// A nil error means the gateway reached the datasource.
func (c *GatewaysClient) GetDatasourceStatus(ctx context.Context, gatewayID, datasourceID string) error {
	err := requireIDs("gateway", gatewayID, "datasource", datasourceID)
	if err != nil {
		return err
	}

	req := getRequest(gatewayDatasourcePath(gatewayID, datasourceID, "status"), nil)

	return perform(ctx, c.httpClient, req, "checking gateway datasource status")
}

// CreateDatasource implements powerbi.GatewaysClient.CreateDatasource.
func (c *GatewaysClient) CreateDatasource(ctx context.Context, gatewayID string, request *powerbi.CreateDatasourceRequest) (*powerbi.GatewayDatasource, error) {
	err := requireIDs("gateway", gatewayID)
	if err != nil {
		return nil, err
	}

	if request == nil {
		return nil, absent("create datasource request")
	}

	err = request.CredentialDetails.Validate()
	if err != nil {
		return nil, err
	}

	req := bodyRequest(http.MethodPost, gatewayPath(gatewayID, "datasources"), request)

	return fetch[powerbi.GatewayDatasource](ctx, c.httpClient, req, "creating gateway datasource")
}

// UpdateDatasource implements powerbi.GatewaysClient.UpdateDatasource.
func (c *GatewaysClient) UpdateDatasource(ctx context.Context, gatewayID, datasourceID string, request *powerbi.UpdateDatasourceRequest) error {
	err := requireIDs("gateway", gatewayID, "datasource", datasourceID)
	if err != nil {
		return err
	}

	if request == nil {
		return absent("update datasource request")
	}

	err = request.CredentialDetails.Validate()
	if err != nil {
		return err
	}

	req := bodyRequest(http.MethodPatch, gatewayDatasourcePath(gatewayID, datasourceID), request)

	return perform(ctx, c.httpClient, req, "updating gateway datasource")
}

// DeleteDatasource implements powerbi.GatewaysClient.DeleteDatasource.
func (c *GatewaysClient) DeleteDatasource(ctx context.Context, gatewayID, datasourceID string) error {
	err := requireIDs("gateway", gatewayID, "datasource", datasourceID)
	if err != nil {
		return err
	}

	req := bodyRequest(http.MethodDelete, gatewayDatasourcePath(gatewayID, datasourceID), nil)

	return perform(ctx, c.httpClient, req, "deleting gateway datasource")
}

// ListDatasourceUsers implements powerbi.GatewaysClient.ListDatasourceUsers.
func (c *GatewaysClient) ListDatasourceUsers(ctx context.Context, gatewayID, datasourceID string) (*powerbi.ODataList[powerbi.DatasourceUser], error) {
	err := requireIDs("gateway", gatewayID, "datasource", datasourceID)
	if err != nil {
		return nil, err
	}

	req := getRequest(gatewayDatasourcePath(gatewayID, datasourceID, "users"), nil)

	return fetch[powerbi.ODataList[powerbi.DatasourceUser]](ctx, c.httpClient, req, "listing datasource users")
}

// AddDatasourceUser implements powerbi.GatewaysClient.AddDatasourceUser.
func (c *GatewaysClient) AddDatasourceUser(ctx context.Context, gatewayID, datasourceID string, user *powerbi.DatasourceUser) error {
	err := requireIDs("gateway", gatewayID, "datasource", datasourceID)
	if err != nil {
		return err
	}

	if user == nil {
		return absent("datasource user")
	}

	err = user.DatasourceAccessRight.Validate()
	if err != nil {
		return err
	}

	err = powerbi.ValidateOptional(user.PrincipalType)
	if err != nil {
		return err
	}

	req := bodyRequest(http.MethodPost, gatewayDatasourcePath(gatewayID, datasourceID, "users"), user)

	return perform(ctx, c.httpClient, req, "adding datasource user")
}

// DeleteDatasourceUser implements powerbi.GatewaysClient.DeleteDatasourceUser.
// profileID selects a service principal profile and may be empty.
func (c *GatewaysClient) DeleteDatasourceUser(ctx context.Context, gatewayID, datasourceID, user, profileID string) error {
	err := requireIDs("gateway", gatewayID, "datasource", datasourceID, "user", user)
	if err != nil {
		return err
	}

	req := bodyRequest(http.MethodDelete, gatewayDatasourcePath(gatewayID, datasourceID, "users", escape(user)), nil)
	if profileID != "" {
		req.Query = url.Values{"profileId": []string{profileID}}
	}

	return perform(ctx, c.httpClient, req, "deleting datasource user")
}
