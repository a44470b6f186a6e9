package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/powerbi/internal/constants"
	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// Static errors for err113 compliance.
var (
	ErrTokenSourceRequired = errors.New("token source is required")
)

var _ powerbi.Client = (*Client)(nil)

// Client implements the powerbi.Client interface.
type Client struct {
	httpClient  *internalhttp.Client
	tokenSource internalhttp.TokenSource

	// Resource clients
	dashboards              powerbi.DashboardsClient
	reports                 powerbi.ReportsClient
	apps                    powerbi.AppsClient
	templateApps            powerbi.TemplateAppsClient
	embedTokens             powerbi.EmbedTokensClient
	datasets                powerbi.DatasetsClient
	pushDatasets            powerbi.PushDatasetsClient
	dataflows               powerbi.DataflowsClient
	dataflowStorageAccounts powerbi.DataflowStorageAccountsClient
	gateways                powerbi.GatewaysClient
	imports                 powerbi.ImportsClient
	groups                  powerbi.GroupsClient
	capacities              powerbi.CapacitiesClient
	pipelines               powerbi.PipelinesClient
	availableFeatures       powerbi.AvailableFeaturesClient
	users                   powerbi.UsersClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *powerbi.Config) []internalhttp.Option {
	var httpOpts []internalhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = constants.DefaultUserAgent
	}

	httpOpts = append(httpOpts, internalhttp.WithUserAgent(userAgent))

	if config.APIVersion != "" {
		httpOpts = append(httpOpts, internalhttp.WithAPIVersion(config.APIVersion))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, internalhttp.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, internalhttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.RequestsPerSecond > 0 {
		httpOpts = append(httpOpts, internalhttp.WithRateLimit(config.RequestsPerSecond))
	}

	if config.EventPublisher != nil {
		httpOpts = append(httpOpts, internalhttp.WithObserver(config.EventPublisher))
	}

	return httpOpts
}

// New creates a Power BI client that authenticates every request with tokens
// from tokenSource.
func New(config *powerbi.Config, tokenSource internalhttp.TokenSource) (*Client, error) {
	if config == nil {
		return nil, powerbi.ErrConfigRequired
	}

	if tokenSource == nil {
		return nil, ErrTokenSourceRequired
	}

	baseURL := config.APIEndpoint
	if baseURL == "" {
		baseURL = constants.DefaultAPIEndpoint
	}

	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := internalhttp.NewClient(baseURL, tokenSource, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient:  httpClient,
		tokenSource: tokenSource,
	}

	client.initializeResourceClients()

	return client, nil
}

// HTTPClient returns the request dispatcher shared by the resource clients.
func (c *Client) HTTPClient() *internalhttp.Client {
	return c.httpClient
}

// Token implements powerbi.Client.Token.
func (c *Client) Token(ctx context.Context) (string, error) {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// Resource client accessors

// Dashboards implements powerbi.Client.Dashboards.
func (c *Client) Dashboards() powerbi.DashboardsClient {
	return c.dashboards
}

// Reports implements powerbi.Client.Reports.
func (c *Client) Reports() powerbi.ReportsClient {
	return c.reports
}

// Apps implements powerbi.Client.Apps.
func (c *Client) Apps() powerbi.AppsClient {
	return c.apps
}

// TemplateApps implements powerbi.Client.TemplateApps.
func (c *Client) TemplateApps() powerbi.TemplateAppsClient {
	return c.templateApps
}

// EmbedTokens implements powerbi.Client.EmbedTokens.
func (c *Client) EmbedTokens() powerbi.EmbedTokensClient {
	return c.embedTokens
}

// Datasets implements powerbi.Client.Datasets.
func (c *Client) Datasets() powerbi.DatasetsClient {
	return c.datasets
}

// PushDatasets implements powerbi.Client.PushDatasets.
func (c *Client) PushDatasets() powerbi.PushDatasetsClient {
	return c.pushDatasets
}

// Dataflows implements powerbi.Client.Dataflows.
func (c *Client) Dataflows() powerbi.DataflowsClient {
	return c.dataflows
}

// DataflowStorageAccounts implements powerbi.Client.DataflowStorageAccounts.
func (c *Client) DataflowStorageAccounts() powerbi.DataflowStorageAccountsClient {
	return c.dataflowStorageAccounts
}

// Gateways implements powerbi.Client.Gateways.
func (c *Client) Gateways() powerbi.GatewaysClient {
	return c.gateways
}

// Imports implements powerbi.Client.Imports.
func (c *Client) Imports() powerbi.ImportsClient {
	return c.imports
}

// Groups implements powerbi.Client.Groups.
func (c *Client) Groups() powerbi.GroupsClient {
	return c.groups
}

// Capacities implements powerbi.Client.Capacities.
func (c *Client) Capacities() powerbi.CapacitiesClient {
	return c.capacities
}

// Pipelines implements powerbi.Client.Pipelines.
func (c *Client) Pipelines() powerbi.PipelinesClient {
	return c.pipelines
}

// AvailableFeatures implements powerbi.Client.AvailableFeatures.
func (c *Client) AvailableFeatures() powerbi.AvailableFeaturesClient {
	return c.availableFeatures
}

// Users implements powerbi.Client.Users.
func (c *Client) Users() powerbi.UsersClient {
	return c.users
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.dashboards = NewDashboardsClient(c.httpClient)
	c.reports = NewReportsClient(c.httpClient)
	c.apps = NewAppsClient(c.httpClient)
	c.templateApps = NewTemplateAppsClient(c.httpClient)
	c.embedTokens = NewEmbedTokensClient(c.httpClient)
	c.datasets = NewDatasetsClient(c.httpClient)
	c.pushDatasets = NewPushDatasetsClient(c.httpClient)
	c.dataflows = NewDataflowsClient(c.httpClient)
	c.dataflowStorageAccounts = NewDataflowStorageAccountsClient(c.httpClient)
	c.gateways = NewGatewaysClient(c.httpClient)
	c.imports = NewImportsClient(c.httpClient)
	c.groups = NewGroupsClient(c.httpClient)
	c.capacities = NewCapacitiesClient(c.httpClient)
	c.pipelines = NewPipelinesClient(c.httpClient)
	c.availableFeatures = NewAvailableFeaturesClient(c.httpClient)
	c.users = NewUsersClient(c.httpClient)
}

// StaticTokenSource serves a fixed access token. It never refreshes.
type StaticTokenSource string

// Token implements internalhttp.TokenSource.
func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}
