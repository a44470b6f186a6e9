package powerbi

import (
	"context"
	"io"
	"time"

	"github.com/fivetwenty-io/powerbi/pkg/dataset"
)

// Client is the interface for the Power BI REST API client.
type Client interface {
	ContentClients
	DataClients
	AdministrationClients

	// Token returns a valid access token, refreshing it when needed.
	Token(ctx context.Context) (string, error)
}

// ContentClients groups the clients for content items.
type ContentClients interface {
	Dashboards() DashboardsClient
	Reports() ReportsClient
	Apps() AppsClient
	TemplateApps() TemplateAppsClient
	EmbedTokens() EmbedTokensClient
}

// DataClients groups the clients for data items.
type DataClients interface {
	Datasets() DatasetsClient
	PushDatasets() PushDatasetsClient
	Dataflows() DataflowsClient
	DataflowStorageAccounts() DataflowStorageAccountsClient
	Gateways() GatewaysClient
	Imports() ImportsClient
}

// AdministrationClients groups workspace, capacity and tenant level clients.
type AdministrationClients interface {
	Groups() GroupsClient
	Capacities() CapacitiesClient
	Pipelines() PipelinesClient
	AvailableFeatures() AvailableFeaturesClient
	Users() UsersClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Prompter completes the interactive part of the authorization code flow: it
// shows the authorization URL to the user and returns the URL the browser was
// redirected to.
type Prompter interface {
	Prompt(ctx context.Context, authURL string) (string, error)
}

// Config represents client configuration for building a powerbi.Client.
//
// # Authentication
//
// pbiclient.New loads the credential file at CredentialsPath. When the stored
// access token is still valid it is used as is; when only the refresh token is
// valid a silent refresh is performed; otherwise the interactive authorization
// code flow runs through Prompter. Every token obtained is written back to
// CredentialsPath before it is used.
//
// # Timeouts and retries
//
// Per-request timeouts should generally be controlled via context passed to
// client methods. Requests are never retried unless RetryMax is set.
type Config struct {
	// Required fields
	// ClientID: application (client) ID of the app registration.
	ClientID string
	// ClientSecret: client secret of the app registration.
	ClientSecret string
	// RedirectURI: redirect URI registered on the app.
	RedirectURI string
	// CredentialsPath: JSON file holding the token bundle. Its parent directory
	// is created on initialization.
	CredentialsPath string

	// Optional fields
	// Scopes: delegated scopes, e.g. "https://analysis.windows.net/powerbi/api/.default".
	Scopes []string
	// AccountType: tenant segment of the authority ("common", "organizations" or a tenant ID).
	AccountType string
	// AuthorityURL: identity provider host, defaults to https://login.microsoftonline.com/.
	AuthorityURL string
	// APIEndpoint: API host, defaults to https://api.powerbi.com/.
	APIEndpoint string
	// APIVersion: version path segment, defaults to v1.0.
	APIVersion string
	// HTTPTimeout: per-attempt timeout of the underlying HTTP client.
	HTTPTimeout time.Duration
	// RetryMax: number of retries on transient failures. Zero disables retries.
	RetryMax int
	// RetryWaitMin/RetryWaitMax: backoff bounds when RetryMax > 0.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RequestsPerSecond: client-side throttle. Zero disables it.
	RequestsPerSecond float64
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP and auth layers.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
	// Prompter: used for interactive login. Without one, login fails when no
	// usable credentials are stored.
	Prompter Prompter
	// EventPublisher: optional sink that receives one event per API call.
	EventPublisher EventPublisher
}

// DashboardsClient defines operations for dashboards and tiles.
type DashboardsClient interface {
	Add(ctx context.Context, name string) (*Dashboard, error)
	AddInGroup(ctx context.Context, groupID, name string) (*Dashboard, error)
	List(ctx context.Context) (*ODataList[Dashboard], error)
	ListInGroup(ctx context.Context, groupID string) (*ODataList[Dashboard], error)
	Get(ctx context.Context, dashboardID string) (*Dashboard, error)
	GetInGroup(ctx context.Context, groupID, dashboardID string) (*Dashboard, error)
	ListTiles(ctx context.Context, dashboardID string) (*ODataList[Tile], error)
	ListTilesInGroup(ctx context.Context, groupID, dashboardID string) (*ODataList[Tile], error)
	GetTile(ctx context.Context, dashboardID, tileID string) (*Tile, error)
	GetTileInGroup(ctx context.Context, groupID, dashboardID, tileID string) (*Tile, error)
	CloneTile(ctx context.Context, dashboardID, tileID string, request *CloneTileRequest) (*Tile, error)
	CloneTileInGroup(ctx context.Context, groupID, dashboardID, tileID string, request *CloneTileRequest) (*Tile, error)
}

// GroupsClient defines operations for workspaces.
type GroupsClient interface {
	List(ctx context.Context, params *QueryParams) (*ODataList[Group], error)
	Create(ctx context.Context, name string, workspaceV2 bool) (*Group, error)
	Delete(ctx context.Context, groupID string) error
	ListUsers(ctx context.Context, groupID string) (*ODataList[GroupUser], error)
	AddUser(ctx context.Context, groupID string, user *GroupUser) error
	UpdateUser(ctx context.Context, groupID string, user *GroupUser) error
	DeleteUser(ctx context.Context, groupID, user string) error
}

// ReportsClient defines operations for reports.
type ReportsClient interface {
	List(ctx context.Context) (*ODataList[Report], error)
	ListInGroup(ctx context.Context, groupID string) (*ODataList[Report], error)
	Get(ctx context.Context, reportID string) (*Report, error)
	GetInGroup(ctx context.Context, groupID, reportID string) (*Report, error)
	ListPages(ctx context.Context, reportID string) (*ODataList[Page], error)
	ListPagesInGroup(ctx context.Context, groupID, reportID string) (*ODataList[Page], error)
	GetPage(ctx context.Context, reportID, pageName string) (*Page, error)
	GetPageInGroup(ctx context.Context, groupID, reportID, pageName string) (*Page, error)
	Clone(ctx context.Context, reportID string, request *CloneReportRequest) (*Report, error)
	CloneInGroup(ctx context.Context, groupID, reportID string, request *CloneReportRequest) (*Report, error)
	Delete(ctx context.Context, reportID string) error
	DeleteInGroup(ctx context.Context, groupID, reportID string) error
	Export(ctx context.Context, reportID string) ([]byte, error)
	ExportInGroup(ctx context.Context, groupID, reportID string) ([]byte, error)
	ListDatasources(ctx context.Context, reportID string) (*ODataList[Datasource], error)
	ExportToFile(ctx context.Context, reportID string, request *ExportReportRequest) (*Export, error)
	ExportToFileInGroup(ctx context.Context, groupID, reportID string, request *ExportReportRequest) (*Export, error)
	GetExportToFileStatus(ctx context.Context, reportID, exportID string) (*Export, error)
	GetExportToFileStatusInGroup(ctx context.Context, groupID, reportID, exportID string) (*Export, error)
	GetExportToFileResult(ctx context.Context, reportID, exportID string) ([]byte, error)
	GetExportToFileResultInGroup(ctx context.Context, groupID, reportID, exportID string) ([]byte, error)
}

// DatasetsClient defines operations for datasets.
type DatasetsClient interface {
	List(ctx context.Context) (*ODataList[Dataset], error)
	ListInGroup(ctx context.Context, groupID string) (*ODataList[Dataset], error)
	Get(ctx context.Context, datasetID string) (*Dataset, error)
	GetInGroup(ctx context.Context, groupID, datasetID string) (*Dataset, error)
	Delete(ctx context.Context, datasetID string) error
	DeleteInGroup(ctx context.Context, groupID, datasetID string) error
	Refresh(ctx context.Context, datasetID string, notify NotifyOption) error
	RefreshInGroup(ctx context.Context, groupID, datasetID string, notify NotifyOption) error
	ListRefreshHistory(ctx context.Context, datasetID string, top int) (*ODataList[Refresh], error)
	ListRefreshHistoryInGroup(ctx context.Context, groupID, datasetID string, top int) (*ODataList[Refresh], error)
	CancelRefresh(ctx context.Context, datasetID, refreshID string) error
	CancelRefreshInGroup(ctx context.Context, groupID, datasetID, refreshID string) error
	GetRefreshSchedule(ctx context.Context, datasetID string) (*RefreshSchedule, error)
	GetRefreshScheduleInGroup(ctx context.Context, groupID, datasetID string) (*RefreshSchedule, error)
	UpdateRefreshSchedule(ctx context.Context, datasetID string, schedule *RefreshSchedule) error
	UpdateRefreshScheduleInGroup(ctx context.Context, groupID, datasetID string, schedule *RefreshSchedule) error
	BindToGateway(ctx context.Context, datasetID string, request *BindToGatewayRequest) error
	BindToGatewayInGroup(ctx context.Context, groupID, datasetID string, request *BindToGatewayRequest) error
	ListDatasources(ctx context.Context, datasetID string) (*ODataList[Datasource], error)
	ListDatasourcesInGroup(ctx context.Context, groupID, datasetID string) (*ODataList[Datasource], error)
	TakeOverInGroup(ctx context.Context, groupID, datasetID string) error
}

// PushDatasetsClient defines operations for push datasets.
type PushDatasetsClient interface {
	ListTables(ctx context.Context, datasetID string) (*ODataList[dataset.Table], error)
	ListTablesInGroup(ctx context.Context, groupID, datasetID string) (*ODataList[dataset.Table], error)
	PostDataset(ctx context.Context, definition *dataset.Dataset, policy DatasetRetentionPolicy) (*Dataset, error)
	PostDatasetInGroup(ctx context.Context, groupID string, definition *dataset.Dataset, policy DatasetRetentionPolicy) (*Dataset, error)
	PostRows(ctx context.Context, datasetID, tableName string, rows []map[string]any) error
	PostRowsInGroup(ctx context.Context, groupID, datasetID, tableName string, rows []map[string]any) error
	DeleteRows(ctx context.Context, datasetID, tableName string) error
	DeleteRowsInGroup(ctx context.Context, groupID, datasetID, tableName string) error
	PutTable(ctx context.Context, datasetID string, table *dataset.Table) (*dataset.Table, error)
	PutTableInGroup(ctx context.Context, groupID, datasetID string, table *dataset.Table) (*dataset.Table, error)
}

// GatewaysClient defines operations for gateways and their datasources.
type GatewaysClient interface {
	List(ctx context.Context) (*ODataList[Gateway], error)
	Get(ctx context.Context, gatewayID string) (*Gateway, error)
	ListDatasources(ctx context.Context, gatewayID string) (*ODataList[GatewayDatasource], error)
	GetDatasource(ctx context.Context, gatewayID, datasourceID string) (*GatewayDatasource, error)
	GetDatasourceStatus(ctx context.Context, gatewayID, datasourceID string) error
	CreateDatasource(ctx context.Context, gatewayID string, request *CreateDatasourceRequest) (*GatewayDatasource, error)
	UpdateDatasource(ctx context.Context, gatewayID, datasourceID string, request *UpdateDatasourceRequest) error
	DeleteDatasource(ctx context.Context, gatewayID, datasourceID string) error
	ListDatasourceUsers(ctx context.Context, gatewayID, datasourceID string) (*ODataList[DatasourceUser], error)
	AddDatasourceUser(ctx context.Context, gatewayID, datasourceID string, user *DatasourceUser) error
	DeleteDatasourceUser(ctx context.Context, gatewayID, datasourceID, user, profileID string) error
}

// DataflowsClient defines operations for dataflows. All dataflows live in a workspace.
type DataflowsClient interface {
	List(ctx context.Context, groupID string) (*ODataList[Dataflow], error)
	Get(ctx context.Context, groupID, dataflowID string) (map[string]any, error)
	ListTransactions(ctx context.Context, groupID, dataflowID string) (*ODataList[DataflowTransaction], error)
	ListDatasources(ctx context.Context, groupID, dataflowID string) (*ODataList[Datasource], error)
	ListUpstreamDataflows(ctx context.Context, groupID, dataflowID string) (*ODataList[DependentDataflow], error)
	Delete(ctx context.Context, groupID, dataflowID string) error
	UpdateRefreshSchedule(ctx context.Context, groupID, dataflowID string, schedule *RefreshSchedule) error
	Refresh(ctx context.Context, groupID, dataflowID string, notify NotifyOption, processType string) error
	CancelTransaction(ctx context.Context, groupID, transactionID string) (*DataflowTransactionStatus, error)
	Update(ctx context.Context, groupID, dataflowID string, request *DataflowUpdateRequest) error
}

// PipelinesClient defines operations for deployment pipelines.
type PipelinesClient interface {
	List(ctx context.Context) (*ODataList[Pipeline], error)
	Get(ctx context.Context, pipelineID string, expandStages bool) (*Pipeline, error)
	ListOperations(ctx context.Context, pipelineID string) (*ODataList[PipelineOperation], error)
	GetOperation(ctx context.Context, pipelineID, operationID string) (*PipelineOperation, error)
	ListStageArtifacts(ctx context.Context, pipelineID string, stageOrder int) (*PipelineStageArtifacts, error)
}

// ImportsClient defines operations for imports.
type ImportsClient interface {
	CreateTemporaryUploadLocation(ctx context.Context) (*TemporaryUploadLocation, error)
	CreateTemporaryUploadLocationInGroup(ctx context.Context, groupID string) (*TemporaryUploadLocation, error)
	List(ctx context.Context) (*ODataList[Import], error)
	ListInGroup(ctx context.Context, groupID string) (*ODataList[Import], error)
	Get(ctx context.Context, importID string) (*Import, error)
	GetInGroup(ctx context.Context, groupID, importID string) (*Import, error)
	Post(ctx context.Context, fileName string, file io.Reader, options *ImportOptions) (*Import, error)
	PostInGroup(ctx context.Context, groupID, fileName string, file io.Reader, options *ImportOptions) (*Import, error)
}

// AppsClient defines operations for installed apps.
type AppsClient interface {
	List(ctx context.Context) (*ODataList[App], error)
	Get(ctx context.Context, appID string) (*App, error)
	ListDashboards(ctx context.Context, appID string) (*ODataList[Dashboard], error)
	GetDashboard(ctx context.Context, appID, dashboardID string) (*Dashboard, error)
	ListReports(ctx context.Context, appID string) (*ODataList[Report], error)
	GetReport(ctx context.Context, appID, reportID string) (*Report, error)
	ListTiles(ctx context.Context, appID, dashboardID string) (*ODataList[Tile], error)
	GetTile(ctx context.Context, appID, dashboardID, tileID string) (*Tile, error)
}

// CapacitiesClient defines operations for capacities.
type CapacitiesClient interface {
	List(ctx context.Context) (*ODataList[Capacity], error)
	ListWorkloads(ctx context.Context, capacityID string) (*ODataList[Workload], error)
	GetWorkload(ctx context.Context, capacityID, workloadName string) (*Workload, error)
	PatchWorkload(ctx context.Context, capacityID, workloadName string, request *PatchWorkloadRequest) error
	ListRefreshables(ctx context.Context, params *QueryParams) (*ODataList[Refreshable], error)
	ListRefreshablesForCapacity(ctx context.Context, capacityID string, params *QueryParams) (*ODataList[Refreshable], error)
	GetRefreshableForCapacity(ctx context.Context, capacityID, refreshableID string, expand ...string) (*ODataList[Refreshable], error)
	AssignMyWorkspaceToCapacity(ctx context.Context, capacityID string) error
	AssignToCapacity(ctx context.Context, groupID, capacityID string) error
	GetMyWorkspaceAssignmentStatus(ctx context.Context) (*CapacityAssignmentStatus, error)
	GetAssignmentStatus(ctx context.Context, groupID string) (*CapacityAssignmentStatus, error)
}

// AvailableFeaturesClient defines operations for available features.
type AvailableFeaturesClient interface {
	List(ctx context.Context) (*ODataList[AvailableFeature], error)
	Get(ctx context.Context, featureName string) (*AvailableFeature, error)
}

// TemplateAppsClient defines operations for template apps.
type TemplateAppsClient interface {
	CreateInstallTicket(ctx context.Context, request *InstallTicketRequest) (*InstallTicket, error)
}

// UsersClient defines user level operations.
type UsersClient interface {
	RefreshUserPermissions(ctx context.Context) error
}

// EmbedTokensClient defines operations for embed tokens.
type EmbedTokensClient interface {
	GenerateDashboardTokenInGroup(ctx context.Context, groupID, dashboardID string, request *GenerateTokenRequest) (*EmbedToken, error)
	GenerateReportTokenInGroup(ctx context.Context, groupID, reportID string, request *GenerateTokenRequest) (*EmbedToken, error)
	GenerateTileTokenInGroup(ctx context.Context, groupID, dashboardID, tileID string, request *GenerateTokenRequest) (*EmbedToken, error)
	GenerateDatasetTokenInGroup(ctx context.Context, groupID, datasetID string, request *GenerateTokenRequest) (*EmbedToken, error)
	GenerateToken(ctx context.Context, request *MultiResourceTokenRequest) (*EmbedToken, error)
}

// DataflowStorageAccountsClient defines operations for dataflow storage accounts.
type DataflowStorageAccountsClient interface {
	List(ctx context.Context) (*ODataList[DataflowStorageAccount], error)
	AssignToGroup(ctx context.Context, groupID, storageAccountID string) error
}
