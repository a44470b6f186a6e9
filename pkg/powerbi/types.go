package powerbi

import (
	"encoding/json"
	"time"
)

// ODataList is the collection envelope returned by every list endpoint.
type ODataList[T any] struct {
	Context string `json:"@odata.context,omitempty" yaml:"context,omitempty"`
	Value   []T    `json:"value"                    yaml:"value"`
}

// Success is returned for calls that complete with an empty 2xx body.
type Success struct {
	Message    string `json:"message"     yaml:"message"`
	StatusCode int    `json:"status_code" yaml:"status_code"`
}

// SuccessMessage is the message carried by Success.
const SuccessMessage = "response successful"

// Workspaces

// Group is a workspace.
type Group struct {
	ID                    string `json:"id"                              yaml:"id"`
	Name                  string `json:"name"                            yaml:"name"`
	IsReadOnly            bool   `json:"isReadOnly,omitempty"            yaml:"is_read_only,omitempty"`
	IsOnDedicatedCapacity bool   `json:"isOnDedicatedCapacity,omitempty" yaml:"is_on_dedicated_capacity,omitempty"`
	CapacityID            string `json:"capacityId,omitempty"            yaml:"capacity_id,omitempty"`
	DataflowStorageID     string `json:"dataflowStorageId,omitempty"     yaml:"dataflow_storage_id,omitempty"`
	Type                  string `json:"type,omitempty"                  yaml:"type,omitempty"`
}

// GroupCreateRequest creates a workspace.
type GroupCreateRequest struct {
	Name string `json:"name"`
}

// GroupUser is a principal with access to a workspace.
type GroupUser struct {
	DisplayName          string               `json:"displayName,omitempty"  yaml:"display_name,omitempty"`
	EmailAddress         string               `json:"emailAddress,omitempty" yaml:"email_address,omitempty"`
	GroupUserAccessRight GroupUserAccessRight `json:"groupUserAccessRight"   yaml:"group_user_access_right"`
	Identifier           string               `json:"identifier,omitempty"   yaml:"identifier,omitempty"`
	PrincipalType        PrincipalType        `json:"principalType"          yaml:"principal_type"`
	GraphID              string               `json:"graphId,omitempty"      yaml:"graph_id,omitempty"`
}

// Dashboards and tiles

// Dashboard is a dashboard.
type Dashboard struct {
	ID          string `json:"id"                    yaml:"id"`
	DisplayName string `json:"displayName"           yaml:"display_name"`
	IsReadOnly  bool   `json:"isReadOnly,omitempty"  yaml:"is_read_only,omitempty"`
	WebURL      string `json:"webUrl,omitempty"      yaml:"web_url,omitempty"`
	EmbedURL    string `json:"embedUrl,omitempty"    yaml:"embed_url,omitempty"`
	AppID       string `json:"appId,omitempty"       yaml:"app_id,omitempty"`
}

// AddDashboardRequest creates an empty dashboard.
type AddDashboardRequest struct {
	Name string `json:"name"`
}

// Tile is a dashboard tile.
type Tile struct {
	ID        string `json:"id"                  yaml:"id"`
	Title     string `json:"title,omitempty"     yaml:"title,omitempty"`
	SubTitle  string `json:"subTitle,omitempty"  yaml:"sub_title,omitempty"`
	EmbedURL  string `json:"embedUrl,omitempty"  yaml:"embed_url,omitempty"`
	EmbedData string `json:"embedData,omitempty" yaml:"embed_data,omitempty"`
	ReportID  string `json:"reportId,omitempty"  yaml:"report_id,omitempty"`
	DatasetID string `json:"datasetId,omitempty" yaml:"dataset_id,omitempty"`
	RowSpan   int    `json:"rowSpan,omitempty"   yaml:"row_span,omitempty"`
	ColSpan   int    `json:"colSpan,omitempty"   yaml:"col_span,omitempty"`
}

// CloneTileRequest clones a tile onto another dashboard.
type CloneTileRequest struct {
	TargetDashboardID      string `json:"targetDashboardId"`
	TargetReportID         string `json:"targetReportId,omitempty"`
	TargetModelID          string `json:"targetModelId,omitempty"`
	TargetWorkspaceID      string `json:"targetWorkspaceId,omitempty"`
	PositionConflictAction string `json:"positionConflictAction,omitempty"`
}

// Reports

// Report is a report.
type Report struct {
	ID          string `json:"id"                    yaml:"id"`
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	ReportType  string `json:"reportType,omitempty"  yaml:"report_type,omitempty"`
	DatasetID   string `json:"datasetId,omitempty"   yaml:"dataset_id,omitempty"`
	AppID       string `json:"appId,omitempty"       yaml:"app_id,omitempty"`
	WebURL      string `json:"webUrl,omitempty"      yaml:"web_url,omitempty"`
	EmbedURL    string `json:"embedUrl,omitempty"    yaml:"embed_url,omitempty"`
}

// Page is a report page.
type Page struct {
	Name        string `json:"name"        yaml:"name"`
	DisplayName string `json:"displayName" yaml:"display_name"`
	Order       int    `json:"order"       yaml:"order"`
}

// CloneReportRequest clones a report, optionally rebinding it to another dataset.
type CloneReportRequest struct {
	Name              string `json:"name"`
	TargetModelID     string `json:"targetModelId,omitempty"`
	TargetWorkspaceID string `json:"targetWorkspaceId,omitempty"`
}

// ExportReportRequest starts an export-to-file job. The two configuration
// objects are passed through unchanged.
type ExportReportRequest struct {
	Format                       ExportFileFormat `json:"format"`
	PaginatedReportConfiguration json.RawMessage  `json:"paginatedReportConfiguration,omitempty"`
	PowerBIReportConfiguration   json.RawMessage  `json:"powerBIReportConfiguration,omitempty"`
}

// Export describes an export-to-file job.
type Export struct {
	ID                    string     `json:"id"                              yaml:"id"`
	ReportID              string     `json:"reportId,omitempty"              yaml:"report_id,omitempty"`
	ReportName            string     `json:"reportName,omitempty"            yaml:"report_name,omitempty"`
	Status                string     `json:"status"                          yaml:"status"`
	PercentComplete       int        `json:"percentComplete"                 yaml:"percent_complete"`
	ResourceLocation      string     `json:"resourceLocation,omitempty"      yaml:"resource_location,omitempty"`
	ResourceFileExtension string     `json:"resourceFileExtension,omitempty" yaml:"resource_file_extension,omitempty"`
	CreatedDateTime       *time.Time `json:"createdDateTime,omitempty"       yaml:"created_date_time,omitempty"`
	LastActionDateTime    *time.Time `json:"lastActionDateTime,omitempty"    yaml:"last_action_date_time,omitempty"`
	ExpirationTime        *time.Time `json:"expirationTime,omitempty"        yaml:"expiration_time,omitempty"`
}

// Datasets

// Dataset is a dataset (semantic model).
type Dataset struct {
	ID                               string                 `json:"id"                                         yaml:"id"`
	Name                             string                 `json:"name"                                       yaml:"name"`
	ConfiguredBy                     string                 `json:"configuredBy,omitempty"                     yaml:"configured_by,omitempty"`
	AddRowsAPIEnabled                bool                   `json:"addRowsAPIEnabled,omitempty"                yaml:"add_rows_api_enabled,omitempty"`
	IsRefreshable                    bool                   `json:"isRefreshable,omitempty"                    yaml:"is_refreshable,omitempty"`
	IsEffectiveIdentityRequired      bool                   `json:"isEffectiveIdentityRequired,omitempty"      yaml:"is_effective_identity_required,omitempty"`
	IsEffectiveIdentityRolesRequired bool                   `json:"isEffectiveIdentityRolesRequired,omitempty" yaml:"is_effective_identity_roles_required,omitempty"`
	IsOnPremGatewayRequired          bool                   `json:"isOnPremGatewayRequired,omitempty"          yaml:"is_on_prem_gateway_required,omitempty"`
	TargetStorageMode                string                 `json:"targetStorageMode,omitempty"                yaml:"target_storage_mode,omitempty"`
	DefaultRetentionPolicy           DatasetRetentionPolicy `json:"defaultRetentionPolicy,omitempty"           yaml:"default_retention_policy,omitempty"`
	CreatedDate                      *time.Time             `json:"createdDate,omitempty"                      yaml:"created_date,omitempty"`
	WebURL                           string                 `json:"webUrl,omitempty"                           yaml:"web_url,omitempty"`
}

// Refresh is one entry in a dataset's refresh history.
type Refresh struct {
	RequestID            string     `json:"requestId,omitempty"            yaml:"request_id,omitempty"`
	ID                   int64      `json:"id,omitempty"                   yaml:"id,omitempty"`
	RefreshType          string     `json:"refreshType,omitempty"          yaml:"refresh_type,omitempty"`
	Status               string     `json:"status,omitempty"               yaml:"status,omitempty"`
	StartTime            *time.Time `json:"startTime,omitempty"            yaml:"start_time,omitempty"`
	EndTime              *time.Time `json:"endTime,omitempty"              yaml:"end_time,omitempty"`
	ServiceExceptionJSON string     `json:"serviceExceptionJson,omitempty" yaml:"service_exception_json,omitempty"`
}

// RefreshRequest triggers a dataset refresh.
type RefreshRequest struct {
	NotifyOption NotifyOption `json:"notifyOption"`
}

// RefreshSchedule is the refresh schedule of a dataset or dataflow.
type RefreshSchedule struct {
	Days            []string     `json:"days,omitempty"            yaml:"days,omitempty"`
	Times           []string     `json:"times,omitempty"           yaml:"times,omitempty"`
	Enabled         *bool        `json:"enabled,omitempty"         yaml:"enabled,omitempty"`
	LocalTimeZoneID string       `json:"localTimeZoneId,omitempty" yaml:"local_time_zone_id,omitempty"`
	NotifyOption    NotifyOption `json:"notifyOption,omitempty"    yaml:"notify_option,omitempty"`
}

// RefreshScheduleRequest wraps a schedule for PATCH requests.
type RefreshScheduleRequest struct {
	Value RefreshSchedule `json:"value"`
}

// BindToGatewayRequest binds a dataset to a gateway.
type BindToGatewayRequest struct {
	GatewayObjectID     string   `json:"gatewayObjectId"`
	DatasourceObjectIDs []string `json:"datasourceObjectIds,omitempty"`
}

// Datasource is a datasource used by a dataset, report or dataflow.
type Datasource struct {
	DatasourceID      string                      `json:"datasourceId,omitempty"      yaml:"datasource_id,omitempty"`
	GatewayID         string                      `json:"gatewayId,omitempty"         yaml:"gateway_id,omitempty"`
	DatasourceType    string                      `json:"datasourceType"              yaml:"datasource_type"`
	Name              string                      `json:"name,omitempty"              yaml:"name,omitempty"`
	ConnectionString  string                      `json:"connectionString,omitempty"  yaml:"connection_string,omitempty"`
	ConnectionDetails DatasourceConnectionDetails `json:"connectionDetails,omitempty" yaml:"connection_details,omitempty"`
}

// DatasourceConnectionDetails identifies the datasource endpoint.
type DatasourceConnectionDetails struct {
	Server   string `json:"server,omitempty"   yaml:"server,omitempty"`
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
	URL      string `json:"url,omitempty"      yaml:"url,omitempty"`
	Path     string `json:"path,omitempty"     yaml:"path,omitempty"`
	Kind     string `json:"kind,omitempty"     yaml:"kind,omitempty"`
	Account  string `json:"account,omitempty"  yaml:"account,omitempty"`
	Domain   string `json:"domain,omitempty"   yaml:"domain,omitempty"`
}

// PushRowsRequest adds rows to a push dataset table.
type PushRowsRequest struct {
	Rows []map[string]any `json:"rows"`
}

// Gateways

// Gateway is an on-premises data gateway.
type Gateway struct {
	ID                string           `json:"id"                          yaml:"id"`
	Name              string           `json:"name"                        yaml:"name"`
	Type              string           `json:"type,omitempty"              yaml:"type,omitempty"`
	GatewayAnnotation string           `json:"gatewayAnnotation,omitempty" yaml:"gateway_annotation,omitempty"`
	GatewayStatus     string           `json:"gatewayStatus,omitempty"     yaml:"gateway_status,omitempty"`
	PublicKey         GatewayPublicKey `json:"publicKey,omitempty"         yaml:"public_key,omitempty"`
}

// GatewayPublicKey is used to encrypt datasource credentials.
type GatewayPublicKey struct {
	Exponent string `json:"exponent" yaml:"exponent"`
	Modulus  string `json:"modulus"  yaml:"modulus"`
}

// GatewayDatasource is a datasource registered on a gateway.
type GatewayDatasource struct {
	ID                string         `json:"id"                          yaml:"id"`
	GatewayID         string         `json:"gatewayId"                   yaml:"gateway_id"`
	DatasourceType    string         `json:"datasourceType"              yaml:"datasource_type"`
	DatasourceName    string         `json:"datasourceName,omitempty"    yaml:"datasource_name,omitempty"`
	ConnectionDetails string         `json:"connectionDetails,omitempty" yaml:"connection_details,omitempty"`
	CredentialType    CredentialType `json:"credentialType,omitempty"    yaml:"credential_type,omitempty"`
}

// CredentialDetails is the credential payload for a gateway datasource.
type CredentialDetails struct {
	CredentialType              CredentialType      `json:"credentialType"`
	Credentials                 string              `json:"credentials"`
	EncryptedConnection         EncryptedConnection `json:"encryptedConnection"`
	EncryptionAlgorithm         EncryptionAlgorithm `json:"encryptionAlgorithm"`
	PrivacyLevel                PrivacyLevel        `json:"privacyLevel"`
	UseCallerAADIdentity        *bool               `json:"useCallerAADIdentity,omitempty"`
	UseEndUserOAuth2Credentials *bool               `json:"useEndUserOAuth2Credentials,omitempty"`
}

// Validate checks the enumerations of the credential payload.
func (c *CredentialDetails) Validate() error {
	for _, validator := range []Validator{
		c.CredentialType, c.EncryptedConnection, c.EncryptionAlgorithm, c.PrivacyLevel,
	} {
		if err := validator.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// CreateDatasourceRequest registers a datasource on a gateway.
type CreateDatasourceRequest struct {
	DataSourceType    string            `json:"dataSourceType"`
	ConnectionDetails string            `json:"connectionDetails"`
	CredentialDetails CredentialDetails `json:"credentialDetails"`
	DatasourceName    string            `json:"datasourceName"`
}

// UpdateDatasourceRequest replaces the credentials of a gateway datasource.
type UpdateDatasourceRequest struct {
	CredentialDetails CredentialDetails `json:"credentialDetails"`
}

// ServicePrincipalProfile identifies a service principal profile.
type ServicePrincipalProfile struct {
	DisplayName string `json:"displayName,omitempty" yaml:"display_name,omitempty"`
	ID          string `json:"id,omitempty"          yaml:"id,omitempty"`
}

// DatasourceUser is a principal with access to a gateway datasource.
type DatasourceUser struct {
	DatasourceAccessRight DatasourceAccessRight    `json:"datasourceAccessRight"  yaml:"datasource_access_right"`
	DisplayName           string                   `json:"displayName,omitempty"  yaml:"display_name,omitempty"`
	EmailAddress          string                   `json:"emailAddress,omitempty" yaml:"email_address,omitempty"`
	Identifier            string                   `json:"identifier,omitempty"   yaml:"identifier,omitempty"`
	PrincipalType         PrincipalType            `json:"principalType"          yaml:"principal_type"`
	Profile               *ServicePrincipalProfile `json:"profile,omitempty"      yaml:"profile,omitempty"`
}

// Dataflows

// Dataflow is a dataflow.
type Dataflow struct {
	ObjectID         string     `json:"objectId"                   yaml:"object_id"`
	Name             string     `json:"name"                       yaml:"name"`
	Description      string     `json:"description,omitempty"      yaml:"description,omitempty"`
	ModelURL         string     `json:"modelUrl,omitempty"         yaml:"model_url,omitempty"`
	ConfiguredBy     string     `json:"configuredBy,omitempty"     yaml:"configured_by,omitempty"`
	ModifiedBy       string     `json:"modifiedBy,omitempty"       yaml:"modified_by,omitempty"`
	ModifiedDateTime *time.Time `json:"modifiedDateTime,omitempty" yaml:"modified_date_time,omitempty"`
}

// DataflowTransaction is one refresh transaction of a dataflow.
type DataflowTransaction struct {
	ID          string     `json:"id"                    yaml:"id"`
	RefreshType string     `json:"refreshType,omitempty" yaml:"refresh_type,omitempty"`
	Status      string     `json:"status,omitempty"      yaml:"status,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"   yaml:"start_time,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"     yaml:"end_time,omitempty"`
}

// DataflowTransactionStatus is returned when a transaction is cancelled.
type DataflowTransactionStatus struct {
	TransactionID string `json:"transactionId" yaml:"transaction_id"`
	Status        string `json:"status"        yaml:"status"`
}

// DependentDataflow is an upstream dataflow reference.
type DependentDataflow struct {
	DataflowObjectID string `json:"dataflowObjectId" yaml:"dataflow_object_id"`
	GroupID          string `json:"groupId"          yaml:"group_id"`
}

// DataflowUpdateRequest updates dataflow properties. Empty fields are left unchanged.
type DataflowUpdateRequest struct {
	AllowNativeQueries    *bool                 `json:"allowNativeQueries,omitempty"`
	ComputeEngineBehavior ComputeEngineBehavior `json:"computeEngineBehavior,omitempty"`
	Description           string                `json:"description,omitempty"`
	Name                  string                `json:"name,omitempty"`
}

// Pipelines

// Pipeline is a deployment pipeline.
type Pipeline struct {
	ID          string          `json:"id"                    yaml:"id"`
	DisplayName string          `json:"displayName"           yaml:"display_name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Stages      []PipelineStage `json:"stages,omitempty"      yaml:"stages,omitempty"`
}

// PipelineStage is one stage of a deployment pipeline.
type PipelineStage struct {
	Order         int    `json:"order"                   yaml:"order"`
	WorkspaceID   string `json:"workspaceId,omitempty"   yaml:"workspace_id,omitempty"`
	WorkspaceName string `json:"workspaceName,omitempty" yaml:"workspace_name,omitempty"`
}

// PipelineOperation is a deployment operation.
type PipelineOperation struct {
	ID                 string     `json:"id"                           yaml:"id"`
	Type               string     `json:"type,omitempty"               yaml:"type,omitempty"`
	Status             string     `json:"status,omitempty"             yaml:"status,omitempty"`
	LastUpdatedTime    *time.Time `json:"lastUpdatedTime,omitempty"    yaml:"last_updated_time,omitempty"`
	ExecutionStartTime *time.Time `json:"executionStartTime,omitempty" yaml:"execution_start_time,omitempty"`
	ExecutionEndTime   *time.Time `json:"executionEndTime,omitempty"   yaml:"execution_end_time,omitempty"`
	SourceStageOrder   int        `json:"sourceStageOrder"             yaml:"source_stage_order"`
	TargetStageOrder   int        `json:"targetStageOrder"             yaml:"target_stage_order"`
}

// PipelineArtifact is an item deployed through a pipeline stage.
type PipelineArtifact struct {
	ArtifactID          string     `json:"artifactId"                   yaml:"artifact_id"`
	ArtifactDisplayName string     `json:"artifactDisplayName"          yaml:"artifact_display_name"`
	SourceArtifactID    string     `json:"sourceArtifactId,omitempty"   yaml:"source_artifact_id,omitempty"`
	TargetArtifactID    string     `json:"targetArtifactId,omitempty"   yaml:"target_artifact_id,omitempty"`
	LastDeploymentTime  *time.Time `json:"lastDeploymentTime,omitempty" yaml:"last_deployment_time,omitempty"`
}

// PipelineStageArtifacts groups the artifacts of a stage by kind.
type PipelineStageArtifacts struct {
	Dashboards []PipelineArtifact `json:"dashboards,omitempty" yaml:"dashboards,omitempty"`
	Datasets   []PipelineArtifact `json:"datasets,omitempty"   yaml:"datasets,omitempty"`
	Reports    []PipelineArtifact `json:"reports,omitempty"    yaml:"reports,omitempty"`
	Dataflows  []PipelineArtifact `json:"dataflows,omitempty"  yaml:"dataflows,omitempty"`
}

// Imports

// Import is the state of an import job.
type Import struct {
	ID              string     `json:"id"                        yaml:"id"`
	Name            string     `json:"name,omitempty"            yaml:"name,omitempty"`
	ImportState     string     `json:"importState,omitempty"     yaml:"import_state,omitempty"`
	CreatedDateTime *time.Time `json:"createdDateTime,omitempty" yaml:"created_date_time,omitempty"`
	UpdatedDateTime *time.Time `json:"updatedDateTime,omitempty" yaml:"updated_date_time,omitempty"`
	Datasets        []Dataset  `json:"datasets,omitempty"        yaml:"datasets,omitempty"`
	Reports         []Report   `json:"reports,omitempty"         yaml:"reports,omitempty"`
}

// TemporaryUploadLocation is a blob location for large file imports.
type TemporaryUploadLocation struct {
	URL            string     `json:"url"                      yaml:"url"`
	ExpirationTime *time.Time `json:"expirationTime,omitempty" yaml:"expiration_time,omitempty"`
}

// ImportOptions are the query options of a file import.
type ImportOptions struct {
	DatasetDisplayName string
	NameConflict       ImportConflictHandlerMode
	SkipReport         bool
}

// Apps

// App is an installed app.
type App struct {
	ID          string     `json:"id"                    yaml:"id"`
	Name        string     `json:"name"                  yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	PublishedBy string     `json:"publishedBy,omitempty" yaml:"published_by,omitempty"`
	LastUpdate  *time.Time `json:"lastUpdate,omitempty"  yaml:"last_update,omitempty"`
}

// Capacities

// Capacity is a dedicated capacity.
type Capacity struct {
	ID                      string   `json:"id"                                yaml:"id"`
	DisplayName             string   `json:"displayName"                       yaml:"display_name"`
	Admins                  []string `json:"admins,omitempty"                  yaml:"admins,omitempty"`
	SKU                     string   `json:"sku,omitempty"                     yaml:"sku,omitempty"`
	State                   string   `json:"state,omitempty"                   yaml:"state,omitempty"`
	Region                  string   `json:"region,omitempty"                  yaml:"region,omitempty"`
	CapacityUserAccessRight string   `json:"capacityUserAccessRight,omitempty" yaml:"capacity_user_access_right,omitempty"`
	TenantKeyID             string   `json:"tenantKeyId,omitempty"             yaml:"tenant_key_id,omitempty"`
}

// Workload is a capacity workload.
type Workload struct {
	Name                         string        `json:"name"                         yaml:"name"`
	State                        WorkloadState `json:"state"                        yaml:"state"`
	MaxMemoryPercentageSetByUser int           `json:"maxMemoryPercentageSetByUser" yaml:"max_memory_percentage_set_by_user"`
}

// PatchWorkloadRequest changes the state of a workload.
type PatchWorkloadRequest struct {
	State                        WorkloadState `json:"state"`
	MaxMemoryPercentageSetByUser int           `json:"maxMemoryPercentageSetByUser,omitempty"`
}

// Refreshable is a refreshable item on a capacity.
type Refreshable struct {
	ID              string           `json:"id"                        yaml:"id"`
	Name            string           `json:"name"                      yaml:"name"`
	Kind            string           `json:"kind,omitempty"            yaml:"kind,omitempty"`
	StartTime       *time.Time       `json:"startTime,omitempty"       yaml:"start_time,omitempty"`
	EndTime         *time.Time       `json:"endTime,omitempty"         yaml:"end_time,omitempty"`
	RefreshCount    int              `json:"refreshCount"              yaml:"refresh_count"`
	RefreshFailures int              `json:"refreshFailures"           yaml:"refresh_failures"`
	RefreshesPerDay int              `json:"refreshesPerDay"           yaml:"refreshes_per_day"`
	AverageDuration float64          `json:"averageDuration"           yaml:"average_duration"`
	MedianDuration  float64          `json:"medianDuration"            yaml:"median_duration"`
	LastRefresh     *Refresh         `json:"lastRefresh,omitempty"     yaml:"last_refresh,omitempty"`
	RefreshSchedule *RefreshSchedule `json:"refreshSchedule,omitempty" yaml:"refresh_schedule,omitempty"`
	ConfiguredBy    []string         `json:"configuredBy,omitempty"    yaml:"configured_by,omitempty"`
}

// AssignToCapacityRequest moves a workspace to a capacity.
type AssignToCapacityRequest struct {
	CapacityID string `json:"capacityId"`
}

// CapacityAssignmentStatus reports the progress of a capacity assignment.
type CapacityAssignmentStatus struct {
	Status     string     `json:"status"               yaml:"status"`
	ActivityID string     `json:"activityId,omitempty" yaml:"activity_id,omitempty"`
	CapacityID string     `json:"capacityId,omitempty" yaml:"capacity_id,omitempty"`
	StartTime  *time.Time `json:"startTime,omitempty"  yaml:"start_time,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"    yaml:"end_time,omitempty"`
}

// Features, template apps, embed tokens, storage

// AvailableFeature is a feature toggle exposed to the caller.
type AvailableFeature struct {
	Name           string          `json:"name"                     yaml:"name"`
	State          string          `json:"state"                    yaml:"state"`
	ExtendedState  string          `json:"extendedState,omitempty"  yaml:"extended_state,omitempty"`
	AdditionalInfo *AdditionalInfo `json:"additionalInfo,omitempty" yaml:"additional_info,omitempty"`
}

// AdditionalInfo carries usage data for a feature.
type AdditionalInfo struct {
	Usage int `json:"usage" yaml:"usage"`
}

// InstallTicketRequest asks for a template app install ticket.
type InstallTicketRequest struct {
	AppID         string         `json:"appId"`
	PackageKey    string         `json:"packageKey"`
	OwnerTenantID string         `json:"ownerTenantId"`
	Config        map[string]any `json:"config,omitempty"`
}

// InstallTicket is a template app install ticket.
type InstallTicket struct {
	Ticket     string     `json:"ticket"               yaml:"ticket"`
	TicketID   string     `json:"ticketId"             yaml:"ticket_id"`
	Expiration *time.Time `json:"expiration,omitempty" yaml:"expiration,omitempty"`
}

// EffectiveIdentity is the row-level security identity embedded in a token.
type EffectiveIdentity struct {
	Username   string   `json:"username"`
	Roles      []string `json:"roles,omitempty"`
	Datasets   []string `json:"datasets,omitempty"`
	CustomData string   `json:"customData,omitempty"`
}

// GenerateTokenRequest requests an embed token for a single item.
type GenerateTokenRequest struct {
	AccessLevel       TokenAccessLevel    `json:"accessLevel"`
	DatasetID         string              `json:"datasetId,omitempty"`
	Identities        []EffectiveIdentity `json:"identities,omitempty"`
	LifetimeInMinutes int                 `json:"lifetimeInMinutes,omitempty"`
	AllowSaveAs       bool                `json:"allowSaveAs,omitempty"`
}

// TokenItem references an item included in a multi-resource embed token.
type TokenItem struct {
	ID        string `json:"id"`
	AllowEdit bool   `json:"allowEdit,omitempty"`
}

// MultiResourceTokenRequest requests an embed token covering several items.
type MultiResourceTokenRequest struct {
	Datasets          []TokenItem         `json:"datasets,omitempty"`
	Reports           []TokenItem         `json:"reports,omitempty"`
	TargetWorkspaces  []TokenItem         `json:"targetWorkspaces,omitempty"`
	Identities        []EffectiveIdentity `json:"identities,omitempty"`
	LifetimeInMinutes int                 `json:"lifetimeInMinutes,omitempty"`
}

// EmbedToken is a generated embed token.
type EmbedToken struct {
	Token      string     `json:"token"                yaml:"token"`
	TokenID    string     `json:"tokenId"              yaml:"token_id"`
	Expiration *time.Time `json:"expiration,omitempty" yaml:"expiration,omitempty"`
}

// DataflowStorageAccount is a storage account usable by dataflows.
type DataflowStorageAccount struct {
	ID        string `json:"id"        yaml:"id"`
	Name      string `json:"name"      yaml:"name"`
	IsEnabled bool   `json:"isEnabled" yaml:"is_enabled"`
}

// AssignToDataflowStorageRequest assigns a workspace to a storage account.
type AssignToDataflowStorageRequest struct {
	DataflowStorageID string `json:"dataflowStorageId"`
}
