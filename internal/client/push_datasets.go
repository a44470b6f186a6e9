package client

import (
	"context"
	"net/http"
	"net/url"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/dataset"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// PushDatasetsClient implements powerbi.PushDatasetsClient.
type PushDatasetsClient struct {
	httpClient *internalhttp.Client
}

// NewPushDatasetsClient creates a new push datasets client.
func NewPushDatasetsClient(httpClient *internalhttp.Client) *PushDatasetsClient {
	return &PushDatasetsClient{
		httpClient: httpClient,
	}
}

func tablePath(groupID, datasetID, tableName string, segments ...string) string {
	return datasetPath(groupID, datasetID, append([]string{"tables", escape(tableName)}, segments...)...)
}

// ListTables implements powerbi.PushDatasetsClient.ListTables.
func (c *PushDatasetsClient) ListTables(ctx context.Context, datasetID string) (*powerbi.ODataList[dataset.Table], error) {
	return c.listTables(ctx, "", datasetID)
}

// ListTablesInGroup implements powerbi.PushDatasetsClient.ListTablesInGroup.
func (c *PushDatasetsClient) ListTablesInGroup(ctx context.Context, groupID, datasetID string) (*powerbi.ODataList[dataset.Table], error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.listTables(ctx, groupID, datasetID)
}

func (c *PushDatasetsClient) listTables(ctx context.Context, groupID, datasetID string) (*powerbi.ODataList[dataset.Table], error) {
	err := requireIDs("dataset", datasetID)
	if err != nil {
		return nil, err
	}

	req := getRequest(datasetPath(groupID, datasetID, "tables"), nil)

	return fetch[powerbi.ODataList[dataset.Table]](ctx, c.httpClient, req, "listing tables")
}

// PostDataset implements powerbi.PushDatasetsClient.PostDataset. Only the
// schema of definition is sent; rows held by its tables are not pushed.
func (c *PushDatasetsClient) PostDataset(ctx context.Context, definition *dataset.Dataset, policy powerbi.DatasetRetentionPolicy) (*powerbi.Dataset, error) {
	return c.postDataset(ctx, "", definition, policy)
}

// PostDatasetInGroup implements powerbi.PushDatasetsClient.PostDatasetInGroup.
func (c *PushDatasetsClient) PostDatasetInGroup(ctx context.Context, groupID string, definition *dataset.Dataset, policy powerbi.DatasetRetentionPolicy) (*powerbi.Dataset, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.postDataset(ctx, groupID, definition, policy)
}

func (c *PushDatasetsClient) postDataset(ctx context.Context, groupID string, definition *dataset.Dataset, policy powerbi.DatasetRetentionPolicy) (*powerbi.Dataset, error) {
	if definition == nil {
		return nil, absent("dataset definition")
	}

	err := definition.Validate()
	if err != nil {
		return nil, err
	}

	err = powerbi.ValidateOptional(policy)
	if err != nil {
		return nil, err
	}

	req := bodyRequest(http.MethodPost, join(scope(groupID), "datasets"), definition.Schema())
	if policy != "" {
		req.Query = url.Values{"defaultRetentionPolicy": []string{string(policy)}}
	}

	return fetch[powerbi.Dataset](ctx, c.httpClient, req, "creating push dataset")
}

// PostRows implements powerbi.PushDatasetsClient.PostRows.
func (c *PushDatasetsClient) PostRows(ctx context.Context, datasetID, tableName string, rows []map[string]any) error {
	return c.postRows(ctx, "", datasetID, tableName, rows)
}

// PostRowsInGroup implements powerbi.PushDatasetsClient.PostRowsInGroup.
func (c *PushDatasetsClient) PostRowsInGroup(ctx context.Context, groupID, datasetID, tableName string, rows []map[string]any) error {
	err := requireIDs("group", groupID)
	if err != nil {
		return err
	}

	return c.postRows(ctx, groupID, datasetID, tableName, rows)
}

func (c *PushDatasetsClient) postRows(ctx context.Context, groupID, datasetID, tableName string, rows []map[string]any) error {
	err := requireIDs("dataset", datasetID, "table", tableName)
	if err != nil {
		return err
	}

	if rows == nil {
		rows = []map[string]any{}
	}

	req := bodyRequest(http.MethodPost, tablePath(groupID, datasetID, tableName, "rows"), &powerbi.PushRowsRequest{Rows: rows})

	return perform(ctx, c.httpClient, req, "pushing rows")
}

// DeleteRows implements powerbi.PushDatasetsClient.DeleteRows.
func (c *PushDatasetsClient) DeleteRows(ctx context.Context, datasetID, tableName string) error {
	return c.deleteRows(ctx, "", datasetID, tableName)
}

// DeleteRowsInGroup implements powerbi.PushDatasetsClient.DeleteRowsInGroup.
func (c *PushDatasetsClient) DeleteRowsInGroup(ctx context.Context, groupID, datasetID, tableName string) error {
	err := requireIDs("group", groupID)
	if err != nil {
		return err
	}

	return c.deleteRows(ctx, groupID, datasetID, tableName)
}

func (c *PushDatasetsClient) deleteRows(ctx context.Context, groupID, datasetID, tableName string) error {
	err := requireIDs("dataset", datasetID, "table", tableName)
	if err != nil {
		return err
	}

	req := bodyRequest(http.MethodDelete, tablePath(groupID, datasetID, tableName, "rows"), nil)

	return perform(ctx, c.httpClient, req, "deleting rows")
}

// PutTable implements powerbi.PushDatasetsClient.PutTable. The table schema
// replaces the existing one of the same name.
func (c *PushDatasetsClient) PutTable(ctx context.Context, datasetID string, table *dataset.Table) (*dataset.Table, error) {
	return c.putTable(ctx, "", datasetID, table)
}

// PutTableInGroup implements powerbi.PushDatasetsClient.PutTableInGroup.
func (c *PushDatasetsClient) PutTableInGroup(ctx context.Context, groupID, datasetID string, table *dataset.Table) (*dataset.Table, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.putTable(ctx, groupID, datasetID, table)
}

func (c *PushDatasetsClient) putTable(ctx context.Context, groupID, datasetID string, table *dataset.Table) (*dataset.Table, error) {
	err := requireIDs("dataset", datasetID)
	if err != nil {
		return nil, err
	}

	if table == nil {
		return nil, absent("table")
	}

	err = table.Validate()
	if err != nil {
		return nil, err
	}

	schema := *table
	schema.Rows = nil

	req := bodyRequest(http.MethodPut, tablePath(groupID, datasetID, table.Name), &schema)

	return fetch[dataset.Table](ctx, c.httpClient, req, "updating table")
}
