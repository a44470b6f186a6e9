package client

import (
	"context"
	"net/http"
	"net/url"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// DataflowsClient implements powerbi.DataflowsClient.
type DataflowsClient struct {
	httpClient *internalhttp.Client
}

// NewDataflowsClient creates a new dataflows client.
func NewDataflowsClient(httpClient *internalhttp.Client) *DataflowsClient {
	return &DataflowsClient{
		httpClient: httpClient,
	}
}

func dataflowPath(groupID, dataflowID string, segments ...string) string {
	return join(append([]string{scope(groupID), "dataflows", escape(dataflowID)}, segments...)...)
}

// List implements powerbi.DataflowsClient.List.
func (c *DataflowsClient) List(ctx context.Context, groupID string) (*powerbi.ODataList[powerbi.Dataflow], error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	req := getRequest(join(scope(groupID), "dataflows"), nil)

	return fetch[powerbi.ODataList[powerbi.Dataflow]](ctx, c.httpClient, req, "listing dataflows")
}

// Get implements powerbi.DataflowsClient.Get. The service returns the
// model.json definition, which has no fixed schema.
func (c *DataflowsClient) Get(ctx context.Context, groupID, dataflowID string) (map[string]any, error) {
	err := requireIDs("group", groupID, "dataflow", dataflowID)
	if err != nil {
		return nil, err
	}

	definition, err := fetch[map[string]any](ctx, c.httpClient, getRequest(dataflowPath(groupID, dataflowID), nil), "getting dataflow")
	if err != nil {
		return nil, err
	}

	return *definition, nil
}

// ListTransactions implements powerbi.DataflowsClient.ListTransactions.
func (c *DataflowsClient) ListTransactions(ctx context.Context, groupID, dataflowID string) (*powerbi.ODataList[powerbi.DataflowTransaction], error) {
	err := requireIDs("group", groupID, "dataflow", dataflowID)
	if err != nil {
		return nil, err
	}

	req := getRequest(dataflowPath(groupID, dataflowID, "transactions"), nil)

	return fetch[powerbi.ODataList[powerbi.DataflowTransaction]](ctx, c.httpClient, req, "listing dataflow transactions")
}

// ListDatasources implements powerbi.DataflowsClient.ListDatasources.
func (c *DataflowsClient) ListDatasources(ctx context.Context, groupID, dataflowID string) (*powerbi.ODataList[powerbi.Datasource], error) {
	err := requireIDs("group", groupID, "dataflow", dataflowID)
	if err != nil {
		return nil, err
	}

	req := getRequest(dataflowPath(groupID, dataflowID, "datasources"), nil)

	return fetch[powerbi.ODataList[powerbi.Datasource]](ctx, c.httpClient, req, "listing dataflow datasources")
}

// ListUpstreamDataflows implements powerbi.DataflowsClient.ListUpstreamDataflows.
func (c *DataflowsClient) ListUpstreamDataflows(ctx context.Context, groupID, dataflowID string) (*powerbi.ODataList[powerbi.DependentDataflow], error) {
	err := requireIDs("group", groupID, "dataflow", dataflowID)
	if err != nil {
		return nil, err
	}

	req := getRequest(dataflowPath(groupID, dataflowID, "upstreamDataflows"), nil)

	return fetch[powerbi.ODataList[powerbi.DependentDataflow]](ctx, c.httpClient, req, "listing upstream dataflows")
}

// Delete implements powerbi.DataflowsClient.Delete.
func (c *DataflowsClient) Delete(ctx context.Context, groupID, dataflowID string) error {
	err := requireIDs("group", groupID, "dataflow", dataflowID)
	if err != nil {
		return err
	}

	return perform(ctx, c.httpClient, bodyRequest(http.MethodDelete, dataflowPath(groupID, dataflowID), nil), "deleting dataflow")
}

// UpdateRefreshSchedule implements powerbi.DataflowsClient.UpdateRefreshSchedule.
func (c *DataflowsClient) UpdateRefreshSchedule(ctx context.Context, groupID, dataflowID string, schedule *powerbi.RefreshSchedule) error {
	err := requireIDs("group", groupID, "dataflow", dataflowID)
	if err != nil {
		return err
	}

	err = checkSchedule(schedule)
	if err != nil {
		return err
	}

	req := bodyRequest(http.MethodPatch, dataflowPath(groupID, dataflowID, "refreshSchedule"),
		&powerbi.RefreshScheduleRequest{Value: *schedule})

	return perform(ctx, c.httpClient, req, "updating dataflow refresh schedule")
}

// Refresh implements powerbi.DataflowsClient.Refresh. processType is sent
// only when set.
func (c *DataflowsClient) Refresh(ctx context.Context, groupID, dataflowID string, notify powerbi.NotifyOption, processType string) error {
	err := requireIDs("group", groupID, "dataflow", dataflowID)
	if err != nil {
		return err
	}

	err = notify.Validate()
	if err != nil {
		return err
	}

	req := bodyRequest(http.MethodPost, dataflowPath(groupID, dataflowID, "refreshes"), &powerbi.RefreshRequest{NotifyOption: notify})
	if processType != "" {
		req.Query = url.Values{"processType": []string{processType}}
	}

	return perform(ctx, c.httpClient, req, "refreshing dataflow")
}

// CancelTransaction implements powerbi.DataflowsClient.CancelTransaction.
func (c *DataflowsClient) CancelTransaction(ctx context.Context, groupID, transactionID string) (*powerbi.DataflowTransactionStatus, error) {
	err := requireIDs("group", groupID, "transaction", transactionID)
	if err != nil {
		return nil, err
	}

	path := join(scope(groupID), "dataflows", "transactions", escape(transactionID), "cancel")

	return fetch[powerbi.DataflowTransactionStatus](ctx, c.httpClient, bodyRequest(http.MethodPost, path, nil), "cancelling dataflow transaction")
}

// Update implements powerbi.DataflowsClient.Update.
func (c *DataflowsClient) Update(ctx context.Context, groupID, dataflowID string, request *powerbi.DataflowUpdateRequest) error {
	err := requireIDs("group", groupID, "dataflow", dataflowID)
	if err != nil {
		return err
	}

	if request == nil {
		return absent("dataflow update request")
	}

	err = powerbi.ValidateOptional(request.ComputeEngineBehavior)
	if err != nil {
		return err
	}

	return perform(ctx, c.httpClient, bodyRequest(http.MethodPatch, dataflowPath(groupID, dataflowID), request), "updating dataflow")
}
