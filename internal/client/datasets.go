package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// DatasetsClient implements powerbi.DatasetsClient.
type DatasetsClient struct {
	httpClient *internalhttp.Client
}

// NewDatasetsClient creates a new datasets client.
func NewDatasetsClient(httpClient *internalhttp.Client) *DatasetsClient {
	return &DatasetsClient{
		httpClient: httpClient,
	}
}

func datasetPath(groupID, datasetID string, segments ...string) string {
	return join(append([]string{scope(groupID), "datasets", escape(datasetID)}, segments...)...)
}

// List implements powerbi.DatasetsClient.List.
func (c *DatasetsClient) List(ctx context.Context) (*powerbi.ODataList[powerbi.Dataset], error) {
	return c.list(ctx, "")
}

// ListInGroup implements powerbi.DatasetsClient.ListInGroup.
func (c *DatasetsClient) ListInGroup(ctx context.Context, groupID string) (*powerbi.ODataList[powerbi.Dataset], error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.list(ctx, groupID)
}

func (c *DatasetsClient) list(ctx context.Context, groupID string) (*powerbi.ODataList[powerbi.Dataset], error) {
	req := getRequest(join(scope(groupID), "datasets"), nil)

	return fetch[powerbi.ODataList[powerbi.Dataset]](ctx, c.httpClient, req, "listing datasets")
}

// Get implements powerbi.DatasetsClient.Get.
func (c *DatasetsClient) Get(ctx context.Context, datasetID string) (*powerbi.Dataset, error) {
	return c.get(ctx, "", datasetID)
}

// GetInGroup implements powerbi.DatasetsClient.GetInGroup.
func (c *DatasetsClient) GetInGroup(ctx context.Context, groupID, datasetID string) (*powerbi.Dataset, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.get(ctx, groupID, datasetID)
}

func (c *DatasetsClient) get(ctx context.Context, groupID, datasetID string) (*powerbi.Dataset, error) {
	err := requireIDs("dataset", datasetID)
	if err != nil {
		return nil, err
	}

	return fetch[powerbi.Dataset](ctx, c.httpClient, getRequest(datasetPath(groupID, datasetID), nil), "getting dataset")
}

// Delete implements powerbi.DatasetsClient.Delete.
func (c *DatasetsClient) Delete(ctx context.Context, datasetID string) error {
	return c.delete(ctx, "", datasetID)
}

// DeleteInGroup implements powerbi.DatasetsClient.DeleteInGroup.
func (c *DatasetsClient) DeleteInGroup(ctx context.Context, groupID, datasetID string) error {
	err := requireIDs("group", groupID)
	if err != nil {
		return err
	}

	return c.delete(ctx, groupID, datasetID)
}

func (c *DatasetsClient) delete(ctx context.Context, groupID, datasetID string) error {
	err := requireIDs("dataset", datasetID)
	if err != nil {
		return err
	}

	return perform(ctx, c.httpClient, bodyRequest(http.MethodDelete, datasetPath(groupID, datasetID), nil), "deleting dataset")
}

// Refresh implements powerbi.DatasetsClient.Refresh. The service answers
// 202 Accepted with an empty body; progress is read from the refresh history.
func (c *DatasetsClient) Refresh(ctx context.Context, datasetID string, notify powerbi.NotifyOption) error {
	return c.refresh(ctx, "", datasetID, notify)
}

// RefreshInGroup implements powerbi.DatasetsClient.RefreshInGroup.
func (c *DatasetsClient) RefreshInGroup(ctx context.Context, groupID, datasetID string, notify powerbi.NotifyOption) error {
	err := requireIDs("group", groupID)
	if err != nil {
		return err
	}

	return c.refresh(ctx, groupID, datasetID, notify)
}

func (c *DatasetsClient) refresh(ctx context.Context, groupID, datasetID string, notify powerbi.NotifyOption) error {
	err := requireIDs("dataset", datasetID)
	if err != nil {
		return err
	}

	err = notify.Validate()
	if err != nil {
		return err
	}

	req := bodyRequest(http.MethodPost, datasetPath(groupID, datasetID, "refreshes"), &powerbi.RefreshRequest{NotifyOption: notify})

	return perform(ctx, c.httpClient, req, "refreshing dataset")
}

// ListRefreshHistory implements powerbi.DatasetsClient.ListRefreshHistory.
// top limits the number of entries; zero returns the service default.
func (c *DatasetsClient) ListRefreshHistory(ctx context.Context, datasetID string, top int) (*powerbi.ODataList[powerbi.Refresh], error) {
	return c.listRefreshHistory(ctx, "", datasetID, top)
}

// ListRefreshHistoryInGroup implements powerbi.DatasetsClient.ListRefreshHistoryInGroup.
func (c *DatasetsClient) ListRefreshHistoryInGroup(ctx context.Context, groupID, datasetID string, top int) (*powerbi.ODataList[powerbi.Refresh], error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.listRefreshHistory(ctx, groupID, datasetID, top)
}

func (c *DatasetsClient) listRefreshHistory(ctx context.Context, groupID, datasetID string, top int) (*powerbi.ODataList[powerbi.Refresh], error) {
	err := requireIDs("dataset", datasetID)
	if err != nil {
		return nil, err
	}

	var query url.Values
	if top > 0 {
		query = url.Values{"$top": []string{strconv.Itoa(top)}}
	}

	req := getRequest(datasetPath(groupID, datasetID, "refreshes"), query)

	return fetch[powerbi.ODataList[powerbi.Refresh]](ctx, c.httpClient, req, "listing refresh history")
}

// CancelRefresh implements powerbi.DatasetsClient.CancelRefresh.
func (c *DatasetsClient) CancelRefresh(ctx context.Context, datasetID, refreshID string) error {
	return c.cancelRefresh(ctx, "", datasetID, refreshID)
}

// CancelRefreshInGroup implements powerbi.DatasetsClient.CancelRefreshInGroup.
func (c *DatasetsClient) CancelRefreshInGroup(ctx context.Context, groupID, datasetID, refreshID string) error {
	err := requireIDs("group", groupID)
	if err != nil {
		return err
	}

	return c.cancelRefresh(ctx, groupID, datasetID, refreshID)
}

func (c *DatasetsClient) cancelRefresh(ctx context.Context, groupID, datasetID, refreshID string) error {
	err := requireIDs("dataset", datasetID, "refresh", refreshID)
	if err != nil {
		return err
	}

	req := bodyRequest(http.MethodDelete, datasetPath(groupID, datasetID, "refreshes", escape(refreshID)), nil)

	return perform(ctx, c.httpClient, req, "cancelling refresh")
}

// GetRefreshSchedule implements powerbi.DatasetsClient.GetRefreshSchedule.
func (c *DatasetsClient) GetRefreshSchedule(ctx context.Context, datasetID string) (*powerbi.RefreshSchedule, error) {
	return c.getRefreshSchedule(ctx, "", datasetID)
}

// GetRefreshScheduleInGroup implements powerbi.DatasetsClient.GetRefreshScheduleInGroup.
func (c *DatasetsClient) GetRefreshScheduleInGroup(ctx context.Context, groupID, datasetID string) (*powerbi.RefreshSchedule, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.getRefreshSchedule(ctx, groupID, datasetID)
}

func (c *DatasetsClient) getRefreshSchedule(ctx context.Context, groupID, datasetID string) (*powerbi.RefreshSchedule, error) {
	err := requireIDs("dataset", datasetID)
	if err != nil {
		return nil, err
	}

	req := getRequest(datasetPath(groupID, datasetID, "refreshSchedule"), nil)

	return fetch[powerbi.RefreshSchedule](ctx, c.httpClient, req, "getting refresh schedule")
}

// UpdateRefreshSchedule implements powerbi.DatasetsClient.UpdateRefreshSchedule.
func (c *DatasetsClient) UpdateRefreshSchedule(ctx context.Context, datasetID string, schedule *powerbi.RefreshSchedule) error {
	return c.updateRefreshSchedule(ctx, "", datasetID, schedule)
}

// UpdateRefreshScheduleInGroup implements powerbi.DatasetsClient.UpdateRefreshScheduleInGroup.
func (c *DatasetsClient) UpdateRefreshScheduleInGroup(ctx context.Context, groupID, datasetID string, schedule *powerbi.RefreshSchedule) error {
	err := requireIDs("group", groupID)
	if err != nil {
		return err
	}

	return c.updateRefreshSchedule(ctx, groupID, datasetID, schedule)
}

func (c *DatasetsClient) updateRefreshSchedule(ctx context.Context, groupID, datasetID string, schedule *powerbi.RefreshSchedule) error {
	err := requireIDs("dataset", datasetID)
	if err != nil {
		return err
	}

	err = checkSchedule(schedule)
	if err != nil {
		return err
	}

	req := bodyRequest(http.MethodPatch, datasetPath(groupID, datasetID, "refreshSchedule"),
		&powerbi.RefreshScheduleRequest{Value: *schedule})

	return perform(ctx, c.httpClient, req, "updating refresh schedule")
}

// checkSchedule is shared with dataflows.
func checkSchedule(schedule *powerbi.RefreshSchedule) error {
	if schedule == nil {
		return absent("refresh schedule")
	}

	return powerbi.ValidateOptional(schedule.NotifyOption)
}

// BindToGateway implements powerbi.DatasetsClient.BindToGateway.
func (c *DatasetsClient) BindToGateway(ctx context.Context, datasetID string, request *powerbi.BindToGatewayRequest) error {
	return c.bindToGateway(ctx, "", datasetID, request)
}

// BindToGatewayInGroup implements powerbi.DatasetsClient.BindToGatewayInGroup.
func (c *DatasetsClient) BindToGatewayInGroup(ctx context.Context, groupID, datasetID string, request *powerbi.BindToGatewayRequest) error {
	err := requireIDs("group", groupID)
	if err != nil {
		return err
	}

	return c.bindToGateway(ctx, groupID, datasetID, request)
}

func (c *DatasetsClient) bindToGateway(ctx context.Context, groupID, datasetID string, request *powerbi.BindToGatewayRequest) error {
	err := requireIDs("dataset", datasetID)
	if err != nil {
		return err
	}

	if request == nil {
		return absent("bind to gateway request")
	}

	err = requireIDs("gateway", request.GatewayObjectID)
	if err != nil {
		return err
	}

	req := bodyRequest(http.MethodPost, datasetPath(groupID, datasetID, "Default.BindToGateway"), request)

	return perform(ctx, c.httpClient, req, "binding dataset to gateway")
}

// ListDatasources implements powerbi.DatasetsClient.ListDatasources.
func (c *DatasetsClient) ListDatasources(ctx context.Context, datasetID string) (*powerbi.ODataList[powerbi.Datasource], error) {
	return c.listDatasources(ctx, "", datasetID)
}

// ListDatasourcesInGroup implements powerbi.DatasetsClient.ListDatasourcesInGroup.
func (c *DatasetsClient) ListDatasourcesInGroup(ctx context.Context, groupID, datasetID string) (*powerbi.ODataList[powerbi.Datasource], error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.listDatasources(ctx, groupID, datasetID)
}

func (c *DatasetsClient) listDatasources(ctx context.Context, groupID, datasetID string) (*powerbi.ODataList[powerbi.Datasource], error) {
	err := requireIDs("dataset", datasetID)
	if err != nil {
		return nil, err
	}

	req := getRequest(datasetPath(groupID, datasetID, "datasources"), nil)

	return fetch[powerbi.ODataList[powerbi.Datasource]](ctx, c.httpClient, req, "listing dataset datasources")
}

// TakeOverInGroup implements powerbi.DatasetsClient.TakeOverInGroup.
func (c *DatasetsClient) TakeOverInGroup(ctx context.Context, groupID, datasetID string) error {
	err := requireIDs("group", groupID, "dataset", datasetID)
	if err != nil {
		return err
	}

	req := bodyRequest(http.MethodPost, datasetPath(groupID, datasetID, "Default.TakeOver"), nil)

	return perform(ctx, c.httpClient, req, "taking over dataset")
}
