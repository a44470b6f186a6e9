package client

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestDatasetsClient_Routes(t *testing.T) {
	t.Parallel()

	enabled := true

	runRouteCases(t, []routeCase{
		{
			name:   "list",
			method: http.MethodGet,
			path:   "/v1.0/myorg/datasets",
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Datasets().List(ctx)

				return err
			},
		},
		{
			name:   "list in group",
			method: http.MethodGet,
			path:   "/v1.0/myorg/groups/g1/datasets",
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Datasets().ListInGroup(ctx, "g1")

				return err
			},
		},
		{
			name:   "get",
			method: http.MethodGet,
			path:   "/v1.0/myorg/datasets/ds1",
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Datasets().Get(ctx, "ds1")

				return err
			},
		},
		{
			name:   "delete in group",
			method: http.MethodDelete,
			path:   "/v1.0/myorg/groups/g1/datasets/ds1",
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().DeleteInGroup(ctx, "g1", "ds1")
			},
		},
		{
			name:   "refresh",
			method: http.MethodPost,
			path:   "/v1.0/myorg/datasets/ds1/refreshes",
			body:   `{"notifyOption":"MailOnFailure"}`,
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().Refresh(ctx, "ds1", powerbi.NotifyMailOnFailure)
			},
		},
		{
			name:   "refresh in group",
			method: http.MethodPost,
			path:   "/v1.0/myorg/groups/g1/datasets/ds1/refreshes",
			body:   `{"notifyOption":"NoNotification"}`,
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().RefreshInGroup(ctx, "g1", "ds1", powerbi.NotifyNoNotification)
			},
		},
		{
			name:   "refresh history",
			method: http.MethodGet,
			path:   "/v1.0/myorg/datasets/ds1/refreshes",
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Datasets().ListRefreshHistory(ctx, "ds1", 0)

				return err
			},
		},
		{
			name:   "refresh history with top",
			method: http.MethodGet,
			path:   "/v1.0/myorg/groups/g1/datasets/ds1/refreshes",
			query:  url.Values{"$top": []string{"5"}},
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Datasets().ListRefreshHistoryInGroup(ctx, "g1", "ds1", 5)

				return err
			},
		},
		{
			name:   "cancel refresh",
			method: http.MethodDelete,
			path:   "/v1.0/myorg/datasets/ds1/refreshes/87f31ef7",
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().CancelRefresh(ctx, "ds1", "87f31ef7")
			},
		},
		{
			name:   "get refresh schedule",
			method: http.MethodGet,
			path:   "/v1.0/myorg/groups/g1/datasets/ds1/refreshSchedule",
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Datasets().GetRefreshScheduleInGroup(ctx, "g1", "ds1")

				return err
			},
		},
		{
			name:   "update refresh schedule",
			method: http.MethodPatch,
			path:   "/v1.0/myorg/datasets/ds1/refreshSchedule",
			body: `{"value":{"days":["Monday","Friday"],"times":["07:00"],"enabled":true,` +
				`"localTimeZoneId":"UTC","notifyOption":"MailOnFailure"}}`,
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().UpdateRefreshSchedule(ctx, "ds1", &powerbi.RefreshSchedule{
					Days:            []string{"Monday", "Friday"},
					Times:           []string{"07:00"},
					Enabled:         &enabled,
					LocalTimeZoneID: "UTC",
					NotifyOption:    powerbi.NotifyMailOnFailure,
				})
			},
		},
		{
			name:   "bind to gateway",
			method: http.MethodPost,
			path:   "/v1.0/myorg/groups/g1/datasets/ds1/Default.BindToGateway",
			body:   `{"gatewayObjectId":"gw1","datasourceObjectIds":["src1"]}`,
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().BindToGatewayInGroup(ctx, "g1", "ds1", &powerbi.BindToGatewayRequest{
					GatewayObjectID:     "gw1",
					DatasourceObjectIDs: []string{"src1"},
				})
			},
		},
		{
			name:   "list datasources",
			method: http.MethodGet,
			path:   "/v1.0/myorg/datasets/ds1/datasources",
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Datasets().ListDatasources(ctx, "ds1")

				return err
			},
		},
		{
			name:   "take over",
			method: http.MethodPost,
			path:   "/v1.0/myorg/groups/g1/datasets/ds1/Default.TakeOver",
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().TakeOverInGroup(ctx, "g1", "ds1")
			},
		},
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestDatasetsClient_Validation(t *testing.T) {
	t.Parallel()

	runValidationCases(t, []validationCase{
		{
			name:    "get without dataset",
			wantErr: powerbi.ErrIDRequired,
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Datasets().Get(ctx, "")

				return err
			},
		},
		{
			name:    "refresh with unknown notify option",
			wantErr: powerbi.ErrInvalidEnumValue,
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().Refresh(ctx, "ds1", "MailAlways")
			},
		},
		{
			name:    "cancel refresh without refresh",
			wantErr: powerbi.ErrIDRequired,
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().CancelRefresh(ctx, "ds1", "")
			},
		},
		{
			name:    "update schedule without schedule",
			wantErr: ErrRequestRequired,
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().UpdateRefreshSchedule(ctx, "ds1", nil)
			},
		},
		{
			name:    "update schedule with unknown notify option",
			wantErr: powerbi.ErrInvalidEnumValue,
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().UpdateRefreshScheduleInGroup(ctx, "g1", "ds1", &powerbi.RefreshSchedule{NotifyOption: "Pager"})
			},
		},
		{
			name:    "bind without request",
			wantErr: ErrRequestRequired,
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().BindToGateway(ctx, "ds1", nil)
			},
		},
		{
			name:    "bind without gateway",
			wantErr: powerbi.ErrIDRequired,
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().BindToGateway(ctx, "ds1", &powerbi.BindToGatewayRequest{})
			},
		},
		{
			name:    "take over without group",
			wantErr: powerbi.ErrIDRequired,
			call: func(ctx context.Context, client *Client) error {
				return client.Datasets().TakeOverInGroup(ctx, "", "ds1")
			},
		},
	})
}

func TestDatasetsClient_Refresh_Accepted(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusAccepted, nil)
	client := NewTestClient(api.URL)

	err := client.Datasets().Refresh(context.Background(), "ds1", powerbi.NotifyMailOnCompletion)
	require.NoError(t, err)
	assert.Equal(t, 1, api.callCount())
}

func TestDatasetsClient_ListRefreshHistory(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, map[string]any{
		"value": []map[string]any{
			{
				"requestId":   "9399bb89",
				"id":          1344,
				"refreshType": "ViaApi",
				"status":      "Completed",
				"startTime":   "2017-06-13T09:25:43.153Z",
				"endTime":     "2017-06-13T09:31:43.153Z",
			},
			{"requestId": "11bf290a", "id": 1345, "refreshType": "Scheduled", "status": "Unknown"},
		},
	})
	client := NewTestClient(api.URL)

	history, err := client.Datasets().ListRefreshHistory(context.Background(), "ds1", 2)
	require.NoError(t, err)
	require.Len(t, history.Value, 2)

	first := history.Value[0]
	assert.Equal(t, int64(1344), first.ID)
	assert.Equal(t, "Completed", first.Status)
	require.NotNil(t, first.StartTime)
	require.NotNil(t, first.EndTime)
	assert.Equal(t, 6*60.0, first.EndTime.Sub(*first.StartTime).Seconds())
	assert.Nil(t, history.Value[1].EndTime)
}
