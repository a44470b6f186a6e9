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
func TestDataflowsClient_Routes(t *testing.T) {
	t.Parallel()

	allowNative := false

	runRouteCases(t, []routeCase{
		{
			name:   "list",
			method: http.MethodGet,
			path:   "/v1.0/myorg/groups/g1/dataflows",
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Dataflows().List(ctx, "g1")

				return err
			},
		},
		{
			name:   "get",
			method: http.MethodGet,
			path:   "/v1.0/myorg/groups/g1/dataflows/df1",
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Dataflows().Get(ctx, "g1", "df1")

				return err
			},
		},
		{
			name:   "list transactions",
			method: http.MethodGet,
			path:   "/v1.0/myorg/groups/g1/dataflows/df1/transactions",
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Dataflows().ListTransactions(ctx, "g1", "df1")

				return err
			},
		},
		{
			name:   "list datasources",
			method: http.MethodGet,
			path:   "/v1.0/myorg/groups/g1/dataflows/df1/datasources",
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Dataflows().ListDatasources(ctx, "g1", "df1")

				return err
			},
		},
		{
			name:   "list upstream dataflows",
			method: http.MethodGet,
			path:   "/v1.0/myorg/groups/g1/dataflows/df1/upstreamDataflows",
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Dataflows().ListUpstreamDataflows(ctx, "g1", "df1")

				return err
			},
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/v1.0/myorg/groups/g1/dataflows/df1",
			call: func(ctx context.Context, client *Client) error {
				return client.Dataflows().Delete(ctx, "g1", "df1")
			},
		},
		{
			name:   "update refresh schedule",
			method: http.MethodPatch,
			path:   "/v1.0/myorg/groups/g1/dataflows/df1/refreshSchedule",
			body:   `{"value":{"days":["Sunday"],"times":["02:00"],"localTimeZoneId":"UTC"}}`,
			call: func(ctx context.Context, client *Client) error {
				return client.Dataflows().UpdateRefreshSchedule(ctx, "g1", "df1", &powerbi.RefreshSchedule{
					Days:            []string{"Sunday"},
					Times:           []string{"02:00"},
					LocalTimeZoneID: "UTC",
				})
			},
		},
		{
			name:   "refresh",
			method: http.MethodPost,
			path:   "/v1.0/myorg/groups/g1/dataflows/df1/refreshes",
			body:   `{"notifyOption":"MailOnFailure"}`,
			call: func(ctx context.Context, client *Client) error {
				return client.Dataflows().Refresh(ctx, "g1", "df1", powerbi.NotifyMailOnFailure, "")
			},
		},
		{
			name:   "refresh with process type",
			method: http.MethodPost,
			path:   "/v1.0/myorg/groups/g1/dataflows/df1/refreshes",
			query:  url.Values{"processType": []string{"default"}},
			body:   `{"notifyOption":"NoNotification"}`,
			call: func(ctx context.Context, client *Client) error {
				return client.Dataflows().Refresh(ctx, "g1", "df1", powerbi.NotifyNoNotification, "default")
			},
		},
		{
			name:     "cancel transaction",
			method:   http.MethodPost,
			path:     "/v1.0/myorg/groups/g1/dataflows/transactions/tx1/cancel",
			response: map[string]any{"transactionId": "tx1", "status": "Cancelled"},
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Dataflows().CancelTransaction(ctx, "g1", "tx1")

				return err
			},
		},
		{
			name:   "update",
			method: http.MethodPatch,
			path:   "/v1.0/myorg/groups/g1/dataflows/df1",
			body:   `{"allowNativeQueries":false,"computeEngineBehavior":"computeOn","name":"Sales ETL"}`,
			call: func(ctx context.Context, client *Client) error {
				return client.Dataflows().Update(ctx, "g1", "df1", &powerbi.DataflowUpdateRequest{
					AllowNativeQueries:    &allowNative,
					ComputeEngineBehavior: powerbi.ComputeEngineOn,
					Name:                  "Sales ETL",
				})
			},
		},
	})
}

func TestDataflowsClient_Validation(t *testing.T) {
	t.Parallel()

	runValidationCases(t, []validationCase{
		{
			name:    "list without group",
			wantErr: powerbi.ErrIDRequired,
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Dataflows().List(ctx, "")

				return err
			},
		},
		{
			name:    "get without dataflow",
			wantErr: powerbi.ErrIDRequired,
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Dataflows().Get(ctx, "g1", "")

				return err
			},
		},
		{
			name:    "schedule without payload",
			wantErr: ErrRequestRequired,
			call: func(ctx context.Context, client *Client) error {
				return client.Dataflows().UpdateRefreshSchedule(ctx, "g1", "df1", nil)
			},
		},
		{
			name:    "refresh without notify option",
			wantErr: powerbi.ErrInvalidEnumValue,
			call: func(ctx context.Context, client *Client) error {
				return client.Dataflows().Refresh(ctx, "g1", "df1", "", "")
			},
		},
		{
			name:    "cancel without transaction",
			wantErr: powerbi.ErrIDRequired,
			call: func(ctx context.Context, client *Client) error {
				_, err := client.Dataflows().CancelTransaction(ctx, "g1", "")

				return err
			},
		},
		{
			name:    "update with unknown compute engine",
			wantErr: powerbi.ErrInvalidEnumValue,
			call: func(ctx context.Context, client *Client) error {
				return client.Dataflows().Update(ctx, "g1", "df1", &powerbi.DataflowUpdateRequest{ComputeEngineBehavior: "turbo"})
			},
		},
		{
			name:    "update without request",
			wantErr: ErrRequestRequired,
			call: func(ctx context.Context, client *Client) error {
				return client.Dataflows().Update(ctx, "g1", "df1", nil)
			},
		},
	})
}

func TestDataflowsClient_Get(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, map[string]any{
		"name":    "Sales ETL",
		"version": "1.0",
		"entities": []map[string]any{
			{"$type": "LocalEntity", "name": "Orders"},
		},
	})
	client := NewTestClient(api.URL)

	definition, err := client.Dataflows().Get(context.Background(), "g1", "df1")
	require.NoError(t, err)
	assert.Equal(t, "Sales ETL", definition["name"])

	entities, ok := definition["entities"].([]any)
	require.True(t, ok)
	assert.Len(t, entities, 1)
}

func TestDataflowsClient_CancelTransaction(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, map[string]any{"transactionId": "tx1", "status": "SuccessfullyMarked"})
	client := NewTestClient(api.URL)

	status, err := client.Dataflows().CancelTransaction(context.Background(), "g1", "tx1")
	require.NoError(t, err)
	assert.Equal(t, "tx1", status.TransactionID)
	assert.Equal(t, "SuccessfullyMarked", status.Status)
}
