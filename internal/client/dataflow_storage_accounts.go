package client

import (
	"context"
	"net/http"

	"github.com/fivetwenty-io/powerbi/internal/constants"
	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// DataflowStorageAccountsClient implements powerbi.DataflowStorageAccountsClient.
type DataflowStorageAccountsClient struct {
	httpClient *internalhttp.Client
}

// NewDataflowStorageAccountsClient creates a new dataflow storage accounts client.
func NewDataflowStorageAccountsClient(httpClient *internalhttp.Client) *DataflowStorageAccountsClient {
	return &DataflowStorageAccountsClient{
		httpClient: httpClient,
	}
}

// List implements powerbi.DataflowStorageAccountsClient.List.
func (c *DataflowStorageAccountsClient) List(ctx context.Context) (*powerbi.ODataList[powerbi.DataflowStorageAccount], error) {
	req := getRequest(join(myOrg, "dataflowStorageAccounts"), nil)

	return fetch[powerbi.ODataList[powerbi.DataflowStorageAccount]](ctx, c.httpClient, req, "listing dataflow storage accounts")
}

// AssignToGroup implements powerbi.DataflowStorageAccountsClient.AssignToGroup.
// An empty storageAccountID detaches the workspace from its storage account.
func (c *DataflowStorageAccountsClient) AssignToGroup(ctx context.Context, groupID, storageAccountID string) error {
	err := requireIDs("group", groupID)
	if err != nil {
		return err
	}

	if storageAccountID == "" {
		storageAccountID = constants.UnassignedID
	}

	req := bodyRequest(http.MethodPost, join(scope(groupID), "AssignToDataflowStorage"),
		&powerbi.AssignToDataflowStorageRequest{DataflowStorageID: storageAccountID})

	return perform(ctx, c.httpClient, req, "assigning dataflow storage")
}
