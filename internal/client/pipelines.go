package client

import (
	"context"
	"net/url"
	"strconv"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// PipelinesClient implements powerbi.PipelinesClient.
type PipelinesClient struct {
	httpClient *internalhttp.Client
}

// NewPipelinesClient creates a new deployment pipelines client.
func NewPipelinesClient(httpClient *internalhttp.Client) *PipelinesClient {
	return &PipelinesClient{
		httpClient: httpClient,
	}
}

func pipelinePath(pipelineID string, segments ...string) string {
	return join(append([]string{myOrg, "pipelines", escape(pipelineID)}, segments...)...)
}

// List implements powerbi.PipelinesClient.List.
func (c *PipelinesClient) List(ctx context.Context) (*powerbi.ODataList[powerbi.Pipeline], error) {
	req := getRequest(join(myOrg, "pipelines"), nil)

	return fetch[powerbi.ODataList[powerbi.Pipeline]](ctx, c.httpClient, req, "listing pipelines")
}

// Get implements powerbi.PipelinesClient.Get.
func (c *PipelinesClient) Get(ctx context.Context, pipelineID string, expandStages bool) (*powerbi.Pipeline, error) {
	err := requireIDs("pipeline", pipelineID)
	if err != nil {
		return nil, err
	}

	var query url.Values
	if expandStages {
		query = url.Values{"$expand": []string{"stages"}}
	}

	return fetch[powerbi.Pipeline](ctx, c.httpClient, getRequest(pipelinePath(pipelineID), query), "getting pipeline")
}

// ListOperations implements powerbi.PipelinesClient.ListOperations.
func (c *PipelinesClient) ListOperations(ctx context.Context, pipelineID string) (*powerbi.ODataList[powerbi.PipelineOperation], error) {
	err := requireIDs("pipeline", pipelineID)
	if err != nil {
		return nil, err
	}

	req := getRequest(pipelinePath(pipelineID, "operations"), nil)

	return fetch[powerbi.ODataList[powerbi.PipelineOperation]](ctx, c.httpClient, req, "listing pipeline operations")
}

// GetOperation implements powerbi.PipelinesClient.GetOperation.
func (c *PipelinesClient) GetOperation(ctx context.Context, pipelineID, operationID string) (*powerbi.PipelineOperation, error) {
	err := requireIDs("pipeline", pipelineID, "operation", operationID)
	if err != nil {
		return nil, err
	}

	req := getRequest(pipelinePath(pipelineID, "operations", escape(operationID)), nil)

	return fetch[powerbi.PipelineOperation](ctx, c.httpClient, req, "getting pipeline operation")
}

// ListStageArtifacts implements powerbi.PipelinesClient.ListStageArtifacts.
// Stages are numbered from 0 (development).
func (c *PipelinesClient) ListStageArtifacts(ctx context.Context, pipelineID string, stageOrder int) (*powerbi.PipelineStageArtifacts, error) {
	err := requireIDs("pipeline", pipelineID)
	if err != nil {
		return nil, err
	}

	req := getRequest(pipelinePath(pipelineID, "stages", strconv.Itoa(stageOrder), "artifacts"), nil)

	return fetch[powerbi.PipelineStageArtifacts](ctx, c.httpClient, req, "listing pipeline stage artifacts")
}
