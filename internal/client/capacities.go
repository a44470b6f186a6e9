package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/powerbi/internal/constants"
	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// CapacitiesClient implements powerbi.CapacitiesClient.
type CapacitiesClient struct {
	httpClient *internalhttp.Client
}

// NewCapacitiesClient creates a new capacities client.
func NewCapacitiesClient(httpClient *internalhttp.Client) *CapacitiesClient {
	return &CapacitiesClient{
		httpClient: httpClient,
	}
}

func capacityPath(capacityID string, segments ...string) string {
	return join(append([]string{myOrg, "capacities", escape(capacityID)}, segments...)...)
}

// List implements powerbi.CapacitiesClient.List.
func (c *CapacitiesClient) List(ctx context.Context) (*powerbi.ODataList[powerbi.Capacity], error) {
	req := getRequest(join(myOrg, "capacities"), nil)

	return fetch[powerbi.ODataList[powerbi.Capacity]](ctx, c.httpClient, req, "listing capacities")
}

// ListWorkloads implements powerbi.CapacitiesClient.ListWorkloads.
func (c *CapacitiesClient) ListWorkloads(ctx context.Context, capacityID string) (*powerbi.ODataList[powerbi.Workload], error) {
	err := requireIDs("capacity", capacityID)
	if err != nil {
		return nil, err
	}

	req := getRequest(capacityPath(capacityID, "Workloads"), nil)

	return fetch[powerbi.ODataList[powerbi.Workload]](ctx, c.httpClient, req, "listing workloads")
}

// GetWorkload implements powerbi.CapacitiesClient.GetWorkload.
func (c *CapacitiesClient) GetWorkload(ctx context.Context, capacityID, workloadName string) (*powerbi.Workload, error) {
	err := requireIDs("capacity", capacityID, "workload", workloadName)
	if err != nil {
		return nil, err
	}

	req := getRequest(capacityPath(capacityID, "Workloads", escape(workloadName)), nil)

	return fetch[powerbi.Workload](ctx, c.httpClient, req, "getting workload")
}

// PatchWorkload implements powerbi.CapacitiesClient.PatchWorkload.
func (c *CapacitiesClient) PatchWorkload(ctx context.Context, capacityID, workloadName string, request *powerbi.PatchWorkloadRequest) error {
	err := requireIDs("capacity", capacityID, "workload", workloadName)
	if err != nil {
		return err
	}

	if request == nil {
		return absent("workload request")
	}

	err = request.State.Validate()
	if err != nil {
		return err
	}

	if request.MaxMemoryPercentageSetByUser < 0 || request.MaxMemoryPercentageSetByUser > constants.MaxPercentage {
		return fmt.Errorf("%w: got %d", powerbi.ErrPercentageOutOfRange, request.MaxMemoryPercentageSetByUser)
	}

	req := bodyRequest(http.MethodPatch, capacityPath(capacityID, "Workloads", escape(workloadName)), request)

	return perform(ctx, c.httpClient, req, "updating workload")
}

// ListRefreshables implements powerbi.CapacitiesClient.ListRefreshables.
func (c *CapacitiesClient) ListRefreshables(ctx context.Context, params *powerbi.QueryParams) (*powerbi.ODataList[powerbi.Refreshable], error) {
	req := getRequest(join(myOrg, "capacities", "refreshables"), params.ToValues())

	return fetch[powerbi.ODataList[powerbi.Refreshable]](ctx, c.httpClient, req, "listing refreshables")
}

// ListRefreshablesForCapacity implements powerbi.CapacitiesClient.ListRefreshablesForCapacity.
func (c *CapacitiesClient) ListRefreshablesForCapacity(ctx context.Context, capacityID string, params *powerbi.QueryParams) (*powerbi.ODataList[powerbi.Refreshable], error) {
	err := requireIDs("capacity", capacityID)
	if err != nil {
		return nil, err
	}

	req := getRequest(capacityPath(capacityID, "refreshables"), params.ToValues())

	return fetch[powerbi.ODataList[powerbi.Refreshable]](ctx, c.httpClient, req, "listing capacity refreshables")
}

// GetRefreshableForCapacity implements powerbi.CapacitiesClient.GetRefreshableForCapacity.
// expand names related entities to inline, such as "capacity" or "group".
func (c *CapacitiesClient) GetRefreshableForCapacity(ctx context.Context, capacityID, refreshableID string, expand ...string) (*powerbi.ODataList[powerbi.Refreshable], error) {
	err := requireIDs("capacity", capacityID, "refreshable", refreshableID)
	if err != nil {
		return nil, err
	}

	var query url.Values
	if len(expand) > 0 {
		query = url.Values{"$expand": []string{strings.Join(expand, ",")}}
	}

	req := getRequest(capacityPath(capacityID, "refreshables", escape(refreshableID)), query)

	return fetch[powerbi.ODataList[powerbi.Refreshable]](ctx, c.httpClient, req, "getting capacity refreshable")
}

// AssignMyWorkspaceToCapacity implements powerbi.CapacitiesClient.AssignMyWorkspaceToCapacity.
// An empty capacityID moves the workspace back to shared capacity.
func (c *CapacitiesClient) AssignMyWorkspaceToCapacity(ctx context.Context, capacityID string) error {
	return c.assign(ctx, "", capacityID)
}

// AssignToCapacity implements powerbi.CapacitiesClient.AssignToCapacity.
func (c *CapacitiesClient) AssignToCapacity(ctx context.Context, groupID, capacityID string) error {
	err := requireIDs("group", groupID)
	if err != nil {
		return err
	}

	return c.assign(ctx, groupID, capacityID)
}

func (c *CapacitiesClient) assign(ctx context.Context, groupID, capacityID string) error {
	if capacityID == "" {
		capacityID = constants.UnassignedID
	}

	req := bodyRequest(http.MethodPost, join(scope(groupID), "AssignToCapacity"), &powerbi.AssignToCapacityRequest{CapacityID: capacityID})

	return perform(ctx, c.httpClient, req, "assigning workspace to capacity")
}

// GetMyWorkspaceAssignmentStatus implements powerbi.CapacitiesClient.GetMyWorkspaceAssignmentStatus.
func (c *CapacitiesClient) GetMyWorkspaceAssignmentStatus(ctx context.Context) (*powerbi.CapacityAssignmentStatus, error) {
	return c.assignmentStatus(ctx, "")
}

// GetAssignmentStatus implements powerbi.CapacitiesClient.GetAssignmentStatus.
func (c *CapacitiesClient) GetAssignmentStatus(ctx context.Context, groupID string) (*powerbi.CapacityAssignmentStatus, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.assignmentStatus(ctx, groupID)
}

func (c *CapacitiesClient) assignmentStatus(ctx context.Context, groupID string) (*powerbi.CapacityAssignmentStatus, error) {
	req := getRequest(join(scope(groupID), "CapacityAssignmentStatus"), nil)

	return fetch[powerbi.CapacityAssignmentStatus](ctx, c.httpClient, req, "getting capacity assignment status")
}
