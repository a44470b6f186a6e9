package client

import (
	"context"
	"strings"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// AvailableFeaturesClient implements powerbi.AvailableFeaturesClient.
type AvailableFeaturesClient struct {
	httpClient *internalhttp.Client
}

// NewAvailableFeaturesClient creates a new available features client.
func NewAvailableFeaturesClient(httpClient *internalhttp.Client) *AvailableFeaturesClient {
	return &AvailableFeaturesClient{
		httpClient: httpClient,
	}
}

// List implements powerbi.AvailableFeaturesClient.List.
func (c *AvailableFeaturesClient) List(ctx context.Context) (*powerbi.ODataList[powerbi.AvailableFeature], error) {
	req := getRequest(join(myOrg, "availableFeatures"), nil)

	return fetch[powerbi.ODataList[powerbi.AvailableFeature]](ctx, c.httpClient, req, "listing available features")
}

// Get implements powerbi.AvailableFeaturesClient.Get.
func (c *AvailableFeaturesClient) Get(ctx context.Context, featureName string) (*powerbi.AvailableFeature, error) {
	err := requireIDs("feature", featureName)
	if err != nil {
		return nil, err
	}

	req := getRequest(join(myOrg, featureKey(featureName)), nil)

	return fetch[powerbi.AvailableFeature](ctx, c.httpClient, req, "getting available feature")
}

// featureKey renders the OData key segment availableFeatures(featureName='x').
// Single quotes inside the literal are doubled.
func featureKey(name string) string {
	literal := strings.ReplaceAll(name, "'", "''")

	return "availableFeatures(featureName='" + escape(literal) + "')"
}
