package client

import (
	"context"
	"net/http"
	"net/url"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// GroupsClient implements powerbi.GroupsClient.
type GroupsClient struct {
	httpClient *internalhttp.Client
}

// NewGroupsClient creates a new groups client.
func NewGroupsClient(httpClient *internalhttp.Client) *GroupsClient {
	return &GroupsClient{
		httpClient: httpClient,
	}
}

// List implements powerbi.GroupsClient.List.
func (c *GroupsClient) List(ctx context.Context, params *powerbi.QueryParams) (*powerbi.ODataList[powerbi.Group], error) {
	req := getRequest(join(myOrg, "groups"), params.ToValues())

	return fetch[powerbi.ODataList[powerbi.Group]](ctx, c.httpClient, req, "listing groups")
}

// Create implements powerbi.GroupsClient.Create.
func (c *GroupsClient) Create(ctx context.Context, name string, workspaceV2 bool) (*powerbi.Group, error) {
	err := requireIDs("group name", name)
	if err != nil {
		return nil, err
	}

	req := bodyRequest(http.MethodPost, join(myOrg, "groups"), &powerbi.GroupCreateRequest{Name: name})
	if workspaceV2 {
		req.Query = url.Values{"workspaceV2": []string{"True"}}
	}

	return fetch[powerbi.Group](ctx, c.httpClient, req, "creating group")
}

// Delete implements powerbi.GroupsClient.Delete.
func (c *GroupsClient) Delete(ctx context.Context, groupID string) error {
	err := requireIDs("group", groupID)
	if err != nil {
		return err
	}

	return perform(ctx, c.httpClient, bodyRequest(http.MethodDelete, scope(groupID), nil), "deleting group")
}

// ListUsers implements powerbi.GroupsClient.ListUsers.
func (c *GroupsClient) ListUsers(ctx context.Context, groupID string) (*powerbi.ODataList[powerbi.GroupUser], error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	req := getRequest(join(scope(groupID), "users"), nil)

	return fetch[powerbi.ODataList[powerbi.GroupUser]](ctx, c.httpClient, req, "listing group users")
}

// AddUser implements powerbi.GroupsClient.AddUser.
func (c *GroupsClient) AddUser(ctx context.Context, groupID string, user *powerbi.GroupUser) error {
	return c.sendUser(ctx, http.MethodPost, groupID, user, "adding group user")
}

// UpdateUser implements powerbi.GroupsClient.UpdateUser.
func (c *GroupsClient) UpdateUser(ctx context.Context, groupID string, user *powerbi.GroupUser) error {
	return c.sendUser(ctx, http.MethodPut, groupID, user, "updating group user")
}

func (c *GroupsClient) sendUser(ctx context.Context, method, groupID string, user *powerbi.GroupUser, action string) error {
	err := requireIDs("group", groupID)
	if err != nil {
		return err
	}

	if user == nil {
		return absent("group user")
	}

	err = validate(user.GroupUserAccessRight, user.PrincipalType)
	if err != nil {
		return err
	}

	return perform(ctx, c.httpClient, bodyRequest(method, join(scope(groupID), "users"), user), action)
}

// DeleteUser implements powerbi.GroupsClient.DeleteUser. user is an email
// address or an object ID.
func (c *GroupsClient) DeleteUser(ctx context.Context, groupID, user string) error {
	err := requireIDs("group", groupID, "user", user)
	if err != nil {
		return err
	}

	path := join(scope(groupID), "users", escape(user))

	return perform(ctx, c.httpClient, bodyRequest(http.MethodDelete, path, nil), "deleting group user")
}
