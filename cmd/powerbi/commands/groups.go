package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// NewGroupsCommand creates the groups command group.
func NewGroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group", "workspaces", "ws"},
		Short:   "Manage workspaces",
		Long:    "List, create and delete Power BI workspaces and list their users",
	}

	cmd.AddCommand(newGroupsListCommand())
	cmd.AddCommand(newGroupsCreateCommand())
	cmd.AddCommand(newGroupsDeleteCommand())
	cmd.AddCommand(newGroupsUsersCommand())

	return cmd
}

var groupRenderer = ListRenderer[powerbi.Group]{
	Header: []string{"Name", "ID", "Type", "Read Only", "Dedicated Capacity"},
	Row: func(group powerbi.Group) []string {
		return []string{
			group.Name, group.ID, valueOrNotAvailable(group.Type),
			formatBool(group.IsReadOnly), formatBool(group.IsOnDedicatedCapacity),
		}
	},
	Empty: "No workspaces found",
}

func newGroupsListCommand() *cobra.Command {
	var (
		top    int
		skip   int
		filter string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		Long:  "List the workspaces the signed in user has access to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				params := powerbi.NewQueryParams().WithTop(top).WithSkip(skip).WithFilter(filter)

				groups, err := client.Groups().List(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list workspaces: %w", err)
				}

				return groupRenderer.Render(cmd.OutOrStdout(), outputFormat(), groups.Value)
			})
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "return only the first N workspaces")
	cmd.Flags().IntVar(&skip, "skip", 0, "skip the first N workspaces")
	cmd.Flags().StringVar(&filter, "filter", "", "OData filter, e.g. \"contains(name,'Sales')\"")

	return cmd
}

func newGroupsCreateCommand() *cobra.Command {
	var workspaceV2 bool

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a workspace",
		Long:  "Create a new workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				group, err := client.Groups().Create(ctx, args[0], workspaceV2)
				if err != nil {
					return fmt.Errorf("failed to create workspace: %w", err)
				}

				return groupRenderer.Render(cmd.OutOrStdout(), outputFormat(), []powerbi.Group{*group})
			})
		},
	}

	cmd.Flags().BoolVar(&workspaceV2, "workspace-v2", false, "create a new workspace experience workspace")

	return cmd
}

func newGroupsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete GROUP_ID",
		Short: "Delete a workspace",
		Long:  "Delete a workspace and all of its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				err := client.Groups().Delete(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to delete workspace: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted workspace %s\n", args[0])

				return nil
			})
		},
	}
}

func newGroupsUsersCommand() *cobra.Command {
	renderer := ListRenderer[powerbi.GroupUser]{
		Header: []string{"Identifier", "Display Name", "Access", "Principal Type"},
		Row: func(user powerbi.GroupUser) []string {
			return []string{
				user.Identifier, valueOrNotAvailable(user.DisplayName),
				string(user.GroupUserAccessRight), string(user.PrincipalType),
			}
		},
		Empty: "No users found",
	}

	return &cobra.Command{
		Use:   "users GROUP_ID",
		Short: "List workspace users",
		Long:  "List the users, groups and apps with access to a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				users, err := client.Groups().ListUsers(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to list workspace users: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), users.Value)
			})
		},
	}
}
