package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// NewDashboardsCommand creates the dashboards command group.
func NewDashboardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboards",
		Aliases: []string{"dashboard"},
		Short:   "Browse dashboards",
		Long:    "List dashboards and their tiles",
	}

	cmd.AddCommand(newDashboardsListCommand())
	cmd.AddCommand(newDashboardsTilesCommand())

	return cmd
}

func newDashboardsListCommand() *cobra.Command {
	var groupID string

	renderer := ListRenderer[powerbi.Dashboard]{
		Header: []string{"Name", "ID", "Read Only", "Web URL"},
		Row: func(dashboard powerbi.Dashboard) []string {
			return []string{dashboard.DisplayName, dashboard.ID, formatBool(dashboard.IsReadOnly), valueOrNotAvailable(dashboard.WebURL)}
		},
		Empty: "No dashboards found",
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dashboards",
		Long:  "List the dashboards of a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				var (
					dashboards *powerbi.ODataList[powerbi.Dashboard]
					err        error
				)

				if groupID != "" {
					dashboards, err = client.Dashboards().ListInGroup(ctx, groupID)
				} else {
					dashboards, err = client.Dashboards().List(ctx)
				}

				if err != nil {
					return fmt.Errorf("failed to list dashboards: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), dashboards.Value)
			})
		},
	}

	addGroupFlag(cmd, &groupID)

	return cmd
}

func newDashboardsTilesCommand() *cobra.Command {
	var groupID string

	renderer := ListRenderer[powerbi.Tile]{
		Header: []string{"Title", "ID", "Report", "Dataset", "Size"},
		Row: func(tile powerbi.Tile) []string {
			return []string{
				valueOrNotAvailable(tile.Title), tile.ID,
				valueOrNotAvailable(tile.ReportID), valueOrNotAvailable(tile.DatasetID),
				strconv.Itoa(tile.ColSpan) + "x" + strconv.Itoa(tile.RowSpan),
			}
		},
		Empty: "No tiles found",
	}

	cmd := &cobra.Command{
		Use:   "tiles DASHBOARD_ID",
		Short: "List dashboard tiles",
		Long:  "List the tiles of a dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				var (
					tiles *powerbi.ODataList[powerbi.Tile]
					err   error
				)

				if groupID != "" {
					tiles, err = client.Dashboards().ListTilesInGroup(ctx, groupID, args[0])
				} else {
					tiles, err = client.Dashboards().ListTiles(ctx, args[0])
				}

				if err != nil {
					return fmt.Errorf("failed to list tiles: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), tiles.Value)
			})
		},
	}

	addGroupFlag(cmd, &groupID)

	return cmd
}
