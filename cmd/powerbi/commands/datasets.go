package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

const defaultRefreshHistoryTop = 10

// NewDatasetsCommand creates the datasets command group.
func NewDatasetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"dataset", "ds"},
		Short:   "Manage datasets",
		Long:    "List datasets, trigger refreshes and inspect the refresh history",
	}

	cmd.AddCommand(newDatasetsListCommand())
	cmd.AddCommand(newDatasetsRefreshCommand())
	cmd.AddCommand(newDatasetsRefreshesCommand())

	return cmd
}

func newDatasetsListCommand() *cobra.Command {
	var groupID string

	renderer := ListRenderer[powerbi.Dataset]{
		Header: []string{"Name", "ID", "Configured By", "Refreshable", "Created"},
		Row: func(dataset powerbi.Dataset) []string {
			return []string{
				dataset.Name, dataset.ID, valueOrNotAvailable(dataset.ConfiguredBy),
				formatBool(dataset.IsRefreshable), formatTime(dataset.CreatedDate),
			}
		},
		Empty: "No datasets found",
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List datasets",
		Long:  "List the datasets of a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				var (
					datasets *powerbi.ODataList[powerbi.Dataset]
					err      error
				)

				if groupID != "" {
					datasets, err = client.Datasets().ListInGroup(ctx, groupID)
				} else {
					datasets, err = client.Datasets().List(ctx)
				}

				if err != nil {
					return fmt.Errorf("failed to list datasets: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), datasets.Value)
			})
		},
	}

	addGroupFlag(cmd, &groupID)

	return cmd
}

func newDatasetsRefreshCommand() *cobra.Command {
	var (
		groupID string
		notify  string
	)

	cmd := &cobra.Command{
		Use:   "refresh DATASET_ID",
		Short: "Trigger a dataset refresh",
		Long:  "Queue an on-demand refresh of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			option := powerbi.NotifyOption(notify)

			err := option.Validate()
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				if groupID != "" {
					err = client.Datasets().RefreshInGroup(ctx, groupID, args[0], option)
				} else {
					err = client.Datasets().Refresh(ctx, args[0], option)
				}

				if err != nil {
					return fmt.Errorf("failed to refresh dataset: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Refresh of dataset %s queued\n", args[0])

				return nil
			})
		},
	}

	addGroupFlag(cmd, &groupID)
	cmd.Flags().StringVar(&notify, "notify", string(powerbi.NotifyNoNotification),
		"mail notification (MailOnFailure, MailOnCompletion, NoNotification)")

	return cmd
}

func newDatasetsRefreshesCommand() *cobra.Command {
	var (
		groupID string
		top     int
	)

	renderer := ListRenderer[powerbi.Refresh]{
		Header: []string{"Type", "Status", "Start", "End"},
		Row: func(refresh powerbi.Refresh) []string {
			return []string{
				valueOrNotAvailable(refresh.RefreshType), valueOrNotAvailable(refresh.Status),
				formatTime(refresh.StartTime), formatTime(refresh.EndTime),
			}
		},
		Empty: "No refreshes found",
	}

	cmd := &cobra.Command{
		Use:   "refreshes DATASET_ID",
		Short: "Show the refresh history",
		Long:  "List the most recent refreshes of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				var (
					refreshes *powerbi.ODataList[powerbi.Refresh]
					err       error
				)

				if groupID != "" {
					refreshes, err = client.Datasets().ListRefreshHistoryInGroup(ctx, groupID, args[0], top)
				} else {
					refreshes, err = client.Datasets().ListRefreshHistory(ctx, args[0], top)
				}

				if err != nil {
					return fmt.Errorf("failed to list refreshes: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), refreshes.Value)
			})
		},
	}

	addGroupFlag(cmd, &groupID)
	cmd.Flags().IntVar(&top, "top", defaultRefreshHistoryTop, "number of refreshes to show")

	return cmd
}
