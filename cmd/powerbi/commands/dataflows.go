package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/powerbi/internal/constants"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// NewDataflowsCommand creates the dataflows command group. Dataflows always
// live in a workspace, so --group is required.
func NewDataflowsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dataflows",
		Aliases: []string{"dataflow", "df"},
		Short:   "Manage dataflows",
		Long:    "List dataflows of a workspace and trigger refreshes",
	}

	cmd.AddCommand(newDataflowsListCommand())
	cmd.AddCommand(newDataflowsRefreshCommand())

	return cmd
}

func requireGroup(groupID string) error {
	if groupID == "" {
		return constants.ErrGroupRequired
	}

	return nil
}

func newDataflowsListCommand() *cobra.Command {
	var groupID string

	renderer := ListRenderer[powerbi.Dataflow]{
		Header: []string{"Name", "ID", "Configured By", "Modified"},
		Row: func(dataflow powerbi.Dataflow) []string {
			return []string{
				dataflow.Name, dataflow.ObjectID,
				valueOrNotAvailable(dataflow.ConfiguredBy), formatTime(dataflow.ModifiedDateTime),
			}
		},
		Empty: "No dataflows found",
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dataflows",
		Long:  "List the dataflows of a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireGroup(groupID)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				dataflows, err := client.Dataflows().List(ctx, groupID)
				if err != nil {
					return fmt.Errorf("failed to list dataflows: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), dataflows.Value)
			})
		},
	}

	addGroupFlag(cmd, &groupID)

	return cmd
}

func newDataflowsRefreshCommand() *cobra.Command {
	var (
		groupID     string
		notify      string
		processType string
	)

	cmd := &cobra.Command{
		Use:   "refresh DATAFLOW_ID",
		Short: "Trigger a dataflow refresh",
		Long:  "Queue a refresh of a dataflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireGroup(groupID)
			if err != nil {
				return err
			}

			option := powerbi.NotifyOption(notify)

			err = option.Validate()
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				err := client.Dataflows().Refresh(ctx, groupID, args[0], option, processType)
				if err != nil {
					return fmt.Errorf("failed to refresh dataflow: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Refresh of dataflow %s queued\n", args[0])

				return nil
			})
		},
	}

	addGroupFlag(cmd, &groupID)
	cmd.Flags().StringVar(&notify, "notify", string(powerbi.NotifyNoNotification),
		"mail notification (MailOnFailure, MailOnCompletion, NoNotification)")
	cmd.Flags().StringVar(&processType, "process-type", "", "refresh process type, e.g. default")

	return cmd
}
