package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// NewPipelinesCommand creates the pipelines command group.
func NewPipelinesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pipelines",
		Aliases: []string{"pipeline"},
		Short:   "Browse deployment pipelines",
		Long:    "List deployment pipelines, their stages and operations",
	}

	cmd.AddCommand(newPipelinesListCommand())
	cmd.AddCommand(newPipelinesStagesCommand())
	cmd.AddCommand(newPipelinesOperationsCommand())

	return cmd
}

func newPipelinesListCommand() *cobra.Command {
	renderer := ListRenderer[powerbi.Pipeline]{
		Header: []string{"Name", "ID", "Description"},
		Row: func(pipeline powerbi.Pipeline) []string {
			return []string{pipeline.DisplayName, pipeline.ID, valueOrNotAvailable(pipeline.Description)}
		},
		Empty: "No pipelines found",
	}

	return &cobra.Command{
		Use:   "list",
		Short: "List deployment pipelines",
		Long:  "List the deployment pipelines the signed in user has access to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				pipelines, err := client.Pipelines().List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list pipelines: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), pipelines.Value)
			})
		},
	}
}

func newPipelinesStagesCommand() *cobra.Command {
	renderer := ListRenderer[powerbi.PipelineStage]{
		Header: []string{"Order", "Workspace", "Workspace ID"},
		Row: func(stage powerbi.PipelineStage) []string {
			return []string{strconv.Itoa(stage.Order), valueOrNotAvailable(stage.WorkspaceName), valueOrNotAvailable(stage.WorkspaceID)}
		},
		Empty: "No stages found",
	}

	return &cobra.Command{
		Use:   "stages PIPELINE_ID",
		Short: "List pipeline stages",
		Long:  "List the stages of a deployment pipeline and their assigned workspaces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				pipeline, err := client.Pipelines().Get(ctx, args[0], true)
				if err != nil {
					return fmt.Errorf("failed to get pipeline: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), pipeline.Stages)
			})
		},
	}
}

func newPipelinesOperationsCommand() *cobra.Command {
	renderer := ListRenderer[powerbi.PipelineOperation]{
		Header: []string{"ID", "Type", "Status", "Source Stage", "Last Updated"},
		Row: func(operation powerbi.PipelineOperation) []string {
			return []string{
				operation.ID, valueOrNotAvailable(operation.Type), valueOrNotAvailable(operation.Status),
				strconv.Itoa(operation.SourceStageOrder), formatTime(operation.LastUpdatedTime),
			}
		},
		Empty: "No operations found",
	}

	return &cobra.Command{
		Use:   "operations PIPELINE_ID",
		Short: "List pipeline operations",
		Long:  "List the recent deploy operations of a deployment pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				operations, err := client.Pipelines().ListOperations(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to list pipeline operations: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), operations.Value)
			})
		},
	}
}
