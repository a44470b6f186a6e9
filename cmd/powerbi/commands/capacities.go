package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// NewCapacitiesCommand creates the capacities command group.
func NewCapacitiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "capacities",
		Aliases: []string{"capacity", "cap"},
		Short:   "Browse capacities",
		Long:    "List capacities and their workloads",
	}

	cmd.AddCommand(newCapacitiesListCommand())
	cmd.AddCommand(newCapacitiesWorkloadsCommand())

	return cmd
}

func newCapacitiesListCommand() *cobra.Command {
	renderer := ListRenderer[powerbi.Capacity]{
		Header: []string{"Name", "ID", "SKU", "State", "Region", "Admins"},
		Row: func(capacity powerbi.Capacity) []string {
			return []string{
				capacity.DisplayName, capacity.ID, valueOrNotAvailable(capacity.SKU),
				valueOrNotAvailable(capacity.State), valueOrNotAvailable(capacity.Region),
				strings.Join(capacity.Admins, ", "),
			}
		},
		Empty: "No capacities found",
	}

	return &cobra.Command{
		Use:   "list",
		Short: "List capacities",
		Long:  "List the capacities the signed in user has access to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				capacities, err := client.Capacities().List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list capacities: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), capacities.Value)
			})
		},
	}
}

func newCapacitiesWorkloadsCommand() *cobra.Command {
	renderer := ListRenderer[powerbi.Workload]{
		Header: []string{"Name", "State", "Max Memory %"},
		Row: func(workload powerbi.Workload) []string {
			return []string{workload.Name, string(workload.State), strconv.Itoa(workload.MaxMemoryPercentageSetByUser)}
		},
		Empty: "No workloads found",
	}

	return &cobra.Command{
		Use:   "workloads CAPACITY_ID",
		Short: "List capacity workloads",
		Long:  "List the workloads of a capacity and their state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				workloads, err := client.Capacities().ListWorkloads(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to list workloads: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), workloads.Value)
			})
		},
	}
}
