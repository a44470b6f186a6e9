package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// NewGatewaysCommand creates the gateways command group.
func NewGatewaysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gateways",
		Aliases: []string{"gateway", "gw"},
		Short:   "Browse gateways",
		Long:    "List on-premises gateways and their datasources",
	}

	cmd.AddCommand(newGatewaysListCommand())
	cmd.AddCommand(newGatewaysDatasourcesCommand())

	return cmd
}

func newGatewaysListCommand() *cobra.Command {
	renderer := ListRenderer[powerbi.Gateway]{
		Header: []string{"Name", "ID", "Type", "Status"},
		Row: func(gateway powerbi.Gateway) []string {
			return []string{gateway.Name, gateway.ID, valueOrNotAvailable(gateway.Type), valueOrNotAvailable(gateway.GatewayStatus)}
		},
		Empty: "No gateways found",
	}

	return &cobra.Command{
		Use:   "list",
		Short: "List gateways",
		Long:  "List the gateways the signed in user is an admin of",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				gateways, err := client.Gateways().List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list gateways: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), gateways.Value)
			})
		},
	}
}

func newGatewaysDatasourcesCommand() *cobra.Command {
	renderer := ListRenderer[powerbi.GatewayDatasource]{
		Header: []string{"Name", "ID", "Type", "Credential Type"},
		Row: func(datasource powerbi.GatewayDatasource) []string {
			return []string{
				valueOrNotAvailable(datasource.DatasourceName), datasource.ID,
				datasource.DatasourceType, valueOrNotAvailable(string(datasource.CredentialType)),
			}
		},
		Empty: "No datasources found",
	}

	return &cobra.Command{
		Use:   "datasources GATEWAY_ID",
		Short: "List gateway datasources",
		Long:  "List the datasources configured on a gateway",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				datasources, err := client.Gateways().ListDatasources(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to list gateway datasources: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), datasources.Value)
			})
		},
	}
}
