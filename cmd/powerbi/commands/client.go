package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// withClient runs fn with an API client built from the configuration and
// releases it afterwards.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client powerbi.Client) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, cleanup, err := createClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(ctx, client)
}

// addGroupFlag registers the optional --group flag shared by workspace scoped commands.
func addGroupFlag(cmd *cobra.Command, groupID *string) {
	cmd.Flags().StringVarP(groupID, "group", "g", "", "workspace (group) ID, defaults to My workspace")
}
