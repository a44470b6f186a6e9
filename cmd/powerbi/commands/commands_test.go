package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subcommandNames(cmd *cobra.Command) []string {
	var names []string
	for _, subcmd := range cmd.Commands() {
		names = append(names, subcmd.Name())
	}

	return names
}

func TestCommandGroups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cmd         *cobra.Command
		use         string
		subcommands []string
	}{
		{"config", NewConfigCommand(), "config", []string{"show", "set", "unset"}},
		{"token", NewTokenCommand(), "token", []string{"status", "refresh"}},
		{"groups", NewGroupsCommand(), "groups", []string{"list", "create", "delete", "users"}},
		{"dashboards", NewDashboardsCommand(), "dashboards", []string{"list", "tiles"}},
		{"reports", NewReportsCommand(), "reports", []string{"list", "pages", "export"}},
		{"datasets", NewDatasetsCommand(), "datasets", []string{"list", "refresh", "refreshes"}},
		{"dataflows", NewDataflowsCommand(), "dataflows", []string{"list", "refresh"}},
		{"gateways", NewGatewaysCommand(), "gateways", []string{"list", "datasources"}},
		{"capacities", NewCapacitiesCommand(), "capacities", []string{"list", "workloads"}},
		{"pipelines", NewPipelinesCommand(), "pipelines", []string{"list", "stages", "operations"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short)
			assert.NotEmpty(t, tt.cmd.Long)
			assert.ElementsMatch(t, tt.subcommands, subcommandNames(tt.cmd))
		})
	}
}

func TestLoginCommand(t *testing.T) {
	t.Parallel()

	cmd := NewLoginCommand()
	assert.Equal(t, "login", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	for _, name := range []string{"force", "stdin"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, "Flag %s should exist", name)
		assert.Equal(t, "false", flag.DefValue)
	}
}

func TestReportsExportCommand(t *testing.T) {
	t.Parallel()

	cmd := newReportsExportCommand()
	assert.Equal(t, "export REPORT_ID", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	for _, name := range []string{"group", "file", "format", "poll-interval", "timeout"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "Flag %s should exist", name)
	}

	assert.Equal(t, "f", cmd.Flags().Lookup("file").Shorthand)
	assert.Equal(t, "g", cmd.Flags().Lookup("group").Shorthand)
	assert.Equal(t, "5s", cmd.Flags().Lookup("poll-interval").DefValue)
}

func TestDatasetsRefreshesCommand(t *testing.T) {
	t.Parallel()

	cmd := newDatasetsRefreshesCommand()
	assert.Equal(t, "refreshes DATASET_ID", cmd.Use)
	assert.NotNil(t, cmd.Args)

	top := cmd.Flags().Lookup("top")
	require.NotNil(t, top)
	assert.Equal(t, "10", top.DefValue)
}

func TestGroupsListCommand(t *testing.T) {
	t.Parallel()

	cmd := newGroupsListCommand()
	assert.Equal(t, "list", cmd.Use)

	for _, name := range []string{"top", "skip", "filter"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "Flag %s should exist", name)
	}
}
