package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/powerbi/internal/constants"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

const (
	exportStatusSucceeded = "Succeeded"
	exportStatusFailed    = "Failed"

	defaultExportPollInterval = 5 * time.Second
	pbixExtension             = ".pbix"
)

// NewReportsCommand creates the reports command group.
func NewReportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reports",
		Aliases: []string{"report"},
		Short:   "Browse and export reports",
		Long:    "List reports and their pages, and export reports to files",
	}

	cmd.AddCommand(newReportsListCommand())
	cmd.AddCommand(newReportsPagesCommand())
	cmd.AddCommand(newReportsExportCommand())

	return cmd
}

func newReportsListCommand() *cobra.Command {
	var groupID string

	renderer := ListRenderer[powerbi.Report]{
		Header: []string{"Name", "ID", "Type", "Dataset"},
		Row: func(report powerbi.Report) []string {
			return []string{report.Name, report.ID, valueOrNotAvailable(report.ReportType), valueOrNotAvailable(report.DatasetID)}
		},
		Empty: "No reports found",
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports",
		Long:  "List the reports of a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				var (
					reports *powerbi.ODataList[powerbi.Report]
					err     error
				)

				if groupID != "" {
					reports, err = client.Reports().ListInGroup(ctx, groupID)
				} else {
					reports, err = client.Reports().List(ctx)
				}

				if err != nil {
					return fmt.Errorf("failed to list reports: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), reports.Value)
			})
		},
	}

	addGroupFlag(cmd, &groupID)

	return cmd
}

func newReportsPagesCommand() *cobra.Command {
	var groupID string

	renderer := ListRenderer[powerbi.Page]{
		Header: []string{"Order", "Display Name", "Name"},
		Row: func(page powerbi.Page) []string {
			return []string{strconv.Itoa(page.Order), page.DisplayName, page.Name}
		},
		Empty: "No pages found",
	}

	cmd := &cobra.Command{
		Use:   "pages REPORT_ID",
		Short: "List report pages",
		Long:  "List the pages of a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				var (
					pages *powerbi.ODataList[powerbi.Page]
					err   error
				)

				if groupID != "" {
					pages, err = client.Reports().ListPagesInGroup(ctx, groupID, args[0])
				} else {
					pages, err = client.Reports().ListPages(ctx, args[0])
				}

				if err != nil {
					return fmt.Errorf("failed to list pages: %w", err)
				}

				return renderer.Render(cmd.OutOrStdout(), outputFormat(), pages.Value)
			})
		},
	}

	addGroupFlag(cmd, &groupID)

	return cmd
}

func newReportsExportCommand() *cobra.Command {
	var (
		groupID      string
		file         string
		format       string
		pollInterval time.Duration
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "export REPORT_ID",
		Short: "Export a report to a file",
		Long: `Export a report to a file.

Without --format the report is downloaded as .pbix. With --format the
asynchronous export-to-file job is started and polled until it finishes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client powerbi.Client) error {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()

				exporter := reportExporter{
					reports:      client.Reports(),
					groupID:      groupID,
					reportID:     args[0],
					pollInterval: pollInterval,
				}

				data, extension, err := exporter.export(ctx, powerbi.ExportFileFormat(strings.ToUpper(format)))
				if err != nil {
					return err
				}

				if file == "" {
					file = args[0] + extension
				}

				err = os.WriteFile(file, data, constants.ExportFilePerm)
				if err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported report %s to %s (%d bytes)\n", args[0], file, len(data))

				return nil
			})
		},
	}

	addGroupFlag(cmd, &groupID)
	cmd.Flags().StringVarP(&file, "file", "f", "", "output file, defaults to REPORT_ID with the export's extension")
	cmd.Flags().StringVar(&format, "format", "", "export format (PDF, PPTX, PNG, ...) instead of .pbix")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", defaultExportPollInterval, "status polling interval")
	cmd.Flags().DurationVar(&timeout, "timeout", constants.ExtendedHTTPTimeout, "give up after this long")

	return cmd
}

// reportExporter downloads a report, either directly or through an
// export-to-file job.
type reportExporter struct {
	reports      powerbi.ReportsClient
	groupID      string
	reportID     string
	pollInterval time.Duration
}

// export returns the file content and its extension.
func (e reportExporter) export(ctx context.Context, format powerbi.ExportFileFormat) ([]byte, string, error) {
	if format == "" {
		data, err := e.download(ctx)

		return data, pbixExtension, err
	}

	err := format.Validate()
	if err != nil {
		return nil, "", err
	}

	job, err := e.start(ctx, &powerbi.ExportReportRequest{Format: format})
	if err != nil {
		return nil, "", fmt.Errorf("failed to start export: %w", err)
	}

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for job.Status != exportStatusSucceeded {
		if job.Status == exportStatusFailed {
			return nil, "", fmt.Errorf("%w: export %s of report %s", constants.ErrExportFailed, job.ID, e.reportID)
		}

		select {
		case <-ctx.Done():
			return nil, "", fmt.Errorf("waiting for export %s: %w", job.ID, ctx.Err())
		case <-ticker.C:
		}

		job, err = e.status(ctx, job.ID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to get export status: %w", err)
		}
	}

	data, err := e.result(ctx, job.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download export: %w", err)
	}

	extension := job.ResourceFileExtension
	if extension == "" {
		extension = "." + strings.ToLower(string(format))
	}

	return data, extension, nil
}

func (e reportExporter) download(ctx context.Context) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if e.groupID != "" {
		data, err = e.reports.ExportInGroup(ctx, e.groupID, e.reportID)
	} else {
		data, err = e.reports.Export(ctx, e.reportID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to export report: %w", err)
	}

	return data, nil
}

func (e reportExporter) start(ctx context.Context, request *powerbi.ExportReportRequest) (*powerbi.Export, error) {
	if e.groupID != "" {
		return e.reports.ExportToFileInGroup(ctx, e.groupID, e.reportID, request)
	}

	return e.reports.ExportToFile(ctx, e.reportID, request)
}

func (e reportExporter) status(ctx context.Context, exportID string) (*powerbi.Export, error) {
	if e.groupID != "" {
		return e.reports.GetExportToFileStatusInGroup(ctx, e.groupID, e.reportID, exportID)
	}

	return e.reports.GetExportToFileStatus(ctx, e.reportID, exportID)
}

func (e reportExporter) result(ctx context.Context, exportID string) ([]byte, error) {
	if e.groupID != "" {
		return e.reports.GetExportToFileResultInGroup(ctx, e.groupID, e.reportID, exportID)
	}

	return e.reports.GetExportToFileResult(ctx, e.reportID, exportID)
}
