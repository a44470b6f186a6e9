package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// ReportsClient implements powerbi.ReportsClient.
type ReportsClient struct {
	httpClient *internalhttp.Client
}

// NewReportsClient creates a new reports client.
func NewReportsClient(httpClient *internalhttp.Client) *ReportsClient {
	return &ReportsClient{
		httpClient: httpClient,
	}
}

func reportPath(groupID, reportID string, segments ...string) string {
	return join(append([]string{scope(groupID), "reports", escape(reportID)}, segments...)...)
}

// List implements powerbi.ReportsClient.List.
func (c *ReportsClient) List(ctx context.Context) (*powerbi.ODataList[powerbi.Report], error) {
	return c.list(ctx, "")
}

// ListInGroup implements powerbi.ReportsClient.ListInGroup.
func (c *ReportsClient) ListInGroup(ctx context.Context, groupID string) (*powerbi.ODataList[powerbi.Report], error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.list(ctx, groupID)
}

func (c *ReportsClient) list(ctx context.Context, groupID string) (*powerbi.ODataList[powerbi.Report], error) {
	req := getRequest(join(scope(groupID), "reports"), nil)

	return fetch[powerbi.ODataList[powerbi.Report]](ctx, c.httpClient, req, "listing reports")
}

// Get implements powerbi.ReportsClient.Get.
func (c *ReportsClient) Get(ctx context.Context, reportID string) (*powerbi.Report, error) {
	return c.get(ctx, "", reportID)
}

// GetInGroup implements powerbi.ReportsClient.GetInGroup.
func (c *ReportsClient) GetInGroup(ctx context.Context, groupID, reportID string) (*powerbi.Report, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.get(ctx, groupID, reportID)
}

func (c *ReportsClient) get(ctx context.Context, groupID, reportID string) (*powerbi.Report, error) {
	err := requireIDs("report", reportID)
	if err != nil {
		return nil, err
	}

	return fetch[powerbi.Report](ctx, c.httpClient, getRequest(reportPath(groupID, reportID), nil), "getting report")
}

// ListPages implements powerbi.ReportsClient.ListPages.
func (c *ReportsClient) ListPages(ctx context.Context, reportID string) (*powerbi.ODataList[powerbi.Page], error) {
	return c.listPages(ctx, "", reportID)
}

// ListPagesInGroup implements powerbi.ReportsClient.ListPagesInGroup.
func (c *ReportsClient) ListPagesInGroup(ctx context.Context, groupID, reportID string) (*powerbi.ODataList[powerbi.Page], error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.listPages(ctx, groupID, reportID)
}

func (c *ReportsClient) listPages(ctx context.Context, groupID, reportID string) (*powerbi.ODataList[powerbi.Page], error) {
	err := requireIDs("report", reportID)
	if err != nil {
		return nil, err
	}

	req := getRequest(reportPath(groupID, reportID, "pages"), nil)

	return fetch[powerbi.ODataList[powerbi.Page]](ctx, c.httpClient, req, "listing report pages")
}

// GetPage implements powerbi.ReportsClient.GetPage.
func (c *ReportsClient) GetPage(ctx context.Context, reportID, pageName string) (*powerbi.Page, error) {
	return c.getPage(ctx, "", reportID, pageName)
}

// GetPageInGroup implements powerbi.ReportsClient.GetPageInGroup.
func (c *ReportsClient) GetPageInGroup(ctx context.Context, groupID, reportID, pageName string) (*powerbi.Page, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.getPage(ctx, groupID, reportID, pageName)
}

func (c *ReportsClient) getPage(ctx context.Context, groupID, reportID, pageName string) (*powerbi.Page, error) {
	err := requireIDs("report", reportID, "page", pageName)
	if err != nil {
		return nil, err
	}

	req := getRequest(reportPath(groupID, reportID, "pages", escape(pageName)), nil)

	return fetch[powerbi.Page](ctx, c.httpClient, req, "getting report page")
}

// Clone implements powerbi.ReportsClient.Clone.
func (c *ReportsClient) Clone(ctx context.Context, reportID string, request *powerbi.CloneReportRequest) (*powerbi.Report, error) {
	return c.clone(ctx, "", reportID, request)
}

// CloneInGroup implements powerbi.ReportsClient.CloneInGroup.
func (c *ReportsClient) CloneInGroup(ctx context.Context, groupID, reportID string, request *powerbi.CloneReportRequest) (*powerbi.Report, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.clone(ctx, groupID, reportID, request)
}

func (c *ReportsClient) clone(ctx context.Context, groupID, reportID string, request *powerbi.CloneReportRequest) (*powerbi.Report, error) {
	err := requireIDs("report", reportID)
	if err != nil {
		return nil, err
	}

	if request == nil {
		return nil, absent("clone request")
	}

	if request.Name == "" {
		return nil, missing("report name")
	}

	req := bodyRequest(http.MethodPost, reportPath(groupID, reportID, "Clone"), request)

	return fetch[powerbi.Report](ctx, c.httpClient, req, "cloning report")
}

// Delete implements powerbi.ReportsClient.Delete.
func (c *ReportsClient) Delete(ctx context.Context, reportID string) error {
	return c.delete(ctx, "", reportID)
}

// DeleteInGroup implements powerbi.ReportsClient.DeleteInGroup.
func (c *ReportsClient) DeleteInGroup(ctx context.Context, groupID, reportID string) error {
	err := requireIDs("group", groupID)
	if err != nil {
		return err
	}

	return c.delete(ctx, groupID, reportID)
}

func (c *ReportsClient) delete(ctx context.Context, groupID, reportID string) error {
	err := requireIDs("report", reportID)
	if err != nil {
		return err
	}

	return perform(ctx, c.httpClient, bodyRequest(http.MethodDelete, reportPath(groupID, reportID), nil), "deleting report")
}

// Export implements powerbi.ReportsClient.Export. The .pbix file is returned
// unchanged.
func (c *ReportsClient) Export(ctx context.Context, reportID string) ([]byte, error) {
	return c.export(ctx, "", reportID)
}

// ExportInGroup implements powerbi.ReportsClient.ExportInGroup.
func (c *ReportsClient) ExportInGroup(ctx context.Context, groupID, reportID string) ([]byte, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.export(ctx, groupID, reportID)
}

func (c *ReportsClient) export(ctx context.Context, groupID, reportID string) ([]byte, error) {
	err := requireIDs("report", reportID)
	if err != nil {
		return nil, err
	}

	return download(ctx, c.httpClient, reportPath(groupID, reportID, "Export"), "exporting report")
}

// ListDatasources implements powerbi.ReportsClient.ListDatasources.
func (c *ReportsClient) ListDatasources(ctx context.Context, reportID string) (*powerbi.ODataList[powerbi.Datasource], error) {
	err := requireIDs("report", reportID)
	if err != nil {
		return nil, err
	}

	req := getRequest(reportPath("", reportID, "datasources"), nil)

	return fetch[powerbi.ODataList[powerbi.Datasource]](ctx, c.httpClient, req, "listing report datasources")
}

// ExportToFile implements powerbi.ReportsClient.ExportToFile.
func (c *ReportsClient) ExportToFile(ctx context.Context, reportID string, request *powerbi.ExportReportRequest) (*powerbi.Export, error) {
	return c.exportToFile(ctx, "", reportID, request)
}

// ExportToFileInGroup implements powerbi.ReportsClient.ExportToFileInGroup.
func (c *ReportsClient) ExportToFileInGroup(ctx context.Context, groupID, reportID string, request *powerbi.ExportReportRequest) (*powerbi.Export, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.exportToFile(ctx, groupID, reportID, request)
}

func (c *ReportsClient) exportToFile(ctx context.Context, groupID, reportID string, request *powerbi.ExportReportRequest) (*powerbi.Export, error) {
	err := requireIDs("report", reportID)
	if err != nil {
		return nil, err
	}

	if request == nil {
		return nil, absent("export request")
	}

	err = request.Format.Validate()
	if err != nil {
		return nil, err
	}

	req := bodyRequest(http.MethodPost, reportPath(groupID, reportID, "ExportTo"), request)

	return fetch[powerbi.Export](ctx, c.httpClient, req, "starting report export")
}

// GetExportToFileStatus implements powerbi.ReportsClient.GetExportToFileStatus.
func (c *ReportsClient) GetExportToFileStatus(ctx context.Context, reportID, exportID string) (*powerbi.Export, error) {
	return c.exportStatus(ctx, "", reportID, exportID)
}

// GetExportToFileStatusInGroup implements powerbi.ReportsClient.GetExportToFileStatusInGroup.
func (c *ReportsClient) GetExportToFileStatusInGroup(ctx context.Context, groupID, reportID, exportID string) (*powerbi.Export, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.exportStatus(ctx, groupID, reportID, exportID)
}

func (c *ReportsClient) exportStatus(ctx context.Context, groupID, reportID, exportID string) (*powerbi.Export, error) {
	err := requireIDs("report", reportID, "export", exportID)
	if err != nil {
		return nil, err
	}

	req := getRequest(reportPath(groupID, reportID, "exports", escape(exportID)), nil)

	return fetch[powerbi.Export](ctx, c.httpClient, req, "getting report export status")
}

// GetExportToFileResult implements powerbi.ReportsClient.GetExportToFileResult.
func (c *ReportsClient) GetExportToFileResult(ctx context.Context, reportID, exportID string) ([]byte, error) {
	return c.exportResult(ctx, "", reportID, exportID)
}

// GetExportToFileResultInGroup implements powerbi.ReportsClient.GetExportToFileResultInGroup.
func (c *ReportsClient) GetExportToFileResultInGroup(ctx context.Context, groupID, reportID, exportID string) ([]byte, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.exportResult(ctx, groupID, reportID, exportID)
}

func (c *ReportsClient) exportResult(ctx context.Context, groupID, reportID, exportID string) ([]byte, error) {
	err := requireIDs("report", reportID, "export", exportID)
	if err != nil {
		return nil, err
	}

	return download(ctx, c.httpClient, reportPath(groupID, reportID, "exports", escape(exportID), "file"), "downloading report export")
}
