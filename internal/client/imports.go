package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	internalhttp "github.com/fivetwenty-io/powerbi/internal/http"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

// importFormField is the multipart part carrying the uploaded file.
const importFormField = "file"

// ImportsClient implements powerbi.ImportsClient.
type ImportsClient struct {
	httpClient *internalhttp.Client
}

// NewImportsClient creates a new imports client.
func NewImportsClient(httpClient *internalhttp.Client) *ImportsClient {
	return &ImportsClient{
		httpClient: httpClient,
	}
}

// CreateTemporaryUploadLocation implements powerbi.ImportsClient.CreateTemporaryUploadLocation.
func (c *ImportsClient) CreateTemporaryUploadLocation(ctx context.Context) (*powerbi.TemporaryUploadLocation, error) {
	return c.createTemporaryUploadLocation(ctx, "")
}

// CreateTemporaryUploadLocationInGroup implements powerbi.ImportsClient.CreateTemporaryUploadLocationInGroup.
func (c *ImportsClient) CreateTemporaryUploadLocationInGroup(ctx context.Context, groupID string) (*powerbi.TemporaryUploadLocation, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.createTemporaryUploadLocation(ctx, groupID)
}

func (c *ImportsClient) createTemporaryUploadLocation(ctx context.Context, groupID string) (*powerbi.TemporaryUploadLocation, error) {
	req := bodyRequest(http.MethodPost, join(scope(groupID), "imports", "createTemporaryUploadLocation"), nil)

	return fetch[powerbi.TemporaryUploadLocation](ctx, c.httpClient, req, "creating temporary upload location")
}

// List implements powerbi.ImportsClient.List.
func (c *ImportsClient) List(ctx context.Context) (*powerbi.ODataList[powerbi.Import], error) {
	return c.list(ctx, "")
}

// ListInGroup implements powerbi.ImportsClient.ListInGroup.
func (c *ImportsClient) ListInGroup(ctx context.Context, groupID string) (*powerbi.ODataList[powerbi.Import], error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.list(ctx, groupID)
}

func (c *ImportsClient) list(ctx context.Context, groupID string) (*powerbi.ODataList[powerbi.Import], error) {
	req := getRequest(join(scope(groupID), "imports"), nil)

	return fetch[powerbi.ODataList[powerbi.Import]](ctx, c.httpClient, req, "listing imports")
}

// Get implements powerbi.ImportsClient.Get.
func (c *ImportsClient) Get(ctx context.Context, importID string) (*powerbi.Import, error) {
	return c.get(ctx, "", importID)
}

// GetInGroup implements powerbi.ImportsClient.GetInGroup.
func (c *ImportsClient) GetInGroup(ctx context.Context, groupID, importID string) (*powerbi.Import, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.get(ctx, groupID, importID)
}

func (c *ImportsClient) get(ctx context.Context, groupID, importID string) (*powerbi.Import, error) {
	err := requireIDs("import", importID)
	if err != nil {
		return nil, err
	}

	req := getRequest(join(scope(groupID), "imports", escape(importID)), nil)

	return fetch[powerbi.Import](ctx, c.httpClient, req, "getting import")
}

// Post implements powerbi.ImportsClient.Post. The file is uploaded as
// multipart/form-data. The dataset display name defaults to fileName.
func (c *ImportsClient) Post(ctx context.Context, fileName string, file io.Reader, options *powerbi.ImportOptions) (*powerbi.Import, error) {
	return c.post(ctx, "", fileName, file, options)
}

// PostInGroup implements powerbi.ImportsClient.PostInGroup.
func (c *ImportsClient) PostInGroup(ctx context.Context, groupID, fileName string, file io.Reader, options *powerbi.ImportOptions) (*powerbi.Import, error) {
	err := requireIDs("group", groupID)
	if err != nil {
		return nil, err
	}

	return c.post(ctx, groupID, fileName, file, options)
}

func (c *ImportsClient) post(ctx context.Context, groupID, fileName string, file io.Reader, options *powerbi.ImportOptions) (*powerbi.Import, error) {
	err := requireIDs("file name", fileName)
	if err != nil {
		return nil, err
	}

	if file == nil {
		return nil, absent("import file")
	}

	query, err := importQuery(fileName, options)
	if err != nil {
		return nil, err
	}

	body, contentType, err := multipartBody(fileName, file)
	if err != nil {
		return nil, err
	}

	req := &internalhttp.Request{
		Method:      http.MethodPost,
		Path:        join(scope(groupID), "imports"),
		Query:       query,
		RawBody:     body,
		ContentType: contentType,
	}

	return fetch[powerbi.Import](ctx, c.httpClient, req, "importing file")
}

func importQuery(fileName string, options *powerbi.ImportOptions) (url.Values, error) {
	if options == nil {
		options = &powerbi.ImportOptions{}
	}

	err := powerbi.ValidateOptional(options.NameConflict)
	if err != nil {
		return nil, err
	}

	query := url.Values{}

	displayName := options.DatasetDisplayName
	if displayName == "" {
		displayName = fileName
	}

	query.Set("datasetDisplayName", displayName)

	if options.NameConflict != "" {
		query.Set("nameConflict", string(options.NameConflict))
	}

	// The service only accepts skipReport=true.
	if options.SkipReport {
		query.Set("skipReport", "true")
	}

	return query, nil
}

func multipartBody(fileName string, file io.Reader) ([]byte, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(importFormField, fileName)
	if err != nil {
		return nil, "", fmt.Errorf("creating multipart form: %w", err)
	}

	_, err = io.Copy(part, file)
	if err != nil {
		return nil, "", fmt.Errorf("reading import file: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("closing multipart form: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}
