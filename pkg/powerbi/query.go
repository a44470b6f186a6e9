package powerbi

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParams holds the OData system query options accepted by list endpoints.
type QueryParams struct {
	Top    int
	Skip   int
	Filter string
	Expand []string
	// Extra carries endpoint specific parameters (e.g. workspaceV2, processType).
	Extra map[string]string
}

// NewQueryParams creates empty query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Extra: make(map[string]string),
	}
}

// WithTop limits the number of returned entries.
func (q *QueryParams) WithTop(top int) *QueryParams {
	q.Top = top

	return q
}

// WithSkip skips the first n entries.
func (q *QueryParams) WithSkip(skip int) *QueryParams {
	q.Skip = skip

	return q
}

// WithFilter sets an OData filter expression.
func (q *QueryParams) WithFilter(filter string) *QueryParams {
	q.Filter = filter

	return q
}

// WithExpand adds navigation properties to expand inline.
func (q *QueryParams) WithExpand(properties ...string) *QueryParams {
	q.Expand = append(q.Expand, properties...)

	return q
}

// WithParam sets an arbitrary query parameter.
func (q *QueryParams) WithParam(key, value string) *QueryParams {
	if q.Extra == nil {
		q.Extra = make(map[string]string)
	}

	q.Extra[key] = value

	return q
}

// ToValues converts the parameters to url.Values. Zero values are omitted.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	if q.Top > 0 {
		values.Set("$top", strconv.Itoa(q.Top))
	}

	if q.Skip > 0 {
		values.Set("$skip", strconv.Itoa(q.Skip))
	}

	if q.Filter != "" {
		values.Set("$filter", q.Filter)
	}

	if len(q.Expand) > 0 {
		values.Set("$expand", strings.Join(q.Expand, ","))
	}

	for key, value := range q.Extra {
		values.Set(key, value)
	}

	return values
}
