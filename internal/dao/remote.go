package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DataPath is the paged data endpoint.
	DataPath = "/api/data"

	// FacetsPath is the facet endpoint prefix.
	FacetsPath = "/api/facets/"

	// DefaultAPITimeout bounds a single page request.
	DefaultAPITimeout = 30 * time.Second

	maxResponseBytes = 32 << 20
)

// Query parameter names of the data endpoint.
const (
	ParamStart        = "start"
	ParamSize         = "size"
	ParamFilters      = "filters"
	ParamGlobalFilter = "globalFilter"
	ParamSorting      = "sorting"
)

// DataResponse is the body returned by the data endpoint.
type DataResponse struct {
	Data []Record    `json:"data"`
	Meta DataMetaRef `json:"meta"`
}

// DataMetaRef carries page independent metadata.
type DataMetaRef struct {
	TotalRowCount int `json:"totalRowCount"`
}

// RemoteSource pages through a REST endpoint.
type RemoteSource struct {
	base   *url.URL
	client *http.Client
	log    *slog.Logger
}

// NewRemoteSource creates a source for the endpoint rooted at baseURL.
func NewRemoteSource(baseURL string, client *http.Client, log *slog.Logger) (*RemoteSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultAPITimeout}
	}
	if log == nil {
		log = slog.Default()
	}
	return &RemoteSource{base: u, client: client, log: log}, nil
}

// RequestURL builds the data request for a snapshot.
func (r *RemoteSource) RequestURL(snap QuerySnapshot) (string, error) {
	snap = snap.normalized()
	filters, err := json.Marshal(snap.ColumnFilters)
	if err != nil {
		return "", fmt.Errorf("encode filters: %w", err)
	}
	sorting, err := json.Marshal(snap.Sorting)
	if err != nil {
		return "", fmt.Errorf("encode sorting: %w", err)
	}

	u := r.base.JoinPath(DataPath)
	q := u.Query()
	q.Set(ParamStart, strconv.Itoa(snap.Pagination.Offset()))
	q.Set(ParamSize, strconv.Itoa(snap.Pagination.PageSize))
	q.Set(ParamFilters, string(filters))
	q.Set(ParamGlobalFilter, snap.GlobalFilter)
	q.Set(ParamSorting, string(sorting))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// FetchPage requests one page from the endpoint.
func (r *RemoteSource) FetchPage(ctx context.Context, snap QuerySnapshot) (*ResultPage, error) {
	href, err := r.RequestURL(snap)
	if err != nil {
		return nil, &DataFetchError{Op: "build request", Err: err}
	}

	var resp DataResponse
	if err := r.getJSON(ctx, "fetch page", href, &resp); err != nil {
		return nil, err
	}

	page := &ResultPage{Rows: resp.Data, TotalRowCount: resp.Meta.TotalRowCount}
	if page.Rows == nil {
		page.Rows = []Record{}
	}
	if size := snap.Pagination.PageSize; size > 0 && len(page.Rows) > size {
		r.log.Warn("endpoint returned more rows than requested",
			"url", href, "rows", len(page.Rows), "size", size)
		page.Rows = page.Rows[:size]
	}
	if page.TotalRowCount < 0 {
		page.TotalRowCount = 0
	}

	return page, nil
}

// Facets requests the distinct values of a column.
func (r *RemoteSource) Facets(ctx context.Context, column string) ([]string, error) {
	href := r.base.JoinPath(FacetsPath, column).String()

	var out []string
	if err := r.getJSON(ctx, "fetch facets", href, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RemoteSource) getJSON(ctx context.Context, op, href string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return &DataFetchError{Op: op, URL: href, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := r.client.Do(req)
	if err != nil {
		return &DataFetchError{Op: op, URL: href, Err: err}
	}
	defer res.Body.Close()

	r.log.Debug("endpoint request", "url", href, "status", res.StatusCode, "elapsed", time.Since(start))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return &DataFetchError{Op: op, URL: href, Status: res.StatusCode}
	}
	if ct := res.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "json") {
		return &DataFetchError{Op: op, URL: href, Err: fmt.Errorf("unexpected content type %q", ct)}
	}

	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(v); err != nil {
		return &DataFetchError{Op: op, URL: href, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}
