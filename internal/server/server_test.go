package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/a1s/tgrid/internal/config/data"
	"github.com/a1s/tgrid/internal/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestServer(t *testing.T, src dao.Source, cfg data.Server) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv := httptest.NewServer(New(cfg, src, "test", discardLogger()).Handler(ctx))
	t.Cleanup(srv.Close)

	return srv
}

func sampleServer(t *testing.T) *httptest.Server {
	t.Helper()

	return newTestServer(t, dao.NewFileSource("", nil, nil, discardLogger()), data.Server{})
}

func get(t *testing.T, srv *httptest.Server, path string, q url.Values) *http.Response {
	t.Helper()

	u := srv.URL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	res, err := srv.Client().Get(u)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })

	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func TestParseSnapshot(t *testing.T) {
	t.Parallel()

	uu := map[string]struct {
		q     url.Values
		index int
		size  int
		err   bool
	}{
		"defaults": {
			q:    url.Values{},
			size: dao.DefaultPageSize,
		},
		"paged": {
			q:     url.Values{dao.ParamStart: {"20"}, dao.ParamSize: {"10"}},
			index: 2,
			size:  10,
		},
		"unaligned": {
			q:   url.Values{dao.ParamStart: {"15"}, dao.ParamSize: {"10"}},
			err: true,
		},
		"bad-start": {
			q:   url.Values{dao.ParamStart: {"x"}},
			err: true,
		},
		"negative-start": {
			q:   url.Values{dao.ParamStart: {"-10"}},
			err: true,
		},
		"zero-size": {
			q:   url.Values{dao.ParamSize: {"0"}},
			err: true,
		},
		"huge-size": {
			q:   url.Values{dao.ParamSize: {"100000"}},
			err: true,
		},
		"bad-filters": {
			q:   url.Values{dao.ParamFilters: {"{"}},
			err: true,
		},
		"filter-no-id": {
			q:   url.Values{dao.ParamFilters: {`[{"value":"x"}]`}},
			err: true,
		},
		"bad-sorting": {
			q:   url.Values{dao.ParamSorting: {`{"id":"price"}`}},
			err: true,
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			t.Parallel()
			snap, err := ParseSnapshot(u.q)
			if u.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.index, snap.Pagination.PageIndex)
			assert.Equal(t, u.size, snap.Pagination.PageSize)
		})
	}
}

func TestParseSnapshotQuery(t *testing.T) {
	t.Parallel()

	snap, err := ParseSnapshot(url.Values{
		dao.ParamFilters:      {`[{"id":"category","value":["Shoes"]},{"id":"price","value":[10,null]}]`},
		dao.ParamSorting:      {`[{"id":"price","desc":true},{"id":"name","desc":false}]`},
		dao.ParamGlobalFilter: {"run"},
	})
	require.NoError(t, err)

	require.Len(t, snap.ColumnFilters, 2)
	assert.Equal(t, dao.FieldCategory, snap.ColumnFilters[0].ID)
	assert.Equal(t, []any{"Shoes"}, snap.ColumnFilters[0].Value)
	assert.Equal(t, []any{float64(10), nil}, snap.ColumnFilters[1].Value)
	assert.Equal(t, []dao.SortDirective{
		{ID: dao.FieldPrice, Desc: true},
		{ID: dao.FieldName},
	}, snap.Sorting)
	assert.Equal(t, "run", snap.GlobalFilter)
}

func TestDataEndpoint(t *testing.T) {
	t.Parallel()

	srv := sampleServer(t)

	uu := map[string]struct {
		q     url.Values
		rows  int
		total int
	}{
		"first": {
			q:     url.Values{dao.ParamStart: {"0"}, dao.ParamSize: {"10"}},
			rows:  10,
			total: 25,
		},
		"last": {
			q:     url.Values{dao.ParamStart: {"20"}, dao.ParamSize: {"10"}},
			rows:  5,
			total: 25,
		},
		"out-of-range": {
			q:     url.Values{dao.ParamStart: {"100"}, dao.ParamSize: {"10"}},
			total: 25,
		},
		"category": {
			q: url.Values{
				dao.ParamSize:    {"10"},
				dao.ParamFilters: {`[{"id":"category","value":["Shoes"]}]`},
			},
			rows:  7,
			total: 7,
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			t.Parallel()
			res := get(t, srv, dao.DataPath, u.q)
			require.Equal(t, http.StatusOK, res.StatusCode)
			assert.Contains(t, res.Header.Get("Content-Type"), "application/json")
			assert.NotEmpty(t, res.Header.Get(RequestIDHeader))

			body := decode[dao.DataResponse](t, res)
			assert.Len(t, body.Data, u.rows)
			assert.NotNil(t, body.Data)
			assert.Equal(t, u.total, body.Meta.TotalRowCount)
		})
	}
}

func TestDataEndpointErrors(t *testing.T) {
	t.Parallel()

	srv := sampleServer(t)

	uu := map[string]struct {
		q url.Values
	}{
		"bad-size":       {q: url.Values{dao.ParamSize: {"nope"}}},
		"bad-filters":    {q: url.Values{dao.ParamFilters: {"not json"}}},
		"unknown-column": {q: url.Values{dao.ParamSorting: {`[{"id":"colour"}]`}}},
		"unaligned-start": {q: url.Values{dao.ParamStart: {"5"}, dao.ParamSize: {"10"}}},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			t.Parallel()
			res := get(t, srv, dao.DataPath, u.q)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			body := decode[ErrorResponse](t, res)
			assert.Equal(t, http.StatusBadRequest, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestDataEndpointSourceFailure(t *testing.T) {
	t.Parallel()

	src := dao.SourceFunc(func(context.Context, dao.QuerySnapshot) (*dao.ResultPage, error) {
		return nil, &dao.DataFetchError{Op: "select records", Err: errors.New("disk gone")}
	})
	srv := newTestServer(t, src, data.Server{})

	res := get(t, srv, dao.DataPath, nil)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	body := decode[ErrorResponse](t, res)
	assert.Equal(t, "data source unavailable", body.Message)

	res = get(t, srv, dao.FacetsPath+dao.FieldCategory, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = get(t, srv, SamplePath, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, decode[[]dao.Record](t, res), 25)
}

func TestRemoteRoundTrip(t *testing.T) {
	t.Parallel()

	srv := sampleServer(t)
	r, err := dao.NewRemoteSource(srv.URL, srv.Client(), discardLogger())
	require.NoError(t, err)

	snap := dao.NewQuerySnapshot()
	snap.Pagination = dao.Pagination{PageIndex: 2, PageSize: 10}
	page, err := r.FetchPage(context.Background(), snap)
	require.NoError(t, err)
	assert.Len(t, page.Rows, 5)
	assert.Equal(t, 25, page.TotalRowCount)

	snap = dao.NewQuerySnapshot()
	snap.ColumnFilters = []dao.ColumnFilter{{ID: dao.FieldCategory, Value: []string{"Shoes"}}}
	snap.Sorting = []dao.SortDirective{{ID: dao.FieldPrice, Desc: true}}
	page, err = r.FetchPage(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, 7, page.TotalRowCount)
	for i := 1; i < len(page.Rows); i++ {
		assert.Equal(t, "Shoes", page.Rows[i].Category)
		assert.GreaterOrEqual(t, page.Rows[i-1].Price, page.Rows[i].Price)
	}

	ff, err := r.Facets(context.Background(), dao.FieldCategory)
	require.NoError(t, err)
	assert.Equal(t, []string{"Accessories", "Clothing", "Electronics", "Shoes"}, ff)

	snap.Sorting = []dao.SortDirective{{ID: "colour"}}
	_, err = r.FetchPage(context.Background(), snap)
	assert.True(t, dao.IsDataFetchError(err))
}

func TestFacetsEndpoint(t *testing.T) {
	t.Parallel()

	srv := sampleServer(t)

	res := get(t, srv, dao.FacetsPath+dao.FieldCategory, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, decode[[]string](t, res), 4)

	res = get(t, srv, dao.FacetsPath+"colour", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestSampleAndHealth(t *testing.T) {
	t.Parallel()

	srv := sampleServer(t)

	res := get(t, srv, SamplePath, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	rr := decode[[]dao.Record](t, res)
	require.Len(t, rr, 25)
	assert.Equal(t, "Runner Sneaker", rr[0].Name)

	res = get(t, srv, HealthPath, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	h := decode[map[string]any](t, res)
	assert.Equal(t, "ok", h["status"])
	assert.Equal(t, "test", h["version"])
}

func TestCORS(t *testing.T) {
	t.Parallel()

	origin := "http://localhost:5173"
	srv := newTestServer(t, dao.NewFileSource("", nil, nil, discardLogger()), data.Server{
		CORSOrigins: []string{origin},
	})

	req, err := http.NewRequest(http.MethodGet, srv.URL+dao.DataPath, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", origin)
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, origin, res.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	res2, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res2.Body.Close()
	assert.Empty(t, res2.Header.Get("Access-Control-Allow-Origin"))
}

func TestServeShutdown(t *testing.T) {
	t.Parallel()

	s := New(data.Server{Addr: "127.0.0.1:0"}, dao.NewRecordSource(nil, nil), "test", discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	assert.NoError(t, s.Serve(ctx))
}
