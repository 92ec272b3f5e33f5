// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a1s/tgrid/internal/config/data"
	"github.com/a1s/tgrid/internal/dao"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	// HealthPath reports liveness.
	HealthPath = "/healthz"

	// SamplePath serves the full record array.
	SamplePath = "/" + dao.SampleDataFile

	shutdownTimeout = 10 * time.Second
)

// recordLister exposes the full record set of in-memory sources.
type recordLister interface {
	Records(ctx context.Context) ([]dao.Record, error)
}

// Server serves grid pages over HTTP.
type Server struct {
	cfg     data.Server
	source  dao.Source
	log     *slog.Logger
	version string
	started time.Time
}

// New returns a server for source.
func New(cfg data.Server, source dao.Source, version string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		source:  source,
		log:     log,
		version: version,
		started: time.Now(),
	}
}

// Handler builds the router. ctx bounds background middleware work.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(chimw.Recoverer)
	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
			MaxAge:         300,
		}))
	}

	r.Get(HealthPath, s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(RateLimiter(ctx, RateLimitConfig{
			RequestsPerSecond: s.cfg.RateLimitRPS,
			Burst:             s.cfg.RateLimitBurst,
		}))
		r.Get(dao.DataPath, s.handleData)
		r.Get(dao.FacetsPath+"{column}", s.handleFacets)
		r.Get(SamplePath, s.handleSample)
	})

	return r
}

// Serve listens on the configured address until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.log.Info("shutting down data endpoint")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.log.Error("shutdown failed", "error", err)
		}
	}()

	s.log.Info("data endpoint listening", "addr", s.cfg.Addr, "version", s.version)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", s.cfg.Addr, err)
	}
	<-done

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        s.version,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	snap, err := ParseSnapshot(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.source.FetchPage(r.Context(), snap)
	if err != nil {
		s.fail(w, r, "fetch page", err)
		return
	}
	rows := page.Rows
	if rows == nil {
		rows = []dao.Record{}
	}
	s.log.Debug("page served",
		"request_id", RequestIDFromContext(r.Context()),
		"start", snap.Pagination.Offset(),
		"size", snap.Pagination.PageSize,
		"rows", len(rows),
		"total", page.TotalRowCount,
	)

	writeJSON(w, http.StatusOK, dao.DataResponse{
		Data: rows,
		Meta: dao.DataMetaRef{TotalRowCount: page.TotalRowCount},
	})
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	f, ok := s.source.(dao.Faceter)
	if !ok {
		writeError(w, http.StatusNotFound, "facets not supported by this source")
		return
	}
	column := chi.URLParam(r, "column")
	vv, err := f.Facets(r.Context(), column)
	if err != nil {
		if errors.Is(err, dao.ErrUnknownColumn) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.fail(w, r, "facets", err)
		return
	}

	writeJSON(w, http.StatusOK, vv)
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	l, ok := s.source.(recordLister)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(dao.SampleData())
		return
	}
	rr, err := l.Records(r.Context())
	if err != nil {
		s.fail(w, r, "records", err)
		return
	}

	writeJSON(w, http.StatusOK, rr)
}

// fail maps source errors to statuses. Bad queries are the caller's fault.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	id := RequestIDFromContext(r.Context())
	switch {
	case errors.Is(err, context.Canceled):
		s.log.Debug("request cancelled", "op", op, "request_id", id)
		return
	case dao.IsDataFetchError(err):
		s.log.Error("source failed", "op", op, "request_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "data source unavailable")
	default:
		s.log.Warn("bad query", "op", op, "request_id", id, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// ParseSnapshot decodes the data endpoint query parameters.
// Missing parameters take their defaults. start must fall on a page boundary.
func ParseSnapshot(q url.Values) (dao.QuerySnapshot, error) {
	snap := dao.NewQuerySnapshot()

	start, err := intParam(q, dao.ParamStart, 0)
	if err != nil {
		return snap, err
	}
	if start < 0 {
		return snap, fmt.Errorf("invalid %s %d: must not be negative", dao.ParamStart, start)
	}
	size, err := intParam(q, dao.ParamSize, dao.DefaultPageSize)
	if err != nil {
		return snap, err
	}
	if size < 1 || size > data.MaxViewPageSize {
		return snap, fmt.Errorf("invalid %s %d: must be in [1, %d]", dao.ParamSize, size, data.MaxViewPageSize)
	}
	if start%size != 0 {
		return snap, fmt.Errorf("invalid %s %d: must be a multiple of %s %d", dao.ParamStart, start, dao.ParamSize, size)
	}
	snap.Pagination = dao.Pagination{PageIndex: start / size, PageSize: size}

	if err := jsonParam(q, dao.ParamFilters, &snap.ColumnFilters); err != nil {
		return snap, err
	}
	for _, f := range snap.ColumnFilters {
		if f.ID == "" {
			return snap, fmt.Errorf("invalid %s: filter without id", dao.ParamFilters)
		}
	}
	if err := jsonParam(q, dao.ParamSorting, &snap.Sorting); err != nil {
		return snap, err
	}
	for _, d := range snap.Sorting {
		if d.ID == "" {
			return snap, fmt.Errorf("invalid %s: sort without id", dao.ParamSorting)
		}
	}
	snap.GlobalFilter = q.Get(dao.ParamGlobalFilter)

	return snap, nil
}

func intParam(q url.Values, key string, def int) (int, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func jsonParam[T any](q url.Values, key string, v *[]T) error {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil
	}
	var out []T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if out != nil {
		*v = out
	}
	return nil
}
