// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/a1s/tgrid/internal/aws"
)

// SourceConfig describes the data source to build.
type SourceConfig struct {
	Kind    SourceKind
	URL     string
	Path    string
	Seed    string
	Timeout time.Duration
	Value   ValueFunc
	S3      aws.ClientConfig
}

type builderFunc func(ctx context.Context, f *Factory) (Source, error)

// builders maps source kinds to their constructors.
var builders = map[SourceKind]builderFunc{
	SourceLocal:  buildLocal,
	SourceFile:   buildFile,
	SourceRemote: buildRemote,
	SourceSQLite: buildSQLite,
}

// Factory builds data sources and owns the resources they hold.
type Factory struct {
	cfg SourceConfig
	log *slog.Logger
	s3  aws.ObjectReader
	dbs []*sql.DB
	mx  sync.Mutex
}

// NewFactory creates a factory for cfg.
func NewFactory(cfg SourceConfig, log *slog.Logger) *Factory {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Value == nil {
		cfg.Value = RawValue
	}
	return &Factory{cfg: cfg, log: log}
}

// Config returns the source configuration.
func (f *Factory) Config() SourceConfig {
	return f.cfg
}

// Source builds the configured source.
func (f *Factory) Source(ctx context.Context) (Source, error) {
	build, ok := builders[f.cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("no source for kind %q: %w", f.cfg.Kind, ErrNoSource)
	}
	src, err := build(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("build %s source: %w", f.cfg.Kind, err)
	}
	f.log.Info("data source ready", "kind", f.cfg.Kind)

	return src, nil
}

// S3 returns the lazily created S3 reader.
func (f *Factory) S3() aws.ObjectReader {
	f.mx.Lock()
	defer f.mx.Unlock()

	if f.s3 == nil {
		cfg := f.cfg.S3
		if cfg.Timeout == 0 {
			cfg.Timeout = f.cfg.Timeout
		}
		f.s3 = aws.NewS3Client(cfg)
	}
	return f.s3
}

// SetS3 overrides the S3 reader.
func (f *Factory) SetS3(r aws.ObjectReader) {
	f.mx.Lock()
	defer f.mx.Unlock()

	f.s3 = r
}

// Close releases databases opened by the factory.
func (f *Factory) Close() error {
	f.mx.Lock()
	defer f.mx.Unlock()

	var errs []error
	for _, db := range f.dbs {
		errs = append(errs, db.Close())
	}
	f.dbs = nil

	return errors.Join(errs...)
}

func buildLocal(_ context.Context, f *Factory) (Source, error) {
	return NewFileSource("", nil, f.cfg.Value, f.log), nil
}

func buildFile(_ context.Context, f *Factory) (Source, error) {
	if f.cfg.Path == "" {
		return nil, errors.New("file source requires a path")
	}
	var s3 aws.ObjectReader
	if aws.IsObjectURL(f.cfg.Path) {
		s3 = f.S3()
	}
	return NewFileSource(f.cfg.Path, s3, f.cfg.Value, f.log), nil
}

func buildRemote(_ context.Context, f *Factory) (Source, error) {
	if f.cfg.URL == "" {
		return nil, errors.New("remote source requires a url")
	}
	timeout := f.cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultAPITimeout
	}
	return NewRemoteSource(f.cfg.URL, &http.Client{Timeout: timeout}, f.log)
}

func buildSQLite(ctx context.Context, f *Factory) (Source, error) {
	if f.cfg.Path == "" {
		return nil, errors.New("sqlite source requires a database path")
	}
	db, err := OpenSQLite(ctx, f.cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	f.mx.Lock()
	f.dbs = append(f.dbs, db)
	f.mx.Unlock()

	src := NewSQLiteSource(db, f.cfg.Value, f.log)
	var s3 aws.ObjectReader
	if aws.IsObjectURL(f.cfg.Seed) {
		s3 = f.S3()
	}
	raw, err := ReadRecords(ctx, f.cfg.Seed, s3)
	if err != nil {
		return nil, fmt.Errorf("read seed records: %w", err)
	}
	rr, err := DecodeRecords(raw)
	if err != nil {
		return nil, err
	}
	if err := src.Seed(ctx, rr); err != nil {
		return nil, err
	}

	return src, nil
}
