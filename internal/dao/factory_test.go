package dao

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactorySource(t *testing.T) {
	t.Parallel()

	uu := map[string]struct {
		cfg  SourceConfig
		kind any
		err  bool
	}{
		"local":       {cfg: SourceConfig{Kind: SourceLocal}, kind: &FileSource{}},
		"file":        {cfg: SourceConfig{Kind: SourceFile, Path: "records.json"}, kind: &FileSource{}},
		"file-s3":     {cfg: SourceConfig{Kind: SourceFile, Path: "s3://bucket/records.json"}, kind: &FileSource{}},
		"file-nopath": {cfg: SourceConfig{Kind: SourceFile}, err: true},
		"remote":      {cfg: SourceConfig{Kind: SourceRemote, URL: "http://localhost:3000"}, kind: &RemoteSource{}},
		"remote-bad":  {cfg: SourceConfig{Kind: SourceRemote, URL: "localhost"}, err: true},
		"unknown":     {cfg: SourceConfig{Kind: "bozo"}, err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			t.Parallel()
			f := NewFactory(u.cfg, discardLogger())
			src, err := f.Source(context.Background())
			if u.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, u.kind, src)
		})
	}
}

func TestFactorySQLite(t *testing.T) {
	t.Parallel()

	f := NewFactory(SourceConfig{
		Kind: SourceSQLite,
		Path: filepath.Join(t.TempDir(), "grid.sqlite"),
	}, discardLogger())
	t.Cleanup(func() { _ = f.Close() })

	src, err := f.Source(context.Background())
	require.NoError(t, err)

	p, err := src.FetchPage(context.Background(), NewQuerySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 25, p.TotalRowCount)
	assert.Len(t, p.Rows, 10)
}

func TestFactorySQLiteSeed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seed := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(seed, []byte(`[
		{"id": 1, "name": "Runner", "category": "Shoes", "price": 10},
		{"id": 2, "name": "Parka", "category": "Clothing", "price": 20},
		{"id": 3, "name": "Watch", "category": "Accessories", "price": 30}
	]`), 0600))

	f := NewFactory(SourceConfig{
		Kind: SourceSQLite,
		Path: filepath.Join(dir, "grid.sqlite"),
		Seed: seed,
	}, discardLogger())
	t.Cleanup(func() { _ = f.Close() })

	src, err := f.Source(context.Background())
	require.NoError(t, err)

	p, err := src.FetchPage(context.Background(), NewQuerySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 3, p.TotalRowCount)
}

func TestParseSourceKind(t *testing.T) {
	t.Parallel()

	k, err := ParseSourceKind("")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, k)

	k, err = ParseSourceKind("sqlite")
	require.NoError(t, err)
	assert.Equal(t, SourceSQLite, k)

	_, err = ParseSourceKind("mongo")
	assert.Error(t, err)
}
