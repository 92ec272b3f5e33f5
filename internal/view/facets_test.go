package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/a1s/tgrid/internal/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type facetSource struct {
	gate  chan struct{}
	err   error
	calls atomic.Int32
}

func (s *facetSource) fetch(ctx context.Context, column string) ([]string, error) {
	s.calls.Add(1)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return []string{"Clothing", "Shoes"}, nil
}

func TestFacetCacheLoadsInBackground(t *testing.T) {
	t.Parallel()

	src := facetSource{gate: make(chan struct{})}
	var (
		loaded []string
		mx     sync.Mutex
	)
	fc := newFacetCache(src.fetch, func(c string) {
		mx.Lock()
		loaded = append(loaded, c)
		mx.Unlock()
	}, slog.New(slog.DiscardHandler))

	ff, ok := fc.Get(dao.FieldCategory)
	assert.False(t, ok)
	assert.Nil(t, ff)
	ff, ok = fc.Get(dao.FieldCategory)
	assert.False(t, ok)
	assert.Nil(t, ff)

	close(src.gate)
	fc.Wait()

	ff, ok = fc.Get(dao.FieldCategory)
	require.True(t, ok)
	assert.Equal(t, []string{"Clothing", "Shoes"}, ff)
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, []string{dao.FieldCategory}, loaded)
}

func TestFacetCacheKeepsFailures(t *testing.T) {
	t.Parallel()

	src := facetSource{err: errors.New("boom")}
	fc := newFacetCache(src.fetch, nil, slog.New(slog.DiscardHandler))

	fc.Get(dao.FieldCategory)
	fc.Wait()
	for range 3 {
		ff, ok := fc.Get(dao.FieldCategory)
		assert.True(t, ok)
		assert.Empty(t, ff)
	}
	assert.Equal(t, int32(1), src.calls.Load())

	fc.Reset()
	fc.Get(dao.FieldCategory)
	fc.Wait()
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestFacetCacheResetDropsInflight(t *testing.T) {
	t.Parallel()

	src := facetSource{gate: make(chan struct{})}
	var calls atomic.Int32
	fc := newFacetCache(src.fetch, func(string) { calls.Add(1) }, slog.New(slog.DiscardHandler))

	fc.Get(dao.FieldSubcategory)
	fc.Reset()
	close(src.gate)
	fc.Wait()

	assert.Zero(t, calls.Load())
	fc.mx.Lock()
	_, ok := fc.values[dao.FieldSubcategory]
	fc.mx.Unlock()
	assert.False(t, ok)
}
