// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package view

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// facetTimeout bounds a single facet lookup.
const facetTimeout = 2 * time.Second

type facetFetchFunc func(ctx context.Context, column string) ([]string, error)

// facetCache loads distinct column values off the UI goroutine.
// A failed lookup is cached as an empty list until Reset.
type facetCache struct {
	fetch  facetFetchFunc
	loaded func(column string)
	log    *slog.Logger
	values map[string][]string
	gen    int
	wg     sync.WaitGroup
	mx     sync.Mutex
}

func newFacetCache(fetch facetFetchFunc, loaded func(string), log *slog.Logger) *facetCache {
	if log == nil {
		log = slog.Default()
	}
	return &facetCache{
		fetch:  fetch,
		loaded: loaded,
		log:    log,
		values: make(map[string][]string),
	}
}

// Get returns the cached values for column. On a miss it starts a
// background lookup and returns nil, false.
func (f *facetCache) Get(column string) ([]string, bool) {
	f.mx.Lock()
	defer f.mx.Unlock()

	if ff, ok := f.values[column]; ok {
		return ff, ff != nil
	}
	f.values[column] = nil
	f.wg.Add(1)
	go f.load(column, f.gen)

	return nil, false
}

// Reset drops cached values. Lookups still in flight are discarded.
func (f *facetCache) Reset() {
	f.mx.Lock()
	defer f.mx.Unlock()

	f.gen++
	f.values = make(map[string][]string)
}

// Wait blocks until in-flight lookups are done.
func (f *facetCache) Wait() {
	f.wg.Wait()
}

func (f *facetCache) load(column string, gen int) {
	defer f.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), facetTimeout)
	defer cancel()
	ff, err := f.fetch(ctx, column)
	if err != nil {
		f.log.Warn("facets unavailable", "column", column, "error", err)
		ff = []string{}
	}
	if ff == nil {
		ff = []string{}
	}

	f.mx.Lock()
	if gen != f.gen {
		f.mx.Unlock()
		return
	}
	f.values[column] = ff
	f.mx.Unlock()

	if f.loaded != nil {
		f.loaded(column)
	}
}
