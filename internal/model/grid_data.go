package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/model1"
	"github.com/wI2L/jsondiff"
	"golang.org/x/sync/singleflight"
)

// GridData keeps the displayed page in step with the query state.
//
// A snapshot change is served from the cache when possible, otherwise the
// source is asked for the page while the previous page stays on display.
// Concurrent requests for one snapshot share a single source call, and
// completions for a snapshot that is no longer current only feed the cache.
type GridData struct {
	source   dao.Source
	cache    *dao.QueryCache
	query    *QueryState
	renderer model1.Renderer
	log      *slog.Logger

	group   singleflight.Group
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	fetches atomic.Int64

	current   string
	shown     string
	page      *dao.ResultPage
	status    Status
	data      *model1.TableData
	listeners []TableListener
	mx        sync.RWMutex
}

// NewGridData creates a grid model over source.
func NewGridData(source dao.Source, cache *dao.QueryCache, query *QueryState, r model1.Renderer, log *slog.Logger) *GridData {
	if cache == nil {
		cache = dao.NewQueryCache(0, 0)
	}
	if query == nil {
		query = NewQueryState(dao.DefaultPageSize)
	}
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &GridData{
		source:   source,
		cache:    cache,
		query:    query,
		renderer: r,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		data:     model1.NewTableData(r.Header()),
	}
}

// Query returns the query state driving the grid.
func (g *GridData) Query() *QueryState {
	return g.query
}

// Cache returns the page cache.
func (g *GridData) Cache() *dao.QueryCache {
	return g.cache
}

// Start subscribes to query changes and loads the current snapshot.
func (g *GridData) Start() {
	g.query.AddListener(g)
	g.load(g.query.Snapshot(), false)
}

// Stop unsubscribes and cancels in-flight fetches.
func (g *GridData) Stop() {
	g.query.RemoveListener(g)
	g.cancel()
}

// Wait blocks until in-flight fetches have settled.
func (g *GridData) Wait() {
	g.wg.Wait()
}

// QueryChanged loads the new snapshot.
func (g *GridData) QueryChanged(snap dao.QuerySnapshot) {
	g.load(snap, false)
}

// Refetch re-issues the current snapshot, bypassing the cache.
func (g *GridData) Refetch() {
	g.load(g.query.Snapshot(), true)
}

// Fetches returns the number of source calls issued.
func (g *GridData) Fetches() int64 {
	return g.fetches.Load()
}

// Header returns the table header.
func (g *GridData) Header() model1.Header {
	return g.data.Header()
}

// Peek returns a copy of the displayed table.
func (g *GridData) Peek() *model1.TableData {
	g.mx.RLock()
	defer g.mx.RUnlock()

	return g.data.Clone()
}

// Page returns the displayed page, nil before the first success.
func (g *GridData) Page() *dao.ResultPage {
	g.mx.RLock()
	defer g.mx.RUnlock()

	return g.page
}

// Status returns the fetch status.
func (g *GridData) Status() Status {
	g.mx.RLock()
	defer g.mx.RUnlock()

	return g.status
}

// Facets lists the distinct values of column when the source supports it.
func (g *GridData) Facets(ctx context.Context, column string) ([]string, error) {
	f, ok := g.source.(dao.Faceter)
	if !ok {
		return nil, nil
	}
	return f.Facets(ctx, column)
}

// AddListener registers a table listener.
func (g *GridData) AddListener(l TableListener) {
	g.mx.Lock()
	defer g.mx.Unlock()

	g.listeners = append(g.listeners, l)
}

// RemoveListener unregisters a table listener.
func (g *GridData) RemoveListener(l TableListener) {
	g.mx.Lock()
	defer g.mx.Unlock()

	for i, lis := range g.listeners {
		if lis == l {
			g.listeners = append(g.listeners[:i], g.listeners[i+1:]...)
			return
		}
	}
}

func (g *GridData) load(snap dao.QuerySnapshot, bypass bool) {
	key := snap.Key()

	g.mx.Lock()
	g.current = key
	if !bypass {
		if page, ok := g.cache.GetKey(key); ok {
			g.status = Status{}
			data, err := g.display(key, page)
			g.mx.Unlock()
			g.log.Debug("cache hit", "key", key)
			g.notifyStatus()
			g.notifyData(page, data, err)
			return
		}
	}
	g.status = Status{Loading: g.page == nil, Refetching: g.page != nil}
	g.mx.Unlock()
	g.notifyStatus()

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		ch := g.group.DoChan(key, func() (any, error) {
			g.fetches.Add(1)
			g.log.Debug("fetching page", "key", key)
			return g.source.FetchPage(g.ctx, snap)
		})
		res := <-ch
		page, _ := res.Val.(*dao.ResultPage)
		g.complete(key, page, res.Err)
	}()
}

func (g *GridData) complete(key string, page *dao.ResultPage, err error) {
	if g.ctx.Err() != nil {
		return
	}
	if err == nil && page == nil {
		err = &dao.DataFetchError{Op: "fetch page", Err: errors.New("source returned no page")}
	}
	if err == nil {
		g.cache.SetKey(key, page)
	}

	g.mx.Lock()
	if key != g.current {
		g.mx.Unlock()
		g.log.Debug("completion discarded", "key", key, "reason", dao.ErrStaleResponse)
		return
	}
	if err != nil {
		g.status = Status{Error: true, Err: err}
		g.mx.Unlock()
		g.log.Error("page fetch failed", "key", key, "error", err)
		g.notifyStatus()
		g.notifyFailed(err)
		return
	}
	g.status = Status{}
	data, rerr := g.display(key, page)
	g.mx.Unlock()

	g.notifyStatus()
	g.notifyData(page, data, rerr)
}

// display renders page into the table. Caller holds mx.
func (g *GridData) display(key string, page *dao.ResultPage) (*model1.TableData, error) {
	track := g.page != nil && key == g.shown
	var changed map[string]bool
	if track {
		changed = recordChanges(g.page.Rows, page.Rows, g.log)
	}

	h := g.renderer.Header()
	rows := make(model1.Rows, 0, len(page.Rows))
	var errs []error
	for _, r := range page.Rows {
		row := model1.NewRow(len(h))
		if err := g.renderer.Render(r, &row); err != nil {
			errs = append(errs, fmt.Errorf("render row %s: %w", r.RowID(), err))
			continue
		}
		rows = append(rows, row)
	}
	g.data.SetHeader(h)
	g.data.Reconcile(rows, changed, track)
	g.page, g.shown = page, key

	return g.data.Clone(), errors.Join(errs...)
}

// recordChanges returns the ids of records whose content differs.
func recordChanges(prev, next []dao.Record, log *slog.Logger) map[string]bool {
	index := make(map[string]dao.Record, len(prev))
	for _, r := range prev {
		index[r.RowID()] = r
	}

	changed := make(map[string]bool)
	for _, r := range next {
		old, ok := index[r.RowID()]
		if !ok {
			continue
		}
		patch, err := jsondiff.Compare(old, r)
		if err != nil {
			log.Warn("record diff failed", "id", r.RowID(), "error", err)
			changed[r.RowID()] = true
			continue
		}
		if len(patch) > 0 {
			changed[r.RowID()] = true
		}
	}

	return changed
}

func (g *GridData) snapshotListeners() []TableListener {
	g.mx.RLock()
	defer g.mx.RUnlock()

	ll := make([]TableListener, len(g.listeners))
	copy(ll, g.listeners)
	return ll
}

func (g *GridData) notifyStatus() {
	st := g.Status()
	for _, l := range g.snapshotListeners() {
		l.TableStatusChanged(st)
	}
}

func (g *GridData) notifyData(page *dao.ResultPage, data *model1.TableData, err error) {
	if err != nil {
		g.log.Warn("rows skipped", "error", err)
	}
	for _, l := range g.snapshotListeners() {
		if page.Empty() {
			l.TableNoData(data)
		} else {
			l.TableDataChanged(data)
		}
	}
}

func (g *GridData) notifyFailed(err error) {
	for _, l := range g.snapshotListeners() {
		l.TableLoadFailed(err)
	}
}
