package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/a1s/tgrid/internal/config/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tgrid.yaml")
	raw := `tgrid:
  source:
    kind: remote
    url: http://localhost:3000
  pageSize: 25
  cache:
    size: 8
  logger:
    level: nope
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	cfg := NewConfig()
	require.NoError(t, cfg.Load(path, true))
	assert.Equal(t, "remote", cfg.TGrid.Source.Kind)
	assert.Equal(t, "http://localhost:3000", cfg.TGrid.Source.URL)
	assert.Equal(t, 25, cfg.TGrid.PageSize)
	assert.Equal(t, 8, cfg.TGrid.Cache.Size)
	assert.Equal(t, DefaultLogLevel, cfg.TGrid.Logger.Level)
	assert.Equal(t, "30s", cfg.TGrid.APITimeout)
}

func TestConfigLoadMissing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "none.yaml")
	cfg := NewConfig()
	require.NoError(t, cfg.Load(path, false))
	assert.Equal(t, "local", cfg.TGrid.Source.Kind)
	assert.Error(t, cfg.Load(path, true))
}

func TestConfigSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tgrid.yaml")
	cfg := NewConfig()
	cfg.TGrid.PageSize = 40

	require.NoError(t, cfg.SaveTo(path, false))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, cfg.SaveTo(path, true))
	loaded := NewConfig()
	require.NoError(t, loaded.Load(path, true))
	assert.Equal(t, 40, loaded.TGrid.PageSize)
}

func TestConfigRefine(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.TGrid.PageSize = 25

	ff := NewFlags()
	*ff.URL = "http://example.com"
	require.NoError(t, cfg.Refine(ff))
	assert.Equal(t, "remote", cfg.TGrid.Source.Kind)
	assert.Equal(t, 25, cfg.TGrid.PageSize)

	*ff.Source = "ftp"
	require.NoError(t, cfg.Refine(ff))
	assert.Equal(t, "local", cfg.TGrid.Source.Kind)
}

func TestConfigViews(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.SetViewsDir(data.NewDirAt(t.TempDir()))
	cfg.TGrid.Source.Kind, cfg.TGrid.Source.URL = "remote", "http://localhost:3000"

	v, err := cfg.LoadView()
	require.NoError(t, err)
	assert.Equal(t, cfg.TGrid.PageSize, v.PageSize)
	assert.Empty(t, v.Sorting)

	v.PageSize = 20
	v.Sorting = []data.ViewSort{{Column: "price", Desc: true}}
	require.NoError(t, cfg.SaveView(v))

	v, err = cfg.LoadView()
	require.NoError(t, err)
	assert.Equal(t, 20, v.PageSize)
	assert.Equal(t, []data.ViewSort{{Column: "price", Desc: true}}, v.Sorting)
}

func TestAliases(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases:\n  pp: page\n  f: search\n"), 0600))

	a := NewAliases()
	require.NoError(t, a.LoadFrom(path))
	assert.Equal(t, "page", a.Get("pp"))
	assert.Equal(t, "search", a.Get("f"))
	assert.Equal(t, "sort", a.Get("s"))
	assert.Equal(t, "bogus", a.Get("bogus"))
	assert.Contains(t, a.Names(), "pp")

	require.NoError(t, NewAliases().LoadFrom(filepath.Join(t.TempDir(), "none.yaml")))
}

func TestHotKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hotkeys.yaml")
	raw := `hotKeys:
  shoes:
    shortCut: Ctrl-S
    description: Shoes only
    command: filter category Shoes
  broken:
    shortCut: x
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	h := NewHotKeys()
	require.NoError(t, h.LoadFrom(path))
	bb := h.Bindings()
	require.Len(t, bb, 1)
	assert.Equal(t, "shoes", bb[0].Name)
	assert.Equal(t, "Shoes only", bb[0].Label())
	hk := h.Get("shoes")
	require.NotNil(t, hk)
	assert.Equal(t, "Ctrl-S", hk.ShortCut)
	assert.Nil(t, h.Get("broken"))

	out := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, h.SaveTo(out))
	h2 := NewHotKeys()
	require.NoError(t, h2.LoadFrom(out))
	assert.Equal(t, "filter category Shoes", h2.Get("shoes").Command)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	uu := map[string]struct {
		s   string
		err bool
	}{
		"debug": {s: "debug"},
		"upper": {s: "WARN"},
		"empty": {s: "", err: true},
		"bad":   {s: "loud", err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			t.Parallel()
			_, err := ParseLevel(u.s)
			if u.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "tgrid.log")
	log, c, err := NewLogger(data.Logger{Level: "info", File: path})
	require.NoError(t, err)
	log.Info("hello", "k", 1)
	require.NoError(t, c.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "msg=hello")
}
