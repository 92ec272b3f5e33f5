package config

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/a1s/tgrid/internal/config/data"
)

// HotKey binds a shortcut to a grid command line, e.g. "filter category Shoes".
type HotKey struct {
	ShortCut    string `yaml:"shortCut"`
	Override    bool   `yaml:"override"`
	Description string `yaml:"description"`
	Command     string `yaml:"command"`
}

// Label is the text shown in menus and help.
func (h HotKey) Label() string {
	if h.Description != "" {
		return h.Description
	}
	return h.Command
}

// Binding is a named hotkey.
type Binding struct {
	Name string
	HotKey
}

// HotKeys holds user defined shortcuts keyed by name.
type HotKeys struct {
	HotKey map[string]HotKey `yaml:"hotKeys"`
	mx     sync.RWMutex      `yaml:"-"`
}

// NewHotKeys creates an empty HotKeys configuration.
func NewHotKeys() *HotKeys {
	return &HotKeys{
		HotKey: make(map[string]HotKey),
	}
}

// Load reads the default hotkeys file. A missing file means no hotkeys.
func (h *HotKeys) Load() error {
	return h.LoadFrom(AppHotkeysFile)
}

// LoadFrom replaces the hotkeys with the ones in path.
// Entries without a shortcut or command are dropped.
func (h *HotKeys) LoadFrom(path string) error {
	h.mx.Lock()
	defer h.mx.Unlock()

	loaded := HotKeys{HotKey: make(map[string]HotKey)}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		h.HotKey = loaded.HotKey
		return nil
	}
	if err := data.LoadYAML(path, &loaded); err != nil {
		return err
	}

	h.HotKey = make(map[string]HotKey, len(loaded.HotKey))
	for name, hk := range loaded.HotKey {
		hk.ShortCut, hk.Command = strings.TrimSpace(hk.ShortCut), strings.TrimSpace(hk.Command)
		if hk.ShortCut == "" || hk.Command == "" {
			continue
		}
		h.HotKey[name] = hk
	}

	return nil
}

// SaveTo writes the hotkeys to path.
func (h *HotKeys) SaveTo(path string) error {
	h.mx.RLock()
	defer h.mx.RUnlock()

	return data.SaveYAML(path, h)
}

// Get returns a hotkey by name, or nil if not found.
func (h *HotKeys) Get(name string) *HotKey {
	h.mx.RLock()
	defer h.mx.RUnlock()

	hk, ok := h.HotKey[name]
	if !ok {
		return nil
	}

	return &hk
}

// Bindings returns the hotkeys ordered by name.
func (h *HotKeys) Bindings() []Binding {
	h.mx.RLock()
	defer h.mx.RUnlock()

	bb := make([]Binding, 0, len(h.HotKey))
	for name, hk := range h.HotKey {
		bb = append(bb, Binding{Name: name, HotKey: hk})
	}
	sort.Slice(bb, func(i, j int) bool {
		return bb[i].Name < bb[j].Name
	})

	return bb
}
