package config

import (
	"os"
	"sort"
	"sync"

	"github.com/a1s/tgrid/internal/config/data"
)

// Aliases represents the alias configuration.
type Aliases struct {
	Alias map[string]string `yaml:"aliases"`
	mx    sync.RWMutex      `yaml:"-"`
}

// DefaultAliases are the built-in command aliases.
var DefaultAliases = map[string]string{
	"f":      "filter",
	"fl":     "filter",
	"s":      "sort",
	"pg":     "page",
	"ps":     "size",
	"q":      "quit",
	"q!":     "quit",
	"r":      "refetch",
	"reload": "refetch",
	"g":      "search",
	"clear":  "reset",
	"h":      "help",
	"?":      "help",
}

// NewAliases creates an Aliases with default aliases loaded.
func NewAliases() *Aliases {
	a := &Aliases{
		Alias: make(map[string]string),
	}
	// Copy default aliases
	for k, v := range DefaultAliases {
		a.Alias[k] = v
	}
	return a
}

// Load loads aliases from the default config file.
// Merges with default aliases, with file aliases taking precedence.
func (a *Aliases) Load() error {
	return a.LoadFrom(AppAliasesFile)
}

// LoadFrom loads aliases from a specific file path.
func (a *Aliases) LoadFrom(path string) error {
	a.mx.Lock()
	defer a.mx.Unlock()

	// If file doesn't exist, just use defaults
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	loaded := &Aliases{
		Alias: make(map[string]string),
	}
	if err := data.LoadYAML(path, loaded); err != nil {
		return err
	}

	// Merge loaded aliases into current (loaded takes precedence)
	for k, v := range loaded.Alias {
		a.Alias[k] = v
	}

	return nil
}

// Get returns the command for an alias, or the original if not found.
func (a *Aliases) Get(alias string) string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	if cmd, ok := a.Alias[alias]; ok {
		return cmd
	}
	return alias
}

// Set sets an alias.
func (a *Aliases) Set(alias, cmd string) {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.Alias[alias] = cmd
}

// Names returns all alias names.
func (a *Aliases) Names() []string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	names := make([]string, 0, len(a.Alias))
	for k := range a.Alias {
		names = append(names, k)
	}
	sort.Strings(names)

	return names
}

