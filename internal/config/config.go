package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/a1s/tgrid/internal/config/data"
)

// Config is the root configuration for the application.
type Config struct {
	TGrid *TGrid `yaml:"tgrid"`
	views *data.Dir
	mx    sync.RWMutex
}

// NewConfig creates a new Config with default settings.
func NewConfig() *Config {
	return &Config{
		TGrid: NewTGrid(),
		views: data.NewDir(),
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, the current config is kept.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !force {
			return nil
		}
		return fmt.Errorf("config file does not exist: %s", path)
	}

	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if c.TGrid == nil {
		c.TGrid = NewTGrid()
	}
	c.TGrid.Validate()

	return nil
}

// Save saves the configuration to the app config file.
// If force is false, only saves if the file already exists.
func (c *Config) Save(force bool) error {
	return c.SaveTo(AppConfigFile, force)
}

// SaveTo saves the configuration to path.
func (c *Config) SaveTo(path string, force bool) error {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if path == "" {
		return errors.New("no config file path configured")
	}

	_, err := os.Stat(path)
	if !force && err != nil {
		return nil
	}

	if err := data.SaveYAML(path, c); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}

	return nil
}

// Refine applies CLI flags on top of the loaded configuration.
// Precedence is CLI flag > config file > defaults.
func (c *Config) Refine(flags *data.Flags) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.TGrid == nil {
		return errors.New("config.TGrid is nil")
	}
	c.TGrid.Override(flags)
	c.TGrid.Validate()

	if _, err := c.TGrid.SourceConfig(); err != nil {
		return fmt.Errorf("invalid source: %w", err)
	}

	return nil
}

// SetViewsDir overrides where view state is stored.
func (c *Config) SetViewsDir(d *data.Dir) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.views = d
}

// LoadView returns the saved view state of the active source.
func (c *Config) LoadView() (*data.View, error) {
	c.mx.RLock()
	views, t := c.views, c.TGrid
	c.mx.RUnlock()

	return views.Load(t.SourceName(), t.PageSize)
}

// SaveView remembers the view state of the active source.
func (c *Config) SaveView(v *data.View) error {
	c.mx.RLock()
	views, t := c.views, c.TGrid
	c.mx.RUnlock()

	return views.Save(t.SourceName(), v)
}
