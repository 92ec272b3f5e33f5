package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/a1s/tgrid/internal/aws"
	"github.com/a1s/tgrid/internal/config/data"
	"github.com/a1s/tgrid/internal/dao"
)

// Default values
const (
	DefaultAPITimeout     = dao.DefaultAPITimeout
	DefaultAddr           = "localhost:3000"
	DefaultRateLimitRPS   = 20
	DefaultRateLimitBurst = 40
	MaxPageSize           = data.MaxViewPageSize
)

// DefaultCORSOrigins are the browser origins allowed to query the server.
var DefaultCORSOrigins = []string{"http://localhost:5173"}

// TGrid represents the tgrid global configuration.
type TGrid struct {
	Source     data.Source `yaml:"source"`
	PageSize   int         `yaml:"pageSize"`
	APITimeout string      `yaml:"apiTimeout"`
	Cache      data.Cache  `yaml:"cache"`
	UI         data.UI     `yaml:"ui"`
	Logger     data.Logger `yaml:"logger"`
	Server     data.Server `yaml:"server"`
	S3         data.S3     `yaml:"s3"`

	mx sync.RWMutex
}

// NewTGrid creates a TGrid with default settings.
func NewTGrid() *TGrid {
	t := TGrid{}
	t.Validate()

	return &t
}

// Validate repairs missing or invalid settings.
func (t *TGrid) Validate() {
	t.mx.Lock()
	defer t.mx.Unlock()

	if _, err := dao.ParseSourceKind(t.Source.Kind); err != nil {
		t.Source.Kind = string(dao.SourceLocal)
	}

	if t.PageSize <= 0 || t.PageSize > MaxPageSize {
		t.PageSize = dao.DefaultPageSize
	}

	if d, err := time.ParseDuration(t.APITimeout); err != nil || d <= 0 {
		t.APITimeout = DefaultAPITimeout.String()
	}

	if t.Cache.Size <= 0 {
		t.Cache.Size = dao.DefaultCacheSize
	}
	if d, err := time.ParseDuration(t.Cache.StaleTime); err != nil || d < 0 {
		t.Cache.StaleTime = dao.DefaultStaleTime.String()
	}

	if _, err := ParseLevel(t.Logger.Level); err != nil {
		t.Logger.Level = DefaultLogLevel
	}
	if t.Logger.File == "" {
		t.Logger.File = AppLogFile
	}

	if t.Server.Addr == "" {
		t.Server.Addr = DefaultAddr
	}
	if len(t.Server.CORSOrigins) == 0 {
		t.Server.CORSOrigins = append([]string(nil), DefaultCORSOrigins...)
	}
	if t.Server.RateLimitRPS <= 0 {
		t.Server.RateLimitRPS = DefaultRateLimitRPS
	}
	if t.Server.RateLimitBurst <= 0 {
		t.Server.RateLimitBurst = DefaultRateLimitBurst
	}
}

// Override applies CLI flag overrides to the configuration.
func (t *TGrid) Override(flags *data.Flags) {
	if flags == nil {
		return
	}

	t.mx.Lock()
	defer t.mx.Unlock()

	if IsStringSet(flags.LogLevel) {
		t.Logger.Level = *flags.LogLevel
	}
	if IsStringSet(flags.LogFile) {
		t.Logger.File = *flags.LogFile
	}
	if IsStringSet(flags.Source) {
		t.Source.Kind = *flags.Source
	}
	if IsStringSet(flags.URL) {
		t.Source.URL = *flags.URL
		if !IsStringSet(flags.Source) {
			t.Source.Kind = string(dao.SourceRemote)
		}
	}
	if IsStringSet(flags.Path) {
		t.Source.Path = *flags.Path
		t.Server.Data = *flags.Path
		if !IsStringSet(flags.Source) && !IsStringSet(flags.URL) {
			t.Source.Kind = string(dao.SourceFile)
		}
	}
	if IsIntSet(flags.PageSize) {
		t.PageSize = *flags.PageSize
	}
	if IsStringSet(flags.APITimeout) {
		t.APITimeout = *flags.APITimeout
	}
	if IsStringSet(flags.Profile) {
		t.S3.Profile = *flags.Profile
	}
	if IsStringSet(flags.Region) {
		t.S3.Region = *flags.Region
	}
	if IsStringSet(flags.Addr) {
		t.Server.Addr = *flags.Addr
	}
}

// GetAPITimeout returns the parsed API timeout duration.
func (t *TGrid) GetAPITimeout() (time.Duration, error) {
	t.mx.RLock()
	timeoutStr := t.APITimeout
	t.mx.RUnlock()

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid API timeout %q: %w", timeoutStr, err)
	}

	return timeout, nil
}

// GetStaleTime returns how long cached pages stay fresh.
func (t *TGrid) GetStaleTime() (time.Duration, error) {
	t.mx.RLock()
	staleStr := t.Cache.StaleTime
	t.mx.RUnlock()

	d, err := time.ParseDuration(staleStr)
	if err != nil {
		return 0, fmt.Errorf("invalid cache stale time %q: %w", staleStr, err)
	}

	return d, nil
}

// SourceConfig returns the data source settings for the dao factory.
func (t *TGrid) SourceConfig() (dao.SourceConfig, error) {
	kind, err := dao.ParseSourceKind(t.sourceKind())
	if err != nil {
		return dao.SourceConfig{}, err
	}
	timeout, err := t.GetAPITimeout()
	if err != nil {
		return dao.SourceConfig{}, err
	}

	t.mx.RLock()
	defer t.mx.RUnlock()

	return dao.SourceConfig{
		Kind:    kind,
		URL:     t.Source.URL,
		Path:    t.Source.Path,
		Timeout: timeout,
		S3: aws.ClientConfig{
			Profile: t.S3.Profile,
			Region:  t.S3.Region,
			Timeout: timeout,
		},
	}, nil
}

// ServeConfig returns the source backing the data endpoint.
// A database path wins over a data file, which wins over the bundled sample.
func (t *TGrid) ServeConfig() (dao.SourceConfig, error) {
	cfg, err := t.SourceConfig()
	if err != nil {
		return cfg, err
	}

	t.mx.RLock()
	defer t.mx.RUnlock()

	cfg.URL = ""
	switch {
	case t.Server.DB != "":
		cfg.Kind, cfg.Path, cfg.Seed = dao.SourceSQLite, t.Server.DB, t.Server.Data
	case t.Server.Data != "":
		cfg.Kind, cfg.Path = dao.SourceFile, t.Server.Data
	default:
		cfg.Kind, cfg.Path = dao.SourceLocal, ""
	}

	return cfg, nil
}

// SourceName names the active source for titles and saved views.
func (t *TGrid) SourceName() string {
	t.mx.RLock()
	defer t.mx.RUnlock()

	switch dao.SourceKind(t.Source.Kind) {
	case dao.SourceRemote:
		return t.Source.URL
	case dao.SourceFile, dao.SourceSQLite:
		return t.Source.Path
	default:
		return dao.SampleDataFile
	}
}

func (t *TGrid) sourceKind() string {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.Source.Kind
}
