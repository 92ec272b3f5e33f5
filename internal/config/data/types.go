// Package data provides configuration data types for the tgrid application.
package data

// Flags represents CLI command-line flags for the tgrid application.
type Flags struct {
	LogLevel   *string // Log level (e.g., debug, info, warn, error)
	LogFile    *string // Path to log file
	Source     *string // Data source kind (local, file, remote, sqlite)
	URL        *string // Remote data endpoint
	Path       *string // Data file or database path
	PageSize   *int    // Initial page size
	APITimeout *string // Per request timeout
	Profile    *string // AWS profile used for s3:// data files
	Region     *string // AWS region used for s3:// data files
	Addr       *string // Listen address when serving
}

// UI represents user interface configuration settings.
type UI struct {
	EnableMouse bool `yaml:"enableMouse"`
	Menuless    bool `yaml:"menuless"`
	NoColors    bool `yaml:"noColors"`
}

// Logger represents logging configuration settings.
type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Source selects where grid records come from.
type Source struct {
	Kind string `yaml:"kind"`
	URL  string `yaml:"url"`
	Path string `yaml:"path"`
}

// Cache tunes the page cache.
type Cache struct {
	Size      int    `yaml:"size"`
	StaleTime string `yaml:"staleTime"`
}

// Server configures the data endpoint.
type Server struct {
	Addr           string   `yaml:"addr"`
	Data           string   `yaml:"data"`
	DB             string   `yaml:"db"`
	CORSOrigins    []string `yaml:"corsOrigins"`
	RateLimitRPS   float64  `yaml:"rateLimitRPS"`
	RateLimitBurst int      `yaml:"rateLimitBurst"`
}

// S3 selects the shared AWS profile used to read s3:// data files.
type S3 struct {
	Profile string `yaml:"profile"`
	Region  string `yaml:"region"`
}

// NewFlags creates a new Flags instance with all pointer fields initialized.
// All pointers are allocated but their values are not set.
func NewFlags() *Flags {
	return &Flags{
		LogLevel:   new(string),
		LogFile:    new(string),
		Source:     new(string),
		URL:        new(string),
		Path:       new(string),
		PageSize:   new(int),
		APITimeout: new(string),
		Profile:    new(string),
		Region:     new(string),
		Addr:       new(string),
	}
}
