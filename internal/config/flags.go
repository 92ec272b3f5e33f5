package config

import (
	"github.com/a1s/tgrid/internal/config/data"
)

// DefaultLogLevel is the default logging level.
const DefaultLogLevel = "info"

// NewFlags creates a new Flags instance.
// Empty values defer to the config file and its defaults.
func NewFlags() *data.Flags {
	logLevel := ""
	logFile := ""
	source := ""
	url := ""
	path := ""
	pageSize := 0
	apiTimeout := ""
	profile := ""
	region := ""
	addr := ""

	return &data.Flags{
		LogLevel:   &logLevel,
		LogFile:    &logFile,
		Source:     &source,
		URL:        &url,
		Path:       &path,
		PageSize:   &pageSize,
		APITimeout: &apiTimeout,
		Profile:    &profile,
		Region:     &region,
		Addr:       &addr,
	}
}

// IsIntSet returns true if an int pointer is non-nil and positive.
func IsIntSet(i *int) bool {
	return i != nil && *i > 0
}

// IsStringSet returns true if a string pointer is non-nil and non-empty.
func IsStringSet(s *string) bool {
	return s != nil && *s != ""
}
