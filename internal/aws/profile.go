package aws

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	defaultProfile = "default"
	profilePrefix  = "profile "
	regionKey      = "region"
)

// Profiles reads the shared AWS config and credentials files.
type Profiles struct {
	configPath      string
	credentialsPath string
}

// NewProfiles returns profiles read from the standard locations, honoring
// AWS_CONFIG_FILE and AWS_SHARED_CREDENTIALS_FILE.
func NewProfiles() *Profiles {
	home, _ := os.UserHomeDir()
	cfg := os.Getenv("AWS_CONFIG_FILE")
	if cfg == "" {
		cfg = filepath.Join(home, ".aws", "config")
	}
	creds := os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	if creds == "" {
		creds = filepath.Join(home, ".aws", "credentials")
	}

	return NewProfilesAt(cfg, creds)
}

// NewProfilesAt returns profiles read from explicit files.
func NewProfilesAt(configPath, credentialsPath string) *Profiles {
	return &Profiles{configPath: configPath, credentialsPath: credentialsPath}
}

// Names lists the profiles found in either file. Missing files are skipped.
func (p *Profiles) Names() ([]string, error) {
	seen := make(map[string]struct{})

	creds, err := loadINI(p.credentialsPath)
	if err != nil {
		return nil, err
	}
	if creds != nil {
		for _, s := range creds.Sections() {
			if s.Name() != ini.DefaultSection {
				seen[s.Name()] = struct{}{}
			}
		}
	}

	cfg, err := loadINI(p.configPath)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		for _, s := range cfg.Sections() {
			if name, ok := profileName(s.Name()); ok {
				seen[name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)

	return names, nil
}

// Region returns the region configured for profile, or DefaultRegion.
func (p *Profiles) Region(profile string) string {
	if profile == "" {
		profile = defaultProfile
	}
	cfg, err := loadINI(p.configPath)
	if err != nil || cfg == nil {
		return DefaultRegion
	}
	section := profilePrefix + profile
	if profile == defaultProfile {
		section = defaultProfile
		if !cfg.HasSection(section) {
			section = ini.DefaultSection
		}
	}
	s, err := cfg.GetSection(section)
	if err != nil || !s.HasKey(regionKey) {
		return DefaultRegion
	}
	if r := strings.TrimSpace(s.Key(regionKey).String()); r != "" {
		return r
	}

	return DefaultRegion
}

// profileName maps a config file section to its profile.
func profileName(section string) (string, bool) {
	switch {
	case section == defaultProfile:
		return defaultProfile, true
	case strings.HasPrefix(section, profilePrefix):
		return strings.TrimPrefix(section, profilePrefix), true
	default:
		return "", false
	}
}

func loadINI(path string) (*ini.File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", path, err)
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return f, nil
}
