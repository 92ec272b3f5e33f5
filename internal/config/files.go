package config

import (
	"os"
	"path/filepath"

	"github.com/a1s/tgrid/internal/config/data"
)

const AppName = "tgrid"

var (
	// AppConfigDir is ~/.config/tgrid
	AppConfigDir string

	// AppDataDir is ~/.local/share/tgrid
	AppDataDir string

	// AppStateDir is ~/.local/state/tgrid
	AppStateDir string

	// AppConfigFile is ~/.config/tgrid/tgrid.yaml
	AppConfigFile string

	// AppHotkeysFile is ~/.config/tgrid/hotkeys.yaml
	AppHotkeysFile string

	// AppAliasesFile is ~/.config/tgrid/aliases.yaml
	AppAliasesFile string

	// AppViewsDir is ~/.local/share/tgrid/views
	AppViewsDir string

	// AppDBFile is ~/.local/share/tgrid/tgrid.db
	AppDBFile string

	// AppLogFile is ~/.local/state/tgrid/tgrid.log
	AppLogFile string
)

// InitLocs initializes all application directory paths.
// It respects XDG environment variables if set.
func InitLocs() error {
	home := userHomeDir()

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	AppConfigDir = filepath.Join(configHome, AppName)
	AppDataDir = filepath.Join(dataHome, AppName)
	AppStateDir = filepath.Join(stateHome, AppName)

	AppConfigFile = filepath.Join(AppConfigDir, AppName+".yaml")
	AppHotkeysFile = filepath.Join(AppConfigDir, "hotkeys.yaml")
	AppAliasesFile = filepath.Join(AppConfigDir, "aliases.yaml")

	AppViewsDir = filepath.Join(AppDataDir, "views")
	AppDBFile = filepath.Join(AppDataDir, AppName+".db")
	AppLogFile = filepath.Join(AppStateDir, AppName+".log")

	// Set default views directory in data package to avoid circular import
	data.SetDefaultViewsDir(AppViewsDir)

	dirs := []string{
		AppConfigDir,
		AppDataDir,
		AppStateDir,
		AppViewsDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}

// InitLogLoc ensures the log directory exists
func InitLogLoc(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0700)
}

// userHomeDir returns the user's home directory
func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return home
}
