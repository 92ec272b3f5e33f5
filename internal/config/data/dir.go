package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// defaultViewsDir is set by the config package to avoid circular import.
var defaultViewsDir string

// SetDefaultViewsDir sets the default views directory.
func SetDefaultViewsDir(dir string) {
	defaultViewsDir = dir
}

// Dir stores per source view state.
type Dir struct {
	root string
	mx   sync.RWMutex
}

// NewDir creates a new Dir at the default views location.
func NewDir() *Dir {
	return &Dir{
		root: defaultViewsDir,
	}
}

// NewDirAt creates a new Dir at the specified root path.
func NewDirAt(root string) *Dir {
	return &Dir{
		root: root,
	}
}

// ViewPath returns the path to a source's view file.
// Returns: {root}/{source}.yaml
func (d *Dir) ViewPath(source string) string {
	d.mx.RLock()
	defer d.mx.RUnlock()

	return filepath.Join(d.root, SanitizeFileName(source)+".yaml")
}

// Load loads the view state for a source.
// Returns a default view if none was saved.
func (d *Dir) Load(source string, pageSize int) (*View, error) {
	v := NewView(pageSize)
	if err := LoadYAML(d.ViewPath(source), v); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("failed to load view state: %w", err)
	}
	v.Validate(pageSize)

	return v, nil
}

// Save saves the view state for a source.
func (d *Dir) Save(source string, v *View) error {
	if v == nil {
		return errors.New("cannot save nil view")
	}
	d.mx.Lock()
	defer d.mx.Unlock()

	if _, err := EnsureDirPath(d.root, 0700); err != nil {
		return err
	}
	if err := SaveYAML(filepath.Join(d.root, SanitizeFileName(source)+".yaml"), v); err != nil {
		return fmt.Errorf("failed to save view state: %w", err)
	}

	return nil
}
