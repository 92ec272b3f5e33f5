package data

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// invalidPathCharsRX matches runs of characters that don't belong in a file name.
var invalidPathCharsRX = regexp.MustCompile(`[:/\\?*<>|"\s]+`)

// SanitizeFileName turns a source name (path or URL) into a flat file name.
func SanitizeFileName(name string) string {
	return strings.Trim(invalidPathCharsRX.ReplaceAllString(name, "-"), "-.")
}

// EnsureDirPath creates path if needed and returns it.
func EnsureDirPath(path string, perm os.FileMode) (string, error) {
	if err := os.MkdirAll(path, perm); err != nil {
		return "", fmt.Errorf("failed to create directory %q: %w", path, err)
	}
	return path, nil
}

// SaveYAML writes v to path through a temp file so readers never see a
// partial document.
func SaveYAML(path string, v any) error {
	dir, err := EnsureDirPath(filepath.Dir(path), 0700)
	if err != nil {
		return err
	}
	raw, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %q: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write YAML file %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write YAML file %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace YAML file %q: %w", path, err)
	}

	return nil
}

// LoadYAML decodes the YAML file at path into v. An empty file leaves v as is.
func LoadYAML(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file %q: %w", path, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to unmarshal YAML from %q: %w", path, err)
	}

	return nil
}
