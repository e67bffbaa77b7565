// Package appdata manages the per-user application directory where caches,
// per-profile logs and miscellaneous data files live.
package appdata

import (
	"fmt"
	"os"
	"path/filepath"
)

const dirName = ".workgrid-studio"

// Dir returns the application data directory (~/.workgrid-studio) without
// creating it.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Ensure creates the application directory and its cache, logs and data
// subdirectories, returning the base path.
func Ensure() (string, error) {
	base, err := Dir()
	if err != nil {
		return "", err
	}
	for _, sub := range []string{"cache", "logs", "data"} {
		p := filepath.Join(base, sub)
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", p, err)
		}
	}
	return base, nil
}

// LogDir returns (and creates) the log directory for one connection profile.
func LogDir(profileID string) (string, error) {
	base, err := Dir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "logs", profileID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log dir: %w", err)
	}
	return dir, nil
}

// ReadDataFile reads a file from the data subdirectory. A missing file reads
// as empty, matching how the settings layer treats first launches.
func ReadDataFile(filename string) (string, error) {
	base, err := Dir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(base, "data", filename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read error: %w", err)
	}
	return string(data), nil
}

// WriteDataFile writes a file into the data subdirectory, creating the
// directory tree if absent.
func WriteDataFile(filename, contents string) error {
	base, err := Ensure()
	if err != nil {
		return err
	}
	path := filepath.Join(base, "data", filename)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// DeleteDataFile removes a file from the data subdirectory. Deleting a
// missing file is not an error.
func DeleteDataFile(filename string) error {
	base, err := Dir()
	if err != nil {
		return err
	}
	path := filepath.Join(base, "data", filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete error: %w", err)
	}
	return nil
}
