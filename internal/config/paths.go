package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExecutableDir returns the directory containing the running binary with
// symlinks resolved
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// ResolveDataFile locates the source spreadsheet.
// Absolute paths are returned unchanged. Relative paths are tried against the
// working directory first and then next to the executable; when neither
// exists the path is returned as given so the loader reports it.
func ResolveDataFile(file string) string {
	return resolveDataFile(file, ExecutableDir)
}

func resolveDataFile(file string, exeDir func() (string, error)) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}

	if _, err := os.Stat(file); err == nil {
		if abs, err := filepath.Abs(file); err == nil {
			return abs
		}
		return file
	}

	if dir, err := exeDir(); err == nil {
		candidate := filepath.Join(dir, file)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return file
}

// DataFile returns the resolved source spreadsheet path
func (c *Config) DataFile() string {
	return ResolveDataFile(c.Data.File)
}
