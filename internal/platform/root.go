package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/voxnote/pkg/adapters/fs"
)

// FindRoot looks upwards from startDir for a directory holding notes.
// Indicators are: a .voxnote directory or a voxnote.yaml file.
// If found, returns the absolute path to the root.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, fs.DefaultSystemDir) || hasFile(dir, "voxnote.yaml") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

// DataDir returns the per-user notes directory:
// $XDG_DATA_HOME/voxnote, falling back to ~/.local/share/voxnote.
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "voxnote"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "voxnote"), nil
}

// DefaultPath picks the notes directory when none is configured: the
// nearest root above the working directory, else DataDir.
func DefaultPath() (string, error) {
	if wd, err := os.Getwd(); err == nil {
		if root, err := FindRoot(wd); err == nil {
			return root, nil
		}
	}
	return DataDir()
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
