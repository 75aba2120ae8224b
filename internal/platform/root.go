package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// DirName is the data directory kept at the root of a notes workspace.
const DirName = ".notekeep"

// ErrRootNotFound is returned by FindRoot when no workspace is found.
var ErrRootNotFound = errors.New("notekeep root not found")

// FindRoot looks upwards from startDir for a directory containing DirName
// and returns the absolute path of that data directory.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}
