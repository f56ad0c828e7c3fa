package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFile is the marker FindRoot looks for first.
const ConfigFile = "lessonkit.yaml"

// FindRoot recursively looks upwards for a project root indicator.
// Indicators are: a lessonkit.yaml file or a .git directory.
// If found, returns the absolute path to the root.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFile) || hasFile(dir, ".git") {
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

// FindConfig returns the lessonkit.yaml of the project containing startDir,
// or ConfigFile relative to startDir when no project file exists.
func FindConfig(startDir string) string {
	root, err := FindRoot(startDir)
	if err == nil && hasFile(root, ConfigFile) {
		return filepath.Join(root, ConfigFile)
	}
	return filepath.Join(startDir, ConfigFile)
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
