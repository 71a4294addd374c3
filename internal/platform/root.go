package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootMarkers identify a site root.
var RootMarkers = append([]string{".showcase", "data"}, SiteConfigFiles...)

// FindRoot looks upwards from startDir for a site root: a directory holding
// a .showcase directory, a data directory or a showcase config file.
// It returns the absolute path of the first match.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range RootMarkers {
			if hasFile(dir, marker) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("site root not found from %s", abs)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
