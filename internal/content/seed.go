package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed defaults/*.yml
var defaultFiles embed.FS

// SeedDefaults writes the bundled example and template definitions into dir
// when it holds no definition files yet. It returns the names written.
func SeedDefaults(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create skills directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read skills directory: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && isDefinitionFile(e.Name()) {
			return nil, nil
		}
	}

	defaults, err := fs.ReadDir(defaultFiles, "defaults")
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled skills: %w", err)
	}

	var written []string
	for _, e := range defaults {
		data, err := defaultFiles.ReadFile("defaults/" + e.Name())
		if err != nil {
			return written, fmt.Errorf("failed to read bundled skill %s: %w", e.Name(), err)
		}
		if err := os.WriteFile(filepath.Join(dir, e.Name()), data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", e.Name(), err)
		}
		written = append(written, e.Name())
	}
	return written, nil
}
