package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// loadVarsFiles reads the YAML documents listed in vars_files. Relative paths
// resolve against baseDir. Documents are merged in order, so a key defined in
// a later file replaces the same key from an earlier one.
func loadVarsFiles(baseDir string, files []string) (map[string]any, error) {
	vars := map[string]any{}
	for _, name := range files {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, name)
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read vars file %q: %w", name, err)
		}

		doc := map[string]any{}
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse vars file %q: %w", name, err)
		}
		mergeMaps(vars, doc)
	}
	return vars, nil
}

// mergeMaps copies src into dst. Nested maps merge key by key; anything else
// is replaced.
func mergeMaps(dst, src map[string]any) {
	for key, value := range src {
		nested, ok := value.(map[string]any)
		if !ok {
			dst[key] = value
			continue
		}
		if existing, ok := dst[key].(map[string]any); ok {
			mergeMaps(existing, nested)
			continue
		}
		dst[key] = nested
	}
}
