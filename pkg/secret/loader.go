package secret

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader reads signature catalogs from YAML.
type Loader struct {
	fs fs.FS
}

// NewLoader creates a loader backed by the embedded builtin catalog.
func NewLoader() *Loader {
	return &Loader{fs: builtinPatternsFS}
}

// NewLoaderWithFS creates a loader with a custom filesystem.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{fs: fsys}
}

// LoadBuiltin loads and compiles every pattern from the embedded
// catalog files.
func (l *Loader) LoadBuiltin() ([]*Pattern, error) {
	var patterns []*Pattern

	err := fs.WalkDir(l.fs, "patterns", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}
		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		loaded, err := parsePatterns(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		patterns = append(patterns, loaded...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return patterns, nil
}

// LoadFile loads and compiles patterns from a YAML file on disk,
// allowing deployments to extend the builtin catalog.
func (l *Loader) LoadFile(path string) ([]*Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return parsePatterns(data)
}

func parsePatterns(data []byte) ([]*Pattern, error) {
	var file yamlPatternsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	if len(file.Patterns) == 0 {
		return nil, fmt.Errorf("no patterns found in catalog")
	}

	patterns := make([]*Pattern, 0, len(file.Patterns))
	for _, yp := range file.Patterns {
		p := &Pattern{
			ID:       yp.ID,
			Name:     yp.Name,
			Category: parseCategory(yp.Category),
			Pattern:  yp.Pattern,
			Keywords: yp.Keywords,
		}
		if err := p.compile(); err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// parseCategory maps the YAML category string to the closed set.
// Unknown values load as "secret" so new catalog entries fail closed.
func parseCategory(s string) Category {
	switch Category(s) {
	case CategoryCredential:
		return CategoryCredential
	default:
		return CategorySecret
	}
}
