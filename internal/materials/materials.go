// Package materials manages Materials.yaml and Categories.yaml, the source of
// truth for the Z-Beam content pipeline. All writes go through a
// backup/restore path so a failed save never corrupts the data file.
package materials

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/z-beam/zbeam/internal/logging"
)

// Property is a value/unit/source triple attached to a material.
type Property struct {
	Value  float64 `yaml:"value"`
	Unit   string  `yaml:"unit"`
	Source string  `yaml:"source,omitempty"`
}

// Material is a single material record.
type Material struct {
	Name        string              `yaml:"name"`
	Category    string              `yaml:"category"`
	AuthorID    int                 `yaml:"author_id"`
	Description string              `yaml:"description,omitempty"`
	Keywords    []string            `yaml:"keywords,omitempty"`
	Properties  map[string]Property `yaml:"properties,omitempty"`
}

// File is the full Materials.yaml document, keyed by material slug.
type File struct {
	Materials map[string]Material `yaml:"materials"`
}

// Load reads and parses Materials.yaml.
func Load(path string) (*File, error) {
	timer := logging.StartTimer(logging.CategoryMaterials, "Load")
	defer timer.Stop()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read materials file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse materials file: %w", err)
	}
	if f.Materials == nil {
		return nil, fmt.Errorf("materials file has no 'materials' key: %s", path)
	}

	logging.Materials("Loaded %d materials from %s", len(f.Materials), path)
	return &f, nil
}

// Slugs returns the material slugs in sorted order.
func (f *File) Slugs() []string {
	slugs := make([]string, 0, len(f.Materials))
	for slug := range f.Materials {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Get returns the material for a slug.
func (f *File) Get(slug string) (Material, error) {
	m, ok := f.Materials[slug]
	if !ok {
		return Material{}, fmt.Errorf("unknown material: %s", slug)
	}
	return m, nil
}

// ByCategory returns slugs of all materials in the given category, sorted.
func (f *File) ByCategory(category string) []string {
	var slugs []string
	for slug, m := range f.Materials {
		if m.Category == category {
			slugs = append(slugs, slug)
		}
	}
	sort.Strings(slugs)
	return slugs
}

// Save writes the materials file with backup/restore-on-failure semantics:
// the existing file is copied to <path>.bak first; if the write fails the
// backup is restored before the error is returned.
func (f *File) Save(path string) error {
	timer := logging.StartTimer(logging.CategoryMaterials, "Save")
	defer timer.Stop()

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal materials: %w", err)
	}

	backupPath := path + ".bak"
	hadOriginal := false
	if original, err := os.ReadFile(path); err == nil {
		hadOriginal = true
		if err := os.WriteFile(backupPath, original, 0644); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		if hadOriginal {
			if restoreErr := restoreBackup(backupPath, path); restoreErr != nil {
				logging.MaterialsError("Restore after failed save also failed: %v", restoreErr)
			} else {
				logging.Materials("Restored %s from backup after failed save", path)
			}
		}
		return fmt.Errorf("failed to write materials file: %w", err)
	}

	logging.Materials("Saved %d materials to %s", len(f.Materials), path)
	return nil
}

func restoreBackup(backupPath, path string) error {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	return nil
}
