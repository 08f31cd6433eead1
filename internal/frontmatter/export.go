package frontmatter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/z-beam/zbeam/internal/logging"
)

// ExportResult summarizes an export run.
type ExportResult struct {
	Written int
	Failed  int
	Errors  []string
}

// Exporter writes frontmatter documents under a content directory as
// content/<category>/<slug>.md.
type Exporter struct {
	contentDir string
}

// NewExporter creates an exporter rooted at contentDir.
func NewExporter(contentDir string) *Exporter {
	return &Exporter{contentDir: contentDir}
}

// Write renders one frontmatter document to disk.
func (e *Exporter) Write(fm *Frontmatter) (string, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter for %s: %w", fm.Slug, err)
	}

	dir := filepath.Join(e.contentDir, fm.Category)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create content directory: %w", err)
	}

	path := filepath.Join(dir, fm.Slug+".md")
	doc := fmt.Sprintf("---\n%s---\n", data)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Frontmatter("Exported %s", path)
	return path, nil
}

// WriteAll renders a batch of documents, collecting per-file failures rather
// than aborting the run.
func (e *Exporter) WriteAll(docs []*Frontmatter) ExportResult {
	timer := logging.StartTimer(logging.CategoryFrontmatter, "WriteAll")
	defer timer.StopWithInfo()

	var result ExportResult
	for _, fm := range docs {
		if _, err := e.Write(fm); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			logging.Get(logging.CategoryFrontmatter).Error("Export failed for %s: %v", fm.Slug, err)
			continue
		}
		result.Written++
	}
	return result
}
