// Package frontmatter enriches material records into per-page frontmatter
// YAML and exports the resulting content files.
package frontmatter

import (
	"fmt"
	"strings"

	"github.com/z-beam/zbeam/internal/content"
	"github.com/z-beam/zbeam/internal/materials"
	"github.com/z-beam/zbeam/internal/persona"
)

// AuthorBlock is the author metadata embedded in a page.
type AuthorBlock struct {
	Name    string `yaml:"name"`
	Title   string `yaml:"title"`
	Country string `yaml:"country"`
}

// PropertyRow is one row of the properties table, ordered per the schema.
type PropertyRow struct {
	Name   string  `yaml:"name"`
	Value  float64 `yaml:"value"`
	Unit   string  `yaml:"unit"`
	Source string  `yaml:"source,omitempty"`
}

// ImagesBlock references generated page images.
type ImagesBlock struct {
	Hero  string `yaml:"hero,omitempty"`
	Micro string `yaml:"micro,omitempty"`
}

// Frontmatter is the full per-material page metadata document.
type Frontmatter struct {
	Title       string           `yaml:"title"`
	Slug        string           `yaml:"slug"`
	Subtitle    string           `yaml:"subtitle,omitempty"`
	Description string           `yaml:"description,omitempty"`
	Category    string           `yaml:"category"`
	Author      AuthorBlock      `yaml:"author"`
	Keywords    []string         `yaml:"keywords,omitempty"`
	Properties  []PropertyRow    `yaml:"properties,omitempty"`
	Breadcrumbs []Breadcrumb     `yaml:"breadcrumbs"`
	Images      ImagesBlock      `yaml:"images,omitempty"`
	Caption     *content.Caption `yaml:"caption,omitempty"`
	FAQs        []content.FAQ    `yaml:"faqs,omitempty"`
}

// Sections carries the generated content to fold into the frontmatter.
type Sections struct {
	Subtitle string
	Caption  *content.Caption
	FAQs     []content.FAQ
	Images   ImagesBlock
}

// Build enriches a material record into frontmatter.
func Build(slug string, m materials.Material, author persona.Author, sections Sections) (*Frontmatter, error) {
	if slug == "" {
		return nil, fmt.Errorf("empty slug")
	}
	if m.Category == "" {
		return nil, fmt.Errorf("material %s has no category", slug)
	}

	fm := &Frontmatter{
		Title:       fmt.Sprintf("Laser Cleaning %s", m.Name),
		Slug:        slug,
		Subtitle:    sections.Subtitle,
		Description: m.Description,
		Category:    m.Category,
		Author: AuthorBlock{
			Name:    author.Name,
			Title:   author.Title,
			Country: author.Country,
		},
		Keywords:    m.Keywords,
		Properties:  propertyRows(m),
		Breadcrumbs: Breadcrumbs(m.Category, m.Name, slug),
		Images:      sections.Images,
		Caption:     sections.Caption,
		FAQs:        sections.FAQs,
	}
	return fm, nil
}

// propertyRows orders the material's properties per the schema, skipping
// properties the material does not carry.
func propertyRows(m materials.Material) []PropertyRow {
	var rows []PropertyRow
	for _, name := range materials.PropertySchema {
		p, ok := m.Properties[name]
		if !ok {
			continue
		}
		rows = append(rows, PropertyRow{
			Name:   name,
			Value:  p.Value,
			Unit:   p.Unit,
			Source: p.Source,
		})
	}
	return rows
}

// Slugify converts a display name into a URL slug.
func Slugify(name string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
