package frontmatter

import (
	"fmt"
	"strings"
)

// Breadcrumb is one entry of a page's breadcrumb trail.
type Breadcrumb struct {
	Label    string `yaml:"label"`
	Href     string `yaml:"href"`
	Position int    `yaml:"position"`
}

// Breadcrumbs builds the Home / category / material trail with 1-based
// positional metadata.
func Breadcrumbs(category, materialName, slug string) []Breadcrumb {
	return []Breadcrumb{
		{Label: "Home", Href: "/", Position: 1},
		{
			Label:    titleCase(category),
			Href:     fmt.Sprintf("/materials/%s", category),
			Position: 2,
		},
		{
			Label:    materialName,
			Href:     fmt.Sprintf("/materials/%s/%s", category, slug),
			Position: 3,
		},
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
