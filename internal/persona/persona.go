// Package persona holds the fixed registry of author personas used to vary
// generated prose style. The registry is intentionally static: content pages
// credit one of four authors and the voice instructions feed the prompts.
package persona

import (
	"fmt"
	"sort"
)

// Author is a fixed persona identity.
type Author struct {
	ID      int
	Name    string
	Title   string
	Country string
	// Voice is appended to system prompts to shape register and cadence.
	Voice string
}

var registry = map[int]Author{
	1: {
		ID:      1,
		Name:    "Yi-Chun Lin",
		Title:   "Ph.D.",
		Country: "Taiwan",
		Voice:   "Write with methodical precision. Prefer short declarative sentences and concrete process parameters. Occasionally lead with the measurement before the claim.",
	},
	2: {
		ID:      2,
		Name:    "Alessandro Moretti",
		Title:   "Ph.D.",
		Country: "Italy",
		Voice:   "Write with warmth and craftsmanship framing. Use longer flowing sentences and draw analogies to restoration and conservation work.",
	},
	3: {
		ID:      3,
		Name:    "Ikmanda Roswati",
		Title:   "Ph.D.",
		Country: "Indonesia",
		Voice:   "Write plainly and practically. Focus on operator experience, maintenance intervals, and field conditions. Avoid ornate vocabulary.",
	},
	4: {
		ID:      4,
		Name:    "Todd Dunning",
		Title:   "MA",
		Country: "United States",
		Voice:   "Write in a direct, benefit-first marketing register. Short paragraphs, active verbs, and an occasional rhetorical question.",
	},
}

// Get returns the author for an id.
func Get(id int) (Author, error) {
	a, ok := registry[id]
	if !ok {
		return Author{}, fmt.Errorf("unknown author id: %d", id)
	}
	return a, nil
}

// ByCountry returns the author for a country name.
func ByCountry(country string) (Author, error) {
	for _, a := range registry {
		if a.Country == country {
			return a, nil
		}
	}
	return Author{}, fmt.Errorf("no author for country: %s", country)
}

// All returns every author ordered by id.
func All() []Author {
	ids := make([]int, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	authors := make([]Author, 0, len(ids))
	for _, id := range ids {
		authors = append(authors, registry[id])
	}
	return authors
}

// Count returns the number of registered authors.
func Count() int {
	return len(registry)
}

// Rotate deterministically assigns an author to the n-th material so batch
// runs spread the four voices evenly.
func Rotate(n int) Author {
	ids := make([]int, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return registry[ids[n%len(ids)]]
}
