package images

import (
	"fmt"
	"strings"
)

// Preset names accepted by the CLI.
const (
	PresetHero       = "hero"
	PresetHistorical = "historical"
)

// Presets lists the available preset names.
func Presets() []string {
	return []string{PresetHero, PresetHistorical}
}

// PromptRequest carries the inputs for building an image prompt.
type PromptRequest struct {
	Preset   string
	Material string
	City     string
	Year     string
}

// BuildPrompt renders the prompt text for a preset. The material is required
// for hero shots; city and year shape historical photos.
func BuildPrompt(req PromptRequest) (string, error) {
	switch req.Preset {
	case PresetHero:
		if req.Material == "" {
			return "", fmt.Errorf("hero preset requires a material")
		}
		return heroPrompt(req.Material), nil
	case PresetHistorical:
		if req.City == "" {
			return "", fmt.Errorf("historical preset requires a city")
		}
		return historicalPrompt(req.City, req.Year), nil
	default:
		return "", fmt.Errorf("unknown preset %q (available: %s)",
			req.Preset, strings.Join(Presets(), ", "))
	}
}

func heroPrompt(material string) string {
	return fmt.Sprintf(
		"Professional studio product photograph of an industrial laser cleaning "+
			"system removing contaminants from a %s surface. Bright focused beam, "+
			"sparks of ablated material, split surface showing the treated half "+
			"restored to bare %s. Dark industrial background, dramatic side "+
			"lighting, shallow depth of field, photorealistic.",
		strings.ToLower(material), strings.ToLower(material))
}

func historicalPrompt(city, year string) string {
	when := "the early industrial era"
	if year != "" {
		when = year
	}
	return fmt.Sprintf(
		"Archival-style photograph of %s in %s. Street-level view of workshops "+
			"and industry of the period, workers at their trade, weathered "+
			"building facades, period-accurate clothing and tools. Natural "+
			"daylight, documentary composition, subtle film grain.",
		city, when)
}
