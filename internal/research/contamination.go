package research

import (
	"context"
	"fmt"

	"github.com/z-beam/zbeam/internal/llm"
)

// Contaminant is one contamination pattern common to a material category.
type Contaminant struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Removal     string `json:"removal"`
}

// contaminationResponse is the JSON shape requested from the model.
type contaminationResponse struct {
	Category     string        `json:"category"`
	Contaminants []Contaminant `json:"contaminants"`
}

// ContaminationResearcher looks up typical surface contaminants per material
// category. Responses go through the JSON repair path since models frequently
// wrap or mangle this payload.
type ContaminationResearcher struct {
	client      llm.Client
	maxAttempts int
}

// NewContaminationResearcher wires a contamination researcher.
func NewContaminationResearcher(client llm.Client, maxAttempts int) *ContaminationResearcher {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	return &ContaminationResearcher{client: client, maxAttempts: maxAttempts}
}

// Research returns the common contaminants for a category.
func (r *ContaminationResearcher) Research(ctx context.Context, category string) ([]Contaminant, error) {
	prompt := fmt.Sprintf(`List the surface contaminants most commonly removed by
laser cleaning from %s materials.

Respond with JSON only:
{"category": %q, "contaminants": [{"name": "...", "description": "...", "removal": "..."}]}`,
		category, category)

	var resp contaminationResponse
	if err := llm.GenerateJSON(ctx, r.client, researchSystemPrompt, prompt, &resp, r.maxAttempts); err != nil {
		return nil, fmt.Errorf("contamination research failed for %s: %w", category, err)
	}
	if len(resp.Contaminants) == 0 {
		return nil, fmt.Errorf("no contaminants returned for %s", category)
	}

	for i, c := range resp.Contaminants {
		if c.Name == "" {
			return nil, fmt.Errorf("contaminant %d for %s has no name", i, category)
		}
	}
	return resp.Contaminants, nil
}
