package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/z-beam/zbeam/internal/llm"
	"github.com/z-beam/zbeam/internal/logging"
	"github.com/z-beam/zbeam/internal/materials"
)

// Proposal is a researched value for one material property.
type Proposal struct {
	Property   string  `json:"property"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// Researcher proposes a value for one material property.
type Researcher interface {
	Research(ctx context.Context, material materials.Material, property string) (Proposal, error)
}

const researchSystemPrompt = `You are a materials science researcher for a laser
cleaning equipment company. You answer with precise physical property values
from authoritative references. Respond ONLY with a JSON object, no prose.`

// LLMResearcher asks an LLM for property values.
type LLMResearcher struct {
	client      llm.Client
	maxAttempts int
}

// NewLLMResearcher wires a researcher over an LLM client.
func NewLLMResearcher(client llm.Client, maxAttempts int) *LLMResearcher {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	return &LLMResearcher{client: client, maxAttempts: maxAttempts}
}

// Research asks for a single property triple with a confidence estimate.
func (r *LLMResearcher) Research(ctx context.Context, m materials.Material, property string) (Proposal, error) {
	prompt := fmt.Sprintf(`Provide the %s of %s (category: %s) for laser cleaning
process planning.

Respond with JSON only:
{"property": %q, "value": <number>, "unit": "<unit>", "source": "<reference>", "confidence": <0.0-1.0>}`,
		property, m.Name, m.Category, property)

	var p Proposal
	if err := llm.GenerateJSON(ctx, r.client, researchSystemPrompt, prompt, &p, r.maxAttempts); err != nil {
		return Proposal{}, fmt.Errorf("property research failed for %s.%s: %w", m.Name, property, err)
	}
	if p.Property == "" {
		p.Property = property
	}
	return p, nil
}

// SimulatedResearcher returns range midpoints without network access. Used
// for tests and air-gapped runs.
type SimulatedResearcher struct {
	cats *materials.Categories
}

// NewSimulatedResearcher builds an offline researcher over the category ranges.
func NewSimulatedResearcher(cats *materials.Categories) *SimulatedResearcher {
	return &SimulatedResearcher{cats: cats}
}

// Research proposes the midpoint of the category's validation range.
func (r *SimulatedResearcher) Research(_ context.Context, m materials.Material, property string) (Proposal, error) {
	rng, err := r.cats.Range(m.Category, property)
	if err != nil {
		return Proposal{}, err
	}
	return Proposal{
		Property:   property,
		Value:      (rng.Min + rng.Max) / 2,
		Unit:       rng.Unit,
		Source:     "simulated",
		Confidence: 1.0,
	}, nil
}

// Bridge runs gap analysis and merges validated proposals back into the
// materials file.
type Bridge struct {
	researcher    Researcher
	cats          *materials.Categories
	minConfidence float64
}

// NewBridge wires a research bridge. Proposals below minConfidence are
// rejected before any range check.
func NewBridge(researcher Researcher, cats *materials.Categories, minConfidence float64) *Bridge {
	if minConfidence <= 0 {
		minConfidence = 0.7
	}
	return &Bridge{researcher: researcher, cats: cats, minConfidence: minConfidence}
}

// Result summarizes one bridge run.
type Result struct {
	Applied  []materials.PropertyUpdate
	Rejected []string
}

// FillGaps researches every missing-value gap and applies proposals that pass
// confidence and range validation. Invalid and out-of-range gaps are reported
// but never auto-corrected.
func (b *Bridge) FillGaps(ctx context.Context, file *materials.File, gaps []Gap) (Result, error) {
	var res Result

	for _, gap := range gaps {
		if gap.Kind != GapMissing {
			res.Rejected = append(res.Rejected,
				fmt.Sprintf("%s: needs manual review", gap))
			continue
		}

		m, ok := file.Materials[gap.Material]
		if !ok {
			res.Rejected = append(res.Rejected,
				fmt.Sprintf("%s.%s: material disappeared during run", gap.Material, gap.Property))
			continue
		}

		proposal, err := b.researcher.Research(ctx, m, gap.Property)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.Rejected = append(res.Rejected,
				fmt.Sprintf("%s.%s: research failed: %v", gap.Material, gap.Property, err))
			continue
		}

		if proposal.Confidence < b.minConfidence {
			logging.Research("Rejected %s.%s: confidence %.2f below %.2f",
				gap.Material, gap.Property, proposal.Confidence, b.minConfidence)
			res.Rejected = append(res.Rejected,
				fmt.Sprintf("%s.%s: confidence %.2f below minimum %.2f",
					gap.Material, gap.Property, proposal.Confidence, b.minConfidence))
			continue
		}

		update := materials.PropertyUpdate{
			Material: gap.Material,
			Property: gap.Property,
			Value:    proposal.Value,
			Unit:     strings.TrimSpace(proposal.Unit),
			Source:   proposal.Source,
		}
		if err := file.Apply(update, b.cats); err != nil {
			res.Rejected = append(res.Rejected,
				fmt.Sprintf("%s.%s: %v", gap.Material, gap.Property, err))
			continue
		}

		logging.Research("Applied %s.%s = %g %s (confidence %.2f)",
			gap.Material, gap.Property, proposal.Value, proposal.Unit, proposal.Confidence)
		res.Applied = append(res.Applied, update)
	}

	return res, nil
}
