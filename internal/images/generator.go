// Package images generates marketing imagery (product hero shots, historical
// region photos) through the Google GenAI image models and writes the results
// alongside JSON metadata sidecars.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/genai"

	"github.com/z-beam/zbeam/internal/logging"
	"github.com/z-beam/zbeam/internal/monitor"
)

// DefaultModel is the image generation model used when none is configured.
const DefaultModel = "imagen-3.0-generate-002"

// Model abstracts the image API so the generator can be tested offline.
type Model interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// GenAIModel generates images through google.golang.org/genai.
type GenAIModel struct {
	client *genai.Client
	model  string
}

// NewGenAIModel creates an image model backed by the GenAI API.
func NewGenAIModel(apiKey, model string) (*GenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIModel{client: client, model: model}, nil
}

// Generate produces a single PNG image for the prompt.
func (m *GenAIModel) Generate(ctx context.Context, prompt string) ([]byte, error) {
	one := int32(1)
	result, err := m.client.Models.GenerateImages(ctx, m.model, prompt,
		&genai.GenerateImagesConfig{
			NumberOfImages: one,
		})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(result.GeneratedImages) == 0 || result.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("no images returned")
	}
	return result.GeneratedImages[0].Image.ImageBytes, nil
}

// Metadata is written next to each generated image.
type Metadata struct {
	Preset      string    `json:"preset"`
	Material    string    `json:"material,omitempty"`
	City        string    `json:"city,omitempty"`
	Year        string    `json:"year,omitempty"`
	Prompt      string    `json:"prompt"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Generator validates prompts, calls the image model, and writes results.
type Generator struct {
	model     Model
	modelName string
	validator *PromptValidator
	outDir    string
	monitor   *monitor.PayloadMonitor
}

// NewGenerator wires a generator over the given model. A nil monitor disables
// failure tallying.
func NewGenerator(model Model, modelName string, validator *PromptValidator, outDir string, mon *monitor.PayloadMonitor) *Generator {
	return &Generator{
		model:     model,
		modelName: modelName,
		validator: validator,
		outDir:    outDir,
		monitor:   mon,
	}
}

// Generate builds the preset prompt, validates it, generates the image, and
// writes <name>.png plus <name>.json under the output directory. It returns
// the image path. Prompts failing validation are rejected before any API call
// and tallied in the failure monitor.
func (g *Generator) Generate(ctx context.Context, req PromptRequest, name string) (string, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		g.recordFailure(name, err)
		return "", err
	}
	if err := g.validator.Validate(prompt); err != nil {
		g.recordFailure(name, err)
		return "", err
	}

	logging.Images("Generating %s image %q with %s", req.Preset, name, g.modelName)
	start := time.Now()
	data, err := g.model.Generate(ctx, prompt)
	if err != nil {
		logging.ImagesError("Generation failed for %q: %v", name, err)
		g.recordFailure(name, err)
		return "", err
	}
	logging.ImagesDebug("Generated %q (%d bytes) in %v", name, len(data), time.Since(start))

	if err := os.MkdirAll(g.outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	imagePath := filepath.Join(g.outDir, name+".png")
	if err := os.WriteFile(imagePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	meta := Metadata{
		Preset:      req.Preset,
		Material:    req.Material,
		City:        req.City,
		Year:        req.Year,
		Prompt:      prompt,
		Model:       g.modelName,
		GeneratedAt: time.Now().UTC(),
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal image metadata: %w", err)
	}
	metaPath := filepath.Join(g.outDir, name+".json")
	if err := os.WriteFile(metaPath, metaBytes, 0644); err != nil {
		return "", fmt.Errorf("failed to write image metadata: %w", err)
	}

	return imagePath, nil
}

func (g *Generator) recordFailure(name string, err error) {
	if g.monitor != nil {
		g.monitor.RecordFailure("images", name, err.Error())
	}
}
