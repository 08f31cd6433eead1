package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/z-beam/zbeam/internal/frontmatter"
	"github.com/z-beam/zbeam/internal/images"
)

var (
	imagePreset   string
	imageMaterial string
	imageCity     string
	imageYear     string
	imageName     string
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Generate marketing images",
	Long: `Generates a marketing image through the configured image model.

Presets:
  hero        Studio product shot of laser cleaning a material surface
  historical  Archival-style photo of a city's industrial past

Examples:
  zbeam images --preset hero --material aluminum
  zbeam images --preset historical --city Milan --year 1925`,
	RunE: runImages,
}

func init() {
	imagesCmd.Flags().StringVar(&imagePreset, "preset", images.PresetHero, "Image preset (hero, historical)")
	imagesCmd.Flags().StringVar(&imageMaterial, "material", "", "Material slug (hero preset)")
	imagesCmd.Flags().StringVar(&imageCity, "city", "", "City name (historical preset)")
	imagesCmd.Flags().StringVar(&imageYear, "year", "", "Year (historical preset)")
	imagesCmd.Flags().StringVar(&imageName, "name", "", "Output file name (without extension)")
}

func runImages(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	apiKey := a.cfg.LLM.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	model, err := images.NewGenAIModel(apiKey, a.cfg.Images.Model)
	if err != nil {
		return err
	}

	req := images.PromptRequest{
		Preset: imagePreset,
		City:   imageCity,
		Year:   imageYear,
	}
	if imageMaterial != "" {
		m, err := a.file.Get(imageMaterial)
		if err != nil {
			return err
		}
		req.Material = m.Name
	}

	name := imageName
	if name == "" {
		switch imagePreset {
		case images.PresetHero:
			name = frontmatter.Slugify(req.Material) + "-hero"
		case images.PresetHistorical:
			name = frontmatter.Slugify(imageCity) + "-" + imageYear
		default:
			name = "zbeam-image"
		}
	}

	gen := images.NewGenerator(model, a.cfg.Images.Model,
		images.NewPromptValidator(a.cfg.Images.MaxPromptLen),
		resolvePath(a.cfg.Data.ImagesDir), a.monitor)

	ctx, cancel := commandContext()
	defer cancel()

	path, err := gen.Generate(ctx, req, name)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
