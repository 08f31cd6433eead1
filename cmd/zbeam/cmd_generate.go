package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	generateAll     bool
	generateWorkers int
	generateFAQs    int
)

var generateCmd = &cobra.Command{
	Use:   "generate [material...]",
	Short: "Generate content sections for materials",
	Long: `Generates the caption, FAQ, and subtitle sections for the named
materials (or the whole catalog with --all), scores each section, and
exports the enriched frontmatter document.

Examples:
  zbeam generate aluminum
  zbeam generate --all --workers 4`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateAll, "all", false, "Generate for every material")
	generateCmd.Flags().IntVar(&generateWorkers, "workers", 1, "Parallel generation workers")
	generateCmd.Flags().IntVar(&generateFAQs, "faqs", 3, "FAQ entries per material")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{needLLM: true})
	if err != nil {
		return err
	}
	defer a.Close()

	slugs, err := a.resolveSlugs(args, generateAll)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	logger.Info("Starting generation",
		zap.Int("materials", len(slugs)),
		zap.Int("workers", generateWorkers))

	res, err := a.pipeline.Batch(ctx, a.file, slugs, generateWorkers)
	if err != nil {
		return err
	}

	for _, r := range res.Results {
		fmt.Printf("%s -> %s\n", r.Slug, r.Path)
		components := make([]string, 0, len(r.Scores))
		for c := range r.Scores {
			components = append(components, c)
		}
		sort.Strings(components)
		for _, c := range components {
			status := "pass"
			if !r.Passed[c] {
				status = "below threshold"
			}
			fmt.Printf("  %-10s %.1f (%s)\n", c, r.Scores[c], status)
		}
	}

	if len(res.Errors) > 0 {
		fmt.Printf("\n%d material(s) failed:\n", len(res.Errors))
		for slug, ferr := range res.Errors {
			fmt.Printf("  %s: %v\n", slug, ferr)
		}
		return fmt.Errorf("generation completed with %d failure(s)", len(res.Errors))
	}

	fmt.Printf("\nGenerated %d material(s)\n", len(res.Results))
	return nil
}
