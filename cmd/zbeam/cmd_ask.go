package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/z-beam/zbeam/internal/request"
)

var askCmd = &cobra.Command{
	Use:   "ask [request...]",
	Short: "Run a pipeline action from a free-text request",
	Long: `Maps a natural-language request onto a pipeline action and runs it.

Examples:
  zbeam ask generate captions for aluminum
  zbeam ask research gaps
  zbeam ask export frontmatter for everything`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")
	parsed, err := request.Parse(text, a.file.Slugs())
	a.Close()
	if err != nil {
		return err
	}

	fmt.Printf("Understood: %s", parsed.Action)
	if parsed.All {
		fmt.Print(" (all materials)")
	} else if len(parsed.Materials) > 0 {
		fmt.Printf(" (%s)", strings.Join(parsed.Materials, ", "))
	}
	fmt.Println()

	materialArgs := parsed.Materials
	all := parsed.All

	switch parsed.Action {
	case request.ActionCaption, request.ActionFAQ, request.ActionSubtitle:
		generateAll = all
		return runGenerate(cmd, materialArgs)
	case request.ActionFrontmatter:
		return runFrontmatterExport(cmd, nil)
	case request.ActionImages:
		if len(materialArgs) > 0 {
			imageMaterial = materialArgs[0]
		}
		return runImages(cmd, nil)
	case request.ActionGaps:
		return runResearchGaps(cmd, nil)
	case request.ActionResearch:
		return runResearchProperties(cmd, materialArgs)
	case request.ActionContamination:
		if len(materialArgs) == 0 {
			return fmt.Errorf("contamination research needs a material name")
		}
		return runResearchContamination(cmd, materialArgs[:1])
	case request.ActionThresholds:
		return runQualityThresholds(cmd, nil)
	}
	return fmt.Errorf("unsupported action: %s", parsed.Action)
}
