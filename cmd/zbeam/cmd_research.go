package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/z-beam/zbeam/internal/research"
)

var (
	researchApply     bool
	researchSimulated bool
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Property research commands",
}

var researchGapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Report missing, invalid, and out-of-range property data",
	RunE:  runResearchGaps,
}

var researchPropertiesCmd = &cobra.Command{
	Use:   "properties [material...]",
	Short: "Research missing property values and merge validated results",
	Long: `Runs gap analysis, proposes values for the missing properties, and
merges proposals that pass confidence and range validation.

Without --apply the proposals are printed but Materials.yaml is left
untouched. With --simulated no LLM is called; range midpoints are used,
which is only useful for exercising the merge path.`,
	RunE: runResearchProperties,
}

var researchContaminationCmd = &cobra.Command{
	Use:   "contamination <category|material>",
	Short: "Research common surface contaminants for a material category",
	Long: `Looks up the surface contaminants typically removed by laser cleaning
from a material category. A material slug resolves to its category.`,
	Args: cobra.ExactArgs(1),
	RunE: runResearchContamination,
}

func init() {
	researchPropertiesCmd.Flags().BoolVar(&researchApply, "apply", false, "Write merged values back to Materials.yaml")
	researchPropertiesCmd.Flags().BoolVar(&researchSimulated, "simulated", false, "Use offline range-midpoint lookup instead of the LLM")

	researchCmd.AddCommand(researchGapsCmd)
	researchCmd.AddCommand(researchPropertiesCmd)
	researchCmd.AddCommand(researchContaminationCmd)
}

func runResearchGaps(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{needCategories: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if missing := a.cats.CheckRangeCompleteness(); len(missing) > 0 {
		fmt.Println("Category schema is incomplete:")
		for _, line := range missing {
			fmt.Printf("  %s\n", line)
		}
	}

	gaps := research.Analyze(a.file, a.cats)
	if len(gaps) == 0 {
		fmt.Println("No gaps found")
		return nil
	}

	for _, g := range gaps {
		fmt.Println(g)
	}
	fmt.Printf("\n%d gap(s) across %d material(s)\n", len(gaps), len(a.file.Slugs()))
	return nil
}

func runResearchProperties(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{needCategories: true})
	if err != nil {
		return err
	}
	defer a.Close()

	simulated := researchSimulated || a.cfg.Research.Simulated
	if !simulated {
		if err := a.ensureLLM(); err != nil {
			return err
		}
	}

	slugs, err := a.resolveSlugs(args, len(args) == 0)
	if err != nil {
		return err
	}
	wanted := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		wanted[s] = true
	}

	var gaps []research.Gap
	for _, g := range research.Analyze(a.file, a.cats) {
		if wanted[g.Material] {
			gaps = append(gaps, g)
		}
	}
	if len(gaps) == 0 {
		fmt.Println("No gaps to research")
		return nil
	}

	var researcher research.Researcher
	if simulated {
		researcher = research.NewSimulatedResearcher(a.cats)
	} else {
		researcher = research.NewLLMResearcher(a.client, a.cfg.Research.MaxRetries)
	}
	bridge := research.NewBridge(researcher, a.cats, a.cfg.Research.MinConfidence)

	ctx, cancel := commandContext()
	defer cancel()

	res, err := bridge.FillGaps(ctx, a.file, gaps)
	if err != nil {
		return err
	}

	for _, u := range res.Applied {
		fmt.Printf("applied  %s.%s = %g %s (%s)\n", u.Material, u.Property, u.Value, u.Unit, u.Source)
	}
	for _, r := range res.Rejected {
		fmt.Printf("rejected %s\n", r)
	}

	if !researchApply {
		fmt.Println("\nDry run; use --apply to write Materials.yaml")
		return nil
	}
	if len(res.Applied) == 0 {
		fmt.Println("\nNothing to write")
		return nil
	}

	if err := a.file.Save(resolvePath(a.cfg.Data.MaterialsPath)); err != nil {
		return err
	}
	fmt.Printf("\nWrote %d value(s) to %s\n", len(res.Applied), a.cfg.Data.MaterialsPath)
	return nil
}

func runResearchContamination(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{needLLM: true})
	if err != nil {
		return err
	}
	defer a.Close()

	// A material slug resolves to its category; anything else is taken as a
	// category name directly.
	category := args[0]
	if m, err := a.file.Get(category); err == nil {
		category = m.Category
	}

	ctx, cancel := commandContext()
	defer cancel()

	researcher := research.NewContaminationResearcher(a.client, a.cfg.Research.MaxRetries)
	contaminants, err := researcher.Research(ctx, category)
	if err != nil {
		return err
	}

	fmt.Printf("Common contaminants on %s:\n\n", category)
	for _, c := range contaminants {
		fmt.Printf("%s\n", c.Name)
		if c.Description != "" {
			fmt.Printf("  %s\n", c.Description)
		}
		if c.Removal != "" {
			fmt.Printf("  Removal: %s\n", c.Removal)
		}
	}
	return nil
}
