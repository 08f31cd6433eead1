package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var frontmatterCmd = &cobra.Command{
	Use:   "frontmatter",
	Short: "Frontmatter enrichment commands",
}

var frontmatterExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Rebuild and export frontmatter for every material",
	Long: `Re-exports content/<category>/<slug>.md for the whole catalog from
the current Materials.yaml data. No LLM calls are made; previously
generated sections are not re-created.`,
	RunE: runFrontmatterExport,
}

func init() {
	frontmatterCmd.AddCommand(frontmatterExportCmd)
}

func runFrontmatterExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.pipeline.ExportAll(a.file)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d file(s), %d failed\n", res.Written, res.Failed)
	for _, e := range res.Errors {
		fmt.Printf("  %s\n", e)
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d export(s) failed", res.Failed)
	}
	return nil
}
