package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/z-beam/zbeam/internal/config"
	"github.com/z-beam/zbeam/internal/monitor"
	"github.com/z-beam/zbeam/internal/quality"
)

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Quality gating inspection commands",
}

var qualityThresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Show the current pass threshold and pass rate per component",
	Long: `Shows what each content component must currently score to pass.
Thresholds adapt from the score history in the feedback database once
enough samples exist; before that the configured default applies.`,
	RunE: runQualityThresholds,
}

var qualityFailuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "Show the generation-failure report",
	Long: `Shows the failure tallies flushed by previous runs: counts per
pipeline stage and the most recent individual failures.`,
	RunE: runQualityFailures,
}

func init() {
	qualityCmd.AddCommand(qualityThresholdsCmd)
	qualityCmd.AddCommand(qualityFailuresCmd)
}

var qualityComponents = []string{"caption", "faq", "subtitle"}

// thresholdRow is one component's line in the thresholds table. HasRate is
// false when no feedback rows exist yet, so a fresh install shows the
// configured default with zero samples instead of failing.
type thresholdRow struct {
	Component string
	Threshold float64
	Samples   int
	PassRate  float64
	HasRate   bool
}

func thresholdRows(tm *quality.ThresholdManager, fs *quality.FeedbackStore, components []string) ([]thresholdRow, error) {
	rows := make([]thresholdRow, 0, len(components))
	for _, component := range components {
		threshold, err := tm.Threshold(component)
		if err != nil {
			return nil, err
		}
		count, err := fs.Count(component)
		if err != nil {
			return nil, err
		}

		row := thresholdRow{Component: component, Threshold: threshold, Samples: count}
		if count > 0 {
			rate, err := fs.PassRate(component)
			if err != nil {
				return nil, err
			}
			row.PassRate = rate
			row.HasRate = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func runQualityThresholds(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	tm, err := quality.NewThresholdManager(a.feedback, quality.ThresholdConfig{
		Default:    a.cfg.Quality.DefaultThreshold,
		Floor:      a.cfg.Quality.ThresholdFloor,
		Ceiling:    a.cfg.Quality.ThresholdCeiling,
		Percentile: a.cfg.Quality.Percentile,
		MinSamples: a.cfg.Quality.MinSamples,
		Window:     100,
	})
	if err != nil {
		return err
	}

	rows, err := thresholdRows(tm, a.feedback, qualityComponents)
	if err != nil {
		return err
	}

	fmt.Printf("%-10s %10s %10s %10s\n", "component", "threshold", "samples", "pass rate")
	for _, row := range rows {
		rate := "n/a"
		if row.HasRate {
			rate = fmt.Sprintf("%.0f%%", row.PassRate*100)
		}
		fmt.Printf("%-10s %10.1f %10d %10s\n", row.Component, row.Threshold, row.Samples, rate)
	}

	fmt.Printf("\nDefault %.1f applies until %d samples; learned thresholds clamp to [%.1f, %.1f]\n",
		a.cfg.Quality.DefaultThreshold, a.cfg.Quality.MinSamples,
		a.cfg.Quality.ThresholdFloor, a.cfg.Quality.ThresholdCeiling)
	return nil
}

// failureReportTail is how many recent failures the report view lists.
const failureReportTail = 10

func runQualityFailures(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(resolvePath(configPath))
	if err != nil {
		return err
	}
	report, err := monitor.Load(resolvePath(cfg.Data.MonitorPath))
	if err != nil {
		return err
	}
	fmt.Print(formatFailureReport(report, failureReportTail))
	return nil
}

func formatFailureReport(report monitor.Report, tail int) string {
	if len(report.Failures) == 0 && len(report.Counts) == 0 {
		return "No failures recorded\n"
	}

	var b strings.Builder
	stages := make([]string, 0, len(report.Counts))
	for s := range report.Counts {
		stages = append(stages, s)
	}
	sort.Strings(stages)

	fmt.Fprintf(&b, "%-12s %8s\n", "stage", "count")
	for _, s := range stages {
		fmt.Fprintf(&b, "%-12s %8d\n", s, report.Counts[s])
	}

	failures := report.Failures
	if tail > 0 && len(failures) > tail {
		failures = failures[len(failures)-tail:]
	}
	if len(failures) > 0 {
		b.WriteString("\nRecent failures:\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "  %s  %s/%s: %s\n", f.At.Format("2006-01-02 15:04"), f.Stage, f.Material, f.Reason)
		}
	}
	if !report.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "\nLast updated %s\n", report.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}
