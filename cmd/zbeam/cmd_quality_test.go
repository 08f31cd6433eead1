package main

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/z-beam/zbeam/internal/monitor"
	"github.com/z-beam/zbeam/internal/quality"
)

func newThresholdFixture(t *testing.T) (*quality.ThresholdManager, *quality.FeedbackStore) {
	t.Helper()

	fs, err := quality.NewFeedbackStore(filepath.Join(t.TempDir(), "winston_feedback.db"))
	if err != nil {
		t.Fatalf("Failed to open feedback store: %v", err)
	}
	t.Cleanup(func() { fs.Close() })

	tm, err := quality.NewThresholdManager(fs, quality.ThresholdConfig{
		Default:    30,
		Floor:      20,
		Ceiling:    90,
		Percentile: 25,
		MinSamples: 20,
		Window:     100,
	})
	if err != nil {
		t.Fatalf("Failed to build threshold manager: %v", err)
	}
	return tm, fs
}

func TestThresholdRows_FreshStore(t *testing.T) {
	tm, fs := newThresholdFixture(t)

	rows, err := thresholdRows(tm, fs, qualityComponents)
	if err != nil {
		t.Fatalf("thresholdRows failed on an empty store: %v", err)
	}
	if len(rows) != len(qualityComponents) {
		t.Fatalf("Expected %d rows, got %d", len(qualityComponents), len(rows))
	}
	for _, row := range rows {
		if row.Threshold != 30 {
			t.Errorf("%s: threshold = %g, want configured default", row.Component, row.Threshold)
		}
		if row.Samples != 0 || row.HasRate {
			t.Errorf("%s: expected 0 samples and no pass rate, got %+v", row.Component, row)
		}
	}
}

func TestThresholdRows_WithHistory(t *testing.T) {
	tm, fs := newThresholdFixture(t)

	for _, passed := range []bool{true, true, true, false} {
		err := fs.Record(quality.FeedbackRow{
			Material: "aluminum", Component: "caption", Score: 70, Threshold: 30, Passed: passed,
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	rows, err := thresholdRows(tm, fs, []string{"caption", "faq"})
	if err != nil {
		t.Fatalf("thresholdRows failed: %v", err)
	}
	if rows[0].Samples != 4 || !rows[0].HasRate || rows[0].PassRate != 0.75 {
		t.Errorf("caption row: %+v, want 4 samples at 75%%", rows[0])
	}
	if rows[1].Samples != 0 || rows[1].HasRate {
		t.Errorf("faq row: %+v, want empty", rows[1])
	}
}

func TestFormatFailureReport(t *testing.T) {
	if got := formatFailureReport(monitor.Report{Counts: map[string]int{}}, 10); got != "No failures recorded\n" {
		t.Errorf("Empty report formatted as %q", got)
	}

	report := monitor.Report{
		Counts: map[string]int{"images": 2, "caption": 1},
		Failures: []monitor.Failure{
			{Stage: "caption", Material: "granite", Reason: "no completion returned", At: time.Now()},
			{Stage: "images", Material: "granite-hero", Reason: "prompt contradiction", At: time.Now()},
			{Stage: "images", Material: "milan-1925", Reason: "prompt too long", At: time.Now()},
		},
		UpdatedAt: time.Now(),
	}

	got := formatFailureReport(report, 2)
	if !strings.Contains(got, "images") || !strings.Contains(got, "caption") {
		t.Errorf("Report missing stage counts:\n%s", got)
	}
	if strings.Contains(got, "no completion returned") {
		t.Errorf("Tail of 2 should drop the oldest failure:\n%s", got)
	}
	if !strings.Contains(got, "prompt too long") {
		t.Errorf("Report missing most recent failure:\n%s", got)
	}
}
