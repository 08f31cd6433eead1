package monitor

import (
	"path/filepath"
	"sync"
	"testing"
)

func TestRecordAndCount(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "failures.json"))

	m.RecordFailure("caption", "aluminum", "empty response")
	m.RecordFailure("caption", "granite", "invalid json")
	m.RecordFailure("frontmatter", "aluminum", "write denied")

	if got := m.Count("caption"); got != 2 {
		t.Errorf("Expected 2 caption failures, got %d", got)
	}
	if got := m.Count("frontmatter"); got != 1 {
		t.Errorf("Expected 1 frontmatter failure, got %d", got)
	}
	if got := m.Total(); got != 3 {
		t.Errorf("Expected 3 total failures, got %d", got)
	}

	stages := m.Stages()
	if len(stages) != 2 || stages[0] != "caption" || stages[1] != "frontmatter" {
		t.Errorf("Unexpected stages: %v", stages)
	}
}

func TestFlushAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "payload_failures.json")
	m := New(path)

	m.RecordFailure("research", "copper", "confidence below minimum")
	if err := m.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	report, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if report.Counts["research"] != 1 {
		t.Errorf("Expected 1 research failure, got %d", report.Counts["research"])
	}
	if len(report.Failures) != 1 {
		t.Fatalf("Expected 1 failure event, got %d", len(report.Failures))
	}
	if report.Failures[0].Material != "copper" {
		t.Errorf("Unexpected material %q", report.Failures[0].Material)
	}
}

func TestLoadMissingFile(t *testing.T) {
	report, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load of missing file should not error: %v", err)
	}
	if len(report.Counts) != 0 {
		t.Errorf("Expected empty counts, got %v", report.Counts)
	}
}

func TestConcurrentRecording(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "failures.json"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordFailure("images", "steel", "prompt rejected")
		}()
	}
	wg.Wait()

	if got := m.Count("images"); got != 20 {
		t.Errorf("Expected 20 failures, got %d", got)
	}
}
