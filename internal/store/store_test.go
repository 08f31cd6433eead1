package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAssignsID(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Record(Run{Material: "aluminum", Component: "caption", Model: "gemini-2.5-flash", DurationMS: 1200, Success: true, Score: 82})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if id == "" {
		t.Error("Expected a generated run id")
	}
}

func TestByMaterial(t *testing.T) {
	s := newTestStore(t)

	for _, m := range []string{"aluminum", "granite", "aluminum"} {
		if _, err := s.Record(Run{Material: m, Component: "faq", Model: "grok-2-latest", Success: true, Score: 75}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	runs, err := s.ByMaterial("aluminum", 10)
	if err != nil {
		t.Fatalf("ByMaterial failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("Expected 2 aluminum runs, got %d", len(runs))
	}
	for _, r := range runs {
		if r.Material != "aluminum" {
			t.Errorf("Unexpected material %q", r.Material)
		}
	}
}

func TestRecentLimit(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		if _, err := s.Record(Run{Material: "copper", Component: "subtitle", Model: "gemini-2.5-flash", Success: true, Score: 70}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	runs, err := s.Recent(3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("Expected 3 runs, got %d", len(runs))
	}
}

func TestSuccessRate(t *testing.T) {
	s := newTestStore(t)

	outcomes := []bool{true, true, false, true}
	for _, ok := range outcomes {
		if _, err := s.Record(Run{Material: "steel", Component: "caption", Model: "gemini-2.5-flash", Success: ok, Score: 60}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	rate, err := s.SuccessRate("caption")
	if err != nil {
		t.Fatalf("SuccessRate failed: %v", err)
	}
	if rate != 0.75 {
		t.Errorf("Expected success rate 0.75, got %g", rate)
	}

	rate, err = s.SuccessRate("never-ran")
	if err != nil {
		t.Fatalf("SuccessRate failed: %v", err)
	}
	if rate != 0 {
		t.Errorf("Expected 0 for unknown component, got %g", rate)
	}
}
