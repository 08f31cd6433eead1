package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const watchFixture = `materials:
  copper:
    name: Copper
    category: metal
    author_id: 3
`

func TestMaterialsWatcher_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Materials.yaml")
	if err := os.WriteFile(path, []byte(watchFixture), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	p, _, _ := newTestPipeline(t, &scriptedClient{})
	mw, err := NewMaterialsWatcher(path, p)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}

	if err := mw.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !mw.IsWatching() {
		t.Error("Expected watcher to be running")
	}

	mw.Stop()
	if mw.IsWatching() {
		t.Error("Expected watcher to be stopped")
	}

	// Stop again is a no-op.
	mw.Stop()
}

func TestMaterialsWatcher_ReexportsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Materials.yaml")
	if err := os.WriteFile(path, []byte(watchFixture), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	p, _, _ := newTestPipeline(t, &scriptedClient{})
	mw, err := NewMaterialsWatcher(path, p)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	if err := mw.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer mw.Stop()

	if err := os.WriteFile(path, []byte(watchFixture), 0644); err != nil {
		t.Fatalf("Failed to touch fixture: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if mw.GetStats().Reloads >= 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("Watcher never re-exported; stats: %+v", mw.GetStats())
}
