package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/z-beam/zbeam/internal/logging"
	"github.com/z-beam/zbeam/internal/materials"
)

// MaterialsWatcher watches Materials.yaml and re-exports frontmatter whenever
// the file settles after a change. It watches the parent directory because
// most editors replace the file on save.
type MaterialsWatcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	pipeline    *Pipeline
	path        string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity for debugging.
type WatcherStats struct {
	EventsSeen    int
	Reloads       int
	ReloadErrors  int
	LastEventTime time.Time
}

// NewMaterialsWatcher creates a watcher for the materials file.
func NewMaterialsWatcher(materialsPath string, p *Pipeline) (*MaterialsWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &MaterialsWatcher{
		watcher:     watcher,
		pipeline:    p,
		path:        materialsPath,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (mw *MaterialsWatcher) Start(ctx context.Context) error {
	mw.mu.Lock()
	if mw.running {
		mw.mu.Unlock()
		return nil
	}
	mw.running = true
	mw.mu.Unlock()

	if err := mw.watcher.Add(filepath.Dir(mw.path)); err != nil {
		mw.mu.Lock()
		mw.running = false
		mw.mu.Unlock()
		return err
	}
	logging.Monitor("Watching %s for changes", mw.path)

	go mw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (mw *MaterialsWatcher) Stop() {
	mw.mu.Lock()
	if !mw.running {
		mw.mu.Unlock()
		return
	}
	mw.running = false
	mw.mu.Unlock()

	close(mw.stopCh)
	<-mw.doneCh

	if err := mw.watcher.Close(); err != nil {
		logging.PipelineError("Error closing materials watcher: %v", err)
	}
	logging.Monitor("Materials watcher stopped")
}

// IsWatching reports whether the event loop is running.
func (mw *MaterialsWatcher) IsWatching() bool {
	mw.mu.RLock()
	defer mw.mu.RUnlock()
	return mw.running
}

// GetStats returns a copy of the watcher statistics.
func (mw *MaterialsWatcher) GetStats() WatcherStats {
	mw.mu.RLock()
	defer mw.mu.RUnlock()
	return mw.stats
}

func (mw *MaterialsWatcher) run(ctx context.Context) {
	defer close(mw.doneCh)

	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-mw.stopCh:
			return

		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			mw.handleEvent(event)

		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			logging.PipelineError("Materials watcher error: %v", err)

		case <-debounceTicker.C:
			mw.processDebounced()
		}
	}
}

func (mw *MaterialsWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(mw.path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	logging.PipelineDebug("Materials change detected: %s", event.Op)
	mw.mu.Lock()
	mw.stats.EventsSeen++
	mw.stats.LastEventTime = time.Now()
	mw.debounceMap[event.Name] = time.Now()
	mw.mu.Unlock()
}

func (mw *MaterialsWatcher) processDebounced() {
	mw.mu.Lock()
	now := time.Now()
	ready := false
	for path, eventTime := range mw.debounceMap {
		if now.Sub(eventTime) >= mw.debounceDur {
			delete(mw.debounceMap, path)
			ready = true
		}
	}
	mw.mu.Unlock()

	if ready {
		mw.reload()
	}
}

func (mw *MaterialsWatcher) reload() {
	file, err := materials.Load(mw.path)
	if err != nil {
		logging.PipelineError("Reload of %s failed: %v", mw.path, err)
		mw.mu.Lock()
		mw.stats.ReloadErrors++
		mw.mu.Unlock()
		return
	}

	res, err := mw.pipeline.ExportAll(file)
	if err != nil {
		logging.PipelineError("Re-export failed: %v", err)
		mw.mu.Lock()
		mw.stats.ReloadErrors++
		mw.mu.Unlock()
		return
	}

	logging.Pipeline("Re-exported frontmatter: %d written, %d failed", res.Written, res.Failed)
	mw.mu.Lock()
	mw.stats.Reloads++
	mw.mu.Unlock()
}
