package main

import (
	"fmt"
	"path/filepath"

	"github.com/z-beam/zbeam/internal/config"
	"github.com/z-beam/zbeam/internal/content"
	"github.com/z-beam/zbeam/internal/frontmatter"
	"github.com/z-beam/zbeam/internal/llm"
	"github.com/z-beam/zbeam/internal/materials"
	"github.com/z-beam/zbeam/internal/monitor"
	"github.com/z-beam/zbeam/internal/pipeline"
	"github.com/z-beam/zbeam/internal/quality"
	"github.com/z-beam/zbeam/internal/store"
)

// app bundles the wired components a command needs. Build it with newApp and
// always Close it.
type app struct {
	cfg      *config.Config
	file     *materials.File
	cats     *materials.Categories
	client   llm.Client
	pipeline *pipeline.Pipeline
	runs     *store.Store
	feedback *quality.FeedbackStore
	monitor  *monitor.PayloadMonitor
}

// appOptions selects which components a command needs.
type appOptions struct {
	needLLM        bool
	needCategories bool
}

func newApp(opts appOptions) (*app, error) {
	cfg, err := config.Load(resolvePath(configPath))
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	a.file, err = materials.Load(resolvePath(cfg.Data.MaterialsPath))
	if err != nil {
		return nil, err
	}

	if opts.needCategories {
		a.cats, err = materials.LoadCategories(resolvePath(cfg.Data.CategoriesPath))
		if err != nil {
			return nil, err
		}
	}

	if opts.needLLM {
		if err := a.ensureLLM(); err != nil {
			return nil, err
		}
	}

	a.feedback, err = quality.NewFeedbackStore(resolvePath(cfg.Quality.FeedbackDBPath))
	if err != nil {
		return nil, err
	}

	thresholds, err := quality.NewThresholdManager(a.feedback, quality.ThresholdConfig{
		Default:    cfg.Quality.DefaultThreshold,
		Floor:      cfg.Quality.ThresholdFloor,
		Ceiling:    cfg.Quality.ThresholdCeiling,
		Percentile: cfg.Quality.Percentile,
		MinSamples: cfg.Quality.MinSamples,
		Window:     100,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.runs, err = store.Open(resolvePath(cfg.Data.DatabasePath))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.monitor = monitor.New(resolvePath(cfg.Data.MonitorPath))

	var detector pipeline.Detector
	if cfg.Quality.WinstonAPIKey != "" {
		detector = quality.NewWinstonClient(cfg.Quality.WinstonAPIKey, cfg.Quality.WinstonBaseURL)
	}

	var gen *content.Generator
	if a.client != nil {
		gen = content.NewGenerator(a.client, cfg.LLM.MaxRetries)
	}

	a.pipeline, err = pipeline.New(pipeline.Options{
		Generator:  gen,
		Detector:   detector,
		Thresholds: thresholds,
		Runs:       a.runs,
		Monitor:    a.monitor,
		Exporter:   frontmatter.NewExporter(resolvePath(cfg.Data.ContentDir)),
		ModelName:  cfg.LLM.Model,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// ensureLLM validates the config and builds the text client if one is not
// already present.
func (a *app) ensureLLM() error {
	if a.client != nil {
		return nil
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	client, err := llm.NewClient(&llm.ProviderConfig{
		Provider: llm.Provider(a.cfg.LLM.Provider),
		APIKey:   a.cfg.LLM.APIKey,
		Model:    a.cfg.LLM.Model,
	})
	if err != nil {
		return err
	}
	a.client = client
	return nil
}

// Close flushes the failure monitor and closes the stores.
func (a *app) Close() {
	if a.monitor != nil && a.monitor.Total() > 0 {
		if err := a.monitor.Flush(); err != nil {
			fmt.Printf("Warning: failed to write failure report: %v\n", err)
		}
	}
	if a.runs != nil {
		a.runs.Close()
	}
	if a.feedback != nil {
		a.feedback.Close()
	}
}

// resolveSlugs expands command arguments into material slugs. --all or no
// arguments selects the whole catalog.
func (a *app) resolveSlugs(args []string, all bool) ([]string, error) {
	if all || len(args) == 0 {
		return a.file.Slugs(), nil
	}
	for _, slug := range args {
		if _, err := a.file.Get(slug); err != nil {
			return nil, err
		}
	}
	return args, nil
}

// resolvePath anchors relative paths at the --workspace directory.
func resolvePath(path string) string {
	if workspace == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workspace, path)
}
