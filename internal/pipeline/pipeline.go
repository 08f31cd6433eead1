// Package pipeline wires the generation flow end to end: content sections
// from the LLM, quality gating, run history, failure tallies, and frontmatter
// export.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/z-beam/zbeam/internal/content"
	"github.com/z-beam/zbeam/internal/frontmatter"
	"github.com/z-beam/zbeam/internal/logging"
	"github.com/z-beam/zbeam/internal/materials"
	"github.com/z-beam/zbeam/internal/monitor"
	"github.com/z-beam/zbeam/internal/persona"
	"github.com/z-beam/zbeam/internal/quality"
	"github.com/z-beam/zbeam/internal/store"
)

// Detector scores how human a text reads, 0..100.
type Detector interface {
	Detect(ctx context.Context, text string) (float64, error)
}

// Options configures a pipeline.
type Options struct {
	Generator  *content.Generator
	Detector   Detector
	Thresholds *quality.ThresholdManager
	Runs       *store.Store
	Monitor    *monitor.PayloadMonitor
	Exporter   *frontmatter.Exporter
	ModelName  string
	FAQCount   int
}

// Pipeline orchestrates per-material generation.
type Pipeline struct {
	gen         *content.Generator
	detector    Detector
	scorer      *quality.CompositeScorer
	structural  *quality.StructuralVariationChecker
	readability *quality.ReadabilityChecker
	technical   *quality.TechnicalAccuracyChecker
	thresholds  *quality.ThresholdManager
	runs        *store.Store
	monitor     *monitor.PayloadMonitor
	exporter    *frontmatter.Exporter
	modelName   string
	faqCount    int
}

// New builds a pipeline. A nil Generator is allowed for export-only use.
// The composite weights depend on whether a detector is available: with one
// the full four-signal weighting applies; without one the winston weight is
// redistributed over the offline signals.
func New(opts Options) (*Pipeline, error) {
	if opts.Thresholds == nil {
		return nil, fmt.Errorf("pipeline requires a threshold manager")
	}

	weights := map[string]float64{
		quality.SignalStructural:  0.4,
		quality.SignalReadability: 0.3,
		quality.SignalTechnical:   0.3,
	}
	if opts.Detector != nil {
		weights = quality.DefaultWeights()
	}
	scorer, err := quality.NewCompositeScorer(weights)
	if err != nil {
		return nil, err
	}

	faqCount := opts.FAQCount
	if faqCount < 1 {
		faqCount = 3
	}

	return &Pipeline{
		gen:         opts.Generator,
		detector:    opts.Detector,
		scorer:      scorer,
		structural:  quality.NewStructuralVariationChecker(),
		readability: quality.NewReadabilityChecker(),
		technical:   quality.NewTechnicalAccuracyChecker(),
		thresholds:  opts.Thresholds,
		runs:        opts.Runs,
		monitor:     opts.Monitor,
		exporter:    opts.Exporter,
		modelName:   opts.ModelName,
		faqCount:    faqCount,
	}, nil
}

// MaterialResult summarizes one material's generation run.
type MaterialResult struct {
	Slug     string
	Path     string
	Scores   map[string]float64
	Passed   map[string]bool
	Sections frontmatter.Sections
}

// Generate runs the full flow for one material: caption, FAQs, subtitle,
// quality gating per component, then frontmatter export. Components that fail
// their gate are still exported; the gate result is recorded for threshold
// learning, not used to censor output.
func (p *Pipeline) Generate(ctx context.Context, file *materials.File, slug string) (*MaterialResult, error) {
	if p.gen == nil {
		return nil, fmt.Errorf("no LLM client configured")
	}
	m, err := file.Get(slug)
	if err != nil {
		return nil, err
	}
	author := p.authorFor(m, slug)

	logging.Pipeline("Generating content for %s (author: %s)", slug, author.Name)
	res := &MaterialResult{
		Slug:   slug,
		Scores: make(map[string]float64),
		Passed: make(map[string]bool),
	}

	caption, err := p.gen.Caption(ctx, m, author)
	if err != nil {
		p.recordFailure("caption", slug, err)
		return nil, err
	}
	res.Sections.Caption = caption
	if err := p.gate(ctx, slug, "caption", caption.Before+" "+caption.After, m, res); err != nil {
		return nil, err
	}

	faqs, err := p.gen.FAQs(ctx, m, author, p.faqCount)
	if err != nil {
		p.recordFailure("faq", slug, err)
		return nil, err
	}
	res.Sections.FAQs = faqs
	if err := p.gate(ctx, slug, "faq", joinFAQs(faqs), m, res); err != nil {
		return nil, err
	}

	subtitle, err := p.gen.Subtitle(ctx, m, author)
	if err != nil {
		p.recordFailure("subtitle", slug, err)
		return nil, err
	}
	res.Sections.Subtitle = subtitle
	if err := p.gate(ctx, slug, "subtitle", subtitle, m, res); err != nil {
		return nil, err
	}

	if p.exporter != nil {
		fm, err := frontmatter.Build(slug, m, author, res.Sections)
		if err != nil {
			p.recordFailure("frontmatter", slug, err)
			return nil, err
		}
		path, err := p.exporter.Write(fm)
		if err != nil {
			p.recordFailure("frontmatter", slug, err)
			return nil, err
		}
		res.Path = path
	}

	return res, nil
}

// gate scores a component's text, records the outcome, and updates the run
// history. Scoring failures are pipeline failures; a failed gate is not.
func (p *Pipeline) gate(ctx context.Context, slug, component, text string, m materials.Material, res *MaterialResult) error {
	start := time.Now()

	signals := map[string]float64{
		quality.SignalStructural:  p.structural.Score(text),
		quality.SignalReadability: p.readability.Score(text),
		quality.SignalTechnical:   p.technical.Score(text, m.Properties),
	}
	if p.detector != nil {
		ws, err := p.detector.Detect(ctx, text)
		if err != nil {
			p.recordFailure(component, slug, err)
			return fmt.Errorf("quality detection for %s.%s failed: %w", slug, component, err)
		}
		signals[quality.SignalWinston] = ws
	}

	score, err := p.scorer.Score(signals)
	if err != nil {
		return err
	}

	passed, threshold, err := p.thresholds.Gate(slug, component, score)
	if err != nil {
		return fmt.Errorf("threshold gate for %s.%s failed: %w", slug, component, err)
	}
	res.Scores[component] = score
	res.Passed[component] = passed

	if !passed {
		logging.Quality("%s.%s scored %.1f below threshold %.1f", slug, component, score, threshold)
	}

	if p.runs != nil {
		_, err := p.runs.Record(store.Run{
			Material:   slug,
			Component:  component,
			Model:      p.modelName,
			DurationMS: time.Since(start).Milliseconds(),
			Success:    passed,
			Score:      score,
		})
		if err != nil {
			logging.PipelineError("Failed to record run for %s.%s: %v", slug, component, err)
		}
	}
	return nil
}

func (p *Pipeline) recordFailure(stage, slug string, err error) {
	logging.PipelineError("%s failed for %s: %v", stage, slug, err)
	if p.monitor != nil {
		p.monitor.RecordFailure(stage, slug, err.Error())
	}
}

func (p *Pipeline) authorFor(m materials.Material, slug string) persona.Author {
	if a, err := persona.Get(m.AuthorID); err == nil {
		return a
	}
	return persona.Rotate(len(slug))
}

func joinFAQs(faqs []content.FAQ) string {
	text := ""
	for _, f := range faqs {
		text += f.Question + " " + f.Answer + " "
	}
	return text
}

// BatchResult aggregates a batch run.
type BatchResult struct {
	Results []*MaterialResult
	Errors  map[string]error
}

// Batch generates the given materials with up to workers running in
// parallel. workers<=0 means sequential. Per-material failures are collected,
// not fatal; only context cancellation aborts the batch.
func (p *Pipeline) Batch(ctx context.Context, file *materials.File, slugs []string, workers int) (*BatchResult, error) {
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	out := make([]*MaterialResult, len(slugs))
	errs := make([]error, len(slugs))

	for i, slug := range slugs {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			res, err := p.Generate(ctx, file, slug)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				errs[i] = err
				return nil
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &BatchResult{Errors: make(map[string]error)}
	for i, slug := range slugs {
		if errs[i] != nil {
			batch.Errors[slug] = errs[i]
			continue
		}
		if out[i] != nil {
			batch.Results = append(batch.Results, out[i])
		}
	}
	return batch, nil
}

// ExportAll rebuilds and exports frontmatter for every material from existing
// data, without any LLM calls. Used by watch mode.
func (p *Pipeline) ExportAll(file *materials.File) (frontmatter.ExportResult, error) {
	if p.exporter == nil {
		return frontmatter.ExportResult{}, fmt.Errorf("pipeline has no exporter")
	}

	var docs []*frontmatter.Frontmatter
	for _, slug := range file.Slugs() {
		m := file.Materials[slug]
		fm, err := frontmatter.Build(slug, m, p.authorFor(m, slug), frontmatter.Sections{})
		if err != nil {
			logging.FrontmatterDebug("Skipping %s: %v", slug, err)
			continue
		}
		docs = append(docs, fm)
	}
	return p.exporter.WriteAll(docs), nil
}
