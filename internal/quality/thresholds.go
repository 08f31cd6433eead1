package quality

import (
	"fmt"
	"math"
	"sort"

	"github.com/z-beam/zbeam/internal/logging"
)

// ThresholdConfig tunes threshold learning.
type ThresholdConfig struct {
	// Default is used until enough history exists.
	Default float64
	// Floor and Ceiling clamp learned thresholds.
	Floor   float64
	Ceiling float64
	// Percentile of historical scores used as the threshold (0..100).
	Percentile float64
	// MinSamples is the minimum history size before adapting.
	MinSamples int
	// Window limits how much history is considered (0 = all).
	Window int
}

// ThresholdManager adapts the pass threshold per component from the
// historical score distribution in the feedback store.
type ThresholdManager struct {
	store *FeedbackStore
	cfg   ThresholdConfig
}

// NewThresholdManager validates the config and returns a manager.
func NewThresholdManager(store *FeedbackStore, cfg ThresholdConfig) (*ThresholdManager, error) {
	if cfg.Floor > cfg.Ceiling {
		return nil, fmt.Errorf("threshold floor %g above ceiling %g", cfg.Floor, cfg.Ceiling)
	}
	if cfg.Percentile < 0 || cfg.Percentile > 100 {
		return nil, fmt.Errorf("percentile out of range: %g", cfg.Percentile)
	}
	if cfg.MinSamples < 1 {
		cfg.MinSamples = 1
	}
	return &ThresholdManager{store: store, cfg: cfg}, nil
}

// Threshold returns the pass threshold for a component. With fewer than
// MinSamples historical rows the configured default applies; otherwise the
// configured percentile of the score history, clamped to [Floor, Ceiling].
func (tm *ThresholdManager) Threshold(component string) (float64, error) {
	scores, err := tm.store.Scores(component, tm.cfg.Window)
	if err != nil {
		return 0, fmt.Errorf("failed to load score history: %w", err)
	}

	if len(scores) < tm.cfg.MinSamples {
		logging.QualityDebug("Threshold(%s): %d/%d samples, using default %.1f",
			component, len(scores), tm.cfg.MinSamples, tm.cfg.Default)
		return tm.cfg.Default, nil
	}

	p := Percentile(scores, tm.cfg.Percentile)
	clamped := math.Min(math.Max(p, tm.cfg.Floor), tm.cfg.Ceiling)

	logging.Quality("Threshold(%s): learned %.1f (p%.0f of %d scores, clamped to [%.1f, %.1f])",
		component, clamped, tm.cfg.Percentile, len(scores), tm.cfg.Floor, tm.cfg.Ceiling)
	return clamped, nil
}

// Gate scores a piece of content against the learned threshold and records
// the outcome into the feedback history.
func (tm *ThresholdManager) Gate(material, component string, score float64) (bool, float64, error) {
	threshold, err := tm.Threshold(component)
	if err != nil {
		return false, 0, err
	}

	passed := score >= threshold
	err = tm.store.Record(FeedbackRow{
		Material:  material,
		Component: component,
		Score:     score,
		Threshold: threshold,
		Passed:    passed,
	})
	if err != nil {
		return false, 0, err
	}
	return passed, threshold, nil
}

// Percentile computes the p-th percentile of values using linear
// interpolation between closest ranks. The input is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) == 1 {
		return values[0]
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
