// Package quality implements content quality gating: a composite scorer over
// weighted signals, a structural variation checker, the Winston
// AI-content-detection client, and percentile-based threshold learning over
// the feedback history.
package quality

import (
	"fmt"
	"math"
	"sort"

	"github.com/z-beam/zbeam/internal/logging"
)

// Signal names used by the composite scorer.
const (
	SignalWinston     = "winston"
	SignalStructural  = "structural"
	SignalReadability = "readability"
	SignalTechnical   = "technical"
)

// weightTolerance is the allowed deviation of the weight sum from 1.
const weightTolerance = 1e-9

// CompositeScorer combines named 0..100 signals into a single weighted score.
type CompositeScorer struct {
	weights map[string]float64
}

// DefaultWeights returns the production signal weighting.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		SignalWinston:     0.5,
		SignalStructural:  0.2,
		SignalReadability: 0.15,
		SignalTechnical:   0.15,
	}
}

// NewCompositeScorer validates that the weights sum to 1 and returns a scorer.
func NewCompositeScorer(weights map[string]float64) (*CompositeScorer, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("no weights provided")
	}

	sum := 0.0
	for name, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative weight for signal %s: %g", name, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return nil, fmt.Errorf("weights must sum to 1, got %g", sum)
	}

	return &CompositeScorer{weights: weights}, nil
}

// Score computes the weighted sum over the given signals. Every weighted
// signal must be present; extra signals are ignored.
func (s *CompositeScorer) Score(signals map[string]float64) (float64, error) {
	total := 0.0
	for name, w := range s.weights {
		v, ok := signals[name]
		if !ok {
			return 0, fmt.Errorf("missing signal: %s", name)
		}
		if v < 0 || v > 100 {
			return 0, fmt.Errorf("signal %s out of range [0,100]: %g", name, v)
		}
		total += w * v
	}

	logging.QualityDebug("Composite score %.2f from %d signals", total, len(s.weights))
	return total, nil
}

// Signals lists the signal names this scorer weighs, sorted.
func (s *CompositeScorer) Signals() []string {
	names := make([]string, 0, len(s.weights))
	for name := range s.weights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
