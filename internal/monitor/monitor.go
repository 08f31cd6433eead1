// Package monitor tracks generation failures by pipeline stage so repeated
// problem areas (a flaky prompt, a material with bad data) surface in one
// place instead of being scattered across logs.
package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Failure is one recorded failure event.
type Failure struct {
	Stage    string    `json:"stage"`
	Material string    `json:"material"`
	Reason   string    `json:"reason"`
	At       time.Time `json:"at"`
}

// Report is the serialized form written to disk.
type Report struct {
	Counts    map[string]int `json:"counts"`
	Failures  []Failure      `json:"failures"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// PayloadMonitor tallies failures by stage. Safe for concurrent use.
type PayloadMonitor struct {
	mu       sync.Mutex
	path     string
	counts   map[string]int
	failures []Failure
}

// New returns a monitor that flushes its report to path.
func New(path string) *PayloadMonitor {
	return &PayloadMonitor{
		path:   path,
		counts: make(map[string]int),
	}
}

// RecordFailure adds a failure for the given stage.
func (m *PayloadMonitor) RecordFailure(stage, material, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts[stage]++
	m.failures = append(m.failures, Failure{
		Stage:    stage,
		Material: material,
		Reason:   reason,
		At:       time.Now().UTC(),
	})
}

// Count returns the failure count for a stage.
func (m *PayloadMonitor) Count(stage string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[stage]
}

// Total returns the failure count across all stages.
func (m *PayloadMonitor) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.counts {
		total += n
	}
	return total
}

// Stages returns the recorded stage names, sorted.
func (m *PayloadMonitor) Stages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	stages := make([]string, 0, len(m.counts))
	for s := range m.counts {
		stages = append(stages, s)
	}
	sort.Strings(stages)
	return stages
}

// Flush writes the current report to the monitor's path, creating parent
// directories as needed.
func (m *PayloadMonitor) Flush() error {
	m.mu.Lock()
	report := Report{
		Counts:    make(map[string]int, len(m.counts)),
		Failures:  append([]Failure(nil), m.failures...),
		UpdatedAt: time.Now().UTC(),
	}
	for k, v := range m.counts {
		report.Counts[k] = v
	}
	m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create monitor directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal failure report: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write failure report: %w", err)
	}
	return nil
}

// Load reads a previously flushed report. A missing file returns an empty
// report, not an error.
func Load(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Report{Counts: map[string]int{}}, nil
	}
	if err != nil {
		return Report{}, fmt.Errorf("failed to read failure report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, fmt.Errorf("failed to parse failure report: %w", err)
	}
	if report.Counts == nil {
		report.Counts = map[string]int{}
	}
	return report, nil
}
