package monitor

import (
	"sync"

	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
)

// SourceStats are the rolling counters for one event source. Counters only
// grow; they reset on process restart.
type SourceStats struct {
	Total    int64 `json:"total"`
	Blocked  int64 `json:"blocked"`
	Critical int64 `json:"critical"`
}

// CategoryStats counts events per classification category.
type CategoryStats map[Category]int64

// Aggregator folds classified events into per-source and per-category
// counters. Fold is commutative over independent events, so concurrent
// feeders may interleave freely; the mutex only makes each increment atomic.
type Aggregator struct {
	mu         sync.RWMutex
	bySource   map[string]*SourceStats
	byCategory CategoryStats
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		bySource:   make(map[string]*SourceStats),
		byCategory: make(CategoryStats),
	}
}

// Fold applies one event to the counters. blocked increments iff the event
// key indicates an enforcement action; critical increments iff severity is
// HIGH or CRITICAL.
func (a *Aggregator) Fold(ev securitylog.Event) {
	source := ev.Source
	if source == "" {
		source = "unknown"
	}
	category := Classify(ev)

	a.mu.Lock()
	defer a.mu.Unlock()

	stats := a.bySource[source]
	if stats == nil {
		stats = &SourceStats{}
		a.bySource[source] = stats
	}
	stats.Total++
	if ev.Blocking() {
		stats.Blocked++
	}
	if ev.Severity.Critical() {
		stats.Critical++
	}
	a.byCategory[category]++
}

// Snapshot returns a copy of the current counters.
func (a *Aggregator) Snapshot() (map[string]SourceStats, CategoryStats) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	bySource := make(map[string]SourceStats, len(a.bySource))
	for source, stats := range a.bySource {
		bySource[source] = *stats
	}
	byCategory := make(CategoryStats, len(a.byCategory))
	for category, n := range a.byCategory {
		byCategory[category] = n
	}
	return bySource, byCategory
}

// Source returns the counters for a single source.
func (a *Aggregator) Source(name string) SourceStats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if stats := a.bySource[name]; stats != nil {
		return *stats
	}
	return SourceStats{}
}
