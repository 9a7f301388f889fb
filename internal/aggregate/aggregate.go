// Package aggregate groups (pattern, duration) observations into
// per-pattern statistics.
package aggregate

import (
	"errors"
	"math"
	"sort"

	"github.com/tinytelemetry/slowlog/internal/model"
)

// ErrNoObservations is returned by Finalize when nothing was added.
var ErrNoObservations = errors.New("no observations to aggregate")

type group struct {
	durations []float64
	sample    string
}

// Aggregator accumulates observations for one parse call.
// It is not safe for concurrent use.
type Aggregator struct {
	groups map[string]*group
	order  []string // first-sighting order of patterns
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{groups: make(map[string]*group)}
}

// Add records one observation. The sample is kept only for the first
// observation of a pattern.
func (a *Aggregator) Add(pattern string, duration float64, sample string) {
	g, ok := a.groups[pattern]
	if !ok {
		g = &group{sample: sample}
		a.groups[pattern] = g
		a.order = append(a.order, pattern)
	}
	g.durations = append(g.durations, duration)
}

// Len returns the number of distinct patterns seen so far.
func (a *Aggregator) Len() int {
	return len(a.order)
}

// Finalize computes one row per pattern in first-sighting order.
func (a *Aggregator) Finalize() ([]model.QueryPatternStats, error) {
	if len(a.order) == 0 {
		return nil, ErrNoObservations
	}

	stats := make([]model.QueryPatternStats, 0, len(a.order))
	for _, pattern := range a.order {
		g := a.groups[pattern]
		minD, maxD := g.durations[0], g.durations[0]
		var sum float64
		for _, d := range g.durations {
			minD = math.Min(minD, d)
			maxD = math.Max(maxD, d)
			sum += d
		}
		stats = append(stats, model.QueryPatternStats{
			Pattern:     pattern,
			Executions:  int64(len(g.durations)),
			MinDuration: minD,
			MaxDuration: maxD,
			AvgDuration: sum / float64(len(g.durations)),
			SampleQuery: g.sample,
		})
	}
	return stats, nil
}

// SortByExecutions orders rows by executions, then average duration, both
// descending. Equal rows keep their first-sighting order.
func SortByExecutions(stats []model.QueryPatternStats) {
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Executions != stats[j].Executions {
			return stats[i].Executions > stats[j].Executions
		}
		return stats[i].AvgDuration > stats[j].AvgDuration
	})
}

// SortByPattern orders rows by pattern text, ascending.
func SortByPattern(stats []model.QueryPatternStats) {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Pattern < stats[j].Pattern
	})
}

// RoundAverages rounds every AvgDuration to the given number of decimals.
func RoundAverages(stats []model.QueryPatternStats, places int) {
	scale := math.Pow(10, float64(places))
	for i := range stats {
		stats[i].AvgDuration = math.RoundToEven(stats[i].AvgDuration*scale) / scale
	}
}
