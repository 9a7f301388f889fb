package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/slowlog/internal/model"
)

func TestAggregator_Finalize(t *testing.T) {
	t.Parallel()
	a := New()
	a.Add("p1", 150, "first")
	a.Add("p2", 10, "other")
	a.Add("p1", 250, "second")
	a.Add("p1", 50, "third")

	require.Equal(t, 2, a.Len())

	stats, err := a.Finalize()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, model.QueryPatternStats{
		Pattern:     "p1",
		Executions:  3,
		MinDuration: 50,
		MaxDuration: 250,
		AvgDuration: 150,
		SampleQuery: "first",
	}, stats[0])
	assert.Equal(t, "p2", stats[1].Pattern)
	assert.Equal(t, int64(1), stats[1].Executions)
}

func TestAggregator_Empty(t *testing.T) {
	t.Parallel()
	stats, err := New().Finalize()
	assert.ErrorIs(t, err, ErrNoObservations)
	assert.Empty(t, stats)
}

func TestAggregator_CountsMatchContributions(t *testing.T) {
	t.Parallel()
	durations := map[string][]float64{
		"a": {3, 1, 4, 1, 5, 9, 2, 6},
		"b": {2.5},
		"c": {7, 7},
	}
	a := New()
	for _, p := range []string{"a", "b", "c"} {
		for _, d := range durations[p] {
			a.Add(p, d, p)
		}
	}

	stats, err := a.Finalize()
	require.NoError(t, err)

	for _, s := range stats {
		ds := durations[s.Pattern]
		minD, maxD := ds[0], ds[0]
		for _, d := range ds {
			minD = min(minD, d)
			maxD = max(maxD, d)
		}
		assert.Equal(t, int64(len(ds)), s.Executions, s.Pattern)
		assert.Equal(t, minD, s.MinDuration, s.Pattern)
		assert.Equal(t, maxD, s.MaxDuration, s.Pattern)
	}
}

func TestSortByExecutions(t *testing.T) {
	t.Parallel()
	stats := []model.QueryPatternStats{
		{Pattern: "once-slow", Executions: 1, AvgDuration: 900},
		{Pattern: "twice-fast", Executions: 2, AvgDuration: 10},
		{Pattern: "twice-slow", Executions: 2, AvgDuration: 20},
		{Pattern: "once-slow-too", Executions: 1, AvgDuration: 900},
	}
	SortByExecutions(stats)

	got := make([]string, len(stats))
	for i, s := range stats {
		got[i] = s.Pattern
	}
	assert.Equal(t, []string{"twice-slow", "twice-fast", "once-slow", "once-slow-too"}, got)
}

func TestSortByPattern(t *testing.T) {
	t.Parallel()
	stats := []model.QueryPatternStats{{Pattern: "SELECT ?"}, {Pattern: "COMMIT"}, {Pattern: "INSERT ?"}}
	SortByPattern(stats)
	assert.Equal(t, "COMMIT", stats[0].Pattern)
	assert.Equal(t, "INSERT ?", stats[1].Pattern)
	assert.Equal(t, "SELECT ?", stats[2].Pattern)
}

func TestRoundAverages(t *testing.T) {
	t.Parallel()
	stats := []model.QueryPatternStats{{AvgDuration: 1.23456}, {AvgDuration: 4.5}, {AvgDuration: 2.0 / 3.0}}
	RoundAverages(stats, 2)
	assert.InDelta(t, 1.23, stats[0].AvgDuration, 1e-9)
	assert.InDelta(t, 4.5, stats[1].AvgDuration, 1e-9)
	assert.InDelta(t, 0.67, stats[2].AvgDuration, 1e-9)
}
