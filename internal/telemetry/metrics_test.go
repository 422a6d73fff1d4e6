package telemetry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyToBucket(t *testing.T) {
	tests := []struct {
		latency  time.Duration
		expected LatencyBucket
	}{
		{5 * time.Millisecond, BucketP10},
		{9 * time.Millisecond, BucketP10},
		{10 * time.Millisecond, BucketP50},
		{49 * time.Millisecond, BucketP50},
		{50 * time.Millisecond, BucketP100},
		{99 * time.Millisecond, BucketP100},
		{100 * time.Millisecond, BucketP500},
		{499 * time.Millisecond, BucketP500},
		{500 * time.Millisecond, BucketP1000},
		{5 * time.Second, BucketP1000},
	}

	for _, tt := range tests {
		t.Run(tt.latency.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, LatencyToBucket(tt.latency))
		})
	}
}

func TestExtractTerms(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", nil},
		{"   ", nil},
		{"to do", nil},
		{"Meeting Notes", []string{"meeting", "notes"}},
		{"a big garden", []string{"big", "garden"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTerms(tt.query))
		})
	}
}

func TestRing_KeepsNewestOldestFirst(t *testing.T) {
	r := newRing[string](3)
	assert.Empty(t, r.list())

	for _, q := range []string{"q1", "q2", "q3", "q4", "q5"} {
		r.add(q)
	}

	assert.Equal(t, []string{"q3", "q4", "q5"}, r.list())
}

func TestMetrics_Record(t *testing.T) {
	// Given: a fresh collector
	m := New()

	// When: recording a mix of queries
	m.Record(QueryEvent{Query: "garden plans", Mode: ModeContent, ResultCount: 3, Latency: 5 * time.Millisecond})
	m.Record(QueryEvent{Query: "Garden", Mode: ModeTitles, ResultCount: 0, Latency: 20 * time.Millisecond})
	m.Record(QueryEvent{Query: "garden plans", Mode: ModeContent, ResultCount: 3, Latency: 700 * time.Millisecond})
	m.Record(QueryEvent{Query: "([", Mode: ModeContent, Failed: true})

	// Then: the snapshot reflects every dimension
	s := m.Snapshot()
	assert.Equal(t, int64(4), s.TotalQueries)
	assert.Equal(t, int64(1), s.FailedQueries)
	assert.Equal(t, int64(3), s.ModeCounts[ModeContent])
	assert.Equal(t, int64(1), s.ModeCounts[ModeTitles])
	assert.Equal(t, int64(1), s.ZeroResultCount)
	assert.Equal(t, []string{"Garden"}, s.ZeroResultQueries)
	assert.Equal(t, int64(2), s.LatencyDistribution[BucketP10])
	assert.Equal(t, int64(1), s.LatencyDistribution[BucketP50])
	assert.Equal(t, int64(1), s.LatencyDistribution[BucketP1000])
	assert.Equal(t, int64(1), s.ExactRepeatCount)
	assert.Equal(t, int64(3), s.UniqueQueryCount)

	require.NotEmpty(t, s.TopTerms)
	assert.Equal(t, TermCount{Term: "garden", Count: 3}, s.TopTerms[0])
	assert.Equal(t, TermCount{Term: "plans", Count: 2}, s.TopTerms[1])
	assert.InDelta(t, 25.0, s.ZeroResultPercentage(), 0.001)
}

func TestMetrics_RepeatsArePerMode(t *testing.T) {
	m := New()

	m.Record(QueryEvent{Query: "inbox", Mode: ModeContent, ResultCount: 1})
	m.Record(QueryEvent{Query: "inbox", Mode: ModeTitles, ResultCount: 1})
	m.Record(QueryEvent{Query: " INBOX ", Mode: ModeTitles, ResultCount: 1})

	s := m.Snapshot()
	assert.Equal(t, int64(1), s.ExactRepeatCount)
	assert.Equal(t, int64(2), s.UniqueQueryCount)
}

func TestMetrics_TermCapacityBounded(t *testing.T) {
	m := NewWithConfig(Config{TopTermsCapacity: 2})

	for i := 0; i < 5; i++ {
		m.Record(QueryEvent{Query: fmt.Sprintf("term%d", i), Mode: ModeContent, ResultCount: 1})
	}

	assert.Len(t, m.Snapshot().TopTerms, 2)
}

func TestMetrics_EmptySnapshot(t *testing.T) {
	s := New().Snapshot()

	assert.Zero(t, s.TotalQueries)
	assert.Zero(t, s.ZeroResultPercentage())
	assert.NotNil(t, s.ZeroResultQueries)
	assert.NotNil(t, s.TopTerms)
	assert.False(t, s.Since.IsZero())
}

func TestMetrics_ConcurrentRecord(t *testing.T) {
	m := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.Record(QueryEvent{Query: fmt.Sprintf("q%d", i), Mode: ModeContent, ResultCount: j % 2})
				_ = m.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	s := m.Snapshot()
	assert.Equal(t, int64(1000), s.TotalQueries)
	assert.Equal(t, int64(500), s.ZeroResultCount)
}
