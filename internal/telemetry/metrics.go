// Package telemetry keeps in-memory statistics about the searches a
// long-running server answers. Nothing is persisted or sent anywhere; the
// numbers live as long as the process.
package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Mode is the kind of search a query ran.
type Mode string

const (
	ModeContent Mode = "content"
	ModeTitles  Mode = "titles"
)

// LatencyBucket represents a latency histogram bucket.
type LatencyBucket string

const (
	BucketP10   LatencyBucket = "p10"   // <10ms
	BucketP50   LatencyBucket = "p50"   // 10-50ms
	BucketP100  LatencyBucket = "p100"  // 50-100ms
	BucketP500  LatencyBucket = "p500"  // 100-500ms
	BucketP1000 LatencyBucket = "p1000" // >=500ms
)

// LatencyToBucket converts a duration to its histogram bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	ms := d.Milliseconds()
	switch {
	case ms < 10:
		return BucketP10
	case ms < 50:
		return BucketP50
	case ms < 100:
		return BucketP100
	case ms < 500:
		return BucketP500
	default:
		return BucketP1000
	}
}

// QueryEvent is one answered search.
type QueryEvent struct {
	Query       string
	Mode        Mode
	ResultCount int
	Latency     time.Duration
	Failed      bool
}

// ring is a fixed-capacity FIFO. Callers hold the Metrics lock.
type ring[T any] struct {
	items []T
	head  int
	size  int
}

func newRing[T any](capacity int) *ring[T] {
	if capacity <= 0 {
		capacity = 100
	}
	return &ring[T]{items: make([]T, capacity)}
}

func (r *ring[T]) add(item T) {
	r.items[r.head] = item
	r.head = (r.head + 1) % len(r.items)
	if r.size < len(r.items) {
		r.size++
	}
}

// list returns the items oldest first.
func (r *ring[T]) list() []T {
	out := make([]T, 0, r.size)
	start := 0
	if r.size == len(r.items) {
		start = r.head
	}
	for i := 0; i < r.size; i++ {
		out = append(out, r.items[(start+i)%len(r.items)])
	}
	return out
}

// ExtractTerms lower-cases query and returns its words of three or more
// bytes.
func ExtractTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) >= 3 {
			terms = append(terms, w)
		}
	}
	return terms
}

// TermCount is a term and how often it was searched.
type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// Snapshot is a point-in-time copy of the collected metrics.
type Snapshot struct {
	Since               time.Time               `json:"since"`
	TotalQueries        int64                   `json:"total_queries"`
	FailedQueries       int64                   `json:"failed_queries"`
	ModeCounts          map[Mode]int64          `json:"mode_counts"`
	ZeroResultCount     int64                   `json:"zero_result_count"`
	ZeroResultQueries   []string                `json:"zero_result_queries"`
	TopTerms            []TermCount             `json:"top_terms"`
	LatencyDistribution map[LatencyBucket]int64 `json:"latency_distribution"`
	ExactRepeatCount    int64                   `json:"exact_repeat_count"`
	UniqueQueryCount    int64                   `json:"unique_query_count"`
}

// ZeroResultPercentage returns the share of queries that found nothing.
func (s *Snapshot) ZeroResultPercentage() float64 {
	if s.TotalQueries == 0 {
		return 0
	}
	return float64(s.ZeroResultCount) / float64(s.TotalQueries) * 100
}

// Config bounds the memory the collector uses.
type Config struct {
	TopTermsCapacity      int // distinct terms tracked (default 100)
	ZeroResultsCapacity   int // recent zero-result queries kept (default 100)
	RecentQueriesCapacity int // query hashes kept for repeat detection (default 500)
}

// DefaultConfig returns the default capacities.
func DefaultConfig() Config {
	return Config{
		TopTermsCapacity:      100,
		ZeroResultsCapacity:   100,
		RecentQueriesCapacity: 500,
	}
}

// Metrics collects query statistics. It is safe for concurrent use.
type Metrics struct {
	mu sync.Mutex

	since           time.Time
	total           int64
	failed          int64
	modes           map[Mode]int64
	latencies       map[LatencyBucket]int64
	zeroResultCount int64
	zeroResults     *ring[string]
	topTerms        *lru.Cache[string, int64]
	recentQueries   *lru.Cache[string, struct{}]
	exactRepeats    int64
}

// New creates a collector with DefaultConfig.
func New() *Metrics {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a collector; non-positive capacities take defaults.
func NewWithConfig(cfg Config) *Metrics {
	def := DefaultConfig()
	if cfg.TopTermsCapacity <= 0 {
		cfg.TopTermsCapacity = def.TopTermsCapacity
	}
	if cfg.ZeroResultsCapacity <= 0 {
		cfg.ZeroResultsCapacity = def.ZeroResultsCapacity
	}
	if cfg.RecentQueriesCapacity <= 0 {
		cfg.RecentQueriesCapacity = def.RecentQueriesCapacity
	}

	// lru.New only fails for a non-positive size.
	topTerms, _ := lru.New[string, int64](cfg.TopTermsCapacity)
	recent, _ := lru.New[string, struct{}](cfg.RecentQueriesCapacity)

	return &Metrics{
		since:         time.Now(),
		modes:         make(map[Mode]int64),
		latencies:     make(map[LatencyBucket]int64),
		zeroResults:   newRing[string](cfg.ZeroResultsCapacity),
		topTerms:      topTerms,
		recentQueries: recent,
	}
}

// Record adds one query to the statistics.
func (m *Metrics) Record(event QueryEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.modes[event.Mode]++
	m.latencies[LatencyToBucket(event.Latency)]++

	for _, term := range ExtractTerms(event.Query) {
		count, _ := m.topTerms.Get(term)
		m.topTerms.Add(term, count+1)
	}

	key := hashQuery(event.Mode, event.Query)
	if _, seen := m.recentQueries.Get(key); seen {
		m.exactRepeats++
	}
	m.recentQueries.Add(key, struct{}{})

	if event.Failed {
		m.failed++
		return
	}
	if event.ResultCount == 0 {
		m.zeroResultCount++
		m.zeroResults.add(event.Query)
	}
}

// hashQuery keys a query for repeat detection, per mode and ignoring case.
func hashQuery(mode Mode, query string) string {
	sum := sha256.Sum256([]byte(string(mode) + "\x00" + strings.ToLower(strings.TrimSpace(query))))
	return hex.EncodeToString(sum[:16])
}

// Snapshot returns a copy of the current statistics. Top terms are sorted
// by count, then alphabetically.
func (m *Metrics) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	modes := make(map[Mode]int64, len(m.modes))
	for k, v := range m.modes {
		modes[k] = v
	}
	latencies := make(map[LatencyBucket]int64, len(m.latencies))
	for k, v := range m.latencies {
		latencies[k] = v
	}

	terms := make([]TermCount, 0, m.topTerms.Len())
	for _, key := range m.topTerms.Keys() {
		if count, ok := m.topTerms.Peek(key); ok {
			terms = append(terms, TermCount{Term: key, Count: count})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})

	return &Snapshot{
		Since:               m.since,
		TotalQueries:        m.total,
		FailedQueries:       m.failed,
		ModeCounts:          modes,
		ZeroResultCount:     m.zeroResultCount,
		ZeroResultQueries:   m.zeroResults.list(),
		TopTerms:            terms,
		LatencyDistribution: latencies,
		ExactRepeatCount:    m.exactRepeats,
		UniqueQueryCount:    int64(m.recentQueries.Len()),
	}
}
