package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const maxResponseSamples = 1000

// latencyWindow keeps the most recent response times in a fixed ring.
type latencyWindow struct {
	mu      sync.RWMutex
	samples [maxResponseSamples]time.Duration
	next    int
	filled  int
	total   time.Duration
	count   int64
}

func (w *latencyWindow) add(d time.Duration) {
	w.mu.Lock()
	w.samples[w.next] = d
	w.next = (w.next + 1) % maxResponseSamples
	if w.filled < maxResponseSamples {
		w.filled++
	}
	w.total += d
	w.count++
	w.mu.Unlock()
}

func (w *latencyWindow) len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.filled
}

func (w *latencyWindow) mean() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.count == 0 {
		return 0
	}
	return w.total / time.Duration(w.count)
}

func (w *latencyWindow) percentile(p float64) time.Duration {
	w.mu.RLock()
	sorted := make([]time.Duration, w.filled)
	copy(sorted, w.samples[:w.filled])
	w.mu.RUnlock()

	if len(sorted) == 0 {
		return 0
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)-1) * p / 100.0)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func (w *latencyWindow) reset() {
	w.mu.Lock()
	w.next, w.filled, w.total, w.count = 0, 0, 0, 0
	w.mu.Unlock()
}

// Metrics collects process-wide counters for the scoring host.
type Metrics struct {
	startTime time.Time

	requests    atomic.Int64
	errors      atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64

	humanityChecks   atomic.Int64
	humanityPassed   atomic.Int64
	deceptionRatings atomic.Int64
	scoringFaults    atomic.Int64

	rateLimitBlocks      atomic.Int64
	rateLimitRedisErrors atomic.Int64
	rateLimitFallbacks   atomic.Int64

	latency latencyWindow

	statusMu sync.RWMutex
	byStatus map[int]int64
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
		byStatus:  make(map[int]int64),
	}
}

func (m *Metrics) IncrementRequest()   { m.requests.Add(1) }
func (m *Metrics) IncrementError()     { m.errors.Add(1) }
func (m *Metrics) IncrementCacheHit()  { m.cacheHits.Add(1) }
func (m *Metrics) IncrementCacheMiss() { m.cacheMisses.Add(1) }

// Requests returns the number of requests seen.
func (m *Metrics) Requests() int64 { return m.requests.Load() }

// Errors returns the number of responses with a 4xx or 5xx status.
func (m *Metrics) Errors() int64 { return m.errors.Load() }

// RecordHumanityCheck counts a humanity verdict
func (m *Metrics) RecordHumanityCheck(human bool) {
	m.humanityChecks.Add(1)
	if human {
		m.humanityPassed.Add(1)
	}
}

// IncrementDeceptionRating counts a deception rating computation
func (m *Metrics) IncrementDeceptionRating() { m.deceptionRatings.Add(1) }

// IncrementScoringFault counts calls the engine refused to complete
func (m *Metrics) IncrementScoringFault() { m.scoringFaults.Add(1) }

func (m *Metrics) IncrementRateLimitIPBlock()    { m.rateLimitBlocks.Add(1) }
func (m *Metrics) IncrementRateLimitRedisError() { m.rateLimitRedisErrors.Add(1) }
func (m *Metrics) IncrementRateLimitFallback()   { m.rateLimitFallbacks.Add(1) }

// RecordResponseTime adds a sample to the latency window
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.latency.add(duration)
}

// RecordRequestByStatus records request count by HTTP status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.statusMu.Lock()
	m.byStatus[statusCode]++
	m.statusMu.Unlock()
}

// GetPercentileResponseTime returns the p-th percentile of recent response times
func (m *Metrics) GetPercentileResponseTime(percentile float64) time.Duration {
	return m.latency.percentile(percentile)
}

// GetStatusCodeDistribution returns request count by status code
func (m *Metrics) GetStatusCodeDistribution() map[int]int64 {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()

	out := make(map[int]int64, len(m.byStatus))
	for code, n := range m.byStatus {
		out[code] = n
	}
	return out
}

func ratio(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// GetStats returns a point-in-time view suitable for the health endpoint
func (m *Metrics) GetStats() map[string]interface{} {
	requests := m.requests.Load()
	errs := m.errors.Load()
	hits, misses := m.cacheHits.Load(), m.cacheMisses.Load()
	checks, passed := m.humanityChecks.Load(), m.humanityPassed.Load()

	return map[string]interface{}{
		"uptime_seconds": time.Since(m.startTime).Seconds(),
		"start_time":     m.startTime.Format(time.RFC3339),

		"total_requests":         requests,
		"error_count":            errs,
		"error_rate_percent":     ratio(errs, requests),
		"cache_hits":             hits,
		"cache_misses":           misses,
		"cache_hit_rate_percent": ratio(hits, hits+misses),

		"humanity_checks":    checks,
		"humanity_passed":    passed,
		"humanity_pass_rate": ratio(passed, checks),
		"deception_ratings":  m.deceptionRatings.Load(),
		"scoring_faults":     m.scoringFaults.Load(),

		"avg_response_time_ms":     millis(m.latency.mean()),
		"p50_response_time_ms":     millis(m.latency.percentile(50)),
		"p95_response_time_ms":     millis(m.latency.percentile(95)),
		"p99_response_time_ms":     millis(m.latency.percentile(99)),
		"status_code_distribution": m.GetStatusCodeDistribution(),
	}
}

// GetRateLimitStats returns rate limiting statistics
func (m *Metrics) GetRateLimitStats() map[string]interface{} {
	return map[string]interface{}{
		"ip_blocks":      m.rateLimitBlocks.Load(),
		"redis_errors":   m.rateLimitRedisErrors.Load(),
		"fallback_count": m.rateLimitFallbacks.Load(),
	}
}

// Reset zeroes every counter. Intended for tests.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Int64{
		&m.requests, &m.errors, &m.cacheHits, &m.cacheMisses,
		&m.humanityChecks, &m.humanityPassed, &m.deceptionRatings, &m.scoringFaults,
		&m.rateLimitBlocks, &m.rateLimitRedisErrors, &m.rateLimitFallbacks,
	} {
		c.Store(0)
	}
	m.latency.reset()

	m.statusMu.Lock()
	m.byStatus = make(map[int]int64)
	m.statusMu.Unlock()
}
