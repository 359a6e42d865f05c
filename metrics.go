package qsim

import (
	"sort"
	"sync"
	"time"
)

type timeWindow struct {
	duration time.Duration
	count    int
}

/*
Metrics tracks the shots a Sampler has run: how many, how many failed, and the
latency of each shot over a sliding window of the most recent ones.
*/
type Metrics struct {
	mu sync.RWMutex

	Shots    int64
	Failures int64
	Workers  int

	TotalShotTime      time.Duration
	AverageShotLatency time.Duration
	P95ShotLatency     time.Duration
	P99ShotLatency     time.Duration
	SuccessRate        float64

	latencyWindows []timeWindow
	windowSize     int
}

func newMetrics() *Metrics {
	return &Metrics{
		latencyWindows: make([]timeWindow, 0, 1000),
		windowSize:     1000,
	}
}

func (m *Metrics) recordShot(startTime time.Time, success bool) {
	duration := time.Since(startTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalShotTime += duration
	m.Shots++

	if !success {
		m.Failures++
	}

	m.SuccessRate = float64(m.Shots-m.Failures) / float64(m.Shots)
	m.updateLatencyPercentiles(duration)
}

func (m *Metrics) updateLatencyPercentiles(duration time.Duration) {
	m.AverageShotLatency = m.TotalShotTime / time.Duration(m.Shots)

	m.latencyWindows = append(m.latencyWindows, timeWindow{
		duration: duration,
		count:    1,
	})

	if len(m.latencyWindows) > m.windowSize {
		m.latencyWindows = m.latencyWindows[1:]
	}

	sorted := make([]time.Duration, 0, len(m.latencyWindows))
	for _, w := range m.latencyWindows {
		for i := 0; i < w.count; i++ {
			sorted = append(sorted, w.duration)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	if len(sorted) > 0 {
		p95Index := min(int(float64(len(sorted))*0.95), len(sorted)-1)
		p99Index := min(int(float64(len(sorted))*0.99), len(sorted)-1)

		m.P95ShotLatency = sorted[p95Index]
		m.P99ShotLatency = sorted[p99Index]
	}
}

// MetricsSnapshot is a point-in-time copy of the Metrics counters.
type MetricsSnapshot struct {
	Shots              int64
	Failures           int64
	Workers            int
	TotalShotTime      time.Duration
	AverageShotLatency time.Duration
	P95ShotLatency     time.Duration
	P99ShotLatency     time.Duration
	SuccessRate        float64
}

// Snapshot copies the counters; it is safe to call while shots run.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		Shots:              m.Shots,
		Failures:           m.Failures,
		Workers:            m.Workers,
		TotalShotTime:      m.TotalShotTime,
		AverageShotLatency: m.AverageShotLatency,
		P95ShotLatency:     m.P95ShotLatency,
		P99ShotLatency:     m.P99ShotLatency,
		SuccessRate:        m.SuccessRate,
	}
}
