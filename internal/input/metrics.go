package input

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks resolver activity and per-keystroke latency.
type Metrics struct {
	keystrokes   atomic.Uint64
	resolved     atomic.Uint64
	discarded    atomic.Uint64
	suppressed   atomic.Uint64
	configErrors atomic.Uint64

	mu         sync.RWMutex
	latencies  []time.Duration
	maxSamples int
	latencyIdx int

	peakLatency atomic.Int64

	startTime time.Time
	enabled   atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		latencies:  make([]time.Duration, 1000),
		maxSamples: 1000,
		startTime:  time.Now(),
	}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsEnabled() bool {
	return m.enabled.Load()
}

// RecordKeystroke records one handled keystroke with its processing time.
func (m *Metrics) RecordKeystroke(latency time.Duration) {
	if !m.enabled.Load() {
		return
	}

	m.keystrokes.Add(1)

	ns := latency.Nanoseconds()
	for {
		current := m.peakLatency.Load()
		if ns <= current {
			break
		}
		if m.peakLatency.CompareAndSwap(current, ns) {
			break
		}
	}

	m.mu.Lock()
	m.latencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % m.maxSamples
	m.mu.Unlock()
}

// RecordResolved records a keystroke that completed a command.
func (m *Metrics) RecordResolved() {
	if m.enabled.Load() {
		m.resolved.Add(1)
	}
}

// RecordDiscarded records keys dropped by prefix shrinking.
func (m *Metrics) RecordDiscarded(n int) {
	if m.enabled.Load() && n > 0 {
		m.discarded.Add(uint64(n))
	}
}

// RecordSuppressed records a host event whose default handling was
// suppressed.
func (m *Metrics) RecordSuppressed() {
	if m.enabled.Load() {
		m.suppressed.Add(1)
	}
}

// RecordConfigError records a keystroke that hit a mode without bindings.
func (m *Metrics) RecordConfigError() {
	if m.enabled.Load() {
		m.configErrors.Add(1)
	}
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	Keystrokes   uint64
	Resolved     uint64
	Discarded    uint64
	Suppressed   uint64
	ConfigErrors uint64

	AvgLatency  time.Duration
	MaxLatency  time.Duration
	P99Latency  time.Duration
	PeakLatency time.Duration

	KeystrokesPerSecond float64
	Uptime              time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	latencies := slices.Clone(m.latencies)
	start := m.startTime
	m.mu.RUnlock()

	count := m.keystrokes.Load()
	uptime := time.Since(start)

	snap := MetricsSnapshot{
		Keystrokes:   count,
		Resolved:     m.resolved.Load(),
		Discarded:    m.discarded.Load(),
		Suppressed:   m.suppressed.Load(),
		ConfigErrors: m.configErrors.Load(),
		PeakLatency:  time.Duration(m.peakLatency.Load()),
		Uptime:       uptime,
	}
	if uptime > 0 {
		snap.KeystrokesPerSecond = float64(count) / uptime.Seconds()
	}
	snap.AvgLatency, snap.MaxLatency, snap.P99Latency = latencyStats(latencies)
	return snap
}

// latencyStats computes average, max and p99 over the recorded samples.
func latencyStats(latencies []time.Duration) (avg, maxLat, p99 time.Duration) {
	valid := make([]time.Duration, 0, len(latencies))
	for _, l := range latencies {
		if l > 0 {
			valid = append(valid, l)
		}
	}
	if len(valid) == 0 {
		return 0, 0, 0
	}

	var sum time.Duration
	for _, l := range valid {
		sum += l
		maxLat = max(maxLat, l)
	}
	avg = sum / time.Duration(len(valid))

	slices.Sort(valid)
	idx := min(int(float64(len(valid))*0.99), len(valid)-1)
	return avg, maxLat, valid[idx]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.keystrokes.Store(0)
	m.resolved.Store(0)
	m.discarded.Store(0)
	m.suppressed.Store(0)
	m.configErrors.Store(0)
	m.peakLatency.Store(0)

	m.mu.Lock()
	m.latencies = make([]time.Duration, m.maxSamples)
	m.latencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}
