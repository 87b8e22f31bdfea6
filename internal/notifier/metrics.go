package notifier

import (
	"sync/atomic"
	"time"
)

type ServiceMetrics struct {
	totalSent       int64
	totalFailed     int64
	totalDuplicates int64
	totalDurationNs int64
	lastResetNs     int64
}

func NewServiceMetrics() *ServiceMetrics {
	return &ServiceMetrics{
		lastResetNs: time.Now().UnixNano(),
	}
}

func (m *ServiceMetrics) RecordSent(duration time.Duration) {
	atomic.AddInt64(&m.totalSent, 1)
	atomic.AddInt64(&m.totalDurationNs, int64(duration))
}

func (m *ServiceMetrics) RecordFailure() {
	atomic.AddInt64(&m.totalFailed, 1)
}

func (m *ServiceMetrics) RecordDuplicate() {
	atomic.AddInt64(&m.totalDuplicates, 1)
}

type Stats struct {
	Sent          int64
	Failed        int64
	Duplicates    int64
	RatePerSecond float64
	AvgDuration   time.Duration
	Uptime        time.Duration
}

func (m *ServiceMetrics) Stats() Stats {
	sent := atomic.LoadInt64(&m.totalSent)
	durationNs := atomic.LoadInt64(&m.totalDurationNs)
	elapsed := time.Since(time.Unix(0, atomic.LoadInt64(&m.lastResetNs)))

	s := Stats{
		Sent:       sent,
		Failed:     atomic.LoadInt64(&m.totalFailed),
		Duplicates: atomic.LoadInt64(&m.totalDuplicates),
		Uptime:     elapsed,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		s.RatePerSecond = float64(sent) / secs
	}
	if sent > 0 {
		s.AvgDuration = time.Duration(durationNs / sent)
	}
	return s
}

func (m *ServiceMetrics) Reset() {
	atomic.StoreInt64(&m.totalSent, 0)
	atomic.StoreInt64(&m.totalFailed, 0)
	atomic.StoreInt64(&m.totalDuplicates, 0)
	atomic.StoreInt64(&m.totalDurationNs, 0)
	atomic.StoreInt64(&m.lastResetNs, time.Now().UnixNano())
}
