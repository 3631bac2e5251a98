package qsurv

import (
	"sync"
	"time"
)

/*
Metrics accumulates sweep execution statistics: how many points ran, how many
failed, and how long the simulations took in aggregate.
*/
type Metrics struct {
	mu           sync.RWMutex
	JobCount     int64
	FailureCount int64
	TotalJobTime time.Duration
}

func newMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordJobExecution(startTime time.Time, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalJobTime += time.Since(startTime)
	m.JobCount++
	if !success {
		m.FailureCount++
	}
}

// Snapshot returns a copy of the counters for reporting.
func (m *Metrics) Snapshot() (jobs, failures int64, total time.Duration) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.JobCount, m.FailureCount, m.TotalJobTime
}
