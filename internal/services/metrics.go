package services

import (
	"sync"
	"time"

	"github.com/edusync/task-automation-service/internal/models"
)

// historyLimit bounds the processed-task history kept in memory.
const historyLimit = 200

// MetricsCollector keeps simple process-wide counters plus a bounded history
// of recent results. It exists for the /metrics endpoint only; nothing is
// persisted.
type MetricsCollector struct {
	mu sync.Mutex

	startedAt          time.Time
	totalLogins        int
	totalDiscoveries   int
	totalSubmissions   int
	totalErrors        int
	lastSubmissionTime *time.Time
	history            []models.ProcessResult
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{startedAt: time.Now().UTC()}
}

func (m *MetricsCollector) RecordLogin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalLogins++
}

func (m *MetricsCollector) RecordDiscovery() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalDiscoveries++
}

// RecordSubmission counts one finished task run and appends it to the
// bounded history.
func (m *MetricsCollector) RecordSubmission(result models.ProcessResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if result.Success {
		m.totalSubmissions++
		now := time.Now().UTC()
		m.lastSubmissionTime = &now
	} else {
		m.totalErrors++
	}

	m.history = append(m.history, result)
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
}

// MetricsSnapshot is the JSON view served by the metrics endpoint.
type MetricsSnapshot struct {
	UptimeSeconds      int64      `json:"uptime_seconds"`
	TotalLogins        int        `json:"total_logins"`
	TotalDiscoveries   int        `json:"total_discoveries"`
	TotalSubmissions   int        `json:"total_submissions"`
	TotalErrors        int        `json:"total_submission_errors"`
	LastSubmissionTime *time.Time `json:"last_submission_time,omitempty"`
	HistorySize        int        `json:"history_size"`
}

func (m *MetricsCollector) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return MetricsSnapshot{
		UptimeSeconds:      int64(time.Since(m.startedAt).Seconds()),
		TotalLogins:        m.totalLogins,
		TotalDiscoveries:   m.totalDiscoveries,
		TotalSubmissions:   m.totalSubmissions,
		TotalErrors:        m.totalErrors,
		LastSubmissionTime: m.lastSubmissionTime,
		HistorySize:        len(m.history),
	}
}

// History returns a copy of the recent results, newest last.
func (m *MetricsCollector) History() []models.ProcessResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.ProcessResult, len(m.history))
	copy(out, m.history)
	return out
}
