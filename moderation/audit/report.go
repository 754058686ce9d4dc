package audit

import (
	"time"
)

// Aggregate view over the trailing window, for compliance reporting.
type ComplianceReport struct {
	Timeframe    time.Duration  `json:"timeframe"`
	GeneratedAt  time.Time      `json:"generated_at"`
	TotalActions int            `json:"total_actions"`
	ByAction     map[string]int `json:"counts_by_action"`
	ByHour       map[string]int `json:"counts_by_hour"`
}

// Aggregates entries within the trailing timeframe, bucketed by action type
// and by hour-aligned timestamp.
func (l *Log) GenerateComplianceReport(timeframe time.Duration) *ComplianceReport {
	now := time.Now().UTC()
	since := now.Add(-timeframe)

	report := &ComplianceReport{
		Timeframe:   timeframe,
		GeneratedAt: now,
		ByAction:    make(map[string]int),
		ByHour:      make(map[string]int),
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, e := range l.entries {
		if e.Timestamp.Before(since) {
			continue
		}
		report.TotalActions++
		report.ByAction[e.Action]++
		report.ByHour[hourBucket(e.Timestamp)]++
	}
	return report
}

// hour-aligned bucket key, eg "2024-03-01T14"
func hourBucket(t time.Time) string {
	return t.UTC().Format(time.RFC3339)[0:13]
}
