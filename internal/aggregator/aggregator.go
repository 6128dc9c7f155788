// Package aggregator computes the aggregate risk score and per-severity
// counts from the signals accumulated so far. It is a pure function: it
// never invents new signals, only summarizes existing ones.
package aggregator

import "github.com/rawblock/tenderguard/pkg/models"

// OverallRiskScore returns the maximum score across signals, or 0 when
// there are none.
func OverallRiskScore(signals []models.RiskSignal) float64 {
	max := 0.0
	for _, s := range signals {
		if s.Score > max {
			max = s.Score
		}
	}
	return max
}

// SeverityCounts tallies signals by severity.
func SeverityCounts(signals []models.RiskSignal) map[string]int {
	counts := map[string]int{models.SeverityLow: 0, models.SeverityMedium: 0, models.SeverityHigh: 0}
	for _, s := range signals {
		counts[s.Severity]++
	}
	return counts
}
