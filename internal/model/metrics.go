package model

import "time"

// PerformanceMetrics accumulates run counters. The average completion time
// uses the standard online formula so no per-contract history is kept.
type PerformanceMetrics struct {
	ContractsCompleted    int
	ContractsFailed       int
	CreditsEarned         int64
	Errors                int
	LastContractProfit    int64
	AverageCompletionTime time.Duration
}

// RecordCompletion folds one fulfilled contract into the counters.
func (m *PerformanceMetrics) RecordCompletion(profit int64, completionTime time.Duration) {
	m.ContractsCompleted++
	m.CreditsEarned += profit
	m.LastContractProfit = profit

	n := time.Duration(m.ContractsCompleted)
	m.AverageCompletionTime = (m.AverageCompletionTime*(n-1) + completionTime) / n
}

// RecordFailure counts a contract that expired or could not be fulfilled.
func (m *PerformanceMetrics) RecordFailure() {
	m.ContractsFailed++
}

// RecordError counts an unexpected handler failure.
func (m *PerformanceMetrics) RecordError() {
	m.Errors++
}

// Efficiency returns completed contracts per hour of elapsed run time.
func (m *PerformanceMetrics) Efficiency(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(m.ContractsCompleted) / elapsed.Hours()
}
