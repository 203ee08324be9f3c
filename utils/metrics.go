package utils

import (
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики решений по заявкам
	EligibilityChecks int64
	Approvals         int64
	Rejections        int64
	RejectionReasons  map[string]int64
	LastDecisionTime  time.Time

	// Метрики выданных кредитов
	LoansIssued       int64
	TotalIssuedAmount float64
	LastLoanTime      time.Time

	// Метрики импорта данных
	IngestionRuns        int64
	IngestedRowsUpserted int64
	IngestedRowsSkipped  int64
	LastIngestionTime    time.Time
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			RejectionReasons: make(map[string]int64),
		}
	})
	return metrics
}

// RecordDecision записывает метрики решения по заявке
func (m *Metrics) RecordDecision(approved bool, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EligibilityChecks++
	m.LastDecisionTime = time.Now()

	if approved {
		m.Approvals++
		return
	}

	m.Rejections++
	if reason == "" {
		reason = "unknown"
	}
	m.RejectionReasons[reason]++
}

// RecordLoanIssued записывает метрики выданного кредита
func (m *Metrics) RecordLoanIssued(amount float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoansIssued++
	m.TotalIssuedAmount += amount
	m.LastLoanTime = time.Now()
}

// RecordIngestion записывает метрики запуска импорта
func (m *Metrics) RecordIngestion(upserted, skipped int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IngestionRuns++
	m.IngestedRowsUpserted += int64(upserted)
	m.IngestedRowsSkipped += int64(skipped)
	m.LastIngestionTime = time.Now()
}

// GetMetricsSnapshot возвращает снимок текущих метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reasons := make(map[string]int64, len(m.RejectionReasons))
	for k, v := range m.RejectionReasons {
		reasons[k] = v
	}

	return map[string]interface{}{
		"eligibility_checks":     m.EligibilityChecks,
		"approvals":              m.Approvals,
		"rejections":             m.Rejections,
		"rejection_reasons":      reasons,
		"loans_issued":           m.LoansIssued,
		"total_issued_amount":    m.TotalIssuedAmount,
		"ingestion_runs":         m.IngestionRuns,
		"ingested_rows_upserted": m.IngestedRowsUpserted,
		"ingested_rows_skipped":  m.IngestedRowsSkipped,
		"last_decision_time":     m.LastDecisionTime,
		"last_ingestion_time":    m.LastIngestionTime,
	}
}

// ResetMetrics сбрасывает все метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EligibilityChecks = 0
	m.Approvals = 0
	m.Rejections = 0
	m.RejectionReasons = make(map[string]int64)
	m.LoansIssued = 0
	m.TotalIssuedAmount = 0
	m.IngestionRuns = 0
	m.IngestedRowsUpserted = 0
	m.IngestedRowsSkipped = 0
}
