package utils

import "testing"

func TestMetricsRecordDecision(t *testing.T) {
	m := GetMetrics()
	m.ResetMetrics()

	m.RecordDecision(true, "")
	m.RecordDecision(false, "Credit score too low.")
	m.RecordDecision(false, "Credit score too low.")
	m.RecordDecision(false, "")

	snapshot := m.GetMetricsSnapshot()
	if snapshot["eligibility_checks"].(int64) != 4 {
		t.Errorf("eligibility_checks = %v, want 4", snapshot["eligibility_checks"])
	}
	if snapshot["approvals"].(int64) != 1 {
		t.Errorf("approvals = %v, want 1", snapshot["approvals"])
	}
	if snapshot["rejections"].(int64) != 3 {
		t.Errorf("rejections = %v, want 3", snapshot["rejections"])
	}

	reasons := snapshot["rejection_reasons"].(map[string]int64)
	if reasons["Credit score too low."] != 2 {
		t.Errorf("причина отказа учтена %d раз, want 2", reasons["Credit score too low."])
	}
	if reasons["unknown"] != 1 {
		t.Errorf("неизвестная причина учтена %d раз, want 1", reasons["unknown"])
	}
}

func TestMetricsRecordLoanIssued(t *testing.T) {
	m := GetMetrics()
	m.ResetMetrics()

	m.RecordLoanIssued(500000)
	m.RecordLoanIssued(250000)

	snapshot := m.GetMetricsSnapshot()
	if snapshot["loans_issued"].(int64) != 2 {
		t.Errorf("loans_issued = %v, want 2", snapshot["loans_issued"])
	}
	if snapshot["total_issued_amount"].(float64) != 750000 {
		t.Errorf("total_issued_amount = %v, want 750000", snapshot["total_issued_amount"])
	}
}

func TestMetricsRecordIngestion(t *testing.T) {
	m := GetMetrics()
	m.ResetMetrics()

	m.RecordIngestion(30, 2)
	m.RecordIngestion(30, 0)

	snapshot := m.GetMetricsSnapshot()
	if snapshot["ingestion_runs"].(int64) != 2 {
		t.Errorf("ingestion_runs = %v, want 2", snapshot["ingestion_runs"])
	}
	if snapshot["ingested_rows_upserted"].(int64) != 60 {
		t.Errorf("ingested_rows_upserted = %v, want 60", snapshot["ingested_rows_upserted"])
	}
	if snapshot["ingested_rows_skipped"].(int64) != 2 {
		t.Errorf("ingested_rows_skipped = %v, want 2", snapshot["ingested_rows_skipped"])
	}
}
