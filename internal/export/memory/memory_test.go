package memory

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/insights"
)

func TestWriteAnalysisStoresReports(t *testing.T) {
	store := New()
	ctx := context.Background()

	r := export.Report{
		GeneratedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Totals:      core.Totals{Income: core.Money{Cents: 300000}, Expense: core.Money{Cents: 200000}, Balance: core.Money{Cents: 100000}},
		Analysis:    insights.Analysis{HealthScore: 72, DaysOfData: 30},
	}

	ref, err := store.WriteAnalysis(ctx, r)
	if err != nil {
		t.Fatalf("WriteAnalysis: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}

	if ref, _ = store.WriteAnalysis(ctx, r); ref != "mem:2" {
		t.Errorf("second ref = %q, want mem:2", ref)
	}

	reports := store.Reports()
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].Analysis.HealthScore != 72 {
		t.Errorf("stored health score = %d, want 72", reports[0].Analysis.HealthScore)
	}
}

func TestReportsReturnsCopy(t *testing.T) {
	store := New()
	if _, err := store.WriteAnalysis(context.Background(), export.Report{}); err != nil {
		t.Fatalf("WriteAnalysis: %v", err)
	}

	reports := store.Reports()
	reports[0].Analysis.HealthScore = 99

	if store.Reports()[0].Analysis.HealthScore != 0 {
		t.Error("mutating the returned slice must not affect the store")
	}
}
