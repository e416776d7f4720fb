package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export/memory"
	"fintrack/internal/insights"
)

type fakeAnalyzer struct {
	mu        sync.Mutex
	calls     int
	cancelled int
	block     chan struct{}
}

func (f *fakeAnalyzer) Analyze(ctx context.Context) (insights.Analysis, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-ctx.Done():
			f.mu.Lock()
			f.cancelled++
			f.mu.Unlock()
			return insights.Analysis{}, ctx.Err()
		case <-f.block:
		}
	}

	return insights.Analysis{HealthScore: 70, DaysOfData: 30}, nil
}

func (f *fakeAnalyzer) counts() (calls, cancelled int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.cancelled
}

type fakeTotals struct{}

func (fakeTotals) Totals(context.Context) (core.Totals, error) {
	return core.Totals{
		Income:  core.Money{Cents: 100000},
		Expense: core.Money{Cents: 40000},
		Balance: core.Money{Cents: 60000},
	}, nil
}

func waitFor(t *testing.T, desc string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", desc)
}

func startWorker(t *testing.T, w *AnalysisWorker) (cancel func(), done chan error) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	done = make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(cancelCtx)
	return cancelCtx, done
}

func TestTriggerCoalesces(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	w := NewAnalysisWorker(analyzer, fakeTotals{}, nil, time.Hour)

	w.Trigger()
	w.Trigger()
	w.Trigger()

	cancel, done := startWorker(t, w)

	waitFor(t, "first run", func() bool {
		calls, _ := analyzer.counts()
		return calls == 1
	})

	time.Sleep(50 * time.Millisecond)
	if calls, _ := analyzer.counts(); calls != 1 {
		t.Errorf("got %d runs, want 1 for coalesced triggers", calls)
	}
	if g := w.Generation(); g != 1 {
		t.Errorf("generation = %d, want 1", g)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestNewTriggerSupersedesInFlightRun(t *testing.T) {
	analyzer := &fakeAnalyzer{block: make(chan struct{})}
	w := NewAnalysisWorker(analyzer, fakeTotals{}, nil, time.Hour)

	cancel, done := startWorker(t, w)

	w.Trigger()
	waitFor(t, "first run to start", func() bool {
		calls, _ := analyzer.counts()
		return calls == 1
	})

	w.Trigger()
	waitFor(t, "first run cancelled and second started", func() bool {
		calls, cancelled := analyzer.counts()
		return calls == 2 && cancelled == 1
	})

	close(analyzer.block)

	cancel()
	<-done
}

func TestPeriodicFallback(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	w := NewAnalysisWorker(analyzer, fakeTotals{}, nil, 10*time.Millisecond)

	cancel, done := startWorker(t, w)

	waitFor(t, "periodic runs", func() bool {
		calls, _ := analyzer.counts()
		return calls >= 2
	})

	cancel()
	<-done
}

func TestHandleChangeMessageTriggersRun(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	w := NewAnalysisWorker(analyzer, fakeTotals{}, nil, time.Hour)

	cancel, done := startWorker(t, w)

	msg := amqp.NewTransactionChangedMessage("tx-1", amqp.ChangeCreated)
	if err := w.HandleChangeMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleChangeMessage: %v", err)
	}

	waitFor(t, "run after change message", func() bool {
		calls, _ := analyzer.counts()
		return calls == 1
	})

	cancel()
	<-done
}

func TestExportsReportAfterRun(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	store := memory.New()
	w := NewAnalysisWorker(analyzer, fakeTotals{}, store, time.Hour)

	cancel, done := startWorker(t, w)

	w.Trigger()
	waitFor(t, "exported report", func() bool {
		return len(store.Reports()) == 1
	})

	report := store.Reports()[0]
	if report.Analysis.HealthScore != 70 {
		t.Errorf("exported health score = %d, want 70", report.Analysis.HealthScore)
	}
	if report.Totals.Income.Cents != 100000 {
		t.Errorf("exported income = %d, want 100000", report.Totals.Income.Cents)
	}

	cancel()
	<-done
}
