package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/insights"
)

// Analyzer computes and persists an analysis over the current data set.
type Analyzer interface {
	Analyze(ctx context.Context) (insights.Analysis, error)
}

// TotalsReader supplies aggregate figures for exported reports.
type TotalsReader interface {
	Totals(ctx context.Context) (core.Totals, error)
}

// AnalysisWorker recomputes the analysis whenever the transaction set
// changes. Change bursts coalesce into a single run, and a newer change
// cancels the in-flight run so the freshest data always wins.
type AnalysisWorker struct {
	analyzer Analyzer
	totals   TotalsReader
	exporter export.ReportWriter
	interval time.Duration

	trigger    chan struct{}
	generation atomic.Uint64
}

func NewAnalysisWorker(analyzer Analyzer, totals TotalsReader, exporter export.ReportWriter, interval time.Duration) *AnalysisWorker {
	return &AnalysisWorker{
		analyzer: analyzer,
		totals:   totals,
		exporter: exporter,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// HandleChangeMessage queues a recomputation for a change notification.
// It returns nil immediately so the delivery is acked; the durable data
// already lives in SQLite.
func (w *AnalysisWorker) HandleChangeMessage(ctx context.Context, msg *amqp.TransactionChangedMessage) error {
	slog.InfoContext(ctx, "Transaction change received",
		"id", msg.ID,
		"change_type", msg.ChangeType)
	w.Trigger()
	return nil
}

// Trigger requests a recomputation. Pending triggers coalesce.
func (w *AnalysisWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run processes triggers until the context ends. The interval ticker is a
// fallback for missed change messages.
func (w *AnalysisWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	runCancel := func() {}

	for {
		select {
		case <-ctx.Done():
			runCancel()
			wg.Wait()
			return ctx.Err()
		case <-w.trigger:
		case <-ticker.C:
		}

		// Supersede any in-flight run before starting a new one.
		runCancel()
		runCtx, cancel := context.WithCancel(ctx)
		runCancel = cancel
		gen := w.generation.Add(1)

		wg.Add(1)
		go func() {
			defer wg.Done()
			w.runOnce(runCtx, gen)
		}()
	}
}

func (w *AnalysisWorker) runOnce(ctx context.Context, gen uint64) {
	analysis, err := w.analyzer.Analyze(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.InfoContext(ctx, "Analysis run superseded", "generation", gen)
			return
		}
		slog.ErrorContext(ctx, "Analysis run failed", "generation", gen, "error", err)
		return
	}

	slog.InfoContext(ctx, "Analysis run complete",
		"generation", gen,
		"health_score", analysis.HealthScore,
		"days_of_data", analysis.DaysOfData)

	if w.exporter == nil {
		return
	}

	totals, err := w.totals.Totals(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read totals for export", "error", err)
		return
	}

	ref, err := w.exporter.WriteAnalysis(ctx, export.Report{
		GeneratedAt: time.Now(),
		Totals:      totals,
		Analysis:    analysis,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to export report", "generation", gen, "error", err)
		return
	}

	slog.InfoContext(ctx, "Report exported", "generation", gen, "ref", ref)
}

// Generation returns the number of runs started so far.
func (w *AnalysisWorker) Generation() uint64 {
	return w.generation.Load()
}
