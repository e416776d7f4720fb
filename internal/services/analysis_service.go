package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/storage"
)

// AnalysisService computes financial analyses over the stored transaction
// set and persists them as snapshots so readers never recompute.
type AnalysisService struct {
	storage *storage.SQLiteRepository
}

func NewAnalysisService(storage *storage.SQLiteRepository) *AnalysisService {
	return &AnalysisService{storage: storage}
}

// Analyze runs the insight engine over the current transaction set and
// persists the result as the latest snapshot.
func (s *AnalysisService) Analyze(ctx context.Context) (insights.Analysis, error) {
	txs, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return insights.Analysis{}, fmt.Errorf("list transactions: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return insights.Analysis{}, err
	}

	analysis := insights.Analyze(txs, core.NewTotals(txs))

	// A superseding run may have cancelled us while the engine worked;
	// drop the stale result instead of persisting it.
	if err := ctx.Err(); err != nil {
		return insights.Analysis{}, err
	}

	payload, err := json.Marshal(analysis)
	if err != nil {
		return insights.Analysis{}, fmt.Errorf("marshal analysis: %w", err)
	}

	snapshot := storage.AnalysisSnapshot{
		GeneratedAt: time.Now(),
		HealthScore: analysis.HealthScore,
		DaysOfData:  analysis.DaysOfData,
		Payload:     payload,
	}
	if err := s.storage.SaveAnalysisSnapshot(ctx, snapshot); err != nil {
		return insights.Analysis{}, fmt.Errorf("save analysis snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Analysis computed",
		"health_score", analysis.HealthScore,
		"days_of_data", analysis.DaysOfData,
		"insights", len(analysis.Insights))

	return analysis, nil
}

// LatestAnalysis returns the most recent snapshot, computing a fresh
// analysis when none exists yet.
func (s *AnalysisService) LatestAnalysis(ctx context.Context) (insights.Analysis, error) {
	snapshot, err := s.storage.LatestAnalysisSnapshot(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return s.Analyze(ctx)
	}
	if err != nil {
		return insights.Analysis{}, fmt.Errorf("load analysis snapshot: %w", err)
	}

	var analysis insights.Analysis
	if err := json.Unmarshal(snapshot.Payload, &analysis); err != nil {
		return insights.Analysis{}, fmt.Errorf("unmarshal analysis snapshot: %w", err)
	}
	return analysis, nil
}
