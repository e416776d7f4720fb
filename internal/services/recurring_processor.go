package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// RecurringProcessor materializes due recurring transaction templates into
// concrete transactions.
type RecurringProcessor struct {
	storage   *storage.SQLiteRepository
	txService *TransactionService
}

// NewRecurringProcessor creates a new recurring transaction processor
func NewRecurringProcessor(storage *storage.SQLiteRepository, txService *TransactionService) *RecurringProcessor {
	return &RecurringProcessor{
		storage:   storage,
		txService: txService,
	}
}

// ProcessDue materializes every template that is due at the given time and
// returns how many transactions were created.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.storage == nil || p.txService == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	templates, err := p.storage.ListRecurringTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recurring transactions: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring transactions",
		"total", len(templates),
		"processing_date", now.Format("2006-01-02"))

	processedCount := 0

	for _, rt := range templates {
		if now.Before(rt.StartDate) {
			continue
		}
		if !rt.EndDate.IsZero() && now.After(rt.EndDate) {
			continue
		}

		checker, err := GetDuenessChecker(rt.Every)
		if err != nil {
			slog.ErrorContext(ctx, "Unknown recurrence on template",
				"id", rt.ID,
				"every", rt.Every,
				"error", err)
			continue
		}

		if !checker.IsDue(rt.LastExecution, now, rt.StartDate) {
			continue
		}

		tx := core.Transaction{
			Type:        rt.Type,
			Amount:      rt.Amount,
			Category:    rt.Category,
			Description: rt.Description,
			OccurredAt:  now,
			Recurrence:  rt.Every,
		}

		created, err := p.txService.CreateTransaction(ctx, tx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create transaction from recurring template",
				"recurring_id", rt.ID,
				"description", rt.Description,
				"error", err)
			continue
		}

		if err := p.storage.MarkRecurringExecuted(ctx, rt.ID, now); err != nil {
			// Transaction was created; the template may fire again next run.
			slog.ErrorContext(ctx, "Failed to update last execution date",
				"recurring_id", rt.ID,
				"error", err)
		}

		processedCount++
		slog.InfoContext(ctx, "Created transaction from recurring template",
			"recurring_id", rt.ID,
			"transaction_id", created.ID,
			"amount_cents", rt.Amount.Cents,
			"frequency", rt.Every)
	}

	slog.InfoContext(ctx, "Recurring transaction processing complete",
		"processed", processedCount,
		"total_checked", len(templates))

	return processedCount, nil
}
