package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// ChangePublisher notifies downstream consumers that the transaction set
// changed. The AMQP client implements it; tests use fakes.
type ChangePublisher interface {
	PublishTransactionChanged(ctx context.Context, id, changeType string) error
}

// TransactionService orchestrates transaction operations across SQLite and AMQP
type TransactionService struct {
	storage   *storage.SQLiteRepository
	publisher ChangePublisher
}

func NewTransactionService(storage *storage.SQLiteRepository, publisher ChangePublisher) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateTransaction validates and saves a transaction, then publishes a
// change notification. Publish failures never fail the request since the
// transaction is already durable locally.
func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	if err := s.storage.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publishChange(ctx, t.ID, amqp.ChangeCreated); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"id", t.ID, "error", err)
	}

	return t, nil
}

// GetTransaction returns a single transaction by ID.
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id)
}

// ListTransactions returns all live transactions.
func (s *TransactionService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx)
}

// ListCategories returns the distinct categories in use.
func (s *TransactionService) ListCategories(ctx context.Context) ([]string, error) {
	return s.storage.ListCategories(ctx)
}

// Totals computes aggregate income, expense and balance figures.
func (s *TransactionService) Totals(ctx context.Context) (core.Totals, error) {
	txs, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return core.Totals{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.NewTotals(txs), nil
}

// DeleteTransaction soft-deletes a transaction and publishes a change
// notification.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := s.publishChange(ctx, id, amqp.ChangeDeleted); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", id, "error", err)
	}

	return nil
}

func (s *TransactionService) publishChange(ctx context.Context, id, changeType string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Change publisher not available, skipping message")
		return nil
	}
	return s.publisher.PublishTransactionChanged(ctx, id, changeType)
}

// Close closes the underlying storage connection.
func (s *TransactionService) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
