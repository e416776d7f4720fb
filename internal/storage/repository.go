package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist or is soft-deleted.
var ErrNotFound = errors.New("not found")

const timeLayout = time.RFC3339Nano

// AnalysisSnapshot is a persisted analysis result. Payload holds the
// JSON-encoded insights.Analysis so readers never recompute.
type AnalysisSnapshot struct {
	ID          int64
	GeneratedAt time.Time
	HealthScore int
	DaysOfData  int
	Payload     []byte
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction persists a validated transaction. The caller assigns the ID.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, type, amount_cents, category, description, occurred_at, recurrence)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Type), t.Amount.Cents, t.Category, t.Description,
		t.OccurredAt.UTC().Format(timeLayout), string(t.Recurrence))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"type", t.Type,
		"category", t.Category,
		"amount_cents", t.Amount.Cents)

	return nil
}

// GetTransaction returns a single live transaction by ID.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, type, amount_cents, category, description, occurred_at, recurrence
		FROM transactions
		WHERE id = ? AND deleted_at IS NULL`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns all live transactions ordered by occurrence date.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, amount_cents, category, description, occurred_at, recurrence
		FROM transactions
		WHERE deleted_at IS NULL
		ORDER BY occurred_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// DeleteTransaction soft-deletes a transaction so history stays auditable.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// ListCategories returns the distinct categories of live transactions.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT category
		FROM transactions
		WHERE deleted_at IS NULL
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// CreateRecurringTransaction persists a recurring template and returns its ID.
func (r *SQLiteRepository) CreateRecurringTransaction(ctx context.Context, rt core.RecurringTransaction) (int64, error) {
	var endDate any
	if !rt.EndDate.IsZero() {
		endDate = rt.EndDate.UTC().Format(timeLayout)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_transactions (type, amount_cents, category, description, every, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(rt.Type), rt.Amount.Cents, rt.Category, rt.Description,
		string(rt.Every), rt.StartDate.UTC().Format(timeLayout), endDate)
	if err != nil {
		return 0, fmt.Errorf("insert recurring transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recurring transaction id: %w", err)
	}
	return id, nil
}

// ListRecurringTransactions returns every recurring template.
func (r *SQLiteRepository) ListRecurringTransactions(ctx context.Context) ([]core.RecurringTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, amount_cents, category, description, every, start_date, end_date, last_execution
		FROM recurring_transactions
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring transactions: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringTransaction
	for rows.Next() {
		var (
			rt                      core.RecurringTransaction
			txType, every, startRaw string
			endRaw, lastRaw         sql.NullString
		)
		if err := rows.Scan(&rt.ID, &txType, &rt.Amount.Cents, &rt.Category,
			&rt.Description, &every, &startRaw, &endRaw, &lastRaw); err != nil {
			return nil, fmt.Errorf("scan recurring transaction: %w", err)
		}
		rt.Type = core.TransactionType(txType)
		rt.Every = core.Recurrence(every)
		if rt.StartDate, err = time.Parse(timeLayout, startRaw); err != nil {
			return nil, fmt.Errorf("parse start date: %w", err)
		}
		if endRaw.Valid {
			if rt.EndDate, err = time.Parse(timeLayout, endRaw.String); err != nil {
				return nil, fmt.Errorf("parse end date: %w", err)
			}
		}
		if lastRaw.Valid {
			if rt.LastExecution, err = time.Parse(timeLayout, lastRaw.String); err != nil {
				return nil, fmt.Errorf("parse last execution: %w", err)
			}
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring transactions: %w", err)
	}
	return out, nil
}

// MarkRecurringExecuted records the last materialization time of a template.
func (r *SQLiteRepository) MarkRecurringExecuted(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_transactions
		SET last_execution = ?
		WHERE id = ?`,
		at.UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("mark recurring executed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark recurring rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecurringTransaction removes a recurring template. Transactions
// already materialized from it are kept.
func (r *SQLiteRepository) DeleteRecurringTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM recurring_transactions
		WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recurring rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveAnalysisSnapshot stores a computed analysis result.
func (r *SQLiteRepository) SaveAnalysisSnapshot(ctx context.Context, s AnalysisSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analysis_snapshots (generated_at, health_score, days_of_data, payload)
		VALUES (?, ?, ?, ?)`,
		s.GeneratedAt.UTC().Format(timeLayout), s.HealthScore, s.DaysOfData, string(s.Payload))
	if err != nil {
		return fmt.Errorf("insert analysis snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Analysis snapshot saved",
		"health_score", s.HealthScore,
		"days_of_data", s.DaysOfData)

	return nil
}

// LatestAnalysisSnapshot returns the most recent analysis, or ErrNotFound.
func (r *SQLiteRepository) LatestAnalysisSnapshot(ctx context.Context) (AnalysisSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, generated_at, health_score, days_of_data, payload
		FROM analysis_snapshots
		ORDER BY generated_at DESC, id DESC
		LIMIT 1`)

	var (
		s       AnalysisSnapshot
		genRaw  string
		payload string
	)
	err := row.Scan(&s.ID, &genRaw, &s.HealthScore, &s.DaysOfData, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return AnalysisSnapshot{}, ErrNotFound
	}
	if err != nil {
		return AnalysisSnapshot{}, fmt.Errorf("get latest analysis snapshot: %w", err)
	}
	if s.GeneratedAt, err = time.Parse(timeLayout, genRaw); err != nil {
		return AnalysisSnapshot{}, fmt.Errorf("parse generated at: %w", err)
	}
	s.Payload = []byte(payload)
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                       core.Transaction
		txType, recurrence, occ string
	)
	if err := row.Scan(&t.ID, &txType, &t.Amount.Cents, &t.Category,
		&t.Description, &occ, &recurrence); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(txType)
	t.Recurrence = core.Recurrence(recurrence)

	occurredAt, err := time.Parse(timeLayout, occ)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse occurred at: %w", err)
	}
	t.OccurredAt = occurredAt
	return t, nil
}
