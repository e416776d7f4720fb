package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

const (
	None    Recurrence = ""
	Daily   Recurrence = "daily"
	Weekly  Recurrence = "weekly"
	Monthly Recurrence = "monthly"
	Yearly  Recurrence = "yearly"
)

type (
	TransactionType string

	Recurrence string

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded income or expense entry.
	// It is immutable once stored; the insight engine only reads it.
	Transaction struct {
		ID          string
		Type        TransactionType
		Amount      Money
		Category    string
		Description string
		OccurredAt  time.Time
		Recurrence  Recurrence
	}

	// RecurringTransaction is a template that the recurring worker
	// materializes into concrete transactions when due.
	RecurringTransaction struct {
		ID            int64 // Database ID for operations
		Type          TransactionType
		Amount        Money
		Category      string
		Description   string
		Every         Recurrence
		StartDate     time.Time
		EndDate       time.Time
		LastExecution time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrZeroDate         = errors.New("date cannot be zero")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.OccurredAt.IsZero() {
		return ErrZeroDate
	}
	switch t.Recurrence {
	case None, Daily, Weekly, Monthly, Yearly:
	default:
		return errors.New("invalid recurrence")
	}
	return nil
}

func (rt RecurringTransaction) Validate() error {
	if err := rt.Type.Validate(); err != nil {
		return err
	}
	if err := rt.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(rt.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(rt.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(rt.Category) == "" {
		return ErrEmptyCategory
	}
	if rt.StartDate.IsZero() {
		return errors.New("invalid start date: " + ErrZeroDate.Error())
	}
	if !rt.EndDate.IsZero() && rt.EndDate.Before(rt.StartDate) {
		return errors.New("end date must be after start date")
	}
	switch rt.Every {
	case Daily, Weekly, Monthly, Yearly:
		// Valid repetition types
	default:
		return errors.New("invalid repetition type")
	}
	return nil
}
