package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
)

// createTransactionRequest is the JSON body for POST /transactions.
// Amount is a decimal string ("12.34"); OccurredAt is RFC3339 and
// defaults to now when omitted.
type createTransactionRequest struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	OccurredAt  string `json:"occurred_at,omitempty"`
	Recurrence  string `json:"recurrence,omitempty"`
}

func (req createTransactionRequest) toTransaction() (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount: %w", err)
	}

	occurredAt := time.Now()
	if v := strings.TrimSpace(req.OccurredAt); v != "" {
		occurredAt, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("parse occurred_at: %w", err)
		}
	}

	return core.Transaction{
		Type:        core.TransactionType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		OccurredAt:  occurredAt,
		Recurrence:  core.Recurrence(strings.ToLower(strings.TrimSpace(req.Recurrence))),
	}, nil
}

type transactionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
	Recurrence  string    `json:"recurrence,omitempty"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		AmountCents: t.Amount.Cents,
		Amount:      formatAmount(t.Amount.Cents),
		Category:    t.Category,
		Description: t.Description,
		OccurredAt:  t.OccurredAt,
		Recurrence:  string(t.Recurrence),
	}
}

type moneyResponse struct {
	Cents  int64  `json:"cents"`
	Amount string `json:"amount"`
}

type totalsResponse struct {
	Income  moneyResponse `json:"income"`
	Expense moneyResponse `json:"expense"`
	Balance moneyResponse `json:"balance"`
}

func toTotalsResponse(t core.Totals) totalsResponse {
	return totalsResponse{
		Income:  moneyResponse{Cents: t.Income.Cents, Amount: formatAmount(t.Income.Cents)},
		Expense: moneyResponse{Cents: t.Expense.Cents, Amount: formatAmount(t.Expense.Cents)},
		Balance: moneyResponse{Cents: t.Balance.Cents, Amount: formatAmount(t.Balance.Cents)},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
