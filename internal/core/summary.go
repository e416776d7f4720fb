package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Totals holds the precomputed aggregates over a transaction set.
// Balance is always Income minus Expense.
type Totals struct {
	Income  Money
	Expense Money
	Balance Money
}

// NewTotals computes aggregate totals from a transaction list.
func NewTotals(transactions []Transaction) Totals {
	var income, expense int64
	for _, t := range transactions {
		switch t.Type {
		case Income:
			income += t.Amount.Cents
		case Expense:
			expense += t.Amount.Cents
		}
	}
	return Totals{
		Income:  Money{Cents: income},
		Expense: Money{Cents: expense},
		Balance: Money{Cents: income - expense},
	}
}
