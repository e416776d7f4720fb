package insights

import (
	"fmt"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestDaysOfData(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	at := func(days int) core.Transaction {
		return core.Transaction{Type: core.Expense, Amount: core.Money{Cents: 100},
			Category: "Other", Description: "x", OccurredAt: base.AddDate(0, 0, days)}
	}

	cases := []struct {
		name string
		txs  []core.Transaction
		want int
	}{
		{"empty", nil, 0},
		{"single day", []core.Transaction{at(0)}, 1},
		{"same day twice", []core.Transaction{at(0), at(0)}, 1},
		{"one week", []core.Transaction{at(0), at(6)}, 7},
		{"unordered input", []core.Transaction{at(6), at(0), at(3)}, 7},
		{"twenty years clamped", []core.Transaction{at(0), at(7300)}, 3650},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := daysOfData(tc.txs); got != tc.want {
				t.Errorf("daysOfData = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestClassifyQuality(t *testing.T) {
	cases := []struct {
		days int
		want DataQuality
	}{
		{0, Insufficient},
		{2, Insufficient},
		{3, Limited},
		{6, Limited},
		{7, Good},
		{29, Good},
		{30, Excellent},
		{365, Excellent},
	}
	for _, tc := range cases {
		if got := classifyQuality(tc.days); got != tc.want {
			t.Errorf("classifyQuality(%d) = %v, want %v", tc.days, got, tc.want)
		}
	}
}

func TestDetectRecurring(t *testing.T) {
	var txs []core.Transaction
	// Three identical streaming charges: a recurring group.
	for i := 0; i < 3; i++ {
		txs = append(txs, tx(i*7, core.Expense, 1199, "Entertainment", "Streamly subscription"))
	}
	// Same description but wildly different amounts: not recurring.
	txs = append(txs, tx(1, core.Expense, 2000, "Food & Dining", "market"))
	txs = append(txs, tx(8, core.Expense, 9000, "Food & Dining", "market"))
	// Single occurrence: not recurring.
	txs = append(txs, tx(3, core.Expense, 5000, "Shopping", "new shoes"))

	groups := detectRecurring(txs)
	if len(groups) != 1 {
		t.Fatalf("got %d recurring groups, want 1: %+v", len(groups), groups)
	}
	g := groups[0]
	if g.description != "streamly subscription" {
		t.Errorf("description = %q, want lower-cased streamly subscription", g.description)
	}
	if g.count != 3 {
		t.Errorf("count = %d, want 3", g.count)
	}
	if g.meanAmount != 11.99 {
		t.Errorf("mean = %v, want 11.99", g.meanAmount)
	}
}

func TestDetectRecurringCaseFolding(t *testing.T) {
	txs := []core.Transaction{
		tx(0, core.Expense, 999, "Entertainment", "GymPass"),
		tx(30, core.Expense, 999, "Entertainment", "gympass"),
	}
	if groups := detectRecurring(txs); len(groups) != 1 {
		t.Errorf("case variants of the same description should group, got %d groups", len(groups))
	}
}

func TestSpendingTrendDirections(t *testing.T) {
	build := func(olderDaily, recentDaily int64) []core.Transaction {
		var txs []core.Transaction
		for d := 0; d < 7; d++ {
			txs = append(txs, tx(d, core.Expense, olderDaily, "Other", fmt.Sprintf("old %d", d)))
		}
		for d := 7; d < 14; d++ {
			txs = append(txs, tx(d, core.Expense, recentDaily, "Other", fmt.Sprintf("new %d", d)))
		}
		return txs
	}

	if change, ok := spendingTrend(build(1000, 2000)); !ok || change <= trendChangeThreshold {
		t.Errorf("doubling spend should trend up, got change=%v ok=%v", change, ok)
	}
	if change, ok := spendingTrend(build(2000, 1000)); !ok || change >= -trendChangeThreshold {
		t.Errorf("halving spend should trend down, got change=%v ok=%v", change, ok)
	}
	if change, ok := spendingTrend(build(1000, 1050)); !ok || change > trendChangeThreshold || change < -trendChangeThreshold {
		t.Errorf("5%% wobble should be stable, got change=%v ok=%v", change, ok)
	}
}

func TestZeroSpendDays(t *testing.T) {
	// 10-day span with expenses on only 4 distinct days.
	var txs []core.Transaction
	for _, d := range []int{0, 2, 5, 9} {
		txs = append(txs, tx(d, core.Expense, 500, "Other", fmt.Sprintf("buy %d", d)))
	}
	days := daysOfData(txs)
	if got := zeroSpendDays(txs, days); got != 6 {
		t.Errorf("zeroSpendDays = %d, want 6", got)
	}
}

func TestIncomeVariation(t *testing.T) {
	steady := []core.Transaction{
		tx(0, core.Income, 100000, "Salary", "a"),
		tx(14, core.Income, 100000, "Salary", "b"),
	}
	if got := incomeVariation(steady); got != 0 {
		t.Errorf("identical incomes should have zero variation, got %v", got)
	}

	volatile := []core.Transaction{
		tx(0, core.Income, 50000, "Freelance", "a"),
		tx(10, core.Income, 200000, "Freelance", "b"),
		tx(20, core.Income, 30000, "Freelance", "c"),
	}
	if got := incomeVariation(volatile); got <= incomeVariabilityCutoff {
		t.Errorf("volatile incomes should exceed the cutoff, got %v", got)
	}
}

func TestSumByCategoryOrdering(t *testing.T) {
	txs := []core.Transaction{
		tx(0, core.Expense, 1000, "Transport", "bus"),
		tx(1, core.Expense, 5000, "Food & Dining", "dinner"),
		tx(2, core.Expense, 3000, "Shopping", "shirt"),
		tx(3, core.Expense, 2000, "Food & Dining", "lunch"),
	}
	got := sumByCategory(txs, core.Expense)
	if len(got) != 3 {
		t.Fatalf("got %d categories, want 3", len(got))
	}
	if got[0].Name != "Food & Dining" || got[0].Amount.Cents != 7000 {
		t.Errorf("top category = %+v, want Food & Dining at 7000", got[0])
	}
	if got[2].Name != "Transport" {
		t.Errorf("last category = %q, want Transport", got[2].Name)
	}
}
