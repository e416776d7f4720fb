package insights

import (
	"fmt"
	"testing"

	"fintrack/internal/core"
)

func TestEmergencyFundRuleBands(t *testing.T) {
	cases := []struct {
		name       string
		months     float64
		wantTitle  string
		wantNudge  bool
		wantNoting bool
	}{
		{name: "under one month", months: 0.4, wantTitle: "Build an Emergency Fund"},
		{name: "one to three months", months: 2.0, wantNudge: true},
		{name: "three to six months", months: 4.5, wantNoting: true},
		{name: "six months and up", months: 8.0, wantTitle: "Strong Emergency Fund"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics{balance: tc.months * 1000, monthlyExpense: 1000}
			r := emergencyFundRule(m)

			switch {
			case tc.wantTitle != "":
				if len(r.insights) != 1 || r.insights[0].Title != tc.wantTitle {
					t.Errorf("insights = %+v, want single %q", r.insights, tc.wantTitle)
				}
			case tc.wantNudge:
				if len(r.recommendations) != 1 || r.recommendations[0].Title != "Grow Your Emergency Fund" {
					t.Errorf("recommendations = %+v, want the grow-fund nudge", r.recommendations)
				}
			case tc.wantNoting:
				if len(r.insights) != 0 || len(r.recommendations) != 0 {
					t.Errorf("solid runway should stay quiet, got %+v / %+v", r.insights, r.recommendations)
				}
			}
		})
	}
}

func TestWeekdayRule(t *testing.T) {
	// Three weeks of small daily spending plus big Saturday splurges.
	var txs []core.Transaction
	for d := 0; d < 21; d++ {
		cents := int64(1000)
		// Jan 4 2025 is a Saturday; day offsets 3, 10, 17 land on Saturdays.
		if d%7 == 3 {
			cents = 9000
		}
		txs = append(txs, tx(d, core.Expense, cents, "Leisure", fmt.Sprintf("day %d", d)))
	}
	m := computeMetrics(txs, core.NewTotals(txs))
	r := weekdayRule(m)

	if len(r.insights) != 1 {
		t.Fatalf("got %d insights, want 1: %+v", len(r.insights), r.insights)
	}
	if r.insights[0].Title != "Saturday Spending Spike" {
		t.Errorf("title = %q, want Saturday Spending Spike", r.insights[0].Title)
	}
	if len(r.patterns) != 1 || r.patterns[0].Kind != Irregular {
		t.Errorf("patterns = %+v, want one IRREGULAR pattern", r.patterns)
	}
}

func TestWeekdayRuleNeedsTwoWeeks(t *testing.T) {
	var txs []core.Transaction
	for d := 0; d < 10; d++ {
		cents := int64(1000)
		if d%7 == 3 {
			cents = 9000
		}
		txs = append(txs, tx(d, core.Expense, cents, "Leisure", fmt.Sprintf("day %d", d)))
	}
	m := computeMetrics(txs, core.NewTotals(txs))
	if r := weekdayRule(m); len(r.insights) != 0 {
		t.Errorf("under 14 days the weekday rule must stay silent, got %+v", r.insights)
	}
}

func TestCategoryBudgetRuleGating(t *testing.T) {
	// Heavy food spending but only 5 days of data: the rule must not run.
	var txs []core.Transaction
	for d := 0; d < 5; d++ {
		txs = append(txs, tx(d, core.Expense, 5000, "Food & Dining", fmt.Sprintf("feast %d", d)))
	}
	m := computeMetrics(txs, core.NewTotals(txs))
	if r := categoryBudgetRule(m); len(r.insights) != 0 {
		t.Errorf("category rule should be gated under 7 days, got %+v", r.insights)
	}
}

func TestTopCategoryRuleNudges(t *testing.T) {
	cases := []struct {
		category string
		want     string
	}{
		{"Food & Dining", "Cook More at Home"},
		{"Transport", "Optimize Your Commute"},
		{"Shopping", "Put Purchases on a Wishlist"},
		{"Utilities", "Review Your Utilities Spending"},
	}
	for _, tc := range cases {
		t.Run(tc.category, func(t *testing.T) {
			m := metrics{expenseByCategory: []core.CategoryAmount{
				{Name: tc.category, Amount: core.Money{Cents: 10000}},
			}}
			r := topCategoryRule(m)
			if len(r.recommendations) != 1 || r.recommendations[0].Title != tc.want {
				t.Errorf("recommendations = %+v, want %q", r.recommendations, tc.want)
			}
		})
	}
}

func TestRecurringRuleSaving(t *testing.T) {
	m := metrics{recurringGroups: []recurringGroup{
		{description: "streamly subscription", count: 3, meanAmount: 11.99, total: 35.97},
		{description: "gym pass", count: 2, meanAmount: 30.00, total: 60.00},
	}}
	r := recurringRule(m)

	if len(r.insights) != 1 {
		t.Fatalf("got %d insights, want 1", len(r.insights))
	}
	// 25% of the combined 41.99 per-cycle spend, half-up rounded.
	if r.insights[0].SavingAmount == nil || r.insights[0].SavingAmount.Cents != 1050 {
		t.Errorf("saving = %+v, want 1050 cents", r.insights[0].SavingAmount)
	}
	if len(r.recommendations) != 1 {
		t.Errorf("expected the subscription-audit recommendation, got %+v", r.recommendations)
	}
}
