package insights

import "testing"

func TestSavingsScore(t *testing.T) {
	cases := []struct {
		name   string
		income float64
		rate   float64
		want   int
	}{
		{"at target", 3000, 0.20, 100},
		{"above target", 3000, 0.35, 100},
		{"mid band", 3000, 0.15, 85},
		{"low band floor", 3000, 0.00, 40},
		{"low band mid", 3000, 0.05, 55},
		{"negative rate", 3000, -0.05, 20},
		{"deep negative", 3000, -0.50, 0},
		{"no income", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics{totalIncome: tc.income, savingsRate: tc.rate}
			if got := savingsScore(m); got != tc.want {
				t.Errorf("savingsScore(rate=%.2f) = %d, want %d", tc.rate, got, tc.want)
			}
		})
	}
}

func TestSpendingScore(t *testing.T) {
	cases := []struct {
		name    string
		income  float64
		expense float64
		want    int
	}{
		{"comfortable", 1000, 700, 100},
		{"upper comfortable band", 1000, 775, 85},
		{"tight band edge", 1000, 850, 70},
		{"stretched", 1000, 925, 55},
		{"break even", 1000, 1000, 40},
		{"overspending", 1000, 1400, 20},
		{"no income", 0, 500, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics{totalIncome: tc.income, totalExpense: tc.expense}
			if got := spendingScore(m); got != tc.want {
				t.Errorf("spendingScore(%v/%v) = %d, want %d", tc.expense, tc.income, got, tc.want)
			}
		})
	}
}

func TestIncomeScore(t *testing.T) {
	cases := []struct {
		monthly float64
		want    int
	}{
		{0, 0},
		{500, 20},
		{1000, 40},
		{1500, 55},
		{2000, 70},
		{2500, 85},
		{3000, 100},
		{9000, 100},
	}
	for _, tc := range cases {
		m := metrics{monthlyIncome: tc.monthly}
		if got := incomeScore(m); got != tc.want {
			t.Errorf("incomeScore(%.0f) = %d, want %d", tc.monthly, got, tc.want)
		}
	}
}

func TestBalanceScore(t *testing.T) {
	cases := []struct {
		name           string
		balance        float64
		monthlyExpense float64
		want           int
	}{
		{"six months runway", 6000, 1000, 100},
		{"three months", 3000, 1000, 70},
		{"half month", 500, 1000, 20},
		{"one month", 1000, 1000, 40},
		{"negative balance", -100, 1000, 0},
		{"no expenses", 100, 0, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics{balance: tc.balance, monthlyExpense: tc.monthlyExpense}
			if got := balanceScore(m); got != tc.want {
				t.Errorf("balanceScore = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDamp(t *testing.T) {
	cases := []struct {
		score      int
		confidence float64
		want       int
	}{
		{100, 1.0, 100},
		{100, 0.85, 85},
		{100, 0.70, 70},
		{0, 0.70, 0},
	}
	for _, tc := range cases {
		if got := damp(tc.score, tc.confidence); got != tc.want {
			t.Errorf("damp(%d, %.2f) = %d, want %d", tc.score, tc.confidence, got, tc.want)
		}
	}
}

func TestScoreExplanationBrackets(t *testing.T) {
	// Each bracket has a distinct message; boundaries matter more than text.
	if scoreExplanation(80) == scoreExplanation(79) {
		t.Error("80 and 79 should fall in different brackets")
	}
	if scoreExplanation(60) == scoreExplanation(59) {
		t.Error("60 and 59 should fall in different brackets")
	}
	if scoreExplanation(40) == scoreExplanation(39) {
		t.Error("40 and 39 should fall in different brackets")
	}
}
