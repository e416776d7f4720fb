package insights

import (
	"sort"

	"fintrack/internal/core"
)

const neutralScore = 50

// Analyze runs the full rule evaluation over a transaction history and its
// precomputed totals. It is deterministic and total: an empty history yields
// the empty sentinel, thin history yields a fixed neutral result, and every
// division hazard is guarded. Amounts are assumed validated by the caller.
func Analyze(transactions []core.Transaction, totals core.Totals) Analysis {
	if len(transactions) == 0 {
		return emptyAnalysis()
	}

	m := computeMetrics(transactions, totals)
	if m.quality == Insufficient {
		return insufficientAnalysis(m.daysOfData)
	}

	breakdown := computeBreakdown(m)
	score := healthScore(breakdown)

	a := Analysis{
		HealthScore:      score,
		ScoreBreakdown:   breakdown,
		ScoreExplanation: scoreExplanation(score),
		DaysOfData:       m.daysOfData,
		DataQuality:      m.quality,
	}

	for _, r := range ruleTable {
		res := r.eval(m)
		a.Insights = append(a.Insights, res.insights...)
		a.Recommendations = append(a.Recommendations, res.recommendations...)
		a.SpendingPatterns = append(a.SpendingPatterns, res.patterns...)
	}

	// Stable sort keeps insertion order within a priority tier.
	sort.SliceStable(a.Insights, func(i, j int) bool {
		return a.Insights[i].Priority > a.Insights[j].Priority
	})

	var potential int64
	for _, ins := range a.Insights {
		if ins.SavingAmount != nil && ins.SavingAmount.Cents > 0 {
			potential += ins.SavingAmount.Cents
		}
	}
	a.SavingsPotential = core.Money{Cents: potential}

	return a
}

// emptyAnalysis is the sentinel for a history with no transactions at all.
func emptyAnalysis() Analysis {
	return Analysis{
		ScoreExplanation: "No transactions yet. Add your first income or expense to get started.",
		DataQuality:      Insufficient,
	}
}

// insufficientAnalysis is the fixed neutral result for under three days of
// data: no conclusions, just encouragement to keep tracking.
func insufficientAnalysis(days int) Analysis {
	return Analysis{
		HealthScore: neutralScore,
		ScoreBreakdown: ScoreBreakdown{
			Savings:  neutralScore,
			Spending: neutralScore,
			Income:   neutralScore,
			Balance:  neutralScore,
		},
		ScoreExplanation: "Not enough history yet for a reliable score. Keep tracking for a few more days.",
		Insights: []Insight{{
			Title:       "Building Your Financial Profile",
			Description: "A few more days of transactions and the analysis gets meaningful. Early conclusions would just be noise.",
			Priority:    Low,
		}},
		Recommendations: []Recommendation{{
			Title:       "Track Everything",
			Description: "Record every transaction, even the small ones. Complete data makes for honest insights.",
			Impact:      "Better data, better analysis",
		}},
		DaysOfData:  days,
		DataQuality: Insufficient,
	}
}
