package insights

import (
	"fmt"

	"fintrack/internal/core"
)

// ruleResult is what a single rule contributes to the analysis.
type ruleResult struct {
	insights        []Insight
	recommendations []Recommendation
	patterns        []SpendingPattern
}

// rule is a pure predicate over the derived metrics. Rules never see each
// other's output and run in a fixed order.
type rule struct {
	name string
	eval func(m metrics) ruleResult
}

var ruleTable = []rule{
	{name: "savings-rate", eval: savingsRateRule},
	{name: "category-budgets", eval: categoryBudgetRule},
	{name: "category-concentration", eval: concentrationRule},
	{name: "spending-trend", eval: trendRule},
	{name: "weekday-concentration", eval: weekdayRule},
	{name: "recurring-expenses", eval: recurringRule},
	{name: "income-variability", eval: incomeVariabilityRule},
	{name: "zero-spend-days", eval: zeroSpendRule},
	{name: "emergency-fund", eval: emergencyFundRule},
	{name: "top-category-nudge", eval: topCategoryRule},
}

func savingsRateRule(m metrics) ruleResult {
	var r ruleResult
	switch {
	case m.monthlyBalance < 0:
		deficit := core.CentsFromEuros(-m.monthlyBalance)
		r.insights = append(r.insights, Insight{
			Title: "Spending Exceeds Income",
			Description: fmt.Sprintf("You are on track to spend %.2f more than you earn this month. "+
				"Cutting back now prevents debt from piling up.", -m.monthlyBalance),
			Priority:     Urgent,
			SavingAmount: &deficit,
			Actions: []string{
				"List your three largest expense categories and cut the easiest one first",
				"Pause non-essential purchases until the month balances",
				"Check for forgotten subscriptions or duplicate charges",
			},
		})
	case m.savingsRate < lowSavingsThreshold && m.totalIncome > 0:
		gap := core.CentsFromEuros((recommendedSavingsRate - m.savingsRate) * m.monthlyIncome)
		r.insights = append(r.insights, Insight{
			Title: "Low Savings Rate",
			Description: fmt.Sprintf("You are saving %.0f%% of your income. Aiming for %.0f%% would set aside "+
				"an extra %.2f per month.", m.savingsRate*100, recommendedSavingsRate*100, gap.Euros()),
			Priority:     High,
			SavingAmount: &gap,
			Actions: []string{
				"Set up an automatic transfer to savings on payday",
				"Review the category insights below for concrete cuts",
			},
		})
	case m.savingsRate >= recommendedSavingsRate:
		r.insights = append(r.insights, Insight{
			Title: "Excellent Savings Rate",
			Description: fmt.Sprintf("You are saving %.0f%% of your income, above the recommended %.0f%%. Keep it up.",
				m.savingsRate*100, recommendedSavingsRate*100),
			Priority: Low,
		})
	}
	return r
}

// categoryActions and categoryRecommendations are the canned follow-ups for
// a budget breach, keyed by category name.
var categoryActions = map[string][]string{
	"Food & Dining": {
		"Plan meals for the week before shopping",
		"Batch-cook two or three dinners on the weekend",
		"Set a weekly eating-out allowance",
	},
	"Shopping": {
		"Apply the 30-day rule before any non-essential purchase",
		"Unsubscribe from retailer newsletters",
		"Keep a wishlist and review it monthly",
	},
	"Transport": {
		"Compare your monthly pass against pay-per-ride costs",
		"Combine errands into fewer trips",
	},
	"Entertainment": {
		"Rotate streaming services instead of stacking them",
		"Look for free events before paid ones",
	},
}

var categoryRecommendations = map[string]Recommendation{
	"Food & Dining": {
		Title:       "Try Meal Planning",
		Description: "A weekly meal plan routinely cuts food spending by a quarter without feeling restrictive.",
		Impact:      "Save up to 25% of your food budget",
	},
	"Shopping": {
		Title:       "Use the 30-Day Rule",
		Description: "Park non-essential purchases on a list for 30 days. Most lose their appeal.",
		Impact:      "Avoid most impulse purchases",
	},
}

func categoryBudgetRule(m metrics) ruleResult {
	var r ruleResult
	if m.daysOfData < minDaysForCategories || m.daysOfData == 0 {
		return r
	}
	for _, name := range categoryBudgetOrder {
		budget := categoryBudgets[name]
		spent := categorySpend(m, name)
		monthly := spent / float64(m.daysOfData) * projectionDays
		if monthly <= budget.monthlyLimit {
			continue
		}
		saving := core.CentsFromEuros(monthly * budget.savingRate)
		r.insights = append(r.insights, Insight{
			Title: "High " + shortCategoryName(name) + " Spending",
			Description: fmt.Sprintf("Your %s spending projects to %.2f this month, above the %.0f guideline.",
				name, monthly, budget.monthlyLimit),
			Priority:     Medium,
			SavingAmount: &saving,
			Actions:      categoryActions[name],
		})
		if rec, ok := categoryRecommendations[name]; ok {
			r.recommendations = append(r.recommendations, rec)
		}
	}
	return r
}

func concentrationRule(m metrics) ruleResult {
	var r ruleResult
	if m.daysOfData < minDaysForCategories || len(m.expenseByCategory) < 2 || m.totalExpense <= 0 {
		return r
	}
	top := m.expenseByCategory[0]
	share := top.Amount.Euros() / m.totalExpense
	if share <= concentrationShare {
		return r
	}
	monthly := top.Amount.Euros() / float64(m.daysOfData) * projectionDays
	saving := core.CentsFromEuros(monthly * concentrationSavingRate)
	r.insights = append(r.insights, Insight{
		Title: "Spending Concentration",
		Description: fmt.Sprintf("%s makes up %.0f%% of everything you spend. "+
			"A single dominant category is the quickest place to find savings.", top.Name, share*100),
		Priority:     Medium,
		SavingAmount: &saving,
		Actions: []string{
			fmt.Sprintf("Go through your %s entries and flag the avoidable ones", top.Name),
		},
	})
	return r
}

func trendRule(m metrics) ruleResult {
	var r ruleResult
	if m.daysOfData < minDaysForTrend || !m.trendComputed {
		return r
	}
	switch {
	case m.trendChange > trendChangeThreshold:
		r.patterns = append(r.patterns, SpendingPattern{
			Kind: Increasing,
			Description: fmt.Sprintf("Your recent daily spending runs %.0f%% above the earlier part of this period.",
				m.trendChange*100),
			Impact: "Rising spending erodes your savings rate",
		})
		if m.daysOfData >= minDaysForTrendInsight {
			r.insights = append(r.insights, Insight{
				Title: "Spending Is Trending Up",
				Description: fmt.Sprintf("Daily expenses increased %.0f%% in the recent half of your history. "+
					"Worth a look before it becomes the new normal.", m.trendChange*100),
				Priority: High,
				Actions: []string{
					"Compare this week's purchases against two weeks ago",
				},
			})
		}
	case m.trendChange < -trendChangeThreshold:
		r.patterns = append(r.patterns, SpendingPattern{
			Kind: Decreasing,
			Description: fmt.Sprintf("Your recent daily spending runs %.0f%% below the earlier part of this period. Nice trajectory.",
				-m.trendChange*100),
		})
	default:
		r.patterns = append(r.patterns, SpendingPattern{
			Kind:        Stable,
			Description: "Your daily spending has been steady across this period.",
		})
	}
	return r
}

func weekdayRule(m metrics) ruleResult {
	var r ruleResult
	if m.daysOfData < minDaysForWeekday || m.dailyExpense <= 0 {
		return r
	}
	spikeDay := -1
	var spikeAvg float64
	for wd, avg := range m.weekdayAverage {
		if m.weekdayCounts[wd] < 2 {
			continue
		}
		if avg > m.dailyExpense*weekdaySpikeMultiplier && avg > spikeAvg {
			spikeDay = wd
			spikeAvg = avg
		}
	}
	if spikeDay < 0 {
		return r
	}
	dayName := weekdayNames[spikeDay]
	r.insights = append(r.insights, Insight{
		Title: dayName + " Spending Spike",
		Description: fmt.Sprintf("You spend an average of %.2f on %ss, well above your %.2f daily average.",
			spikeAvg, dayName, m.dailyExpense),
		Priority: Medium,
		Actions: []string{
			fmt.Sprintf("Plan %s activities with a set budget in mind", dayName),
		},
	})
	r.patterns = append(r.patterns, SpendingPattern{
		Kind:        Irregular,
		Description: fmt.Sprintf("Spending concentrates on %ss.", dayName),
		Impact:      "Concentrated days make budgets harder to pace",
	})
	return r
}

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func recurringRule(m metrics) ruleResult {
	var r ruleResult
	if len(m.recurringGroups) == 0 {
		return r
	}
	var total float64
	for _, g := range m.recurringGroups {
		total += g.meanAmount
	}
	saving := core.CentsFromEuros(total * recurringSavingRate)
	r.insights = append(r.insights, Insight{
		Title: "Recurring Charges Detected",
		Description: fmt.Sprintf("Found %d repeating charges totalling about %.2f per cycle. "+
			"Subscriptions quietly accumulate; most people can drop a few without noticing.",
			len(m.recurringGroups), total),
		Priority:     Medium,
		SavingAmount: &saving,
		Actions: []string{
			"List every subscription and cancel the ones you have not used this month",
			"Check for annual plans that beat your monthly pricing",
		},
	})
	r.recommendations = append(r.recommendations, Recommendation{
		Title:       "Audit Your Subscriptions",
		Description: "Go through your recurring charges once a quarter and cancel what you no longer use.",
		Impact:      "Typically recovers 20-25% of subscription spend",
	})
	return r
}

func incomeVariabilityRule(m metrics) ruleResult {
	var r ruleResult
	if m.incomeVariation <= incomeVariabilityCutoff {
		return r
	}
	r.insights = append(r.insights, Insight{
		Title: "Variable Income",
		Description: fmt.Sprintf("Your income varies by %.0f%% between payments. With irregular income, "+
			"a larger emergency fund smooths the lean months.", m.incomeVariation*100),
		Priority: Medium,
		Actions: []string{
			"Budget against your lowest recent month, not your average",
			"Size your emergency fund at six months of expenses instead of three",
		},
	})
	return r
}

func zeroSpendRule(m metrics) ruleResult {
	var r ruleResult
	if m.daysOfData < minDaysForCategories {
		return r
	}
	// Scale the target to the observed window.
	target := minZeroSpendDaysPerMonth * m.daysOfData / projectionDays
	if target < 1 {
		target = 1
	}
	if m.zeroSpendDays >= target {
		return r
	}
	r.recommendations = append(r.recommendations, Recommendation{
		Title: "Try No-Spend Days",
		Description: fmt.Sprintf("You had %d spending-free days in this period. "+
			"Scheduling a couple of no-spend days each week builds an easy buffer.", m.zeroSpendDays),
		Impact: "Small daily purchases add up fast",
	})
	return r
}

func emergencyFundRule(m metrics) ruleResult {
	var r ruleResult
	if m.monthlyExpense <= 0 {
		return r
	}
	months := m.balance / m.monthlyExpense
	switch {
	case months < runwayMinimal:
		r.insights = append(r.insights, Insight{
			Title: "Build an Emergency Fund",
			Description: fmt.Sprintf("Your balance covers %.1f months of expenses. "+
				"One month is the minimum cushion before surprises turn into debt.", months),
			Priority: Medium,
			Actions: []string{
				"Open a separate account so the buffer is not spendable by accident",
				"Automate a small weekly transfer until you reach one month of expenses",
			},
		})
	case months < runwaySolid:
		r.recommendations = append(r.recommendations, Recommendation{
			Title: "Grow Your Emergency Fund",
			Description: fmt.Sprintf("You have %.1f months of expenses saved. "+
				"Pushing toward three months covers most real emergencies.", months),
			Impact: "Three months of runway absorbs job or health shocks",
		})
	case months >= runwayStrong:
		r.insights = append(r.insights, Insight{
			Title: "Strong Emergency Fund",
			Description: fmt.Sprintf("Your balance covers %.1f months of expenses. "+
				"That is a solid safety net; surplus beyond it could be working harder.", months),
			Priority: Low,
		})
	}
	return r
}

// topCategoryRule gives the single largest expense category one canned nudge,
// distinct from the budget-breach insights.
func topCategoryRule(m metrics) ruleResult {
	var r ruleResult
	if len(m.expenseByCategory) == 0 {
		return r
	}
	switch top := m.expenseByCategory[0].Name; top {
	case "Food & Dining":
		r.recommendations = append(r.recommendations, Recommendation{
			Title:       "Cook More at Home",
			Description: "Food is your biggest category. Home cooking typically costs a third of eating out.",
			Impact:      "Each home-cooked dinner saves roughly 10-15",
		})
	case "Transport":
		r.recommendations = append(r.recommendations, Recommendation{
			Title:       "Optimize Your Commute",
			Description: "Transport leads your spending. Monthly passes, carpooling, or cycling part of the way all chip at it.",
			Impact:      "Commute changes compound every single workday",
		})
	case "Shopping":
		r.recommendations = append(r.recommendations, Recommendation{
			Title:       "Put Purchases on a Wishlist",
			Description: "Shopping leads your spending. A 30-day wishlist filters wants from needs.",
			Impact:      "Most wishlist items never get bought",
		})
	default:
		r.recommendations = append(r.recommendations, Recommendation{
			Title:       "Review Your " + top + " Spending",
			Description: fmt.Sprintf("%s is your largest expense category. A focused review there beats trimming everywhere at once.", top),
		})
	}
	return r
}

func categorySpend(m metrics, name string) float64 {
	for _, c := range m.expenseByCategory {
		if c.Name == name {
			return c.Amount.Euros()
		}
	}
	return 0
}

// shortCategoryName strips qualifier suffixes for insight titles, so
// "Food & Dining" reads as "High Food Spending".
func shortCategoryName(name string) string {
	switch name {
	case "Food & Dining":
		return "Food"
	default:
		return name
	}
}
