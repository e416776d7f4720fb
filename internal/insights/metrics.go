package insights

import (
	"math"
	"sort"
	"strings"
	"time"

	"fintrack/internal/core"
)

// metrics holds every derived figure the rules and scores consume. It is
// computed once per Analyze call from the raw input.
type metrics struct {
	daysOfData int
	quality    DataQuality
	confidence float64

	totalIncome  float64 // euros
	totalExpense float64
	balance      float64

	dailyIncome    float64
	dailyExpense   float64
	monthlyIncome  float64 // projected over projectionDays
	monthlyExpense float64
	monthlyBalance float64

	savingsRate float64 // (income-expense)/income, 0 when income is 0

	expenseByCategory []core.CategoryAmount // sorted descending by amount
	incomeByCategory  []core.CategoryAmount

	trendChange    float64 // recent-half daily avg vs older-half, relative
	trendComputed  bool
	weekdayAverage [7]float64
	weekdayCounts  [7]int
	zeroSpendDays  int

	recurringGroups []recurringGroup
	incomeVariation float64 // coefficient of variation of income amounts
}

// recurringGroup is a set of same-description expenses whose amounts vary
// by less than recurringAmountSpread of their mean.
type recurringGroup struct {
	description string
	count       int
	meanAmount  float64 // euros
	total       float64
}

func computeMetrics(transactions []core.Transaction, totals core.Totals) metrics {
	m := metrics{
		totalIncome:  totals.Income.Euros(),
		totalExpense: totals.Expense.Euros(),
		balance:      totals.Balance.Euros(),
		confidence:   1.0,
	}

	m.daysOfData = daysOfData(transactions)
	m.quality = classifyQuality(m.daysOfData)
	switch {
	case m.daysOfData < minDaysForCategories:
		m.confidence = limitedConfidence
	case m.daysOfData < projectionDays:
		m.confidence = goodConfidence
	}

	if m.daysOfData > 0 {
		m.dailyIncome = m.totalIncome / float64(m.daysOfData)
		m.dailyExpense = m.totalExpense / float64(m.daysOfData)
	}
	m.monthlyIncome = m.dailyIncome * projectionDays
	m.monthlyExpense = m.dailyExpense * projectionDays
	m.monthlyBalance = m.monthlyIncome - m.monthlyExpense

	if m.totalIncome > 0 {
		m.savingsRate = (m.totalIncome - m.totalExpense) / m.totalIncome
	}

	m.expenseByCategory = sumByCategory(transactions, core.Expense)
	m.incomeByCategory = sumByCategory(transactions, core.Income)
	m.trendChange, m.trendComputed = spendingTrend(transactions)
	m.weekdayAverage, m.weekdayCounts = weekdayAverages(transactions)
	m.zeroSpendDays = zeroSpendDays(transactions, m.daysOfData)
	m.recurringGroups = detectRecurring(transactions)
	m.incomeVariation = incomeVariation(transactions)

	return m
}

// daysOfData is the inclusive calendar-day span between the oldest and
// newest transaction. Malformed (negative) spans collapse to 0.
func daysOfData(transactions []core.Transaction) int {
	if len(transactions) == 0 {
		return 0
	}
	oldest, newest := transactions[0].OccurredAt, transactions[0].OccurredAt
	for _, t := range transactions[1:] {
		if t.OccurredAt.Before(oldest) {
			oldest = t.OccurredAt
		}
		if t.OccurredAt.After(newest) {
			newest = t.OccurredAt
		}
	}
	days := int(dayOf(newest).Sub(dayOf(oldest)).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	if days > maxDaysOfData {
		return maxDaysOfData
	}
	return days
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func classifyQuality(days int) DataQuality {
	switch {
	case days < minDaysForAnalysis:
		return Insufficient
	case days < minDaysForCategories:
		return Limited
	case days < projectionDays:
		return Good
	default:
		return Excellent
	}
}

func sumByCategory(transactions []core.Transaction, kind core.TransactionType) []core.CategoryAmount {
	sums := make(map[string]int64)
	for _, t := range transactions {
		if t.Type == kind {
			sums[t.Category] += t.Amount.Cents
		}
	}
	out := make([]core.CategoryAmount, 0, len(sums))
	for name, cents := range sums {
		out = append(out, core.CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// spendingTrend compares the daily expense average of the most recent half
// of the window against the older half. The returned change is relative:
// +0.25 means recent spending runs 25% above the older baseline.
func spendingTrend(transactions []core.Transaction) (float64, bool) {
	if len(transactions) == 0 {
		return 0, false
	}
	oldest, newest := transactions[0].OccurredAt, transactions[0].OccurredAt
	for _, t := range transactions[1:] {
		if t.OccurredAt.Before(oldest) {
			oldest = t.OccurredAt
		}
		if t.OccurredAt.After(newest) {
			newest = t.OccurredAt
		}
	}
	span := dayOf(newest).Sub(dayOf(oldest))
	if span <= 0 {
		return 0, false
	}
	midpoint := dayOf(oldest).Add(span / 2)

	var olderSum, recentSum float64
	for _, t := range transactions {
		if t.Type != core.Expense {
			continue
		}
		if dayOf(t.OccurredAt).Before(midpoint) {
			olderSum += t.Amount.Euros()
		} else {
			recentSum += t.Amount.Euros()
		}
	}
	halfDays := span.Hours() / 24 / 2
	if halfDays <= 0 || olderSum == 0 {
		return 0, false
	}
	olderDaily := olderSum / halfDays
	recentDaily := recentSum / halfDays
	return (recentDaily - olderDaily) / olderDaily, true
}

func weekdayAverages(transactions []core.Transaction) ([7]float64, [7]int) {
	var sums [7]float64
	var counts [7]int
	seen := make(map[string]bool)
	var dayCounts [7]int
	for _, t := range transactions {
		if t.Type != core.Expense {
			continue
		}
		wd := int(t.OccurredAt.UTC().Weekday())
		sums[wd] += t.Amount.Euros()
		counts[wd]++
		key := t.OccurredAt.UTC().Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			dayCounts[wd]++
		}
	}
	var avgs [7]float64
	for i := range sums {
		if dayCounts[i] > 0 {
			avgs[i] = sums[i] / float64(dayCounts[i])
		}
	}
	return avgs, counts
}

// zeroSpendDays counts calendar days inside the data window with no expense.
func zeroSpendDays(transactions []core.Transaction, days int) int {
	if days == 0 {
		return 0
	}
	spent := make(map[string]bool)
	for _, t := range transactions {
		if t.Type == core.Expense {
			spent[t.OccurredAt.UTC().Format("2006-01-02")] = true
		}
	}
	free := days - len(spent)
	if free < 0 {
		return 0
	}
	return free
}

// detectRecurring groups expenses by lower-cased description and keeps
// groups of two or more whose amounts stay within recurringAmountSpread of
// the group mean. Those read as subscriptions or standing charges.
func detectRecurring(transactions []core.Transaction) []recurringGroup {
	byDesc := make(map[string][]float64)
	for _, t := range transactions {
		if t.Type != core.Expense {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(t.Description))
		if key == "" {
			continue
		}
		byDesc[key] = append(byDesc[key], t.Amount.Euros())
	}

	var groups []recurringGroup
	for desc, amounts := range byDesc {
		if len(amounts) < 2 {
			continue
		}
		var sum, min, max float64
		min, max = amounts[0], amounts[0]
		for _, a := range amounts {
			sum += a
			if a < min {
				min = a
			}
			if a > max {
				max = a
			}
		}
		mean := sum / float64(len(amounts))
		if mean <= 0 || (max-min)/mean >= recurringAmountSpread {
			continue
		}
		groups = append(groups, recurringGroup{
			description: desc,
			count:       len(amounts),
			meanAmount:  mean,
			total:       sum,
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].total != groups[j].total {
			return groups[i].total > groups[j].total
		}
		return groups[i].description < groups[j].description
	})
	return groups
}

// incomeVariation is the coefficient of variation of income amounts.
// Returns 0 with fewer than two income entries.
func incomeVariation(transactions []core.Transaction) float64 {
	var amounts []float64
	for _, t := range transactions {
		if t.Type == core.Income {
			amounts = append(amounts, t.Amount.Euros())
		}
	}
	if len(amounts) < 2 {
		return 0
	}
	var sum float64
	for _, a := range amounts {
		sum += a
	}
	mean := sum / float64(len(amounts))
	if mean == 0 {
		return 0
	}
	var varianceSum float64
	for _, a := range amounts {
		diff := a - mean
		varianceSum += diff * diff
	}
	return math.Sqrt(varianceSum/float64(len(amounts))) / mean
}
