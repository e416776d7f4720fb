package insights

// Each sub-score is a piecewise-linear function clamped to [0,100] and
// damped by the data-confidence multiplier on thin history.

func computeBreakdown(m metrics) ScoreBreakdown {
	return ScoreBreakdown{
		Savings:  damp(savingsScore(m), m.confidence),
		Spending: damp(spendingScore(m), m.confidence),
		Income:   damp(incomeScore(m), m.confidence),
		Balance:  damp(balanceScore(m), m.confidence),
	}
}

func healthScore(b ScoreBreakdown) int {
	return clampScore((b.Savings + b.Spending + b.Income + b.Balance) / 4)
}

// savingsScore rewards the share of income kept: 100 at the recommended
// 20% rate, degrading linearly through the 10% band, hitting 0 when the
// user overspends by 10% of income or more.
func savingsScore(m metrics) int {
	if m.totalIncome <= 0 {
		return 0
	}
	rate := m.savingsRate
	switch {
	case rate >= recommendedSavingsRate:
		return 100
	case rate >= lowSavingsThreshold:
		return interpolate(70, 100, (rate-lowSavingsThreshold)/(recommendedSavingsRate-lowSavingsThreshold))
	case rate >= 0:
		return interpolate(40, 70, rate/lowSavingsThreshold)
	default:
		return clampScore(interpolate(0, 40, 1+rate/lowSavingsThreshold))
	}
}

// spendingScore looks at the expense/income ratio: full marks up to 70%,
// flat 20 once spending exceeds income.
func spendingScore(m metrics) int {
	if m.totalIncome <= 0 {
		return 0
	}
	ratio := m.totalExpense / m.totalIncome
	switch {
	case ratio <= comfortableSpendingRatio:
		return 100
	case ratio <= tightSpendingRatio:
		return interpolate(100, 70, (ratio-comfortableSpendingRatio)/(tightSpendingRatio-comfortableSpendingRatio))
	case ratio <= 1.0:
		return interpolate(70, 40, (ratio-tightSpendingRatio)/(1.0-tightSpendingRatio))
	default:
		return overspendScore
	}
}

// incomeScore bands the absolute projected monthly income.
func incomeScore(m metrics) int {
	v := m.monthlyIncome
	switch {
	case v >= incomeBandHigh:
		return 100
	case v >= incomeBandMid:
		return interpolate(70, 100, (v-incomeBandMid)/(incomeBandHigh-incomeBandMid))
	case v >= incomeBandLow:
		return interpolate(40, 70, (v-incomeBandLow)/(incomeBandMid-incomeBandLow))
	case v > 0:
		return interpolate(0, 40, v/incomeBandLow)
	default:
		return 0
	}
}

// balanceScore measures months of runway: projected monthly expenses the
// current balance could cover.
func balanceScore(m metrics) int {
	if m.balance <= 0 {
		return 0
	}
	if m.monthlyExpense <= 0 {
		// A positive balance with no spending history covers any runway.
		return 100
	}
	months := m.balance / m.monthlyExpense
	switch {
	case months >= runwayStrong:
		return 100
	case months >= runwaySolid:
		return interpolate(70, 100, (months-runwaySolid)/(runwayStrong-runwaySolid))
	case months >= runwayMinimal:
		return interpolate(40, 70, (months-runwayMinimal)/(runwaySolid-runwayMinimal))
	default:
		return interpolate(0, 40, months/runwayMinimal)
	}
}

func scoreExplanation(score int) string {
	switch {
	case score >= 80:
		return "Excellent financial health. Your income, spending, and reserves are all in strong shape."
	case score >= 60:
		return "Good financial health with room to improve. Review the insights below for the biggest wins."
	case score >= 40:
		return "Your finances need attention. Focus on the highest-priority insights first."
	default:
		return "Your finances are under pressure. Start with the urgent items to stop the bleeding."
	}
}

// interpolate maps t in [0,1] linearly onto [from,to] and clamps the result.
func interpolate(from, to, t float64) int {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return clampScore(int(from + (to-from)*t + 0.5))
}

func damp(score int, confidence float64) int {
	return clampScore(int(float64(score)*confidence + 0.5))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
