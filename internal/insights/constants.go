package insights

// All rule thresholds live here as fixed configuration. They are not user
// tunable; changing one changes the analysis contract and its tests.
const (
	maxDaysOfData = 3650

	minDaysForAnalysis     = 3
	minDaysForCategories   = 7
	minDaysForTrend        = 7
	minDaysForTrendInsight = 14
	minDaysForWeekday      = 14

	projectionDays = 30

	// Confidence damping applied to sub-scores on thin history.
	limitedConfidence = 0.70 // under 7 days
	goodConfidence    = 0.85 // under 30 days

	recommendedSavingsRate = 0.20
	lowSavingsThreshold    = 0.10

	// Spending score bands on the expense/income ratio.
	comfortableSpendingRatio = 0.70
	tightSpendingRatio       = 0.85
	overspendScore           = 20

	// Income score bands on projected monthly income (euros).
	incomeBandLow  = 1000.0
	incomeBandMid  = 2000.0
	incomeBandHigh = 3000.0

	// Emergency fund bands in months of projected expenses covered.
	runwayMinimal = 1.0
	runwaySolid   = 3.0
	runwayStrong  = 6.0

	trendChangeThreshold = 0.20 // ±20% between window halves

	weekdaySpikeMultiplier = 1.75

	recurringAmountSpread    = 0.10 // max spread relative to the group mean
	recurringSavingRate      = 0.25
	incomeVariabilityCutoff  = 0.30 // coefficient of variation
	concentrationShare       = 0.40 // single category share of total expense
	concentrationSavingRate  = 0.20
	minZeroSpendDaysPerMonth = 5
)

// categoryBudget is a fixed monthly-euro ceiling for a named category,
// with the share of that spend considered realistically recoverable.
type categoryBudget struct {
	monthlyLimit float64
	savingRate   float64
}

var categoryBudgets = map[string]categoryBudget{
	"Food & Dining": {monthlyLimit: 400, savingRate: 0.30},
	"Shopping":      {monthlyLimit: 300, savingRate: 0.40},
	"Transport":     {monthlyLimit: 300, savingRate: 0.25},
	"Entertainment": {monthlyLimit: 200, savingRate: 0.35},
}

// categoryBudgetOrder fixes rule evaluation order so output is deterministic
// regardless of map iteration.
var categoryBudgetOrder = []string{
	"Food & Dining",
	"Shopping",
	"Transport",
	"Entertainment",
}
