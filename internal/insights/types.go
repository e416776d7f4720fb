// Package insights derives a financial health analysis from a transaction
// history. Analyze is a pure function: same input, same output, no I/O.
package insights

import (
	"fintrack/internal/core"
)

// Priority ranks how urgently an insight deserves attention.
type Priority int

const (
	Low Priority = iota
	Medium
	High
	Urgent
)

func (p Priority) String() string {
	switch p {
	case Urgent:
		return "URGENT"
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// DataQuality classifies how many days of history back the analysis.
type DataQuality int

const (
	Insufficient DataQuality = iota // under 3 days
	Limited                         // under 7 days
	Good                            // under 30 days
	Excellent                       // 30 days or more
)

func (q DataQuality) String() string {
	switch q {
	case Excellent:
		return "EXCELLENT"
	case Good:
		return "GOOD"
	case Limited:
		return "LIMITED"
	default:
		return "INSUFFICIENT"
	}
}

// PatternKind is the direction of a detected spending pattern.
type PatternKind string

const (
	Increasing PatternKind = "INCREASING"
	Decreasing PatternKind = "DECREASING"
	Stable     PatternKind = "STABLE"
	Irregular  PatternKind = "IRREGULAR"
)

// Insight is a single finding about the user's finances. SavingAmount, when
// set, estimates the monthly amount the user could keep by acting on it.
type Insight struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Priority     Priority    `json:"priority"`
	SavingAmount *core.Money `json:"saving_amount,omitempty"`
	Actions      []string    `json:"actions,omitempty"`
}

// Recommendation is a softer suggestion with an expected impact estimate.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact,omitempty"`
}

// SpendingPattern describes an observed behavior over the analysis window.
type SpendingPattern struct {
	Kind        PatternKind `json:"kind"`
	Description string      `json:"description"`
	Impact      string      `json:"impact,omitempty"`
}

// ScoreBreakdown holds the four health sub-scores, each in [0,100].
type ScoreBreakdown struct {
	Savings  int `json:"savings"`
	Spending int `json:"spending"`
	Income   int `json:"income"`
	Balance  int `json:"balance"`
}

// Analysis is the full result of one engine run. Created fresh per call;
// it carries no persisted identity.
type Analysis struct {
	HealthScore      int               `json:"health_score"`
	ScoreBreakdown   ScoreBreakdown    `json:"score_breakdown"`
	ScoreExplanation string            `json:"score_explanation"`
	SavingsPotential core.Money        `json:"savings_potential"`
	Insights         []Insight         `json:"insights"`
	Recommendations  []Recommendation  `json:"recommendations"`
	SpendingPatterns []SpendingPattern `json:"spending_patterns"`
	DaysOfData       int               `json:"days_of_data"`
	DataQuality      DataQuality       `json:"data_quality"`
}
