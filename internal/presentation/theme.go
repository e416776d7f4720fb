// Package presentation maps domain analysis enums to visual metadata.
// The insight engine stays free of UI vocabulary; clients get decorated
// payloads from here.
package presentation

import "fintrack/internal/insights"

// Theme is the visual metadata for one priority or pattern value.
type Theme struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var priorityThemes = map[insights.Priority]Theme{
	insights.Urgent: {Color: "#d32f2f", Icon: "alert-octagon"},
	insights.High:   {Color: "#f57c00", Icon: "alert-triangle"},
	insights.Medium: {Color: "#fbc02d", Icon: "info"},
	insights.Low:    {Color: "#388e3c", Icon: "check-circle"},
}

var patternThemes = map[insights.PatternKind]Theme{
	insights.Increasing: {Color: "#d32f2f", Icon: "trending-up"},
	insights.Decreasing: {Color: "#388e3c", Icon: "trending-down"},
	insights.Stable:     {Color: "#1976d2", Icon: "minus"},
	insights.Irregular:  {Color: "#f57c00", Icon: "activity"},
}

var qualityLabels = map[insights.DataQuality]string{
	insights.Insufficient: "Building your profile",
	insights.Limited:      "Early picture",
	insights.Good:         "Reliable picture",
	insights.Excellent:    "Full picture",
}

// ForPriority returns the visual theme for an insight priority.
func ForPriority(p insights.Priority) Theme {
	if t, ok := priorityThemes[p]; ok {
		return t
	}
	return priorityThemes[insights.Low]
}

// ForPattern returns the visual theme for a spending-pattern kind.
func ForPattern(k insights.PatternKind) Theme {
	if t, ok := patternThemes[k]; ok {
		return t
	}
	return patternThemes[insights.Stable]
}

// QualityLabel returns the user-facing label for a data-quality tier.
func QualityLabel(q insights.DataQuality) string {
	if l, ok := qualityLabels[q]; ok {
		return l
	}
	return qualityLabels[insights.Insufficient]
}

// DecoratedInsight is an insight plus its theme, ready for rendering.
type DecoratedInsight struct {
	insights.Insight
	Theme Theme `json:"theme"`
}

// DecoratedPattern is a spending pattern plus its theme.
type DecoratedPattern struct {
	insights.SpendingPattern
	Theme Theme `json:"theme"`
}

// DecoratedAnalysis wraps an Analysis with presentation metadata.
type DecoratedAnalysis struct {
	insights.Analysis
	QualityLabel      string             `json:"quality_label"`
	DecoratedInsights []DecoratedInsight `json:"decorated_insights"`
	DecoratedPatterns []DecoratedPattern `json:"decorated_patterns"`
}

// Decorate attaches visual metadata to an analysis result.
func Decorate(a insights.Analysis) DecoratedAnalysis {
	d := DecoratedAnalysis{
		Analysis:     a,
		QualityLabel: QualityLabel(a.DataQuality),
	}
	for _, ins := range a.Insights {
		d.DecoratedInsights = append(d.DecoratedInsights, DecoratedInsight{
			Insight: ins,
			Theme:   ForPriority(ins.Priority),
		})
	}
	for _, p := range a.SpendingPatterns {
		d.DecoratedPatterns = append(d.DecoratedPatterns, DecoratedPattern{
			SpendingPattern: p,
			Theme:           ForPattern(p.Kind),
		})
	}
	return d
}
