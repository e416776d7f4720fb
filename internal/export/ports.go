// Package export defines the outbound port for publishing analysis reports
// and is implemented by the google and memory adapters.
package export

import (
	"context"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/insights"
)

// Report is one exported analysis run.
type Report struct {
	GeneratedAt time.Time
	Totals      core.Totals
	Analysis    insights.Analysis
}

// ReportWriter is the port for outbound report destinations.
type ReportWriter interface {
	WriteAnalysis(ctx context.Context, r Report) (ref string, err error)
}
