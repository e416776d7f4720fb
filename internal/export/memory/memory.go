// Package memory provides an in-memory report destination, used in tests and
// when no external destination is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/export"
)

type Store struct {
	mu      sync.Mutex
	reports []export.Report
}

var _ export.ReportWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// WriteAnalysis stores the report and returns a synthetic reference.
func (s *Store) WriteAnalysis(_ context.Context, r export.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return fmt.Sprintf("mem:%d", len(s.reports)), nil
}

// Reports returns a copy of every stored report.
func (s *Store) Reports() []export.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]export.Report(nil), s.reports...)
}
