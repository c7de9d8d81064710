package mock

import (
	"context"

	"github.com/fwojciec/pagecrawl"
)

var _ pagecrawl.VisitService = (*VisitService)(nil)

// VisitService is a mock implementation of pagecrawl.VisitService.
type VisitService struct {
	CreateRunFn   func(ctx context.Context, run *pagecrawl.Run) error
	FinishRunFn   func(ctx context.Context, run *pagecrawl.Run) error
	RecordVisitFn func(ctx context.Context, visit *pagecrawl.Visit) error
	FindVisitsFn  func(ctx context.Context, runID string) ([]*pagecrawl.Visit, error)
}

func (s *VisitService) CreateRun(ctx context.Context, run *pagecrawl.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *VisitService) FinishRun(ctx context.Context, run *pagecrawl.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *VisitService) RecordVisit(ctx context.Context, visit *pagecrawl.Visit) error {
	return s.RecordVisitFn(ctx, visit)
}

func (s *VisitService) FindVisits(ctx context.Context, runID string) ([]*pagecrawl.Visit, error) {
	return s.FindVisitsFn(ctx, runID)
}
