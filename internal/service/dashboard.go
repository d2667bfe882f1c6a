package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/pkg/logger"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/source"
)

// DashboardService orchestrates one session's view of the data: it loads
// the immutable collection through the source loader and answers every
// query as a pure function over that collection plus the caller's criteria.
type DashboardService struct {
	loader *source.Loader
	logger *logger.Logger
	now    func() time.Time
}

func NewDashboardService(loader *source.Loader, log *logger.Logger) *DashboardService {
	return &DashboardService{
		loader: loader,
		logger: log.Component("service/dashboard"),
		now:    time.Now,
	}
}

// FilteredView is a filtered collection plus its provenance.
type FilteredView struct {
	Requests    []domain.ExclusionRequest `json:"requests"`
	Total       int                       `json:"total"` // size of the unfiltered collection
	Source      string                    `json:"source"`
	LastUpdated time.Time                 `json:"last_updated"`
}

// Requests returns the filtered view for the given criteria.
func (s *DashboardService) Requests(ctx context.Context, c domain.FilterCriteria) (*FilteredView, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCriteria, err)
	}

	col, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	filtered := ApplyFilters(col.Records, c)
	return &FilteredView{
		Requests:    filtered,
		Total:       len(col.Records),
		Source:      col.Source,
		LastUpdated: col.LastUpdated,
	}, nil
}

// Stats aggregates statistics over the filtered view.
func (s *DashboardService) Stats(ctx context.Context, c domain.FilterCriteria) (*domain.Stats, error) {
	view, err := s.Requests(ctx, c)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(view.Requests, s.now())
	return &stats, nil
}

// Teams lists the distinct team names of the full collection. The dropdown
// is populated from the unfiltered collection so narrowing one filter does
// not strip options from another.
func (s *DashboardService) Teams(ctx context.Context) ([]string, error) {
	col, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return TeamNames(col.Records), nil
}

// Calendar places the filtered view onto the days of a month.
func (s *DashboardService) Calendar(ctx context.Context, c domain.FilterCriteria, year int, month time.Month) ([]domain.CalendarDay, error) {
	view, err := s.Requests(ctx, c)
	if err != nil {
		return nil, err
	}
	return MonthCalendar(view.Requests, year, month), nil
}

// Recent returns the n newest requests of the filtered view.
func (s *DashboardService) Recent(ctx context.Context, c domain.FilterCriteria, n int) ([]domain.ExclusionRequest, error) {
	view, err := s.Requests(ctx, c)
	if err != nil {
		return nil, err
	}
	return RecentRequests(view.Requests, n), nil
}

// Reload discards the cached collection and fetches a fresh one.
func (s *DashboardService) Reload(ctx context.Context) (*FilteredView, error) {
	s.loader.Invalidate()
	s.logger.Info("collection reload requested")
	return s.Requests(ctx, domain.FilterCriteria{})
}
