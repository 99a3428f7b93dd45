package services

import (
	"context"
	"errors"

	"sipor/internal/analytics"
	"sipor/internal/models"
)

type OperationsService interface {
	// Summary builds the management-view event payload for the rolling
	// window, optionally narrowed by shift/zone filters.
	Summary(ctx context.Context, filter *models.EventFilter) (*models.OperationsSummary, error)

	// Deltas ranks the top inventory movers over the rolling window.
	Deltas(ctx context.Context) (*models.DeltaReport, error)

	// FilterOptions lists the distinct shift and zone values in the window.
	FilterOptions(ctx context.Context) (*models.FilterOptions, error)
}

type operationsService struct {
	snapshots  SnapshotService
	engine     *analytics.Service
	windowDays int
}

func NewOperationsService(snapshots SnapshotService, engine *analytics.Service, windowDays int) OperationsService {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &operationsService{
		snapshots:  snapshots,
		engine:     engine,
		windowDays: windowDays,
	}
}

func (s *operationsService) Summary(ctx context.Context, filter *models.EventFilter) (*models.OperationsSummary, error) {
	snapshot, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}

	window, err := s.engine.RollingWindow(snapshot.Events, s.windowDays)
	if err != nil {
		if errors.Is(err, analytics.ErrNoValidDates) {
			return &models.OperationsSummary{NoValidDates: true}, nil
		}
		return nil, err
	}

	// The window comes from the full event set; filters narrow only the
	// aggregation input, as the dashboard's multi-selects do.
	filtered := s.engine.FilterEvents(snapshot.Events, filter)

	summary := &models.OperationsSummary{
		Window: window,
		Events: s.engine.EventSummary(filtered, window),
	}
	trend := s.engine.PeriodComparison(filtered, window, models.EventTypeRepaired)
	summary.RepairsTrend = &trend

	return summary, nil
}

func (s *operationsService) Deltas(ctx context.Context) (*models.DeltaReport, error) {
	snapshot, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}

	window, err := s.engine.RollingWindow(snapshot.Events, s.windowDays)
	if err != nil {
		if errors.Is(err, analytics.ErrNoValidDates) {
			// No event dates to anchor the window; fall back to the
			// inventory's own date range.
			window, err = s.engine.RollingWindow(snapshot.Inventory, s.windowDays)
			if err != nil {
				return &models.DeltaReport{
					InsufficientRange: true,
					Increases:         []models.ItemDelta{},
					Decreases:         []models.ItemDelta{},
				}, nil
			}
		} else {
			return nil, err
		}
	}

	return s.engine.SnapshotDelta(snapshot.Inventory, window), nil
}

func (s *operationsService) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	snapshot, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}

	window, err := s.engine.RollingWindow(snapshot.Events, s.windowDays)
	if err != nil {
		if errors.Is(err, analytics.ErrNoValidDates) {
			return &models.FilterOptions{Shifts: []string{}, Zones: []string{}}, nil
		}
		return nil, err
	}

	inWindow := s.engine.FilterByWindow(snapshot.Events, window)
	return &models.FilterOptions{
		Window: window,
		Shifts: s.engine.DistinctValues(inWindow, models.GroupByShift),
		Zones:  s.engine.DistinctValues(inWindow, models.GroupByZone),
	}, nil
}
