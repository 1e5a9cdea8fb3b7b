package service

import (
	"context"
	"time"

	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/port"
)

type StatsService struct {
	store     port.Store
	telemetry port.Telemetry
}

func NewStatsService(store port.Store, telemetry port.Telemetry) *StatsService {
	return &StatsService{store: store, telemetry: telemetry}
}

func (s *StatsService) CompletedCount(ctx context.Context) (int, error) {
	var count int

	err := s.run(ctx, "CompletedCount", func(ctx context.Context, session port.Session) error {
		var err error
		count, err = session.Stats().CountCompleted(ctx)
		return err
	})

	return count, err
}

func (s *StatsService) AveragePerUser(ctx context.Context) (float64, error) {
	var average float64

	err := s.run(ctx, "AveragePerUser", func(ctx context.Context, session port.Session) error {
		items, err := session.Stats().CountItems(ctx)

		if err != nil {
			return err
		}

		owners, err := session.Stats().CountDistinctOwners(ctx)

		if err != nil {
			return err
		}

		average = domain.AveragePerOwner(items, owners)
		return nil
	})

	return average, err
}

func (s *StatsService) AverageDurationCompleted(ctx context.Context) (*float64, error) {
	var average *float64

	err := s.run(ctx, "AverageDurationCompleted", func(ctx context.Context, session port.Session) error {
		var err error
		average, err = session.Stats().AverageDurationCompleted(ctx)
		return err
	})

	return average, err
}

func (s *StatsService) Totals(ctx context.Context) (domain.Totals, error) {
	var totals domain.Totals

	err := s.run(ctx, "Totals", func(ctx context.Context, session port.Session) error {
		perUser, err := session.Stats().AverageDurationCompletedByUser(ctx)

		if err != nil {
			return err
		}

		users, err := session.Users().Count(ctx)

		if err != nil {
			return err
		}

		totals = domain.NewTotals(users, perUser)
		return nil
	})

	return totals, err
}

// AverageDurationMinutes returns the elapsed minutes between creation and last
// update of one item, 0 when the database yields no average.
func (s *StatsService) AverageDurationMinutes(ctx context.Context, itemID int) (float64, error) {
	var minutes float64

	err := s.run(ctx, "AverageDurationMinutes", func(ctx context.Context, session port.Session) error {
		if _, err := session.Items().GetByID(ctx, itemID); err != nil {
			return err
		}

		avg, err := session.Stats().AverageElapsedMinutes(ctx, itemID)

		if err != nil {
			return err
		}

		if avg != nil {
			minutes = *avg
		}

		return nil
	})

	return minutes, err
}

func (s *StatsService) run(ctx context.Context, operation string, fn func(context.Context, port.Session) error) error {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "stats", operation, 0, nil)
	defer span.End()

	start := time.Now()
	err := withinSession(ctx, s.store, func(session port.Session) error {
		return fn(ctx, session)
	})

	s.telemetry.RecordServiceOperation(ctx, "stats", operation, 0, time.Since(start), err)

	return err
}
