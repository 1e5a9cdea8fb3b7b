package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/port"
)

type StatsRepository struct {
	base
}

func NewStatsRepository(q Querier, builder sq.StatementBuilderType, telemetry port.Telemetry) port.StatsRepository {
	return &StatsRepository{newBase(q, builder, telemetry, "stats", "items")}
}

func (r *StatsRepository) CountItems(ctx context.Context) (int, error) {
	return r.count(ctx, "CountItems", r.builder.Select("COUNT(*)").From("items"))
}

func (r *StatsRepository) CountCompleted(ctx context.Context) (int, error) {
	return r.count(ctx, "CountCompleted", r.builder.Select("COUNT(*)").From("items").Where(sq.Eq{"completed": true}))
}

func (r *StatsRepository) CountDistinctOwners(ctx context.Context) (int, error) {
	return r.count(ctx, "CountDistinctOwners", r.builder.Select("COUNT(DISTINCT user_id)").From("items"))
}

func (r *StatsRepository) AverageDurationCompleted(ctx context.Context) (*float64, error) {
	return r.average(ctx, "AverageDurationCompleted", r.builder.Select("AVG(duration)").
		From("items").
		Where(sq.Eq{"completed": true}))
}

func (r *StatsRepository) AverageDurationCompletedByUser(ctx context.Context) ([]domain.UserAverage, error) {
	averages := make([]domain.UserAverage, 0)

	err := r.observe(ctx, "AverageDurationCompletedByUser", nil, func(ctx context.Context, span port.Span) error {
		query := r.builder.Select("user_id", "AVG(duration)").
			From("items").
			Where(sq.Eq{"completed": true}).
			GroupBy("user_id").
			OrderBy("user_id")

		stmt, args, err := r.toSQL(ctx, "AverageDurationCompletedByUser", query)

		if err != nil {
			return err
		}

		rows, err := r.q.QueryContext(ctx, stmt, args...)

		if err != nil {
			return fmt.Errorf("average duration by user: %w", err)
		}

		defer rows.Close()

		for rows.Next() {
			var (
				avg sql.NullFloat64
				row domain.UserAverage
			)

			if err := rows.Scan(&row.UserID, &avg); err != nil {
				return err
			}

			if avg.Valid {
				row.AverageDuration = &avg.Float64
			}

			averages = append(averages, row)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return averages, nil
}

func (r *StatsRepository) AverageElapsedMinutes(ctx context.Context, itemID int) (*float64, error) {
	return r.average(ctx, "AverageElapsedMinutes", r.builder.Select("AVG((julianday(updated) - julianday(created)) * 1440.0)").
		From("items").
		Where(sq.Eq{"id": itemID}))
}

func (r *StatsRepository) count(ctx context.Context, operation string, query sq.SelectBuilder) (int, error) {
	var count int

	err := r.observe(ctx, operation, nil, func(ctx context.Context, span port.Span) error {
		stmt, args, err := r.toSQL(ctx, operation, query)

		if err != nil {
			return err
		}

		if err := r.q.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
			return fmt.Errorf("%s: %w", operation, err)
		}

		return nil
	})

	return count, err
}

func (r *StatsRepository) average(ctx context.Context, operation string, query sq.SelectBuilder) (*float64, error) {
	var result *float64

	err := r.observe(ctx, operation, nil, func(ctx context.Context, span port.Span) error {
		stmt, args, err := r.toSQL(ctx, operation, query)

		if err != nil {
			return err
		}

		var avg sql.NullFloat64

		if err := r.q.QueryRowContext(ctx, stmt, args...).Scan(&avg); err != nil {
			return fmt.Errorf("%s: %w", operation, err)
		}

		if avg.Valid {
			result = &avg.Float64
		}

		return nil
	})

	return result, err
}
