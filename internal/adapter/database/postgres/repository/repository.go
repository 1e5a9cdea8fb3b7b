package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"itemtracker/internal/core/port"
	tel "itemtracker/internal/core/telemetry"
)

// Querier is the subset of *pgxpool.Pool and pgx.Tx the repositories need.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type base struct {
	q         Querier
	builder   sq.StatementBuilderType
	telemetry port.Telemetry
	entity    string
	table     string
}

func newBase(q Querier, builder sq.StatementBuilderType, telemetry port.Telemetry, entity, table string) base {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return base{q: q, builder: builder, telemetry: telemetry, entity: entity, table: table}
}

func (b base) observe(ctx context.Context, operation string, attrs map[string]interface{}, fn func(ctx context.Context, span port.Span) error) error {
	spanAttrs := map[string]interface{}{
		"db.system": "postgresql",
		"db.table":  b.table,
	}

	for k, v := range attrs {
		spanAttrs[k] = v
	}

	ctx, span := b.telemetry.StartRepositorySpan(ctx, operation, b.entity, spanAttrs)
	defer span.End()

	startTime := time.Now()
	err := fn(ctx, span)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus("ok", "")
	}

	b.telemetry.RecordRepositoryOperation(ctx, operation, b.entity, time.Since(startTime), err)

	return err
}

func (b base) toSQL(ctx context.Context, operation string, query sq.Sqlizer) (string, []interface{}, error) {
	stmt, args, err := query.ToSql()

	if err != nil {
		return "", nil, err
	}

	b.telemetry.RecordRepositoryQuery(ctx, operation, b.entity, stmt, args)

	return stmt, args, nil
}
