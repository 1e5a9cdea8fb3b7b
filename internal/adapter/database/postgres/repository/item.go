package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"itemtracker/internal/adapter/database/postgres"
	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/port"
)

type ItemRepository struct {
	base
}

func NewItemRepository(q Querier, builder sq.StatementBuilderType, telemetry port.Telemetry) port.ItemRepository {
	return &ItemRepository{newBase(q, builder, telemetry, "item", "items")}
}

func returningItem() string {
	return "RETURNING " + joinColumns(postgres.ItemColumns)
}

func (r *ItemRepository) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	var saved domain.Item

	err := r.observe(ctx, "Create", map[string]interface{}{"user.id": item.UserId}, func(ctx context.Context, span port.Span) error {
		query := r.builder.Insert("items").
			Columns("value", "name", "notes", "completed", "duration", "user_id", "created", "updated").
			Values(item.Value, item.Name, item.Notes, item.Completed, item.Duration, item.UserId, item.Created, item.Updated).
			Suffix(returningItem())

		stmt, args, err := r.toSQL(ctx, "Create", query)

		if err != nil {
			return err
		}

		saved, err = postgres.ScanItem(r.q.QueryRow(ctx, stmt, args...))

		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}

		span.SetAttributes(map[string]interface{}{"item.id": saved.ID})

		return nil
	})

	return saved, err
}

func (r *ItemRepository) GetByID(ctx context.Context, id int) (domain.Item, error) {
	var item domain.Item

	err := r.observe(ctx, "GetByID", map[string]interface{}{"item.id": id}, func(ctx context.Context, span port.Span) error {
		query := r.builder.Select(postgres.ItemColumns...).
			From("items").
			Where(sq.Eq{"id": id}).
			Limit(1)

		stmt, args, err := r.toSQL(ctx, "GetByID", query)

		if err != nil {
			return err
		}

		item, err = postgres.ScanItem(r.q.QueryRow(ctx, stmt, args...))

		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrItemNotFound
		}

		return err
	})

	if err != nil {
		return domain.Item{}, err
	}

	return item, nil
}

func (r *ItemRepository) Update(ctx context.Context, id int, patch domain.ItemPatch, updated time.Time) (domain.Item, error) {
	var saved domain.Item

	err := r.observe(ctx, "Update", map[string]interface{}{"item.id": id}, func(ctx context.Context, span port.Span) error {
		query := r.builder.Update("items").
			SetMap(patch.Fields()).
			Set("updated", updated).
			Where(sq.Eq{"id": id}).
			Suffix(returningItem())

		stmt, args, err := r.toSQL(ctx, "Update", query)

		if err != nil {
			return err
		}

		saved, err = postgres.ScanItem(r.q.QueryRow(ctx, stmt, args...))

		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrItemNotFound
		}

		if err != nil {
			return fmt.Errorf("update item %d: %w", id, err)
		}

		return nil
	})

	return saved, err
}

func (r *ItemRepository) Delete(ctx context.Context, id int) error {
	return r.observe(ctx, "Delete", map[string]interface{}{"item.id": id}, func(ctx context.Context, span port.Span) error {
		stmt, args, err := r.toSQL(ctx, "Delete", r.builder.Delete("items").Where(sq.Eq{"id": id}))

		if err != nil {
			return err
		}

		tag, err := r.q.Exec(ctx, stmt, args...)

		if err != nil {
			return fmt.Errorf("delete item %d: %w", id, err)
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrItemNotFound
		}

		return nil
	})
}

func (r *ItemRepository) List(ctx context.Context, q domain.ListQuery) (domain.Page, error) {
	page := domain.Page{Items: []domain.Item{}, Offset: q.Offset}

	attrs := map[string]interface{}{
		"pagination.offset": q.Offset,
		"pagination.limit":  q.Limit,
	}

	if q.OwnerID != nil {
		attrs["user.id"] = *q.OwnerID
	}

	err := r.observe(ctx, "List", attrs, func(ctx context.Context, span port.Span) error {
		countQuery := r.builder.Select("COUNT(*)").From("items")
		pageQuery := r.builder.Select(postgres.ItemColumns...).
			From("items").
			OrderBy(q.OrderClause()).
			Limit(uint64(q.Limit)).
			Offset(uint64(q.Offset))

		if q.OwnerID != nil {
			countQuery = countQuery.Where(sq.Eq{"user_id": *q.OwnerID})
			pageQuery = pageQuery.Where(sq.Eq{"user_id": *q.OwnerID})
		}

		stmt, args, err := r.toSQL(ctx, "List", countQuery)

		if err != nil {
			return err
		}

		if err := r.q.QueryRow(ctx, stmt, args...).Scan(&page.Total); err != nil {
			return fmt.Errorf("count items: %w", err)
		}

		stmt, args, err = r.toSQL(ctx, "List", pageQuery)

		if err != nil {
			return err
		}

		rows, err := r.q.Query(ctx, stmt, args...)

		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		page.Items, err = postgres.ScanItems(rows)

		if err != nil {
			return fmt.Errorf("scan items: %w", err)
		}

		span.SetAttributes(map[string]interface{}{
			"db.rows_returned": len(page.Items),
			"db.total":         page.Total,
		})

		return nil
	})

	if err != nil {
		return domain.Page{}, err
	}

	return page, nil
}
