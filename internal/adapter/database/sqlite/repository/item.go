package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"itemtracker/internal/adapter/database/sqlite"
	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/port"
)

type ItemRepository struct {
	base
}

func NewItemRepository(q Querier, builder sq.StatementBuilderType, telemetry port.Telemetry) port.ItemRepository {
	return &ItemRepository{newBase(q, builder, telemetry, "item", "items")}
}

func (r *ItemRepository) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	var saved domain.Item

	err := r.observe(ctx, "Create", map[string]interface{}{"user.id": item.UserId}, func(ctx context.Context, span port.Span) error {
		query := r.builder.Insert("items").
			Columns("value", "name", "notes", "completed", "duration", "user_id", "created", "updated").
			Values(item.Value, item.Name, item.Notes, item.Completed, item.Duration, item.UserId, item.Created, item.Updated).
			Suffix("RETURNING id")

		stmt, args, err := r.toSQL(ctx, "Create", query)

		if err != nil {
			return err
		}

		var id int

		if err := r.q.QueryRowContext(ctx, stmt, args...).Scan(&id); err != nil {
			return fmt.Errorf("insert item: %w", err)
		}

		span.SetAttributes(map[string]interface{}{"item.id": id})

		saved, err = r.getByID(ctx, id)
		return err
	})

	return saved, err
}

func (r *ItemRepository) GetByID(ctx context.Context, id int) (domain.Item, error) {
	var item domain.Item

	err := r.observe(ctx, "GetByID", map[string]interface{}{"item.id": id}, func(ctx context.Context, span port.Span) error {
		var err error
		item, err = r.getByID(ctx, id)
		return err
	})

	return item, err
}

func (r *ItemRepository) getByID(ctx context.Context, id int) (domain.Item, error) {
	query := r.builder.Select(sqlite.ItemColumns...).
		From("items").
		Where(sq.Eq{"id": id}).
		Limit(1)

	stmt, args, err := r.toSQL(ctx, "GetByID", query)

	if err != nil {
		return domain.Item{}, err
	}

	item, err := sqlite.ScanItem(r.q.QueryRowContext(ctx, stmt, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, domain.ErrItemNotFound
	}

	if err != nil {
		return domain.Item{}, fmt.Errorf("get item %d: %w", id, err)
	}

	return item, nil
}

func (r *ItemRepository) Update(ctx context.Context, id int, patch domain.ItemPatch, updated time.Time) (domain.Item, error) {
	var saved domain.Item

	err := r.observe(ctx, "Update", map[string]interface{}{"item.id": id}, func(ctx context.Context, span port.Span) error {
		query := r.builder.Update("items").
			SetMap(patch.Fields()).
			Set("updated", updated).
			Where(sq.Eq{"id": id})

		stmt, args, err := r.toSQL(ctx, "Update", query)

		if err != nil {
			return err
		}

		result, err := r.q.ExecContext(ctx, stmt, args...)

		if err != nil {
			return fmt.Errorf("update item %d: %w", id, err)
		}

		affected, err := result.RowsAffected()

		if err != nil {
			return err
		}

		if affected == 0 {
			return domain.ErrItemNotFound
		}

		saved, err = r.getByID(ctx, id)
		return err
	})

	return saved, err
}

func (r *ItemRepository) Delete(ctx context.Context, id int) error {
	return r.observe(ctx, "Delete", map[string]interface{}{"item.id": id}, func(ctx context.Context, span port.Span) error {
		stmt, args, err := r.toSQL(ctx, "Delete", r.builder.Delete("items").Where(sq.Eq{"id": id}))

		if err != nil {
			return err
		}

		result, err := r.q.ExecContext(ctx, stmt, args...)

		if err != nil {
			return fmt.Errorf("delete item %d: %w", id, err)
		}

		affected, err := result.RowsAffected()

		if err != nil {
			return err
		}

		if affected == 0 {
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
		pageQuery := r.builder.Select(sqlite.ItemColumns...).
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

		if err := r.q.QueryRowContext(ctx, stmt, args...).Scan(&page.Total); err != nil {
			return fmt.Errorf("count items: %w", err)
		}

		stmt, args, err = r.toSQL(ctx, "List", pageQuery)

		if err != nil {
			return err
		}

		rows, err := r.q.QueryContext(ctx, stmt, args...)

		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		defer rows.Close()

		page.Items, err = sqlite.ScanItems(rows)

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
