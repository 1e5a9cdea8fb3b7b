package port

import (
	"context"
	"time"

	"itemtracker/internal/core/domain"
)

type ItemRepository interface {
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	GetByID(ctx context.Context, id int) (domain.Item, error)
	Update(ctx context.Context, id int, patch domain.ItemPatch, updated time.Time) (domain.Item, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, query domain.ListQuery) (domain.Page, error)
}

type StatsRepository interface {
	CountItems(ctx context.Context) (int, error)
	CountCompleted(ctx context.Context) (int, error)
	CountDistinctOwners(ctx context.Context) (int, error)
	AverageDurationCompleted(ctx context.Context) (*float64, error)
	AverageDurationCompletedByUser(ctx context.Context) ([]domain.UserAverage, error)
	AverageElapsedMinutes(ctx context.Context, itemID int) (*float64, error)
}

type ItemService interface {
	ListAll(ctx context.Context, query domain.ListQuery) (domain.Page, error)
	ListForOwner(ctx context.Context, ownerID int, query domain.ListQuery) (domain.Page, error)
	Create(ctx context.Context, ownerID int, item domain.Item) (domain.Item, error)
	Get(ctx context.Context, ownerID int, id int) (domain.Item, error)
	Update(ctx context.Context, ownerID int, id int, patch domain.ItemPatch) (domain.Item, error)
	Delete(ctx context.Context, ownerID int, id int) error
}

type StatsService interface {
	CompletedCount(ctx context.Context) (int, error)
	AveragePerUser(ctx context.Context) (float64, error)
	AverageDurationCompleted(ctx context.Context) (*float64, error)
	Totals(ctx context.Context) (domain.Totals, error)
	AverageDurationMinutes(ctx context.Context, itemID int) (float64, error)
}
