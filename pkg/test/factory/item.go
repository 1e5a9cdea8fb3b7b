package factory

import (
	"math"

	fab "github.com/Goldziher/fabricator"

	"itemtracker/internal/core/domain"
)

// NewItem builds an item owned by userID. Fields not overridden get random
// values; ids and timestamps are always reset.
func NewItem(userID int, customData ...map[string]any) domain.Item {
	instance := fab.New(domain.Item{})
	item := instance.Build(customData...)

	item.ID = 0
	item.UserId = userID

	if item.Value == "" {
		item.Value = "item"
	}

	if len(item.Value) > 1000 {
		item.Value = item.Value[:1000]
	}

	if item.Duration != nil {
		d := math.Abs(*item.Duration)
		item.Duration = &d
	}

	now := domain.Now()
	item.Created = now
	item.Updated = now

	return item
}
