package domain

import (
	"strings"
	"time"
)

type Item struct {
	ID        int
	Value     string  `validate:"required,max=1000"`
	Name      *string `validate:"omitempty,max=255"`
	Notes     *string `validate:"omitempty,max=5000"`
	Completed bool
	Duration  *float64 `validate:"omitempty,gte=0"`
	UserId    int
	Created   time.Time
	Updated   time.Time
}

func (i *Item) BelongsToUser(userID int) bool {
	return i.UserId == userID
}

func (i *Item) NameOrFallback(fallback string) string {
	if i.Name == nil || strings.TrimSpace(*i.Name) == "" {
		return fallback
	}

	return *i.Name
}

func (i *Item) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"value":     i.Value,
		"name":      i.Name,
		"notes":     i.Notes,
		"completed": i.Completed,
		"duration":  i.Duration,
		"user_id":   i.UserId,
		"created":   i.Created,
		"updated":   i.Updated,
	}
}

// Now returns the store clock: UTC truncated to microseconds so sqlite and
// postgres round-trip the same instant.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NextUpdated returns a timestamp strictly after previous.
func NextUpdated(previous, now time.Time) time.Time {
	if now.After(previous) {
		return now
	}

	return previous.Add(time.Microsecond)
}
