package util

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"itemtracker/internal/core/domain"
)

type ListLimits struct {
	DefaultLimit int
	MaxLimit     int
}

// ParseListQuery reads react-admin style list parameters:
// range=[start,end] (inclusive) and sort=["field","ASC|DESC"].
func ParseListQuery(c *gin.Context, limits ListLimits) (domain.ListQuery, error) {
	query := domain.ListQuery{
		Offset:  0,
		Limit:   limits.DefaultLimit,
		OrderBy: "id",
	}

	if raw := c.Query("range"); raw != "" {
		var bounds []int

		if err := json.Unmarshal([]byte(raw), &bounds); err != nil || len(bounds) != 2 {
			return query, fmt.Errorf("range must be a JSON array [start, end]")
		}

		start, end := bounds[0], bounds[1]

		if start < 0 || end < start {
			return query, fmt.Errorf("range must satisfy 0 <= start <= end")
		}

		if limits.MaxLimit > 0 && end-start >= limits.MaxLimit {
			end = start + limits.MaxLimit - 1
		}

		query.Offset = start
		query.Limit = end - start + 1
	}

	if limits.MaxLimit > 0 && query.Limit > limits.MaxLimit {
		query.Limit = limits.MaxLimit
	}

	if raw := c.Query("sort"); raw != "" {
		var sort []string

		if err := json.Unmarshal([]byte(raw), &sort); err != nil || len(sort) != 2 {
			return query, fmt.Errorf(`sort must be a JSON array ["field", "ASC|DESC"]`)
		}

		if _, ok := domain.SortableItemFields[sort[0]]; !ok {
			return query, fmt.Errorf("cannot sort by %q", sort[0])
		}

		switch strings.ToUpper(sort[1]) {
		case "ASC":
			query.Descending = false
		case "DESC":
			query.Descending = true
		default:
			return query, fmt.Errorf("sort order must be ASC or DESC")
		}

		query.OrderBy = sort[0]
	}

	return query, nil
}
