package domain

import "fmt"

// SortableItemFields maps public sort keys to item columns.
var SortableItemFields = map[string]string{
	"id":        "id",
	"value":     "value",
	"name":      "name",
	"notes":     "notes",
	"completed": "completed",
	"duration":  "duration",
	"created":   "created",
	"updated":   "updated",
}

type ListQuery struct {
	OwnerID    *int
	Offset     int
	Limit      int
	OrderBy    string
	Descending bool
}

func (q ListQuery) OrderClause() string {
	column, ok := SortableItemFields[q.OrderBy]

	if !ok {
		column = "id"
	}

	direction := "ASC"

	if q.Descending {
		direction = "DESC"
	}

	if column == "id" {
		return "id " + direction
	}

	// id breaks ties so pages stay stable
	return column + " " + direction + ", id " + direction
}

type Page struct {
	Items  []Item
	Total  int
	Offset int
}

// ContentRange renders the react-admin range header: start-end/total.
func (p Page) ContentRange() string {
	return fmt.Sprintf("%d-%d/%d", p.Offset, p.Offset+len(p.Items), p.Total)
}
