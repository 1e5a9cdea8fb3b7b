package request

import (
	"bytes"
	"encoding/json"

	"itemtracker/internal/core/domain"
)

type SignUpRequest struct {
	Name     string `json:"name,omitempty" validate:"max=100"`
	Email    string `json:"email,omitempty" validate:"required,email,max=255"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email,max=255"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=100"`
}

type ItemCreateRequest struct {
	Value     string   `json:"value" validate:"required,max=1000"`
	Name      *string  `json:"name" validate:"omitempty,max=255"`
	Notes     *string  `json:"notes" validate:"omitempty,max=5000"`
	Completed bool     `json:"completed"`
	Duration  *float64 `json:"duration" validate:"omitempty,gte=0"`
}

func (r ItemCreateRequest) ToDomain() domain.Item {
	return domain.Item{
		Value:     r.Value,
		Name:      r.Name,
		Notes:     r.Notes,
		Completed: r.Completed,
		Duration:  r.Duration,
	}
}

// Optional records whether a JSON key was present and whether it was null.
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}

	return json.Unmarshal(data, &o.Value)
}

type ItemUpdateRequest struct {
	Value     Optional[string]  `json:"value"`
	Name      Optional[string]  `json:"name"`
	Notes     Optional[string]  `json:"notes"`
	Completed Optional[bool]    `json:"completed"`
	Duration  Optional[float64] `json:"duration"`
}

// ToPatch converts the request into a patch. value and completed cannot be
// cleared; name, notes and duration accept null.
func (r ItemUpdateRequest) ToPatch() (domain.ItemPatch, error) {
	var patch domain.ItemPatch
	verr := &domain.ValidationError{}

	if r.Value.Present {
		if r.Value.Null {
			verr.Add("value", "value must not be null")
		} else {
			patch.Value = domain.Some(r.Value.Value)
		}
	}

	if r.Completed.Present {
		if r.Completed.Null {
			verr.Add("completed", "completed must not be null")
		} else {
			patch.Completed = domain.Some(r.Completed.Value)
		}
	}

	if r.Name.Present {
		patch.Name = domain.Some(nullable(r.Name))
	}

	if r.Notes.Present {
		patch.Notes = domain.Some(nullable(r.Notes))
	}

	if r.Duration.Present {
		patch.Duration = domain.Some(nullable(r.Duration))
	}

	if verr.HasErrors() {
		return domain.ItemPatch{}, verr
	}

	return patch, nil
}

func nullable[T any](o Optional[T]) *T {
	if o.Null {
		return nil
	}

	v := o.Value
	return &v
}
