package domain

// Optional is a patch field: Set reports whether the caller supplied it.
type Optional[T any] struct {
	Set   bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

type ItemPatch struct {
	Value     Optional[string]
	Name      Optional[*string]
	Notes     Optional[*string]
	Completed Optional[bool]
	Duration  Optional[*float64]
}

func (p ItemPatch) IsEmpty() bool {
	return !p.Value.Set && !p.Name.Set && !p.Notes.Set && !p.Completed.Set && !p.Duration.Set
}

// Fields lists the supplied columns and their new values.
func (p ItemPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})

	if p.Value.Set {
		fields["value"] = p.Value.Value
	}

	if p.Name.Set {
		fields["name"] = p.Name.Value
	}

	if p.Notes.Set {
		fields["notes"] = p.Notes.Value
	}

	if p.Completed.Set {
		fields["completed"] = p.Completed.Value
	}

	if p.Duration.Set {
		fields["duration"] = p.Duration.Value
	}

	return fields
}

// Apply copies the supplied fields onto item and leaves the rest untouched.
func (p ItemPatch) Apply(item *Item) {
	if p.Value.Set {
		item.Value = p.Value.Value
	}

	if p.Name.Set {
		item.Name = p.Name.Value
	}

	if p.Notes.Set {
		item.Notes = p.Notes.Value
	}

	if p.Completed.Set {
		item.Completed = p.Completed.Value
	}

	if p.Duration.Set {
		item.Duration = p.Duration.Value
	}
}
