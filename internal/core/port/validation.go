package port

type Validator interface {
	// ValidateStruct returns a *domain.ValidationError when s breaks its rules.
	ValidateStruct(s interface{}) error
}
