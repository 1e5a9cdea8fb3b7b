package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"itemtracker/internal/core/domain"
)

// Validator checks `validate` struct tags and reports failures as
// *domain.ValidationError with English messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

		if name == "-" {
			return ""
		}

		if name == "" {
			return strings.ToLower(field.Name)
		}

		return name
	})

	english := en.New()
	uni := ut.New(english, english)

	translator, found := uni.GetTranslator("en")

	if !found {
		return nil, errors.New("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, err
	}

	v := &Validator{validate: validate, translator: translator}

	if err := v.addCustomTranslations(); err != nil {
		return nil, err
	}

	return v, nil
}

func MustNew() *Validator {
	v, err := New()

	if err != nil {
		panic(err)
	}

	return v
}

func (v *Validator) addCustomTranslations() error {
	return v.validate.RegisterTranslation("required", v.translator, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is required", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})
}

func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)

	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) {
		return err
	}

	verr := &domain.ValidationError{}

	for _, fieldError := range validationErrors {
		verr.Add(fieldError.Field(), fieldError.Translate(v.translator))
	}

	return verr
}
