package validation

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/model/request"
)

func TestValidator_ValidateStruct(t *testing.T) {
	RegisterTestingT(t)

	v := MustNew()

	t.Run("should accept a valid item", func(t *testing.T) {
		Expect(v.ValidateStruct(domain.Item{Value: "ok"})).To(Succeed())
	})

	t.Run("should report a missing value", func(t *testing.T) {
		err := v.ValidateStruct(domain.Item{})

		var verr *domain.ValidationError
		Expect(errors.As(err, &verr)).To(BeTrue())
		Expect(verr.Fields).To(HaveLen(1))
		Expect(verr.Fields[0].Field).To(Equal("value"))
		Expect(verr.Fields[0].Message).To(Equal("value is required"))
	})

	t.Run("should reject a negative duration", func(t *testing.T) {
		d := -1.0
		err := v.ValidateStruct(domain.Item{Value: "x", Duration: &d})

		var verr *domain.ValidationError
		Expect(errors.As(err, &verr)).To(BeTrue())
		Expect(verr.Fields[0].Field).To(Equal("duration"))
	})

	t.Run("should use json names for requests", func(t *testing.T) {
		err := v.ValidateStruct(request.LoginRequest{Email: "not-an-email", Password: "secret1"})

		var verr *domain.ValidationError
		Expect(errors.As(err, &verr)).To(BeTrue())
		Expect(verr.Fields[0].Field).To(Equal("email"))
		Expect(verr.Fields[0].Message).To(ContainSubstring("valid email"))
	})
}
