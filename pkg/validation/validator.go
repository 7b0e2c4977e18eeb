package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// notblank rejects strings that are empty after trimming
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// ValidateStruct validates a struct against its validation tags
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			return NewValidationError(errs)
		}
		return err
	}
	return nil
}
