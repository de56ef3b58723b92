package utils

import (
	"fmt"
	"regexp"
	"volunteer-match/internal/domain/order"
	"volunteer-match/internal/domain/user"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

var customValidations = map[string]validator.Func{
	"phone": validatePhone,
	"user_type": func(fl validator.FieldLevel) bool {
		return user.Type(fl.Field().String()).IsValid()
	},
	"order_category": func(fl validator.FieldLevel) bool {
		return order.Category(fl.Field().String()).IsValid()
	},
	"order_status": func(fl validator.FieldLevel) bool {
		return order.Status(fl.Field().String()).IsValid()
	},
}

func init() {
	validate = validator.New()

	if err := registerValidations(validate, customValidations); err != nil {
		panic(err)
	}
}

func registerValidations(v *validator.Validate, validations map[string]validator.Func) error {
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return nil
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validatePhone accepts E.164 numbers after SanitizePhone has run.
func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}
