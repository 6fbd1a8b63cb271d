package validation

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps validator.Validate for use as echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New builds the validator with null-type support and domain rules.
func New() *CustomValidator {
	v := validator.New()

	registerNullTypes(v)

	// Rules are load-bearing; the server must not start without them.
	if err := registerRules(v); err != nil {
		panic("failed to register validation rules: " + err.Error())
	}

	return &CustomValidator{validator: v}
}
