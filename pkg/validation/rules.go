package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"gearguard/internal/workflow"
	"gearguard/pkg/constants"
)

// registerRules registers the tags used in DTO struct tags.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("stage", isStage); err != nil {
		return err
	}
	if err := v.RegisterValidation("role", isRole); err != nil {
		return err
	}
	if err := v.RegisterValidation("ownership_type", isOwnershipType); err != nil {
		return err
	}
	if err := v.RegisterValidation("serial_number", isSerialNumber); err != nil {
		return err
	}
	return nil
}

func isStage(fl validator.FieldLevel) bool {
	return workflow.Stage(fl.Field().String()).Valid()
}

func isRole(fl validator.FieldLevel) bool {
	_, ok := constants.ParseRole(fl.Field().String())
	return ok
}

func isOwnershipType(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == constants.OwnershipDepartment || s == constants.OwnershipEmployee
}

var serialNumberRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-/]{2,63}$`)

func isSerialNumber(fl validator.FieldLevel) bool {
	return serialNumberRe.MatchString(fl.Field().String())
}
