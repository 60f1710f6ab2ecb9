package datamodels

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Dotted identifiers: "user", "ansible.builtin.user", "users_groups".
var moduleNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)*$`)

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("moduleName", validateModuleName)
}

func validateModuleName(fl validator.FieldLevel) bool {
	return moduleNamePattern.MatchString(fl.Field().String())
}

// ValidModuleName reports whether name can be used as a module or distro name.
func ValidModuleName(name string) bool {
	return moduleNamePattern.MatchString(name)
}

// Validate checks a request struct against its validate tags.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
