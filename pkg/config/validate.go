package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate = validator.New()

// Validate checks cfg against its struct tags and cross-field rules.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]bool, len(cfg.Sources))
	for i, s := range cfg.Sources {
		if seen[s.Name] {
			return fmt.Errorf("Sources[%d]: duplicate source name %q", i, s.Name)
		}
		seen[s.Name] = true
	}

	if 2*cfg.Layout.Padding >= cfg.Layout.Width || 2*cfg.Layout.Padding >= cfg.Layout.Height {
		return fmt.Errorf("Layout.Padding: %v leaves no drawing area", cfg.Layout.Padding)
	}
	return nil
}

// formatValidationError converts validator errors to user-friendly messages
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %q", field, param, fmt.Sprint(e.Value()))
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
