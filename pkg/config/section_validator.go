package config

import (
	"errors"
	"fmt"
	"strings"
)

// SectionValidator provides a fluent interface for validating configuration
// values. It collects all validation errors rather than failing on the first
// one, so a bad config file reports every problem in a single run.
type SectionValidator struct {
	name   string
	errors []error
}

// NewSectionValidator creates a validator for the named config section.
func NewSectionValidator(name string) *SectionValidator {
	return &SectionValidator{name: name}
}

// Required validates that a string field is not empty.
func (sv *SectionValidator) Required(field, value string) *SectionValidator {
	if strings.TrimSpace(value) == "" {
		sv.errors = append(sv.errors, fmt.Errorf("%s.%s: required field is empty", sv.name, field))
	}
	return sv
}

// Positive validates that an int field is positive (> 0).
func (sv *SectionValidator) Positive(field string, value int) *SectionValidator {
	if value <= 0 {
		sv.errors = append(sv.errors, fmt.Errorf("%s.%s: value %d must be positive", sv.name, field, value))
	}
	return sv
}

// OneOf validates that a string field is one of the allowed values.
func (sv *SectionValidator) OneOf(field, value string, allowed ...string) *SectionValidator {
	for _, a := range allowed {
		if value == a {
			return sv
		}
	}
	sv.errors = append(sv.errors, fmt.Errorf("%s.%s: %q is not one of [%s]",
		sv.name, field, value, strings.Join(allowed, ", ")))
	return sv
}

// Fail records a validation failure with a custom message.
func (sv *SectionValidator) Fail(field, msg string) *SectionValidator {
	sv.errors = append(sv.errors, fmt.Errorf("%s.%s: %s", sv.name, field, msg))
	return sv
}

// Err returns all collected errors joined, or nil if validation passed.
func (sv *SectionValidator) Err() error {
	if len(sv.errors) == 0 {
		return nil
	}
	return errors.Join(sv.errors...)
}
