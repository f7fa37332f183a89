package dto

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

const maxNameLength = 255

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) ToMap() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func validateName(field string, name *string) []ValidationError {
	var errs []ValidationError
	if name == nil {
		return errs
	}
	trimmed := strings.TrimSpace(*name)
	switch {
	case trimmed == "":
		errs = append(errs, ValidationError{Field: field, Message: "must not be empty"})
	case len(trimmed) > maxNameLength:
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d bytes", maxNameLength)})
	}
	return errs
}

func validateRequiredPath(field, path string) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(path) == "" {
		errs = append(errs, ValidationError{Field: field, Message: "is required"})
	}
	return errs
}

func validateSortOrder(order *int) []ValidationError {
	var errs []ValidationError
	if order != nil && *order < 0 {
		errs = append(errs, ValidationError{Field: "sort_order", Message: "must not be negative"})
	}
	return errs
}

func validateLanguage(tag string) []ValidationError {
	var errs []ValidationError
	if tag == "" {
		errs = append(errs, ValidationError{Field: "language", Message: "is required"})
		return errs
	}
	if _, err := language.Parse(tag); err != nil {
		errs = append(errs, ValidationError{Field: "language", Message: "is not a valid language tag"})
	}
	return errs
}
