package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

// messages are keyed by validation tag. {field} and {param} are substituted.
var messages = map[string]string{
	"required":    "{field} is required",
	"gt":          "{field} must be greater than {param}",
	"gte":         "{field} must be greater than or equal to {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"oneof":       "{field} must be one of {param}",
	"max":         "{field} must be at most {param} characters",
	"min":         "{field} must be at least {param} characters",
	"email":       "{field} must be a valid email address",
	"uuid":        "{field} must be a valid UUID",
	"datetime":    "{field} must be a date formatted as {param}",
	"mimetypes":   "{field} must be one of {param}",
	"maxfilesize": "{field} must not exceed {param} MB",
	"nefield":     "{field} must differ from {param}",
}

// fieldMessages maps each offending JSON field to the message of its first failed rule.
func fieldMessages(err error) map[string]string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return nil
	}

	fields := make(map[string]string, len(fieldErrors))

	for _, fieldErr := range fieldErrors {
		if _, seen := fields[fieldErr.Field()]; !seen {
			fields[fieldErr.Field()] = message(fieldErr)
		}
	}

	return fields
}

func message(fieldErr val.FieldError) string {
	template, ok := messages[fieldErr.Tag()]
	if !ok {
		return fieldErr.Error()
	}

	return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(template)
}
