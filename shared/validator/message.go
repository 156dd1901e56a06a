package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":         "{field} is required",
	"notblank":         "{field} is required",
	"gte":              "{field} must be greater than or equal to {param}",
	"lte":              "{field} must be less than or equal to {param}",
	"min":              "{field} must be greater than or equal to {param}",
	"max":              "{field} must be less than or equal to {param}",
	"oneof":            "{field} must be one of {param}",
	"email":            "{field} must be a valid email address",
	"url":              "{field} must be a valid URL",
	"hostname_rfc1123": "{field} must be a valid bucket name",
	"mimetypes":        "{field} must be one of {param}",
	"maxfilesize":      "{field} must not exceed {param} MB",
}

// message renders the first failed rule that has a template, falling back to the library text.
func message(err error) string {
	var errs val.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	for _, fe := range errs {
		if tmpl, ok := messages[fe.Tag()]; ok {
			return strings.NewReplacer("{field}", fe.Field(), "{param}", fe.Param()).Replace(tmpl)
		}
	}

	return errs.Error()
}
