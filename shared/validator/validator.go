// Package validator decodes request bodies and checks them with go-playground/validator.
// Failures come back as 400s whose message names the offending JSON field.
package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"vprime/shared/failure"

	val "github.com/go-playground/validator/v10"
)

const bytesPerMB = 1 << 20

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonTagName)

	custom := map[string]val.Func{
		"notblank":    notBlank,
		"mimetypes":   mimeTypes,
		"maxfilesize": maxFileSize,
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("registering %s: %v", tag, err))
		}
	}

	return v
}

// notBlank rejects strings made only of whitespace, and zero values of any other kind.
func notBlank(fl val.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return !fl.Field().IsZero()
	}

	return strings.TrimSpace(fl.Field().String()) != ""
}

// mimeTypes matches a content type string, parameters ignored, against a space separated list.
func mimeTypes(fl val.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(fl.Field().String())
	if err != nil {
		return false
	}

	return slices.Contains(strings.Fields(fl.Param()), mediaType)
}

// maxFileSize bounds a byte slice or an int64 byte count by a limit given in megabytes.
func maxFileSize(fl val.FieldLevel) bool {
	var size int64

	switch v := fl.Field().Interface().(type) {
	case []byte:
		size = int64(len(v))
	case int64:
		size = v
	default:
		return false
	}

	limitMB, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}

	return float64(size) <= limitMB*bytesPerMB
}

func jsonTagName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// Validate decodes a JSON body into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err))
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err))
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err))
	}

	return nil
}
