// Package validator decodes request bodies and checks them against their
// `validate` struct tags.
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

	"etm/shared/constant"
	"etm/shared/failure"

	val "github.com/go-playground/validator/v10"
)

const bytesPerMB = 1 << 20

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonTagName)

	rules := map[string]val.Func{
		"mimetypes":   mimeTypeIn,
		"maxfilesize": fileSizeAtMost,
	}

	for tag, rule := range rules {
		if err := v.RegisterValidation(tag, rule); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

// mimeTypeIn accepts a content type whose media type is one of the space separated
// values of the tag parameter. Parameters such as charset are ignored.
func mimeTypeIn(field val.FieldLevel) bool {
	contentType, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), mediaType)
}

// fileSizeAtMost accepts a byte count no larger than the tag parameter in megabytes.
func fileSizeAtMost(field val.FieldLevel) bool {
	if !field.Field().CanInt() {
		return false
	}

	maxMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return field.Field().Int() <= int64(maxMB*bytesPerMB)
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

// Validate decodes JSON from r into data and validates the result. Decoding problems
// become a plain bad request, rule violations a validation failure carrying one
// message per offending field.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	return toFailure(validate.Struct(data))
}

func ValidateVar(field any, tag string) error {
	return toFailure(validate.Var(field, tag))
}

func toFailure(err error) error {
	if err == nil {
		return nil
	}

	if fields := fieldMessages(err); len(fields) > 0 {
		return failure.Validation(constant.ResponseErrorValidation, fields) //nolint:wrapcheck
	}

	return failure.BadRequest(err) //nolint:wrapcheck
}
