package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"tasktrack/shared/constant"
	"tasktrack/shared/failure"
	"tasktrack/shared/timezone"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

// registerDueDateValidation accepts an empty string, a calendar date or an RFC3339 timestamp.
func registerDueDateValidation(field val.FieldLevel) bool {
	var value string

	switch v := field.Field().Interface().(type) {
	case string:
		value = v
	case *string:
		if v == nil {
			return true
		}

		value = *v
	default:
		return false
	}

	if value == "" {
		return true
	}

	_, err := timezone.Parse(value, constant.DateFormat, constant.DateOnlyFormat)

	return err == nil
}

func registerNotBlankValidation(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)

	return ok && strings.TrimSpace(value) != ""
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	err := validate.RegisterValidation("notblank", registerNotBlankValidation)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("duedate", registerDueDateValidation)
	if err != nil {
		panic(err)
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
