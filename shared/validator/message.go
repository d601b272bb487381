package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required": "{field} is required",
		"notblank": "{field} is required",
		"oneof":    "{field} must be one of {param}",
		"max":      "{field} must be at most {param} characters",
		"min":      "{field} must be at least {param} characters",
		"email":    "{field} must be a valid email address",
		"duedate":  "{field} must be a date (YYYY-MM-DD) or an RFC3339 timestamp",
	}
)

// message renders the first validation failure as a client-facing sentence.
func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			errStr := messages[valErr.Tag()]
			if errStr == "" {
				continue
			}

			errStr = strings.ReplaceAll(errStr, "{field}", valErr.Field())
			errStr = strings.ReplaceAll(errStr, "{param}", valErr.Param())

			return errStr
		}

		return valErrors.Error()
	}

	return err.Error()
}
