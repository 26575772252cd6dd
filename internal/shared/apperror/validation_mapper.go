package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// base_amount -> Base Amount
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// MapValidationError converts binding errors into an INVALID_INPUT AppError.
// The message names the first failing field, details list all of them.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return New(
			CodeInvalidInput,
			"Invalid input",
			http.StatusBadRequest,
		).WithDetails(err.Error())
	}

	violations := make([]FieldViolation, 0, len(errs))
	for _, e := range errs {
		violations = append(violations, FieldViolation{Field: e.Field(), Rule: e.Tag()})
	}

	first := errs[0]
	field := formatFieldName(first.Field())
	if first.Tag() == "required" {
		return RequiredField(field).WithDetails(violations)
	}
	return InvalidField(field).WithDetails(violations)
}
