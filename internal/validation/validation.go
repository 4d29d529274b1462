// Package validation turns form validation failures into a field-keyed error
// map plus the one-line summary shown to the user.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// required alone lets whitespace-only strings through.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// FieldErrors maps a form field to a human readable message.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f FieldErrors) Merge(other map[string]string) {
	for field, message := range other {
		f.Add(field, message)
	}
}

func (f FieldErrors) Fields() []string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Summary names every failing field in one sentence, e.g.
// "Please fix the following fields: category, price and title".
func (f FieldErrors) Summary() string {
	if len(f) == 0 {
		return ""
	}
	return "Please fix the following fields: " + JoinWithAnd(f.Fields())
}

// Err returns nil when there are no field errors.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &Error{Fields: f}
}

// Error is returned by services when a form fails validation.
type Error struct {
	Fields FieldErrors
}

func (e *Error) Error() string {
	return e.Fields.Summary()
}

func AsError(err error) (*Error, bool) {
	var validationErr *Error
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

// JoinWithAnd joins items with commas and a final "and".
func JoinWithAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

// Struct validates v against its validate tags.
func Struct(v any) FieldErrors {
	fields := FieldErrors{}
	err := validate.Struct(v)
	if err == nil {
		return fields
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		fields.Add("form", "invalid input")
		return fields
	}
	for _, fieldErr := range validationErrs {
		fields.Add(fieldErr.Field(), message(fieldErr))
	}
	return fields
}

func message(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	switch fieldErr.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fieldErr.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", field, fieldErr.Param())
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("%s must match %s", field, fieldErr.Param())
	default:
		return field + " is invalid"
	}
}
