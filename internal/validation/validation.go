// Package validation checks request inputs against per-operation rules and
// reports the first violation in a human readable form.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Error is the first rule violation found for a request
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a violation for field with a preformatted message
func NewError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// ExistenceChecker reports whether a referenced row exists
type ExistenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// DateLayouts are the accepted formats for date fields, tried in order
var DateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses value with the first matching layout in DateLayouts
func ParseDate(value string) (time.Time, error) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// Validator runs struct tag rules and the rules that need collaborators
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator reporting fields by their json names
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(jsonName)

	// date accepts any of DateLayouts
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// Struct validates the tags of input and returns the first violation
func (v *Validator) Struct(input interface{}) error {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		return &Error{Field: first.Field(), Message: message(first)}
	}

	return fmt.Errorf("failed to validate input: %w", err)
}

// Exists checks that id refers to a row known to checker
func (v *Validator) Exists(ctx context.Context, field string, id int64, checker ExistenceChecker) error {
	ok, err := checker.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", field, err)
	}
	if !ok {
		return &Error{Field: field, Message: fmt.Sprintf("The selected %s is invalid.", Label(field))}
	}
	return nil
}

// StructExists runs the tag rules of input together with an existence rule
// on field. The existence rule counts as the last rule of field, so the
// reported violation is still the first one in field declaration order.
func (v *Validator) StructExists(ctx context.Context, input interface{}, field string, checker ExistenceChecker) error {
	tagErr := v.Struct(input)

	var verr *Error
	if tagErr != nil && !errors.As(tagErr, &verr) {
		return tagErr
	}
	if verr != nil && fieldIndex(input, verr.Field) <= fieldIndex(input, field) {
		return tagErr
	}

	id, ok := int64Field(input, field)
	if !ok {
		return tagErr
	}
	if err := v.Exists(ctx, field, id, checker); err != nil {
		return err
	}
	return tagErr
}

// fieldIndex is the declaration position of the field named by its json
// name, or -1 when input has no such field
func fieldIndex(input interface{}, name string) int {
	t := reflect.Indirect(reflect.ValueOf(input)).Type()
	for i := 0; i < t.NumField(); i++ {
		if jsonName(t.Field(i)) == name {
			return i
		}
	}
	return -1
}

// int64Field reads a set integer field by its json name
func int64Field(input interface{}, name string) (int64, bool) {
	value := reflect.Indirect(reflect.ValueOf(input))
	i := fieldIndex(input, name)
	if i < 0 {
		return 0, false
	}

	f := value.Field(i)
	if f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return 0, false
		}
		f = f.Elem()
	}
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.Int(), true
	}
	return 0, false
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// Label turns a json field name into the wording used in messages
func Label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// TypeMessage is the message for a value that could not be read as kind
func TypeMessage(field string, kind reflect.Kind) string {
	label := Label(field)
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("The %s field must be an integer.", label)
	case reflect.Bool:
		return fmt.Sprintf("The %s field must be true or false.", label)
	case reflect.String:
		return fmt.Sprintf("The %s field must be a string.", label)
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}

// UnknownFieldMessage is the message for a field the operation does not accept
func UnknownFieldMessage(field string) string {
	return fmt.Sprintf("The %s field is not allowed.", Label(field))
}

func message(e validator.FieldError) string {
	label := Label(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", label, e.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", label, e.Param())
	case "min", "gte":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", label, e.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", label, e.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "date":
		return fmt.Sprintf("The %s field must be a valid date.", label)
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}
