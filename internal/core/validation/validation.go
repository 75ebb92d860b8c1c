// Package validation wraps go-playground/validator with the human-readable
// messages shown on the application's forms.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks struct tags and renders failures as sentences.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator whose field names come from the `label` struct tag,
// falling back to the lower-cased Go field name.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return strings.ToLower(f.Name)
	})
	return &Validator{v: v}
}

// Problems validates s and returns one message per failing field, or nil.
// A non-struct argument is reported as a single problem.
func (val *Validator) Problems(s any) []string {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return msgs
}

// Struct satisfies echo.Validator.
func (val *Validator) Struct(s any) error {
	if msgs := val.Problems(s); len(msgs) > 0 {
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// Email reports whether s is a syntactically valid address.
func (val *Validator) Email(s string) bool {
	return val.v.Var(s, "required,email") == nil
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
