package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so messages match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return v
}

// FieldError is a single failed rule
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"code"`
	Param string `json:"-"`
}

// Message renders the error for API clients
func (f FieldError) Message() string {
	switch f.Tag {
	case "required":
		return fmt.Sprintf("Missing required field: %s", f.Field)
	case "email":
		return "Invalid email address"
	case "oneof":
		return fmt.Sprintf("Invalid %s: must be one of %s", f.Field, strings.ReplaceAll(f.Param, " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", f.Field, f.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f.Field, f.Param)
	default:
		return fmt.Sprintf("Invalid value for field: %s", f.Field)
	}
}

// Errors lists every failed rule in struct field order
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Message()
}

// ValidateStruct validates a struct using go-playground/validator. Rule
// failures are returned as Errors.
func ValidateStruct(s interface{}) error {
	if s == nil {
		return nil
	}

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("validator: expected a struct, got %T", s)
	}

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make(Errors, 0, len(ve))
		for _, e := range ve {
			out = append(out, FieldError{Field: e.Field(), Tag: e.Tag(), Param: e.Param()})
		}
		return out
	}
	return fmt.Errorf("validation failed: %w", err)
}
