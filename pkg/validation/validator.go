package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/classical-review/pkg/apperror"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON (or form) tag names in errors.
// - Registers alias tags for account and review payloads.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Configure(v)
	}
}

// Configure applies tag naming and aliases to v.
func Configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	v.RegisterAlias("pwd", "min=8,max=72") // characters; HashPassword enforces 72 bytes
	v.RegisterAlias("username", "alphanum,min=3,max=32")
	v.RegisterAlias("rating", "min=1,max=5")
}

// ToFieldErrors converts binding/validation errors into the field list carried by
// apperror.ValidationError.
func ToFieldErrors(err error) []apperror.FieldError {
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return []apperror.FieldError{{Field: "payload", Message: "request body is empty"}}
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return []apperror.FieldError{{Field: "payload", Message: "invalid json"}}
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		field := ute.Field
		if field == "" {
			field = "payload"
		}
		return []apperror.FieldError{{Field: field, Message: "must be a " + ute.Type.String()}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, apperror.FieldError{Field: fe.Field(), Message: formatFieldError(fe)})
		}
		return out
	}

	return []apperror.FieldError{{Field: "payload", Message: "invalid payload"}}
}

// FromBinding wraps a binding error as an apperror.ValidationError.
func FromBinding(err error) error {
	if err == nil {
		return nil
	}
	return apperror.Validations(ToFieldErrors(err))
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + param + " is not present"
	case "email":
		return "must be a valid email"
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "alphanum":
		return "must contain alphanumeric characters only"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "eqfield":
		return "must be equal to " + param + " field"

	// aliases
	case "pwd":
		return "must be between 8 and 72 characters long"
	case "username":
		return "must be 3 to 32 alphanumeric characters"
	case "rating":
		return "must be between 1 and 5"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
