package form

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is matched by every ValidationError.
var ErrInvalid = errors.New("form: validation failed")

// ValidationError maps JSON field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "form: validation failed: " + strings.Join(parts, "; ")
}

// UserMessage implements shared.UserMessager.
func (e *ValidationError) UserMessage() string {
	return "Revisa los campos marcados"
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator, keyed by JSON tag names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			if fl.Field().Kind() != reflect.String {
				return true
			}
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// ValidateStruct checks v's validate tags and returns field -> message.
// An empty map means v is valid.
func ValidateStruct(v any) map[string]string {
	errs := make(map[string]string)
	err := Validator().Struct(v)
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["_"] = err.Error()
		return errs
	}
	for _, fe := range fieldErrs {
		name := fe.Field()
		if _, exists := errs[name]; exists {
			continue
		}
		errs[name] = messageFor(fe)
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without", "notblank":
		return "Este campo es obligatorio"
	case "email":
		return "Introduce un email válido"
	case "url":
		return "Introduce una URL válida"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Debe tener al menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("Debe ser como mínimo %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Debe tener como máximo %s caracteres", fe.Param())
		}
		return fmt.Sprintf("Debe ser como máximo %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual que %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Debe ser mayor que %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Valor no permitido (opciones: %s)", fe.Param())
	case "datetime":
		return fmt.Sprintf("Formato de fecha inválido (%s)", fe.Param())
	default:
		return "Valor inválido"
	}
}
