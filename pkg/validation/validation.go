// Package validation wraps go-playground/validator so request structs can be
// checked with `validate` tags and reported as field level messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/appetiteclub/staffops/pkg/enums/category"
	"github.com/appetiteclub/staffops/pkg/enums/station"
	"github.com/appetiteclub/staffops/pkg/enums/unit"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("station", func(fl validator.FieldLevel) bool {
			return station.Valid(fl.Field().String())
		})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return category.Valid(fl.Field().String())
		})
		_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
			return unit.Valid(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Struct validates s and returns one message per failing field, or nil.
func Struct(s interface{}) []string {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, message(fe))
	}
	return messages
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "datetime":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "station", "category", "unit":
		return fmt.Sprintf("invalid %s", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
