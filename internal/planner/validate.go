package planner

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/models"
	"mcp-ahara/internal/substitution"
)

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterValidation("meal_type", func(fl validator.FieldLevel) bool {
		return models.MealType(fl.Field().String()).Valid()
	})
	v.RegisterValidation("dosha", func(fl validator.FieldLevel) bool {
		return models.DoshaType(fl.Field().String()).Valid()
	})
	v.RegisterValidation("time_of_day", func(fl validator.FieldLevel) bool {
		return models.TimeOfDay(fl.Field().String()).Valid()
	})
	v.RegisterValidation("substitution_reason", func(fl validator.FieldLevel) bool {
		return substitution.Reason(fl.Field().String()).Valid()
	})

	return v
}

// validate runs the struct rules and flattens failures into one VALIDATION_FAILED error.
func (s *Service) validate(req interface{}) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		messages = append(messages, fieldMessage(e))
	}
	sort.Strings(messages)
	return apperrors.NewValidationError(strings.Join(messages, "; "))
}

func fieldMessage(e validator.FieldError) string {
	field := e.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	field = strings.TrimPrefix(field, "PatientRef.")

	switch e.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "datetime":
		return fmt.Sprintf("%s must match %s", field, e.Param())
	case "meal_type":
		return fmt.Sprintf("%s must be one of breakfast, lunch, dinner, snack", field)
	case "dosha":
		return fmt.Sprintf("%s must be one of vata, pitta, kapha", field)
	case "time_of_day":
		return fmt.Sprintf("%s must be one of morning, afternoon, evening, night", field)
	case "substitution_reason":
		return fmt.Sprintf("%s is not a known substitution reason", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
