package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"eldato-web/apperrors"
)

// MinimumAge is the age required to register
const MinimumAge = 18

// BirthDateLayout is the wire format of dates of birth
const BirthDateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("adult", validateAdult); err != nil {
		panic(fmt.Sprintf("failed to register adult rule: %v", err))
	}
	return v
}

func validateAdult(fl validator.FieldLevel) bool {
	return IsAdult(fl.Field().String(), time.Now())
}

// IsAdult reports whether a yyyy-mm-dd birth date is at least MinimumAge years before now
func IsAdult(birthDate string, now time.Time) bool {
	born, err := time.Parse(BirthDateLayout, strings.TrimSpace(birthDate))
	if err != nil {
		return false
	}
	return !born.AddDate(MinimumAge, 0, 0).After(now)
}

// ValidateStruct checks s against its validate tags.
// Failures come back as a validation AppError with one message per field.
func ValidateStruct(s interface{}, message string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Validation(message)
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperrors.Validation(message).WithFields(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "eqfield":
		return "does not match"
	case "adult":
		return fmt.Sprintf("must be at least %d years old", MinimumAge)
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "len":
		return "must have exactly " + fe.Param() + " characters"
	case "numeric":
		return "must contain only digits"
	default:
		return "is invalid"
	}
}
