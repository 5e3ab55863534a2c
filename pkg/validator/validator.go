package validator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

// hhmmPattern matches 24-hour clock times, 00:00 through 23:59.
var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// HHMM reports whether s is a minute-precision clock time (HH:MM).
func HHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}

// DateOnly reports whether s is a calendar date (YYYY-MM-DD).
func DateOnly(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func init() {
	// Register custom validation for UUID
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	// Shift times and schedule dates travel as strings; these tags keep the
	// format rules on the request structs themselves.
	validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return HHMM(fl.Field().String())
	})
	validate.RegisterValidation("dateformat", func(fl validator.FieldLevel) bool {
		return DateOnly(fl.Field().String())
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
