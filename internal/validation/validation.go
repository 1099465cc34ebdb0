// Package validation turns struct tag validation failures into field level errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/go-playground/validator/v10"
)

var eventTimeLayouts = []string{domain.TimeLayout, "15:04"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("eventtime", func(fl validator.FieldLevel) bool {
		_, err := ParseEventTime(fl.Field().String())
		return err == nil
	})
	return v
}

// ParseEventTime accepts HH:MM and HH:MM:SS and returns the HH:MM:SS form.
func ParseEventTime(value string) (string, error) {
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(domain.TimeLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", value)
}

func ParseEventDate(value string) (time.Time, error) {
	return time.Parse(domain.DateLayout, value)
}

// Struct validates s and returns a *domain.ValidationError, or nil.
func Struct(s interface{}) error {
	return convert(validate.Struct(s), "")
}

// Var validates a single value reported under field.
func Var(verr *domain.ValidationError, field string, value interface{}, tag string) {
	if err := convert(validate.Var(value, tag), field); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			for name, msgs := range ve.Fields {
				for _, msg := range msgs {
					verr.Add(name, msg)
				}
			}
		}
	}
}

func convert(err error, field string) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := domain.NewValidationError()
	for _, fe := range fieldErrs {
		name := fe.Field()
		if field != "" {
			name = field
		}
		verr.Add(name, Message(fe))
	}
	return verr
}

func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return "This field may not be blank."
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "datetime":
		return "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	case "eventtime":
		return "Time has wrong format. Use one of these formats instead: hh:mm[:ss]."
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
