package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goevery/playerrelay/internal/ierr"
)

type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	return &RequestValidator{
		validate: validate,
	}
}

// Validate checks req against its validate tags. The returned error is an
// InvalidArgument naming the first offending field.
func (v *RequestValidator) Validate(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return ierr.New(ierr.ErrorCodeInvalidArgument, err)
	}

	fieldError := fieldErrors[0]

	var message string
	switch fieldError.Tag() {
	case "required":
		message = fieldError.Field() + " required"
	default:
		message = "invalid " + fieldError.Field()
	}

	return ierr.New(ierr.ErrorCodeInvalidArgument, errors.New(message))
}
