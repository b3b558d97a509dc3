package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jamdate/jamdate-backend/internal/domain"
)

// New returns a validator that reads the same `binding` tags gin uses, so
// request structs validate identically inside and outside handlers.
func New() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	Configure(v)
	return v
}

// Configure makes v report fields by their JSON names.
func Configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
}

// Struct validates s and converts failures into domain.ErrValidation with
// per-field messages.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	if fields := FieldErrors(err); fields != nil {
		return domain.ErrValidation.WithFields(fields)
	}
	return domain.ErrValidation.Withf("invalid request: %v", err)
}

// FieldErrors maps each failing JSON field to a readable message. It returns
// nil when err does not come from the validator.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + unit
	case "max":
		return "must be at most " + fe.Param() + unit
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
