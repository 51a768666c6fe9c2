package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = validator.New(validator.WithRequiredStructEnabled())
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// MissingFields reports, for every json field name in fields, whether err
// contains a "required" violation for it. Returns nil when err is not a
// validation error.
func MissingFields(err error, fields ...string) map[string]bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	missing := make(map[string]bool, len(fields))
	for _, f := range fields {
		missing[f] = false
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing[fe.Field()] = true
		}
	}
	return missing
}
