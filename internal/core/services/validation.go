package services

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// emailPattern accepts something@something.something with no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// failedTags maps each struct field that failed validation to its failing tag.
func failedTags(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.StructField()] = fe.Tag()
		}
	}
	return out
}
