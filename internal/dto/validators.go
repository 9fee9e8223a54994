package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// HHMM validates a 24-hour "HH:MM" clock string. Registered on gin's binding
// engine under the "hhmm" tag.
var HHMM validator.Func = func(fl validator.FieldLevel) bool {
	return hhmmPattern.MatchString(fl.Field().String())
}
