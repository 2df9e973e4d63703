package util

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

// hhmmPattern accepts 24-hour wall-clock times only, "18:00" yes,
// "9:00" and "24:00" no.
var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func init() {
	Validate = validator.New()

	Validate.RegisterValidation("hasuppercase", validateHasUppercase)
	Validate.RegisterValidation("hhmm", validateHHMM)
}

func validateHasUppercase(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	return regexp.MustCompile(`[A-Z]`).MatchString(password)
}

func validateHHMM(fl validator.FieldLevel) bool {
	return hhmmPattern.MatchString(fl.Field().String())
}

// IsValidHHMM reports whether s is a valid 24-hour HH:MM string.
func IsValidHHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}

type ErrorResponse struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Msg   string `json:"message"`
}

func ValidateStruct(s interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := Validate.Struct(s)
	if err != nil {

		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.Field = err.Field()
			element.Tag = err.Tag()

			switch err.Tag() {
			case "required":
				element.Msg = fmt.Sprintf("Field '%s' is required.", element.Field)
			case "min":
				element.Msg = fmt.Sprintf("Field '%s' must have at least %s characters/value.", element.Field, err.Param())
			case "max":
				element.Msg = fmt.Sprintf("Field '%s' must have at most %s characters/value.", element.Field, err.Param())
			case "email":
				element.Msg = "Email format is invalid."
			case "hasuppercase":
				element.Msg = "Password must contain at least one uppercase letter."
			case "hhmm":
				element.Msg = fmt.Sprintf("Field '%s' must be a 24-hour time in HH:MM format.", element.Field)
			case "datetime":
				element.Msg = fmt.Sprintf("Field '%s' must match the format '%s'.", element.Field, err.Param())
			case "oneof":
				element.Msg = fmt.Sprintf("Field '%s' must be one of: %s.", element.Field, err.Param())
			case "latitude":
				element.Msg = fmt.Sprintf("Field '%s' must be a valid latitude.", element.Field)
			case "longitude":
				element.Msg = fmt.Sprintf("Field '%s' must be a valid longitude.", element.Field)
			default:
				element.Msg = fmt.Sprintf("Field '%s' failed validation for tag '%s'.", element.Field, element.Tag)
			}
			errors = append(errors, &element)
		}
	}
	return errors
}
