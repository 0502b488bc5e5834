package handler

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidator builds the shared validator instance, reporting fields by
// their json names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// collectFieldErrors validates the payload and returns every violation, not
// just the first.
func collectFieldErrors(validate *validator.Validate, payload any) []FieldError {
	if validate == nil {
		return nil
	}
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	fieldErrors := make([]FieldError, 0, len(violations))
	for _, violation := range violations {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   violation.Field(),
			Message: fieldErrorMessage(violation),
		})
	}
	return fieldErrors
}

func fieldErrorMessage(violation validator.FieldError) string {
	switch violation.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", violation.Field())
	case "email":
		return "Invalid email address"
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", violation.Field())
	case "len":
		return fmt.Sprintf("%s must be %s characters long", violation.Field(), violation.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", violation.Field(), violation.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", violation.Field(), violation.Param())
	default:
		return fmt.Sprintf("%s is invalid", violation.Field())
	}
}

// passwordRuleViolations enumerates every broken password rule: length
// bounds plus the four required character classes.
func passwordRuleViolations(password string) []FieldError {
	var fieldErrors []FieldError
	add := func(message string) {
		fieldErrors = append(fieldErrors, FieldError{Field: "password", Message: message})
	}

	length := utf8.RuneCountInString(password)
	if length < 8 {
		add("Password must be at least 8 characters long")
	}
	if length > 15 {
		add("Password must be at most 15 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper {
		add("Password must contain at least one uppercase letter")
	}
	if !hasLower {
		add("Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		add("Password must contain at least one number")
	}
	if !hasSymbol {
		add("Password must contain at least one symbol")
	}
	return fieldErrors
}
