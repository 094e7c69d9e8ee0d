// Package validation registers the custom go-playground/validator rules used
// by request DTO binding tags.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	TagUsername       = "username"
	TagStrongPassword = "strongpassword"
	TagMaxBytes       = "maxbytes"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Register adds the custom rules to v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation(TagUsername, validateUsername); err != nil {
		return fmt.Errorf("register %s validator: %w", TagUsername, err)
	}
	if err := v.RegisterValidation(TagStrongPassword, validateStrongPassword); err != nil {
		return fmt.Errorf("register %s validator: %w", TagStrongPassword, err)
	}
	if err := v.RegisterValidation(TagMaxBytes, validateMaxBytes); err != nil {
		return fmt.Errorf("register %s validator: %w", TagMaxBytes, err)
	}
	return nil
}

// RegisterWithGin adds the custom rules to gin's default binding validator.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// validateMaxBytes bounds the UTF-8 encoded length of a string, where max
// counts runes.
func validateMaxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("%s: bad parameter %q", TagMaxBytes, fl.Param()))
	}
	return len(fl.Field().String()) <= limit
}

// validateStrongPassword requires an upper-case letter, a lower-case letter,
// a digit and a symbol.
func validateStrongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword is the predicate behind the strongpassword tag.
func IsStrongPassword(p string) bool {
	var upper, lower, digit, symbol bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// Messages renders validator errors as "field: rule" strings for client responses.
func Messages(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", fe.Field(), fe.Param())
	case TagMaxBytes:
		return fmt.Sprintf("%s must be at most %s bytes", fe.Field(), fe.Param())
	case TagUsername:
		return fmt.Sprintf("%s may only contain letters, digits, '.', '_' and '-'", fe.Field())
	case TagStrongPassword:
		return fmt.Sprintf("%s must contain upper and lower case letters, a digit and a symbol", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
