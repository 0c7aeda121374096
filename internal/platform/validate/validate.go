// Package validate wraps go-playground/validator with the custom tags used
// by the request and domain input types. Field names are reported by their
// JSON names.
package validate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"bookreview/internal/apperr"

	"github.com/go-playground/validator/v10"
)

// Message is returned as the top-level message of a failed validation.
const Message = "Validation failed"

var (
	validate *validator.Validate

	mu       sync.RWMutex
	messages = map[string]string{}

	isbnPattern = regexp.MustCompile(`^(?:\d{9}[\dX]|\d{13})$`)

	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	numberPattern  = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister("isbn", validateISBN)
	mustRegister("password_strength", validatePasswordStrength)
	mustRegister("notfuture", validateNotFuture)
	mustRegister("wholenumber", validateWholeNumber)
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %s: %v", tag, err))
	}
}

// Register adds a custom tag along with the message reported when it fails.
// The message may contain one %s verb for the field name.
func Register(tag string, fn validator.Func, message string) {
	mustRegister(tag, fn)
	mu.Lock()
	messages[tag] = message
	mu.Unlock()
}

// NormalizeISBN strips hyphens and spaces.
func NormalizeISBN(s string) string {
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, " ", "")
}

func validateISBN(fl validator.FieldLevel) bool {
	return isbnPattern.MatchString(NormalizeISBN(fl.Field().String()))
}

func validatePasswordStrength(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}
	return upperPattern.MatchString(password) &&
		lowerPattern.MatchString(password) &&
		numberPattern.MatchString(password) &&
		specialPattern.MatchString(password)
}

func validateNotFuture(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fl.Field().Int() <= int64(time.Now().Year())
	}
	return false
}

func validateWholeNumber(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return f == math.Trunc(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

// Struct validates s and returns one FieldError per failed rule.
func Struct(s any) []apperr.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperr.FieldError{{Field: "body", Message: "body is invalid"}}
	}

	out := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperr.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

// Check validates s and returns an apperr validation error, or nil.
func Check(s any) error {
	if fields := Struct(s); len(fields) > 0 {
		return apperr.Validation(Message, fields...)
	}
	return nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and numbers", field)
	case "isbn":
		return fmt.Sprintf("%s must be a valid ISBN (10 or 13 digits)", field)
	case "password_strength":
		return fmt.Sprintf("%s must be at least 8 characters with uppercase, lowercase, number, and special character", field)
	case "notfuture":
		return fmt.Sprintf("%s cannot be in the future", field)
	case "wholenumber":
		return fmt.Sprintf("%s must be a whole number", field)
	}

	mu.RLock()
	custom, ok := messages[fe.Tag()]
	mu.RUnlock()
	if ok {
		return fmt.Sprintf(custom, field)
	}
	return fmt.Sprintf("%s is invalid", field)
}
