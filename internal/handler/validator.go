package handler

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

var (
	validate     *Validator
	validateOnce sync.Once
)

// InitValidator initializes the global validator
func InitValidator() {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("itemid", validateItemID)
		validate = &Validator{validate: v}
	})
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	InitValidator()
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateVar validates a single value against a tag
func (v *Validator) ValidateVar(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// FormatValidationError formats validation errors into a field -> message map
// without leaking struct names
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "itemid":
			errs[field] = "Invalid item id"
		case "gt":
			errs[field] = fmt.Sprintf("Must be greater than %s", e.Param())
		case "gte", "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "lte", "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// validateItemID accepts non-blank ids without control characters
func validateItemID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if strings.TrimSpace(id) == "" || len(id) > MaxItemIDLength {
		return false
	}
	return !strings.ContainsAny(id, "\x00\n\r\t/")
}
