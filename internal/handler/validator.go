package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/replantlab/missiond/internal/clock"
	"github.com/replantlab/missiond/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("triggertime", validateTriggerTime)
	_ = v.RegisterValidation("verificationtype", validateVerificationType)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map.
// This prevents leaking internal struct names and provides cleaner messages.
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
		case "triggertime":
			errs[field] = "Must be a time in HH:MM format"
		case "verificationtype":
			errs[field] = "Invalid verification type"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// validateTriggerTime accepts HH:MM and H:MM wall clock times
func validateTriggerTime(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	_, err := clock.Normalize(raw)
	return err == nil
}

// ValidVerificationTypes defines the proof mechanisms a definition may use
var ValidVerificationTypes = map[domain.VerificationType]bool{
	domain.VerificationGPS:           true,
	domain.VerificationDuration:      true,
	domain.VerificationTimeBoxed:     true,
	domain.VerificationCommunityVote: true,
	domain.VerificationMeal:          true,
}

func validateVerificationType(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	return ValidVerificationTypes[domain.VerificationType(raw)]
}
