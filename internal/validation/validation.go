// Package validation checks and normalizes contact form input before it reaches
// the mail dispatcher.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coachevelyne/coachevelyne-api/internal/models"
	apperrors "github.com/coachevelyne/coachevelyne-api/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// MaxFieldLength bounds every free-text field placed in outbound mail
const MaxFieldLength = 1000

// emailPattern: alphanumeric local part that may contain ._- inside, and a
// domain with at least one dot-separated label.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?@[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?)+$`)

var fieldLabels = map[string]string{
	"FirstName": "First name",
	"LastName":  "Last name",
	"Email":     "Email",
	"Message":   "Message",
}

// Validator turns a raw ContactRequest into a ContactSubmission
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the contact_email rule registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return ValidEmail(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate checks req and returns a sanitized submission, or a
// *apperrors.ValidationError listing every failed rule.
func (v *Validator) Validate(req *models.ContactRequest) (*models.ContactSubmission, error) {
	if req == nil {
		req = &models.ContactRequest{}
	}

	trimmed := models.ContactRequest{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Goal:      strings.TrimSpace(req.Goal),
		Message:   strings.TrimSpace(req.Message),
	}

	if err := v.validate.Struct(&trimmed); err != nil {
		return nil, apperrors.NewValidationError(Messages(err))
	}

	return &models.ContactSubmission{
		FirstName: Sanitize(trimmed.FirstName),
		LastName:  Sanitize(trimmed.LastName),
		Email:     Sanitize(trimmed.Email),
		Phone:     orDefault(Sanitize(trimmed.Phone), models.PhoneNotProvided),
		Goal:      orDefault(Sanitize(trimmed.Goal), models.GoalNotSpecified),
		Message:   Sanitize(trimmed.Message),
	}, nil
}

// Messages converts validator errors into user-facing messages, in field order
func Messages(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"Invalid request"}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, message(fe))
	}
	return messages
}

func message(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "contact_email":
		return "Please enter a valid email address"
	case "min":
		return label + " must be at least " + fe.Param() + " characters"
	case "max":
		if fe.Field() == "Message" {
			return label + " must be less than " + fe.Param() + " characters"
		}
		return label + " is too long"
	default:
		return label + " is invalid"
	}
}

// ValidEmail reports whether s looks like a deliverable address
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Sanitize trims surrounding whitespace and truncates to MaxFieldLength runes.
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxFieldLength {
		return s
	}
	runes := []rune(s)[:MaxFieldLength]
	// Truncation can expose trailing whitespace; strip it so a second pass is a no-op
	return strings.TrimRightFunc(string(runes), unicode.IsSpace)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
