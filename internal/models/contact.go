package models

import "strings"

const (
	// PhoneNotProvided replaces an absent phone number
	PhoneNotProvided = "Not provided"
	// GoalNotSpecified replaces an absent fitness goal
	GoalNotSpecified = "Not specified"
	// AnonymousName is used when both name parts are empty
	AnonymousName = "Anonymous"
)

// ContactRequest is the raw contact form payload posted by the website.
// The validate tags are evaluated against trimmed values by the validation package.
type ContactRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Email     string `json:"email" validate:"contact_email"`
	Phone     string `json:"phone,omitempty"`
	Goal      string `json:"goal,omitempty"`
	Message   string `json:"message" validate:"min=10,max=1000"`
}

// ContactSubmission is a validated and sanitized contact request.
// It is built once per request and never mutated afterwards.
type ContactSubmission struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Goal      string
	Message   string
}

// FullName joins the name parts, falling back to AnonymousName
func (s *ContactSubmission) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
	if name == "" {
		return AnonymousName
	}
	return name
}

// SendEmailResponse is the JSON body returned by the contact endpoint
type SendEmailResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// StatusResponse is the liveness probe body
type StatusResponse struct {
	Message string `json:"message"`
}
