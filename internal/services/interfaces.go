package services

import (
	"context"

	"github.com/coachevelyne/coachevelyne-api/internal/mailer"
	"github.com/coachevelyne/coachevelyne-api/internal/models"
)

// ContactServiceInterface defines the interface for contact service operations
type ContactServiceInterface interface {
	SendContactEmail(ctx context.Context, req *models.ContactRequest) (*models.SendEmailResponse, error)
}

// MailDispatcher delivers a sanitized submission to the configured recipient
type MailDispatcher interface {
	Send(ctx context.Context, sub *models.ContactSubmission) (*mailer.DispatchResult, error)
}

// Ensure services implement their interfaces
var _ ContactServiceInterface = (*ContactService)(nil)
var _ MailDispatcher = (*mailer.Dispatcher)(nil)
