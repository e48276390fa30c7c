package services

import (
	"context"

	"github.com/coachevelyne/coachevelyne-api/internal/models"
	"github.com/coachevelyne/coachevelyne-api/internal/validation"
	apperrors "github.com/coachevelyne/coachevelyne-api/pkg/errors"
	"github.com/coachevelyne/coachevelyne-api/pkg/logger"
	"github.com/coachevelyne/coachevelyne-api/pkg/metrics"
	"go.uber.org/zap"
)

// SuccessMessage is reported to the submitter once the notification is handed off
const SuccessMessage = "Email sent successfully"

// ContactService validates contact form submissions and forwards them to the coach's inbox
type ContactService struct {
	validator  *validation.Validator
	dispatcher MailDispatcher
}

// NewContactService creates a new contact service instance
func NewContactService(validator *validation.Validator, dispatcher MailDispatcher) *ContactService {
	return &ContactService{
		validator:  validator,
		dispatcher: dispatcher,
	}
}

// SendContactEmail validates req and makes a single delivery attempt.
// Errors are *apperrors.ValidationError or *apperrors.DispatchError.
func (s *ContactService) SendContactEmail(ctx context.Context, req *models.ContactRequest) (*models.SendEmailResponse, error) {
	submission, err := s.validator.Validate(req)
	if err != nil {
		metrics.ContactFormSubmissions.WithLabelValues("invalid").Inc()
		logger.Warn("Contact form validation failed", zap.Error(err))
		return nil, err
	}

	result, err := s.dispatcher.Send(ctx, submission)
	if err != nil {
		kind := apperrors.DispatchGeneric
		if de, ok := apperrors.AsDispatch(err); ok {
			kind = de.Kind
		}
		metrics.ContactFormSubmissions.WithLabelValues("error").Inc()
		logger.Error("Failed to send contact email",
			zap.String("error_kind", string(kind)),
			zap.Error(err))
		return nil, err
	}

	metrics.ContactFormSubmissions.WithLabelValues("success").Inc()
	logger.Info("Contact email sent",
		zap.String("message_id", result.MessageID),
		zap.String("goal", submission.Goal))

	return &models.SendEmailResponse{
		Success:   true,
		MessageID: result.MessageID,
		Message:   SuccessMessage,
	}, nil
}
