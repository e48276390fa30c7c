package services_test

import (
	"context"

	"github.com/coachevelyne/coachevelyne-api/internal/mailer"
	"github.com/coachevelyne/coachevelyne-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockMailDispatcher is a mock implementation of MailDispatcher
type MockMailDispatcher struct {
	mock.Mock
}

func (m *MockMailDispatcher) Send(ctx context.Context, sub *models.ContactSubmission) (*mailer.DispatchResult, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mailer.DispatchResult), args.Error(1)
}
