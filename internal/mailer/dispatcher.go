package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coachevelyne/coachevelyne-api/config"
	"github.com/coachevelyne/coachevelyne-api/internal/models"
	apperrors "github.com/coachevelyne/coachevelyne-api/pkg/errors"
	"github.com/coachevelyne/coachevelyne-api/pkg/logger"
	"github.com/coachevelyne/coachevelyne-api/pkg/metrics"
	"github.com/coachevelyne/coachevelyne-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DispatchResult is what a successful send reports back
type DispatchResult struct {
	MessageID string
}

// Dispatcher renders contact submissions and sends them through the shared transport
type Dispatcher struct {
	transports *LazyTransport
	envelope   Envelope
	site       config.SiteConfig
}

// NewDispatcher creates a dispatcher; the transport is not constructed until the first Send
func NewDispatcher(transports *LazyTransport, envelope Envelope, site config.SiteConfig) *Dispatcher {
	return &Dispatcher{
		transports: transports,
		envelope:   envelope,
		site:       site,
	}
}

// Send makes a single delivery attempt. Failures are returned as *apperrors.DispatchError.
func (d *Dispatcher) Send(ctx context.Context, sub *models.ContactSubmission) (*DispatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "mailer.Send", attribute.String("mail.recipient_domain", domainOf(d.envelope.Recipient)))
	defer span.End()

	start := time.Now()

	msg, err := BuildMessage(sub, d.envelope, d.site)
	if err != nil {
		return nil, d.fail(ctx, span, start, apperrors.NewDispatchError(apperrors.DispatchGeneric, err))
	}

	transport, err := d.transports.Get()
	if err != nil {
		return nil, d.fail(ctx, span, start, apperrors.NewDispatchError(apperrors.DispatchGeneric, fmt.Errorf("transport unavailable: %w", err)))
	}

	// a client disconnect must not abort a send that already started
	messageID, err := transport.Send(context.WithoutCancel(ctx), msg)
	if err != nil {
		return nil, d.fail(ctx, span, start, apperrors.NewDispatchError(Classify(err), err))
	}

	duration := metrics.MeasureDuration(start)
	metrics.MailDispatchDuration.WithLabelValues("ok").Observe(duration)
	metrics.MailDispatchTotal.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.String("mail.message_id", messageID))
	logger.LogAPICall(ctx, "smtp", "send", "success", duration, zap.String("message_id", messageID))

	return &DispatchResult{MessageID: messageID}, nil
}

func (d *Dispatcher) fail(ctx context.Context, span trace.Span, start time.Time, err *apperrors.DispatchError) error {
	duration := metrics.MeasureDuration(start)
	metrics.MailDispatchDuration.WithLabelValues("error").Observe(duration)
	metrics.MailDispatchTotal.WithLabelValues(string(err.Kind)).Inc()
	span.SetAttributes(attribute.String("mail.error_kind", string(err.Kind)))
	tracing.RecordError(span, err)
	logger.LogAPICall(ctx, "smtp", "send", "error", duration,
		zap.String("error_kind", string(err.Kind)),
		zap.Error(err))
	return err
}

func domainOf(address string) string {
	if at := strings.LastIndex(address, "@"); at >= 0 {
		return address[at+1:]
	}
	return ""
}
