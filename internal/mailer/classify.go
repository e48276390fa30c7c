package mailer

import (
	"context"
	"errors"
	"net"
	"net/textproto"
	"syscall"

	apperrors "github.com/coachevelyne/coachevelyne-api/pkg/errors"
)

// SMTP reply codes that mean the credentials were rejected
var authReplyCodes = map[int]bool{
	530: true, // authentication required
	534: true, // authentication mechanism too weak / app password required
	535: true, // credentials invalid
	538: true, // encryption required for requested mechanism
}

// Classify maps a transport error onto a dispatch kind
func Classify(err error) apperrors.DispatchKind {
	if err == nil {
		return ""
	}

	if de, ok := apperrors.AsDispatch(err); ok {
		return de.Kind
	}

	if errors.Is(err, ErrAuthFailed) {
		return apperrors.DispatchAuth
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) && authReplyCodes[protoErr.Code] {
		return apperrors.DispatchAuth
	}

	if errors.Is(err, ErrConnectFailed) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, context.DeadlineExceeded) {
		return apperrors.DispatchConnection
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperrors.DispatchConnection
	}

	return apperrors.DispatchGeneric
}
