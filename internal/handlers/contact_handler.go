package handlers

import (
	"net/http"

	"github.com/coachevelyne/coachevelyne-api/internal/models"
	"github.com/coachevelyne/coachevelyne-api/internal/services"
	apperrors "github.com/coachevelyne/coachevelyne-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

const (
	invalidBodyMessage = "Invalid request body."
	statusMessage      = "Email API is running"
)

// User-facing dispatch failures. The kind is logged; credentials are never hinted at.
var dispatchMessages = map[apperrors.DispatchKind]string{
	apperrors.DispatchAuth:       "Email service is temporarily unavailable. Please try again later.",
	apperrors.DispatchConnection: "Cannot connect to email server. Please try again later.",
	apperrors.DispatchGeneric:    "Failed to send email. Please try again later.",
}

type ContactHandler struct {
	service services.ContactServiceInterface
}

func NewContactHandler(service services.ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// SendEmail handles POST /api/send-email. Rate limiting runs before it as middleware.
// Validation and dispatch failures both answer 500, which existing clients rely on.
func (h *ContactHandler) SendEmail(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusInternalServerError, invalidBodyMessage, err)
		return
	}

	resp, err := h.service.SendContactEmail(c.Request.Context(), &req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, errorMessage(err), err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Status handles GET /api/send-email
func (h *ContactHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Message: statusMessage})
}

func errorMessage(err error) string {
	if verr, ok := apperrors.AsValidation(err); ok {
		return verr.Error()
	}
	if de, ok := apperrors.AsDispatch(err); ok {
		if msg, known := dispatchMessages[de.Kind]; known {
			return msg
		}
	}
	return dispatchMessages[apperrors.DispatchGeneric]
}
