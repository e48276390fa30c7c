package handlers

import (
	"net/http"

	"github.com/coachevelyne/coachevelyne-api/internal/models"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Healthcheck is a liveness probe. It does not touch the mail transport,
// which is only constructed on the first submission.
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	c.JSON(http.StatusOK, models.StatusResponse{Message: statusMessage})
}
