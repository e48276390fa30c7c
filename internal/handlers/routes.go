package handlers

import (
	"net/http"

	"github.com/coachevelyne/coachevelyne-api/internal/middleware"
	"github.com/coachevelyne/coachevelyne-api/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// Routes groups what RegisterRoutes needs to mount the public API
type Routes struct {
	Contact       *ContactHandler
	Health        *HealthHandler
	ContactStore  *ratelimit.Store
	ContactPolicy ratelimit.Policy
	// Metrics is optional; OpsLimiter guards it when both are set
	Metrics    http.Handler
	OpsLimiter *middleware.RateLimiter
}

// RegisterRoutes mounts the contact and operational endpoints on api
func RegisterRoutes(api *gin.RouterGroup, r Routes) {
	api.GET("/send-email", r.Contact.Status)
	api.POST("/send-email",
		middleware.ContactRateLimitMiddleware(r.ContactStore, r.ContactPolicy),
		middleware.BodySizeLimitMiddleware(middleware.ContactBodyLimit),
		r.Contact.SendEmail)

	api.GET("/healthcheck", r.Health.Healthcheck)

	if r.Metrics != nil {
		chain := []gin.HandlerFunc{}
		if r.OpsLimiter != nil {
			chain = append(chain, r.OpsLimiter.Middleware())
		}
		chain = append(chain, gin.WrapH(r.Metrics))
		api.GET("/metrics", chain...)
	}
}
