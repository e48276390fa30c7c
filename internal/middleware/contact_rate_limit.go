package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/coachevelyne/coachevelyne-api/internal/models"
	"github.com/coachevelyne/coachevelyne-api/internal/ratelimit"
	apperrors "github.com/coachevelyne/coachevelyne-api/pkg/errors"
	"github.com/coachevelyne/coachevelyne-api/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// RateLimitedMessage is returned to clients that exhausted their window
const RateLimitedMessage = "Too many requests. Please try again later."

// ContactRateLimitMiddleware applies the fixed-window policy to contact submissions.
// Every response carries the X-RateLimit-* headers; denied requests also get Retry-After.
func ContactRateLimitMiddleware(store *ratelimit.Store, policy ratelimit.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ClientIdentifier(c)
		allowed, info := store.AllowWithInfo(id, policy.Limit, policy.Window)
		metrics.RateLimitEntries.Set(float64(store.Len()))

		c.Header("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))

		if !allowed {
			retryAfter := int64(math.Ceil(info.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))

			metrics.RateLimitRejections.WithLabelValues("contact").Inc()
			_ = c.Error(apperrors.ErrRateLimited) //nolint:errcheck
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.SendEmailResponse{
				Success: false,
				Error:   RateLimitedMessage,
			})
			return
		}

		c.Next()
	}
}
