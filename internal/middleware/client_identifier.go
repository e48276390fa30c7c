package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// UnknownClient identifies requests that carry no forwarding headers
const UnknownClient = "unknown"

// ClientIdentifier returns the rate-limit key for a request: the first
// X-Forwarded-For hop, then X-Real-IP, then UnknownClient.
// The headers are trusted as sent; the service runs behind a proxy that sets them.
func ClientIdentifier(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}

	return UnknownClient
}
