package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContactBodyLimit caps contact form payloads; the largest valid form is well under 10 KiB
const ContactBodyLimit int64 = 100 << 10

var bodylessMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// BodySizeLimitMiddleware caps request bodies at maxBodySize bytes. Reads past
// the limit fail, which the JSON binding reports as an invalid body.
func BodySizeLimitMiddleware(maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !bodylessMethods[c.Request.Method] {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
		}
		c.Next()
	}
}
