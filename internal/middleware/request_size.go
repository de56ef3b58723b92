package middleware

import (
	"net/http"
	"volunteer-match/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DefaultMaxRequestSize caps request bodies at 1 MiB.
const DefaultMaxRequestSize = 1 << 20

func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	if maxSize <= 0 {
		maxSize = DefaultMaxRequestSize
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		}
		c.Next()
	}
}
