package middleware

import (
	"fmt"
	"net/http"

	"apply4me/internal/transport/httpdto"
	"apply4me/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery is the catch-all guarantee: any panic in a handler still yields a
// well-formed 500 JSON body instead of crashing the process. The underlying
// message is only exposed outside production.
func Recovery(l *logger.Logger, detailed bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				l.Errorf("panic recovered: %v", r)
				msg := "Internal server error"
				if detailed {
					msg = fmt.Sprintf("panic: %v", r)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse(msg))
			}
		}()
		c.Next()
	}
}
