package middleware

import (
	"net/http"

	"apply4me/internal/metrics"
	"apply4me/internal/services"
	"apply4me/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// RequireAdmin gates a route group behind HTTP Basic Auth. A missing or
// malformed Authorization header gets a 401 with a WWW-Authenticate
// challenge; wrong credentials get a plain 401; unconfigured server-side
// credentials surface as 503 rather than being treated as a failed login.
func RequireAdmin(auth *services.AdminAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", "Basic")
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("Auth required"))
			c.Abort()
			return
		}

		if err := auth.Check(user, pass); err != nil {
			metrics.RecordAuthAttempt(false)
			status, body := httpdto.ErrorStatus(err, false)
			c.JSON(status, body)
			c.Abort()
			return
		}

		metrics.RecordAuthAttempt(true)
		c.Next()
	}
}
