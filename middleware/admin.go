package middleware

import (
	"net/http"

	"fileshare/file-api/security"

	"github.com/gin-gonic/gin"
)

// AdminCookie carries the signed admin session token
const AdminCookie = "admin_session"

// NewAdminMiddleware guards the admin endpoints. Requests without a
// valid session cookie get a 401 so the frontend can route the user to
// the login page.
func NewAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		token, err := c.Cookie(AdminCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success":   false,
				"message":   "Not authenticated",
				"requestID": requestID,
			})
			return
		}

		if err := security.ValidateAdminToken(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success":   false,
				"message":   "Session expired or invalid",
				"requestID": requestID,
			})
			return
		}

		c.Next()
	}
}
