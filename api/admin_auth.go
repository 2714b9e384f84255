package api

import (
	"crypto/subtle"
	"net/http"

	"fileshare/file-api/middleware"
	"fileshare/file-api/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type adminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLogin exchanges the shared admin password for a 1-day session
// cookie. There is a single admin identity, no user accounts.
func (a *API) AdminLogin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "Password is required",
			"requestID": requestID,
		})
		return
	}

	expected := viper.GetString("security.admin_password")
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(expected)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success":   false,
			"message":   "Invalid password",
			"requestID": requestID,
		})
		return
	}

	token, err := security.IssueAdminToken()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue admin token", zap.Error(err))
		return
	}

	c.SetCookie(middleware.AdminCookie, token, int(security.AdminSessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

func (a *API) AdminLogout(c *gin.Context) {
	c.SetCookie(middleware.AdminCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
