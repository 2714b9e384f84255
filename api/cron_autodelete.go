package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// CronAutoDelete runs the retention sweep once. It is meant to be hit
// by an external scheduler; nothing inside the process triggers it.
func (a *API) CronAutoDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	if secret := viper.GetString("security.cron_secret"); secret != "" {
		got := c.GetHeader("X-Cron-Secret")
		if got == "" {
			got = c.Query("secret")
		}

		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success":   false,
				"message":   "Invalid cron secret",
				"requestID": requestID,
			})
			return
		}
	}

	days := a.Settings.Storage().AutoDeleteDays
	if days <= 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Auto-delete is disabled",
		})
		return
	}

	deleted, err := a.Trash.AutoDelete(c.Request.Context(), days)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"success":   false,
			"message":   "Retention sweep failed",
			"requestID": requestID,
		})

		zap.L().Error("Retention sweep failed", zap.Error(err))
		return
	}

	if len(deleted) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "No files to delete",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("Successfully deleted %d files older than %d days", len(deleted), days),
		"deletedFiles": deleted,
	})
}
