package api

import (
	"net/http"

	"fileshare/file-api/model"
	"fileshare/file-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminStats returns the dashboard counters. Blob counts and sizes come
// from the object store, protection counts from the metadata table; the
// two can drift apart since trash moves never touch metadata rows.
func (a *API) AdminStats(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	uploads, err := a.Store.List(c.Request.Context(), storage.UploadsPrefix)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"success":   false,
			"message":   "Failed to list uploads",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list uploads for stats", zap.Error(err))
		return
	}

	trashed, err := a.Trash.List(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"success":   false,
			"message":   "Failed to list trash",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list trash for stats", zap.Error(err))
		return
	}

	var totalSize int64
	for _, o := range uploads {
		totalSize += o.Size
	}

	var protected, encrypted int64
	a.DB.Model(model.FileMetadata{}).Where("password_protected = ?", true).Count(&protected)
	a.DB.Model(model.FileMetadata{}).Where("encryption_enabled = ?", true).Count(&encrypted)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"totalFiles":     len(uploads),
			"totalSize":      totalSize,
			"trashedFiles":   len(trashed),
			"protectedFiles": protected,
			"encryptedFiles": encrypted,
		},
	})
}
