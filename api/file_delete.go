package api

import (
	"errors"
	"net/http"

	"fileshare/file-api/model"
	"fileshare/file-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) FileDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	fileID := c.Param("fileID")
	ip := a.IP.Resolve(c.Request)

	var row model.FileMetadata

	err := a.DB.
		Where("file_id = ?", fileID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success":   false,
				"message":   "File not found. It either doesn't exist or you don't own it",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if file exists", zap.Error(err))
		return
	}

	// Same response as a missing row so existence doesn't leak
	if row.UploaderIP != ip {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"success":   false,
			"message":   "File not found. It either doesn't exist or you don't own it",
			"requestID": requestID,
		})
		return
	}

	if err := a.Store.Delete(c.Request.Context(), storage.UploadsPrefix+fileID); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Failed to delete file",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete file from object store", zap.Error(err))
		return
	}

	err = a.DB.
		Where("file_id = ?", fileID).
		Delete(model.FileMetadata{}).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete file metadata", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File deleted",
	})
}
