package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fileshare/file-api/model"
	"fileshare/file-api/security"
	"fileshare/file-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileServe serves the raw bytes behind the access gate. Files without
// a metadata row are served openly: legacy uploads predate the metadata
// table and locking them out would strand them. Encrypted files skip
// the password gate because the ciphertext is opaque either way.
func (a *API) FileServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	fileID := c.Param("fileID")

	var found model.FileMetadata
	row := &found

	err := a.DB.
		Where("file_id = ?", fileID).
		First(&found).
		Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"message":   "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to look up file metadata", zap.String("id", fileID), zap.Error(err))
			return
		}

		row = nil
	}

	if row != nil {
		if row.Expired(time.Now()) {
			c.AbortWithStatusJSON(http.StatusGone, gin.H{
				"success":   false,
				"message":   "File has expired",
				"requestID": requestID,
			})
			return
		}

		if row.PasswordProtected && !row.EncryptionEnabled && !authorized(c, fileID) {
			// The file page handles password entry
			c.Redirect(http.StatusFound, "/file/"+fileID)
			return
		}
	}

	body, obj, err := a.Store.Get(c.Request.Context(), storage.UploadsPrefix+fileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success":   false,
				"message":   "File not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file from object store", zap.String("id", fileID), zap.Error(err))
		return
	}
	defer body.Close()

	contentType := obj.ContentType
	name := fileID

	if row != nil {
		name = row.OriginalName

		if row.EncryptionEnabled {
			contentType = "application/octet-stream"
		} else if row.Type != "" {
			contentType = row.Type
		}
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, obj.Size, contentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", name),
		"Cache-Control":       "public, max-age=31536000, immutable",
	})
}

// authorized checks the per-file grant, either from the scoped cookie
// or an explicit token query parameter
func authorized(c *gin.Context, fileID string) bool {
	if token, err := c.Cookie("file_auth_" + fileID); err == nil {
		if security.ValidateFileToken(token, fileID) == nil {
			return true
		}
	}

	if token := c.Query("token"); token != "" {
		return security.ValidateFileToken(token, fileID) == nil
	}

	return false
}
