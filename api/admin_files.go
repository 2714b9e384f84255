package api

import (
	"net/http"
	"strings"

	"fileshare/file-api/model"
	"fileshare/file-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type adminFile struct {
	ID                string `json:"id"`
	OriginalName      string `json:"originalName"`
	Size              int64  `json:"size"`
	Type              string `json:"type"`
	URL               string `json:"url"`
	CreatedAt         string `json:"created_at"`
	PasswordProtected bool   `json:"password_protected"`
	EncryptionEnabled bool   `json:"encryption_enabled"`
}

// AdminFiles lists every blob under uploads/ joined with whatever
// metadata rows exist for them
func (a *API) AdminFiles(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	objects, err := a.Store.List(c.Request.Context(), storage.UploadsPrefix)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"success":   false,
			"message":   "Failed to list files",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list uploads", zap.Error(err))
		return
	}

	ids := make([]string, 0, len(objects))
	for _, o := range objects {
		ids = append(ids, strings.TrimPrefix(o.Key, storage.UploadsPrefix))
	}

	rows := make(map[string]model.FileMetadata, len(ids))
	if len(ids) > 0 {
		var metadata []model.FileMetadata

		err = a.DB.
			Where("file_id IN ?", ids).
			Find(&metadata).
			Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"message":   "Failed to fetch file metadata",
				"requestID": requestID,
			})

			zap.L().Error("Failed to fetch metadata rows", zap.Error(err))
			return
		}

		for _, m := range metadata {
			rows[m.FileID] = m
		}
	}

	files := make([]adminFile, 0, len(objects))
	for _, o := range objects {
		id := strings.TrimPrefix(o.Key, storage.UploadsPrefix)

		f := adminFile{
			ID:        id,
			Size:      o.Size,
			URL:       "/api/files/" + id,
			CreatedAt: o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}

		if m, ok := rows[id]; ok {
			f.OriginalName = m.OriginalName
			f.Type = m.Type
			f.PasswordProtected = m.PasswordProtected
			f.EncryptionEnabled = m.EncryptionEnabled
		}

		files = append(files, f)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"files":   files,
	})
}

type trashRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// AdminTrashFiles soft-deletes the given files. Each move is an
// independent copy-then-delete pair; failures stop at the first file
// so nothing is silently skipped.
func (a *API) AdminTrashFiles(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req trashRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "File IDs are required",
			"requestID": requestID,
		})
		return
	}

	for i, id := range req.IDs {
		if err := a.Trash.SoftDelete(c.Request.Context(), id); err != nil {
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
				"success":   false,
				"message":   "Failed to move file to trash",
				"trashed":   i,
				"requestID": requestID,
			})

			zap.L().Error("Soft delete failed", zap.String("id", id), zap.Error(err))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"trashed": len(req.IDs),
	})
}
