package api

import (
	"net/http"
	"strings"

	"fileshare/file-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type trashedFile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	DeletedAt string `json:"deleted_at"`
}

func (a *API) AdminTrashList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	objects, err := a.Trash.List(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"success":   false,
			"message":   "Failed to list trash",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list trash", zap.Error(err))
		return
	}

	files := make([]trashedFile, 0, len(objects))
	for _, o := range objects {
		id := strings.TrimPrefix(o.Key, storage.TrashPrefix)

		// The blob's creation time under trash/ is when it was moved
		files = append(files, trashedFile{
			ID:        id,
			Name:      id,
			Size:      o.Size,
			DeletedAt: o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"files":   files,
	})
}

type restoreRequest struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

func (a *API) AdminTrashRestore(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil || (!req.All && len(req.IDs) == 0) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "File IDs are required",
			"requestID": requestID,
		})
		return
	}

	ids := req.IDs
	if req.All {
		objects, err := a.Trash.List(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
				"success":   false,
				"message":   "Failed to list trash",
				"requestID": requestID,
			})

			zap.L().Error("Failed to list trash", zap.Error(err))
			return
		}

		ids = ids[:0]
		for _, o := range objects {
			ids = append(ids, strings.TrimPrefix(o.Key, storage.TrashPrefix))
		}
	}

	for i, id := range ids {
		if err := a.Trash.Restore(c.Request.Context(), id); err != nil {
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
				"success":   false,
				"message":   "Failed to restore file",
				"restored":  i,
				"requestID": requestID,
			})

			zap.L().Error("Restore failed", zap.String("id", id), zap.Error(err))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"restored": len(ids),
	})
}

func (a *API) AdminTrashPurge(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	deleted, err := a.Trash.PurgeAll(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"success":   false,
			"message":   "Failed to purge trash",
			"requestID": requestID,
		})

		zap.L().Error("Purge failed", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"deleted": deleted,
	})
}
