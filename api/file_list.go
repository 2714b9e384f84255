package api

import (
	"net/http"

	"fileshare/file-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileList returns the requester's own uploads. "Own" means rows whose
// stored uploader address matches the resolved one exactly; clients
// behind the same NAT see each other's files, which is a documented
// limitation of IP scoping rather than a bug.
func (a *API) FileList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	ip := a.IP.Resolve(c.Request)

	var rows []model.FileMetadata

	err := a.DB.
		Where("uploader_ip = ?", ip).
		Order("created_at desc").
		Find(&rows).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Failed to fetch files",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch files by IP", zap.Error(err))
		return
	}

	if rows == nil {
		rows = []model.FileMetadata{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Files retrieved successfully",
		"data":    rows,
		"ip":      ip,
	})
}
