package api

import (
	"net/http"
	"strings"
	"time"

	"fileshare/file-api/service"
	"fileshare/file-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) FileUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "Invalid request",
			"requestID": requestID,
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to parse multipart form", zap.Error(err))
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "No file provided",
			"requestID": requestID,
		})
		return
	}

	fh := files[0]

	code, err := validators.FileValidator(fh, a.Settings.Storage())
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.Error(err))
			err = validators.ErrFileTypeUnsupported
		}

		c.AbortWithStatusJSON(code, gin.H{
			"success":   false,
			"message":   err.Error(),
			"requestID": requestID,
		})
		return
	}

	password := c.PostForm("password")
	if password == "" && a.Settings.Security().RequirePassword {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "A password is required for all uploads",
			"requestID": requestID,
		})
		return
	}

	encrypt := c.PostForm("encrypt") == "true" || a.Settings.Security().EnableEncryption

	var expiry *time.Time
	if v := c.PostForm("expiry"); v != "" {
		t, err := parseExpiry(v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success":   false,
				"message":   "Invalid expiry date",
				"requestID": requestID,
			})
			return
		}
		expiry = &t
	}

	res, err := a.Uploader.Upload(c.Request.Context(), fh, service.UploadOptions{
		Password:   password,
		Encrypt:    encrypt,
		Expiry:     expiry,
		UploaderIP: a.IP.Resolve(c.Request),
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Failed to upload file",
			"requestID": requestID,
		})

		zap.L().Error("Upload pipeline failed", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File uploaded successfully",
		"data": gin.H{
			"id":  res.FileID,
			"url": res.URL,
		},
	})
}

// parseExpiry accepts a full timestamp or a bare date
func parseExpiry(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", v)
}
