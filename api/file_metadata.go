package api

import (
	"errors"
	"net/http"
	"time"

	"fileshare/file-api/model"
	"fileshare/file-api/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MetadataFetch returns a file's metadata. The full row goes only to
// the uploader's IP or for unprotected files; everyone else gets the
// handful of fields the password page needs. The password hash is
// never part of any response.
func (a *API) MetadataFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	fileID := c.Query("id")
	if fileID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "File ID is required",
			"requestID": requestID,
		})
		return
	}

	var row model.FileMetadata

	err := a.DB.
		Where("file_id = ?", fileID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success":   false,
				"message":   "File not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Failed to fetch file metadata",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file metadata", zap.Error(err))
		return
	}

	ip := a.IP.Resolve(c.Request)

	if row.UploaderIP == ip || !row.PasswordProtected {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "File metadata retrieved successfully",
			"data":    row,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File metadata retrieved successfully",
		"data": gin.H{
			"file_id":            row.FileID,
			"password_protected": row.PasswordProtected,
			"encryption_enabled": row.EncryptionEnabled,
			"type":               row.Type,
		},
		"isOwner": false,
	})
}

type metadataStoreRequest struct {
	ID                string     `json:"id" binding:"required"`
	PasswordProtected bool       `json:"passwordProtected"`
	Password          string     `json:"password"`
	ExpiryEnabled     bool       `json:"expiryEnabled"`
	ExpiryDate        *time.Time `json:"expiryDate"`
}

// MetadataStore upserts a file's protection flags, hashing the password
// before it touches the database
func (a *API) MetadataStore(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req metadataStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "File ID is required",
			"requestID": requestID,
		})
		return
	}

	if req.PasswordProtected && req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "A protected file needs a password",
			"requestID": requestID,
		})
		return
	}

	row := model.FileMetadata{
		FileID:            req.ID,
		PasswordProtected: req.PasswordProtected,
		ExpiryEnabled:     req.ExpiryEnabled,
		ExpiryDate:        req.ExpiryDate,
		UploaderIP:        a.IP.Resolve(c.Request),
	}

	if req.Password != "" {
		hash, err := a.Argon.Hash(req.Password)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"message":   "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to hash file password", zap.Error(err))
			return
		}
		row.PasswordHash = hash
	}

	err := a.DB.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "file_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"password_protected", "password_hash",
				"expiry_enabled", "expiry_date", "updated_at",
			}),
		}).
		Create(&row).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Failed to store metadata",
			"requestID": requestID,
		})

		zap.L().Error("Failed to upsert file metadata", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Metadata stored successfully",
	})
}

type metadataVerifyRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// MetadataVerify checks a submitted password against the stored hash.
// A wrong password and a missing protected file both come back as
// authenticated=false so nothing about existence leaks.
func (a *API) MetadataVerify(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req metadataVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "File ID and password are required",
			"requestID": requestID,
		})
		return
	}

	var row model.FileMetadata

	err := a.DB.
		Where("file_id = ?", req.ID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"success":       true,
				"authenticated": false,
				"message":       "Incorrect password",
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Failed to verify password",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file metadata for verification", zap.Error(err))
		return
	}

	ok := false
	if row.PasswordHash != "" {
		ok, err = a.Argon.Verify(req.Password, row.PasswordHash)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"message":   "Failed to verify password",
				"requestID": requestID,
			})

			zap.L().Error("Failed to verify file password", zap.Error(err))
			return
		}
	}

	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"authenticated": false,
			"message":       "Incorrect password",
		})
		return
	}

	token, err := security.IssueFileToken(req.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue file token", zap.Error(err))
		return
	}

	c.SetCookie("file_auth_"+req.ID, token, int(security.FileGrantTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"authenticated": true,
		"token":         token,
		"message":       "Password verified successfully",
	})
}
