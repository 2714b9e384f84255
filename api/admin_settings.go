package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fileshare/file-api/db"
	"fileshare/file-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) AdminSettingsFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	rows, err := a.Settings.All()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Failed to fetch settings",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch settings rows", zap.Error(err))
		return
	}

	updatedAt := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		updatedAt[row.Key] = row.UpdatedAt
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"storage":  a.Settings.Storage(),
			"security": a.Settings.Security(),
			"display":  a.Settings.Display(),
		},
		"updatedAt": updatedAt,
	})
}

type settingsSaveRequest struct {
	Key   string          `json:"key" binding:"required"`
	Value json.RawMessage `json:"value" binding:"required"`
}

func (a *API) AdminSettingsSave(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req settingsSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "Key and value are required",
			"requestID": requestID,
		})
		return
	}

	if err := a.Settings.Save(req.Key, req.Value); err != nil {
		if errors.Is(err, service.ErrUnknownSettingKey) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success":   false,
				"message":   "Unknown settings key",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Failed to save settings",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save settings", zap.String("key", req.Key), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Settings saved",
	})
}

// AdminSettingsInit seeds default rows for any missing section and
// reloads the cache. Safe to call repeatedly.
func (a *API) AdminSettingsInit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	if err := a.Settings.Seed(); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Failed to initialize settings",
			"requestID": requestID,
		})

		zap.L().Error("Failed to seed settings", zap.Error(err))
		return
	}

	if err := a.Settings.Reload(); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Failed to reload settings",
			"requestID": requestID,
		})

		zap.L().Error("Failed to reload settings", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Settings initialized successfully",
	})
}

// AdminRepair re-runs the schema migration for databases created by
// older builds that predate some columns
func (a *API) AdminRepair(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	if err := db.Migrate(a.DB); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Failed to repair schema",
			"requestID": requestID,
		})

		zap.L().Error("Schema repair failed", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Schema is up to date",
	})
}
