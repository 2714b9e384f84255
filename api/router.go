// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"fileshare/file-api/db"
	"fileshare/file-api/middleware"
	"fileshare/file-api/security"
	"fileshare/file-api/service"
	"fileshare/file-api/storage"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Store    storage.Store
	Argon    *security.ArgonHash
	Settings *service.Settings
	Trash    *service.Trash
	Uploader *service.Uploader
	IP       *service.IPResolver
	Cipher   *service.Cipher
}

func NewRouter() (*API, error) {
	makeLogger()

	a := &API{
		Argon: security.NewArgon(),
		IP:    service.NewIPResolver(),
	}

	d, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = d

	s3, err := storage.NewS3()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store, %w", err)
	}
	a.Store = s3

	settings, err := service.NewSettings(d)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize settings, %w", err)
	}
	a.Settings = settings

	if key := viper.GetString("security.crypto_key"); key != "" {
		a.Cipher = service.NewCipher(key)
	}

	a.Trash = &service.Trash{Store: a.Store}
	a.Uploader = &service.Uploader{
		DB:     a.DB,
		Store:  a.Store,
		Argon:  a.Argon,
		Cipher: a.Cipher,
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{viper.GetString("host.public_url")},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 5 << 20

	a.mountRoutes(router)

	return a, nil
}

// mountRoutes registers every endpoint on the engine. Kept separate
// from dependency construction so tests can mount onto their own engine.
func (a *API) mountRoutes(router *gin.Engine) {
	maxUploadSize := viper.GetInt64("upload.max_size")
	if maxUploadSize <= 0 {
		maxUploadSize = 100 << 20
	}

	passwordLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: 1,
		Burst:             5,
	}).Middleware()

	admin := middleware.NewAdminMiddleware()

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// POST /api/upload		-> Accepts a multipart upload and returns a shareable id
		main.POST("/upload", middleware.BodySizeLimiter(maxUploadSize), a.FileUpload)
	}

	files := main.Group("/files")
	{
		// GET /api/files		-> Lists the requester's own uploads, scoped by IP
		files.GET("", a.FileList)

		// GET /api/files/metadata	-> Fetches a file's metadata, redacted for non-owners
		files.GET("/metadata", a.MetadataFetch)

		// POST /api/files/metadata	-> Upserts a file's protection flags
		files.POST("/metadata", middleware.BodySizeLimiter(1<<20), a.MetadataStore)

		// PUT /api/files/metadata	-> Verifies a password and issues an access grant
		files.PUT("/metadata", passwordLimiter, a.MetadataVerify)

		// GET /api/files/:fileID	-> Serves the file bytes behind the access gate
		files.GET("/:fileID", a.FileServe)

		// DELETE /api/files/:fileID	-> Deletes a file owned by the requester
		files.DELETE("/:fileID", a.FileDelete)
	}

	adm := main.Group("/admin")
	{
		// POST /api/admin/login	-> Exchanges the admin password for a session cookie
		adm.POST("/login", passwordLimiter, a.AdminLogin)

		// POST /api/admin/logout	-> Clears the session cookie
		adm.POST("/logout", a.AdminLogout)
	}

	guarded := adm.Group("", admin)
	{
		// GET /api/admin/stats		-> Dashboard counters
		guarded.GET("/stats", cacheFor(30), a.AdminStats)

		// GET /api/admin/files		-> Lists everything under uploads/
		guarded.GET("/files", a.AdminFiles)

		// POST /api/admin/files/trash	-> Soft-deletes files into trash/
		guarded.POST("/files/trash", a.AdminTrashFiles)

		// GET /api/admin/trash		-> Lists everything under trash/
		guarded.GET("/trash", a.AdminTrashList)

		// POST /api/admin/trash/restore -> Restores trashed files to uploads/
		guarded.POST("/trash/restore", a.AdminTrashRestore)

		// DELETE /api/admin/trash	-> Permanently purges the trash
		guarded.DELETE("/trash", a.AdminTrashPurge)

		// GET/PUT /api/admin/settings	-> Reads or upserts one settings section
		guarded.GET("/settings", a.AdminSettingsFetch)
		guarded.PUT("/settings", a.AdminSettingsSave)

		// POST /api/admin/settings/init -> Seeds default settings rows
		guarded.POST("/settings/init", a.AdminSettingsInit)

		// POST /api/admin/repair	-> Re-runs schema migration
		guarded.POST("/repair", a.AdminRepair)
	}

	cron := main.Group("/cron")
	{
		// GET /api/cron/auto-delete	-> Retention sweep, meant for a scheduler
		cron.GET("/auto-delete", a.CronAutoDelete)
	}
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
