package main

import (
	"context"
	"fmt"
	"time"

	"fileshare/file-api/api"
	"fileshare/file-api/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	// One-shot mode for schedulers that run the binary instead of
	// hitting the cron endpoint
	if config.AutoDeleteOnly() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		days := a.Settings.Storage().AutoDeleteDays
		deleted, err := a.Trash.AutoDelete(ctx, days)
		if err != nil {
			panic(err)
		}

		zap.L().Info("Retention sweep done", zap.Int("deleted", len(deleted)))
		return
	}

	zap.L().Info("Server starting")

	err = a.Router.Run(fmt.Sprintf(":%d", viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}
