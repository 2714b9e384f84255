// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	autoDelete     = pflag.Bool("auto-delete", false, "Runs the retention sweep once and exits")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDBTypes   = []string{"sqlite", "postgres"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.public_url", "host_public_url")

	v.BindEnv("database.type", "database_type")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("storage.endpoint", "storage_endpoint")
	v.BindEnv("storage.region", "storage_region")
	v.BindEnv("storage.access_key_id", "storage_access_key_id")
	v.BindEnv("storage.secret_access_key", "storage_secret_access_key")
	v.BindEnv("storage.bucket", "storage_bucket")
	v.BindEnv("storage.path_style", "storage_path_style")

	v.BindEnv("upload.max_size", "upload_max_size")

	v.BindEnv("security.admin_password", "security_admin_password")
	v.BindEnv("security.jwt_secret", "security_jwt_secret")
	v.BindEnv("security.crypto_key", "security_crypto_key")
	v.BindEnv("security.cron_secret", "security_cron_secret")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.public_url", "http://localhost:8080")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.path_style", false)

	v.SetDefault("upload.max_size", 100)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		// Everything can come from the environment, so a missing
		// config.toml alone isn't fatal
		zap.L().Debug("No config.toml found, relying on environment variables")
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDBTypes, v.GetString("database.type")) {
		return errors.New("invalid database type provided, must be sqlite or postgres")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database.dsn can't be empty")
	}

	if v.GetString("storage.endpoint") == "" {
		return errors.New("storage.endpoint can't be empty")
	}
	if v.GetString("storage.access_key_id") == "" {
		return errors.New("storage.access_key_id can't be empty")
	}
	if v.GetString("storage.secret_access_key") == "" {
		return errors.New("storage.secret_access_key can't be empty")
	}
	if v.GetString("storage.bucket") == "" {
		return errors.New("storage.bucket can't be empty")
	}

	if v.GetInt64("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetString("security.admin_password") == "" {
		return errors.New("security.admin_password can't be empty")
	}

	if v.GetString("security.jwt_secret") == "" {
		return errors.New("security.jwt_secret can't be empty")
	}

	if v.GetString("security.crypto_key") == "" {
		zap.L().Warn("No security.crypto_key configured, uploads requesting encryption will be stored as plaintext")
	}

	if v.GetString("security.cron_secret") == "" {
		zap.L().Warn("No security.cron_secret configured, the retention sweep endpoint is unauthenticated")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}

// AutoDeleteOnly reports whether the process was started just to run
// the retention sweep instead of serving requests.
func AutoDeleteOnly() bool {
	return *autoDelete
}
