package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Words
		Sessions
		Tasks
		Purge
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Words struct {
		WriteQueueSize int // Writes that may wait for the store's writer
	}
	Sessions struct {
		Lifetime      time.Duration
		IdleTimeout   time.Duration // Controllers of sessions idle this long are closed
		SecureCookies bool          // Set to false for local dev without HTTPS
		CSRFSecret    string        // Enables CSRF protection when set
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Purge struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * 0" = Sundays at 03:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("write_queue_size", 64)

	// Session defaults
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_idle_timeout", "30m")
	v.SetDefault("session_secure_cookies", true)
	v.SetDefault("csrf_secret", "")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Purge defaults
	v.SetDefault("purge_enabled", false)
	v.SetDefault("purge_schedule", "0 3 * * 0")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Words: Words{
			WriteQueueSize: v.GetInt("WRITE_QUEUE_SIZE"),
		},
		Sessions: Sessions{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			IdleTimeout:   v.GetDuration("SESSION_IDLE_TIMEOUT"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
			CSRFSecret:    v.GetString("CSRF_SECRET"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Purge: Purge{
			Enabled:  v.GetBool("PURGE_ENABLED"),
			Schedule: v.GetString("PURGE_SCHEDULE"),
		},
	}
}
