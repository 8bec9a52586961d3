package config

import (
	"log"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr    string
	TgToken     string
	AppEnv      string
	LogLevel    string
	MaxUploadMB int64
	SessionTTL  time.Duration
	PreviewRows int
}

// IsProduction selects the JSON logger.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the process-wide configuration, loaded on first use.
func GetConfig() *Config {
	once.Do(func() {
		config = Load()
	})
	return config
}

// Load reads .env (when present) and the environment on top of the defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	v := viper.New()
	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("TG_TOKEN", "")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_UPLOAD_MB", 50)
	v.SetDefault("SESSION_TTL", time.Hour)
	v.SetDefault("PREVIEW_ROWS", 5)
	v.AutomaticEnv()

	return &Config{
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		TgToken:     v.GetString("TG_TOKEN"),
		AppEnv:      v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		MaxUploadMB: v.GetInt64("MAX_UPLOAD_MB"),
		SessionTTL:  v.GetDuration("SESSION_TTL"),
		PreviewRows: v.GetInt("PREVIEW_ROWS"),
	}
}
