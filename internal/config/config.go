package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the shell API.
type Config struct {
	AppName                  string
	AppEnv                   string
	AppPort                  string
	RedisURL                 string
	NATSURL                  string
	JWTSecret                string
	TokenTTL                 time.Duration
	SessionIdleTTL           time.Duration
	ScratchTTL               time.Duration
	LoginLatency             time.Duration
	LoginRateLimit           int
	MaxRetainedNotifications int
	NotificationPreviewLimit int
	NotificationChannel      string
	StreamKeepAlive          time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SOCRATES")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Socrates Echo API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("session.scratch_ttl", "720h")
	v.SetDefault("auth.latency", "1500ms")
	v.SetDefault("auth.rate_limit", 10)
	v.SetDefault("notifications.max_retained", 100)
	v.SetDefault("notifications.preview_limit", 5)
	v.SetDefault("notifications.channel", "socrates")
	v.SetDefault("notifications.keepalive", "30s")

	durations := map[string]*time.Duration{}
	cfg := Config{
		AppName:                  v.GetString("app.name"),
		AppEnv:                   v.GetString("app.env"),
		AppPort:                  v.GetString("app.port"),
		RedisURL:                 v.GetString("redis.url"),
		NATSURL:                  v.GetString("nats.url"),
		JWTSecret:                v.GetString("jwt.secret"),
		LoginRateLimit:           v.GetInt("auth.rate_limit"),
		MaxRetainedNotifications: v.GetInt("notifications.max_retained"),
		NotificationPreviewLimit: v.GetInt("notifications.preview_limit"),
		NotificationChannel:      v.GetString("notifications.channel"),
	}
	durations["jwt.ttl"] = &cfg.TokenTTL
	durations["session.idle_ttl"] = &cfg.SessionIdleTTL
	durations["session.scratch_ttl"] = &cfg.ScratchTTL
	durations["auth.latency"] = &cfg.LoginLatency
	durations["notifications.keepalive"] = &cfg.StreamKeepAlive

	for key, target := range durations {
		parsed, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		*target = parsed
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MaxRetainedNotifications <= 0 {
		cfg.MaxRetainedNotifications = 100
	}

	if cfg.NotificationPreviewLimit <= 0 {
		cfg.NotificationPreviewLimit = 5
	}

	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = 10
	}

	return cfg, nil
}
