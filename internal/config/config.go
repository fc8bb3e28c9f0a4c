package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application, read from
// environment variables. Redis, RabbitMQ, SMTP and Places are optional:
// leaving their settings empty disables the feature.
type Config struct {
	Port      string `mapstructure:"PORT"`
	GinMode   string `mapstructure:"GIN_MODE"`
	ClientURL string `mapstructure:"CLIENT_URL"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	FirebaseWebAPIKey                string `mapstructure:"FIREBASE_WEB_API_KEY"`
	StorageBucket                    string `mapstructure:"STORAGE_BUCKET"`

	RequestTimeoutSeconds int `mapstructure:"REQUEST_TIMEOUT_SECONDS"`

	PlacesAPIKey       string `mapstructure:"PLACES_API_KEY"`
	PlacesRadiusMeters int    `mapstructure:"PLACES_RADIUS_METERS"`

	RedisAddress        string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword       string `mapstructure:"REDIS_PASSWORD"`
	RedisDB             int    `mapstructure:"REDIS_DB"`
	FeedCacheTTLSeconds int    `mapstructure:"FEED_CACHE_TTL_SECONDS"`

	RabbitMQURL     string `mapstructure:"RABBITMQ_URL"`
	PostEventsQueue string `mapstructure:"POST_EVENTS_QUEUE"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	viper.SetDefault("PLACES_RADIUS_METERS", 1500)
	viper.SetDefault("FEED_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("POST_EVENTS_QUEUE", "post.events")

	for _, key := range []string{
		"PORT", "GIN_MODE", "CLIENT_URL",
		"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
		"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "FIREBASE_WEB_API_KEY",
		"STORAGE_BUCKET", "REQUEST_TIMEOUT_SECONDS",
		"PLACES_API_KEY", "PLACES_RADIUS_METERS",
		"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB", "FEED_CACHE_TTL_SECONDS",
		"RABBITMQ_URL", "POST_EVENTS_QUEUE",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "MAIL_SENDER",
	} {
		viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.GoogleApplicationCredentials == "" && cfg.FirebaseServiceAccountJSONBase64 == "" {
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}
	if cfg.FirebaseWebAPIKey == "" {
		return nil, errors.New("FIREBASE_WEB_API_KEY is required")
	}
	if cfg.StorageBucket == "" {
		return nil, errors.New("STORAGE_BUCKET is required")
	}

	return &cfg, nil
}

// RequestTimeout is the per-remote-call deadline used by the pipelines.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// FeedCacheTTL is the expiry of the cached full feed.
func (c *Config) FeedCacheTTL() time.Duration {
	if c.FeedCacheTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.FeedCacheTTLSeconds) * time.Second
}
