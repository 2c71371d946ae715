package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port         string
	BackendURL   string
	BackendToken string
	AccountID    int64
	CampaignID   int64
	PollInterval time.Duration
	NudgeDelay   time.Duration
	HTTPTimeout  time.Duration
	AgentName    string
	ChannelType  string

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	S3Bucket string
	S3Region string

	OpenAIKey string
}

// Load reads the environment, after an optional .env file, and exits when a required
// variable is missing.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	return cfg
}

func FromEnv() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		BackendURL:   getEnv("BACKEND_URL", ""),
		BackendToken: getEnv("BACKEND_TOKEN", ""),
		AccountID:    getEnvInt64("ACCOUNT_ID", 0),
		CampaignID:   getEnvInt64("CAMPAIGN_ID", 0),
		PollInterval: getEnvDuration("POLL_INTERVAL", 15*time.Second),
		NudgeDelay:   getEnvDuration("NUDGE_DELAY", 500*time.Millisecond),
		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		AgentName:    getEnv("AGENT_NAME", "agent"),
		ChannelType:  getEnv("CHANNEL_TYPE", "whatsapp"),

		RedisEnabled:  getEnvBool("REDIS_ENABLED", false),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		S3Bucket: getEnv("S3_BUCKET", ""),
		S3Region: getEnv("S3_REGION", "us-east-1"),

		OpenAIKey: getEnv("OPENAI_API_KEY", ""),
	}
}

func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return errors.New("BACKEND_URL environment variable is required")
	}
	if c.PollInterval <= 0 {
		return errors.New("POLL_INTERVAL must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("15s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
