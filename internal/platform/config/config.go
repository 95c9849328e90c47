package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port               string
	IsProduction       bool
	DataFile           string
	CheckpointInterval time.Duration
	RateLimit          string
	CORSOrigins        []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("DATA_FILE", "openbooks.json")
	viper.SetDefault("CHECKPOINT_INTERVAL", "30s")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ORIGINS", "*")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.DataFile = viper.GetString("DATA_FILE")
	if cfg.DataFile == "" {
		cfg.DataFile = "openbooks.json"
		log.Printf("Warning: DATA_FILE environment variable not set. Defaulting to %s\n", cfg.DataFile)
	}

	// Checkpoint interval, e.g. "30s", "5m"
	intervalStr := viper.GetString("CHECKPOINT_INTERVAL")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil || interval <= 0 {
		interval = 30 * time.Second
		if intervalStr != "" {
			log.Printf("Warning: Invalid value for CHECKPOINT_INTERVAL ('%s'). Defaulting to %s.\n", intervalStr, interval)
		}
	}
	cfg.CheckpointInterval = interval

	// Rate limit in ulule/limiter format, e.g. "100-M" for 100 requests per minute
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.CORSOrigins = viper.GetStringSlice("CORS_ORIGINS")
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg, nil
}
