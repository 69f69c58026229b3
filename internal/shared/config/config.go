package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	Locale   string

	// Persistence
	StorageDriver string
	DataDir       string
	DatabaseURL   string
	SQLitePath    string

	S3Bucket string
	S3Prefix string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoDBEndpoint   string
	DynamoDBTable      string

	// Assistant
	LLMProvider string

	// Backups
	BackupSchedule string
	BackupDir      string

	SearchDebounce time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:               os.Getenv("PORT"),
		Env:                os.Getenv("ENV"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		Locale:             os.Getenv("APP_LOCALE"),
		StorageDriver:      os.Getenv("STORAGE_DRIVER"),
		DataDir:            os.Getenv("DATA_DIR"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SQLitePath:         os.Getenv("SQLITE_PATH"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		S3Prefix:           os.Getenv("S3_PREFIX"),
		AWSRegion:          os.Getenv("AWS_REGION"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		DynamoDBEndpoint:   os.Getenv("DYNAMODB_ENDPOINT"),
		DynamoDBTable:      os.Getenv("DYNAMODB_TABLE"),
		LLMProvider:        os.Getenv("LLM_PROVIDER"),
		BackupSchedule:     os.Getenv("BACKUP_SCHEDULE"),
		BackupDir:          os.Getenv("BACKUP_DIR"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Locale == "" {
		cfg.Locale = "en-US"
	}
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = "file"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, "invoicer.db")
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = "us-east-1"
	}
	if cfg.DynamoDBTable == "" {
		cfg.DynamoDBTable = "invoicer"
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "gemini"
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = filepath.Join(cfg.DataDir, "backups")
	}

	debounceMs := cast.ToInt(os.Getenv("SEARCH_DEBOUNCE_MS"))
	if debounceMs <= 0 {
		debounceMs = 300
	}
	cfg.SearchDebounce = time.Duration(debounceMs) * time.Millisecond

	return cfg
}

// defaultDataDir mirrors the desktop app's per-user data location
func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(dir, "invoicer")
}
