package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xxxsen/common/logger"
)

const (
	EnvDatabaseDSN = "NEXTSTEP_DATABASE_DSN"
	EnvJWTSecret   = "NEXTSTEP_JWT_SECRET"
	EnvSecretKey   = "NEXTSTEP_SECRET_KEY"
)

type Config struct {
	Port          int              `json:"port"`
	JWTSecret     string           `json:"jwt_secret"`
	JWTTTLHours   int              `json:"jwt_ttl_hours"`
	SecretKey     string           `json:"secret_key"`
	UploadLimitMB int64            `json:"upload_limit_mb"`
	CORSOrigins   []string         `json:"cors_origins"`
	LogConfig     logger.LogConfig `json:"log_config"`
	Database      DatabaseConfig   `json:"database"`
	FileStore     FileStoreConfig  `json:"file_store"`
	Embedding     EmbeddingConfig  `json:"embedding"`
	AI            AIConfig         `json:"ai"`
	Queue         QueueConfig      `json:"queue"`
	Schedule      ScheduleConfig   `json:"schedule"`
	Mail          MailConfig       `json:"mail"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// FileStoreConfig selects a blob backend; Data is passed to its factory.
type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type EmbeddingConfig struct {
	Provider        string      `json:"provider"`
	Data            interface{} `json:"data"`
	PrimaryModel    string      `json:"primary_model"`
	FallbackModel   string      `json:"fallback_model"`
	Dimension       int         `json:"dimension"`
	CacheSize       int         `json:"cache_size"`
	CacheTTLSeconds int64       `json:"cache_ttl_seconds"`
	DBCache         bool        `json:"db_cache"`
}

// AIConfig configures the generation gateway. The Default* fields are used
// for users without stored settings; an empty DefaultAPIKey disables that.
type AIConfig struct {
	TimeoutSeconds  int                    `json:"timeout_seconds"`
	Providers       map[string]interface{} `json:"providers"`
	DefaultProvider string                 `json:"default_provider"`
	DefaultModel    string                 `json:"default_model"`
	DefaultAPIKey   string                 `json:"default_api_key"`
}

type QueueConfig struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	QueueName string `json:"queue_name"`
	Workers   int    `json:"workers"`
	Buffer    int    `json:"buffer"`
}

type ScheduleConfig struct {
	BackfillSpec     string `json:"backfill_spec"`
	BackfillBatch    int    `json:"backfill_batch"`
	CacheCleanupSpec string `json:"cache_cleanup_spec"`
	CacheMaxAgeDays  int    `json:"cache_max_age_days"`
}

type MailConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.Port != 0 && strings.TrimSpace(m.From) != ""
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv reads an optional .env file, then lets the process environment
// override the secret-bearing fields.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()
	if v := os.Getenv(EnvDatabaseDSN); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv(EnvSecretKey); v != "" {
		cfg.SecretKey = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.UploadLimitMB <= 0 {
		cfg.UploadLimitMB = 5
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "huggingface"
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 1024
	}
	if cfg.Embedding.CacheTTLSeconds == 0 {
		cfg.Embedding.CacheTTLSeconds = 3600
	}
	if cfg.AI.TimeoutSeconds <= 0 {
		cfg.AI.TimeoutSeconds = 30
	}
	if cfg.Queue.Type == "" {
		cfg.Queue.Type = "memory"
	}
	if cfg.Queue.Workers <= 0 {
		cfg.Queue.Workers = 2
	}
	if cfg.Queue.Buffer <= 0 {
		cfg.Queue.Buffer = 64
	}
	if cfg.Schedule.BackfillBatch <= 0 {
		cfg.Schedule.BackfillBatch = 50
	}
	if cfg.Schedule.CacheMaxAgeDays <= 0 {
		cfg.Schedule.CacheMaxAgeDays = 30
	}
}

func (cfg *Config) Validate() error {
	if cfg.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if cfg.SecretKey == "" {
		return fmt.Errorf("secret_key is required")
	}
	if cfg.Database.DSN == "" && (cfg.Database.Host == "" || cfg.Database.DBName == "") {
		return fmt.Errorf("database.dsn or database.host/dbname is required")
	}
	switch cfg.FileStore.Type {
	case "local", "s3":
	default:
		return fmt.Errorf("file_store.type must be local or s3")
	}
	switch cfg.Queue.Type {
	case "memory":
	case "amqp":
		if cfg.Queue.URL == "" {
			return fmt.Errorf("queue.url is required for amqp queue")
		}
	default:
		return fmt.Errorf("queue.type must be memory or amqp")
	}
	return nil
}
