package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	ArchiveMemory   = "memory"
	ArchivePostgres = "postgres"
	ArchiveSQLite   = "sqlite"
	ArchiveRedis    = "redis"
)

type Config struct {
	Server   ServerConfig
	Gemini   GeminiConfig
	Pipeline PipelineConfig
	Archive  ArchiveConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Sheets   SheetsConfig
	Admin    AdminConfig
	Stripe   StripeConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type GeminiConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
}

type PipelineConfig struct {
	AnalysisTimeout time.Duration
	ImageTimeout    time.Duration
	ArchiveTimeout  time.Duration
	SessionTTL      time.Duration
}

type ArchiveConfig struct {
	Driver     string
	SQLitePath string
	RedisKey   string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type SheetsConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

type AdminConfig struct {
	Enabled      bool
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

type StripeConfig struct {
	SecretKey     string
	PriceID       string
	WebhookSecret string
	FrontendURL   string
}

type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := FromViper(v)

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("GEMINI_TEXT_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image")
	v.SetDefault("ANALYSIS_TIMEOUT", "90s")
	v.SetDefault("IMAGE_TIMEOUT", "60s")
	v.SetDefault("ARCHIVE_TIMEOUT", "5s")
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("ARCHIVE_DRIVER", ArchiveMemory)
	v.SetDefault("SQLITE_PATH", "submissions.db")
	v.SetDefault("REDIS_ARCHIVE_KEY", "yuelao:submissions")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("SHEETS_TIMEOUT", "10s")
	v.SetDefault("ADMIN_TOKEN_TTL", "12h")
	v.SetDefault("LOG_LEVEL", "info")
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
		Gemini: GeminiConfig{
			APIKey:     v.GetString("GEMINI_API_KEY"),
			TextModel:  v.GetString("GEMINI_TEXT_MODEL"),
			ImageModel: v.GetString("GEMINI_IMAGE_MODEL"),
		},
		Pipeline: PipelineConfig{
			AnalysisTimeout: v.GetDuration("ANALYSIS_TIMEOUT"),
			ImageTimeout:    v.GetDuration("IMAGE_TIMEOUT"),
			ArchiveTimeout:  v.GetDuration("ARCHIVE_TIMEOUT"),
			SessionTTL:      v.GetDuration("SESSION_TTL"),
		},
		Archive: ArchiveConfig{
			Driver:     v.GetString("ARCHIVE_DRIVER"),
			SQLitePath: v.GetString("SQLITE_PATH"),
			RedisKey:   v.GetString("REDIS_ARCHIVE_KEY"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Sheets: SheetsConfig{
			WebhookURL: v.GetString("SHEETS_WEBHOOK_URL"),
			Timeout:    v.GetDuration("SHEETS_TIMEOUT"),
		},
		Admin: AdminConfig{
			Enabled:      v.GetBool("ADMIN_ENABLED"),
			PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
			JWTSecret:    v.GetString("ADMIN_JWT_SECRET"),
			TokenTTL:     v.GetDuration("ADMIN_TOKEN_TTL"),
		},
		Stripe: StripeConfig{
			SecretKey:     v.GetString("STRIPE_SECRET_KEY"),
			PriceID:       v.GetString("STRIPE_PRICE_ID"),
			WebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
			FrontendURL:   v.GetString("FRONTEND_URL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini api key is required")
	}

	switch c.Archive.Driver {
	case ArchiveMemory:
	case ArchiveSQLite:
		if c.Archive.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	case ArchivePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	case ArchiveRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("redis host is required")
		}
		if c.Archive.RedisKey == "" {
			return fmt.Errorf("redis archive key is required")
		}
	default:
		return fmt.Errorf("unknown archive driver %q", c.Archive.Driver)
	}

	if c.Admin.Enabled {
		if c.Admin.PasswordHash == "" {
			return fmt.Errorf("admin password hash is required when admin is enabled")
		}
		if len(c.Admin.JWTSecret) < 32 {
			return fmt.Errorf("admin JWT secret must be at least 32 characters")
		}
	}

	if c.Stripe.SecretKey != "" && c.Stripe.PriceID == "" {
		return fmt.Errorf("stripe price id is required when stripe is configured")
	}

	return nil
}

func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
