package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is loaded once at
// startup and injected into constructors; request handlers never read the
// environment directly.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Admin    AdminConfig
	CORS     CORSConfig
	Upload   UploadConfig
	Paging   PagingConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AdminConfig struct {
	User     string
	Pass     string
	PassHash string // optional bcrypt hash, takes precedence over Pass
}

type CORSConfig struct {
	AllowedOrigins []string
}

type UploadConfig struct {
	MaxResumeBytes int64
}

type PagingConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

const (
	defaultMaxResumeBytes = 10 << 20 // 10 MiB
	defaultPageSize       = 20
	maxPageSize           = 100
)

// Load reads configuration from the environment. A .env file is honored
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "5000"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "apply4me.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Admin: AdminConfig{
			User:     getEnv("ADMIN_USER", ""),
			Pass:     getEnv("ADMIN_PASS", ""),
			PassHash: getEnv("ADMIN_PASS_HASH", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
		Upload: UploadConfig{
			MaxResumeBytes: getEnvAsInt64("MAX_RESUME_BYTES", defaultMaxResumeBytes),
		},
		Paging: PagingConfig{
			DefaultPageSize: getEnvAsInt("DEFAULT_PAGE_SIZE", defaultPageSize),
			MaxPageSize:     getEnvAsInt("MAX_PAGE_SIZE", maxPageSize),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("PORT must be set")
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.Upload.MaxResumeBytes <= 0 {
		return fmt.Errorf("MAX_RESUME_BYTES must be greater than 0")
	}
	if cfg.Paging.DefaultPageSize <= 0 || cfg.Paging.MaxPageSize < cfg.Paging.DefaultPageSize {
		return fmt.Errorf("invalid page size bounds")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode. Error
// responses hide internal details in this mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsPostgres reports whether the database URL points at PostgreSQL.
// Anything else is treated as a SQLite path.
func (c *DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(c.URL, "postgres://") ||
		strings.HasPrefix(c.URL, "postgresql://") ||
		strings.Contains(c.URL, "host=")
}

// SQLitePath strips an optional sqlite:// prefix from the database URL.
func (c *DatabaseConfig) SQLitePath() string {
	path := strings.TrimPrefix(c.URL, "sqlite://")
	return strings.TrimPrefix(path, "sqlite:///")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if value, err := strconv.ParseInt(getEnv(key, ""), 10, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
