package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session backends supported by SESSION_BACKEND.
const (
	SessionBackendFile    = "file"
	SessionBackendMemory  = "memory"
	SessionBackendMongoDB = "mongodb"
	SessionBackendRedis   = "redis"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Session   SessionConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Sheets    SheetsConfig
	Log       LogConfig
}

// ServerConfig holds options for the local console HTTP surface.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// APIConfig describes how to reach the upstream inventory REST API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig selects where the bearer token is persisted.
type SessionConfig struct {
	Backend  string
	FilePath string
	Key      string
}

// MongoDBConfig holds settings for the mongodb session backend.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// RedisConfig holds settings for the redis session backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SchedulerConfig holds cron expressions for background jobs. Empty disables a job.
type SchedulerConfig struct {
	RefreshSchedule string
	ExportSchedule  string
}

// SheetsConfig contains configuration required to export inventory to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Range           string
}

// Enabled reports whether a spreadsheet export target is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getenvWithDefault("INVENTORY_API_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("INVENTORY_API_TIMEOUT: %w", err)
	}

	redisDB, err := strconv.Atoi(getenvWithDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitList(os.Getenv("CONSOLE_ALLOWED_ORIGINS")),
		},
		API: APIConfig{
			BaseURL: getenvWithDefault("INVENTORY_API_BASE_URL", "http://localhost:5000"),
			Timeout: timeout,
		},
		Session: SessionConfig{
			Backend:  strings.ToLower(getenvWithDefault("SESSION_BACKEND", SessionBackendFile)),
			FilePath: getenvWithDefault("SESSION_FILE", ".stockdesk/token"),
			Key:      getenvWithDefault("SESSION_KEY", "stockdesk"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockdesk"),
		},
		Redis: RedisConfig{
			Addr:     getenvWithDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Scheduler: SchedulerConfig{
			RefreshSchedule: os.Getenv("INVENTORY_REFRESH_SCHEDULE"),
			ExportSchedule:  os.Getenv("EXPORT_CRON_SCHEDULE"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_ID"),
			Range:           getenvWithDefault("GOOGLE_SHEET_RANGE", "Inventory!A:F"),
		},
		Log: LogConfig{
			Level:  getenvWithDefault("LOG_LEVEL", "info"),
			Format: getenvWithDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.API.BaseURL == "" {
		return errors.New("INVENTORY_API_BASE_URL must not be empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("INVENTORY_API_BASE_URL %q is not an absolute url", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return errors.New("INVENTORY_API_TIMEOUT must not be negative")
	}

	switch c.Session.Backend {
	case SessionBackendFile:
		if c.Session.FilePath == "" {
			return errors.New("SESSION_FILE must be provided for the file session backend")
		}
	case SessionBackendMemory:
	case SessionBackendMongoDB:
		if c.MongoDB.URI == "" || c.MongoDB.DBName == "" {
			return errors.New("MONGODB_URI and MONGODB_DB_NAME must be provided for the mongodb session backend")
		}
	case SessionBackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR must be provided for the redis session backend")
		}
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q", c.Session.Backend)
	}

	if c.Session.Key == "" {
		return errors.New("SESSION_KEY must not be empty")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_ID must be provided together")
	}
	if c.Sheets.Enabled() && c.Sheets.Range == "" {
		return errors.New("GOOGLE_SHEET_RANGE must not be empty")
	}

	if c.Scheduler.ExportSchedule != "" && !c.Sheets.Enabled() {
		return errors.New("EXPORT_CRON_SCHEDULE requires the Google Sheets export to be configured")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
