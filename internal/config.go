package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env           string              `mapstructure:"env"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Messaging     MessagingConfig     `mapstructure:"messaging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=postgres mysql sqlite"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	SessionSecret string        `mapstructure:"session_secret" validate:"required,min=32"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	CookieName    string        `mapstructure:"cookie_name"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
	BCryptCost    int           `mapstructure:"bcrypt_cost" validate:"required,min=10,max=15"`
}

type RateLimitConfig struct {
	LoginAttempts  int           `mapstructure:"login_attempts"`
	LoginWindow    time.Duration `mapstructure:"login_window"`
	GlobalRequests int           `mapstructure:"global_requests"`
	GlobalWindow   time.Duration `mapstructure:"global_window"`
}

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

type StorageConfig struct {
	Backend       string      `mapstructure:"backend" validate:"oneof=local minio"`
	UploadDir     string      `mapstructure:"upload_dir"`
	MaxUploadSize int64       `mapstructure:"max_upload_size"`
	Minio         MinioConfig `mapstructure:"minio"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type MessagingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ApplyDefaults fills unset values with the deployment defaults.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3002
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Security.SessionTTL == 0 {
		c.Security.SessionTTL = 24 * time.Hour
	}
	if c.Security.CookieName == "" {
		c.Security.CookieName = "session_cookie_name"
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
	if c.RateLimit.LoginAttempts == 0 {
		c.RateLimit.LoginAttempts = 5
	}
	if c.RateLimit.LoginWindow == 0 {
		c.RateLimit.LoginWindow = 15 * time.Minute
	}
	if c.RateLimit.GlobalRequests == 0 {
		c.RateLimit.GlobalRequests = 100
	}
	if c.RateLimit.GlobalWindow == 0 {
		c.RateLimit.GlobalWindow = 15 * time.Minute
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = StorageLocal
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "public/uploads"
	}
	if c.Storage.MaxUploadSize == 0 {
		c.Storage.MaxUploadSize = 10 << 20
	}
	if c.Messaging.Exchange == "" {
		c.Messaging.Exchange = "ticketing.events"
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// LoadConfigFromEnv builds the configuration from plain environment variables (container deployment).
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Env: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 3002),
			BaseURL:           getEnv("BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", ""),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", DriverPostgres),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DB_SOURCE", ""),
		},
		Security: SecurityConfig{
			SessionSecret: getEnv("SESSION_SECRET", ""),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			CookieName:    getEnv("SESSION_COOKIE_NAME", "session_cookie_name"),
			CookieSecure:  getEnv("SESSION_COOKIE_SECURE", "false") == "true",
			BCryptCost:    getEnvAsInt("BCRYPT_COST", 10),
		},
		RateLimit: RateLimitConfig{
			LoginAttempts:  getEnvAsInt("LOGIN_RATE_LIMIT", 5),
			LoginWindow:    getEnvAsDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
			GlobalRequests: getEnvAsInt("GLOBAL_RATE_LIMIT", 100),
			GlobalWindow:   getEnvAsDuration("GLOBAL_RATE_WINDOW", 15*time.Minute),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", StorageLocal),
			UploadDir:     getEnv("UPLOAD_DIR", "public/uploads"),
			MaxUploadSize: int64(getEnvAsInt("MAX_UPLOAD_SIZE", 10<<20)),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "uploads"),
				UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
			},
		},
		Messaging: MessagingConfig{
			Enabled:  getEnv("AMQP_ENABLED", "false") == "true",
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "ticketing.events"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Messaging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("messaging config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.SessionSecret) < 32 {
		return errors.New("session secret must be at least 32 characters")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 31 {
		return fmt.Errorf("bcrypt_cost %d is out of range", c.BCryptCost)
	}
	if c.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	switch c.Backend {
	case StorageLocal:
		if c.UploadDir == "" {
			return errors.New("upload_dir is required for local storage")
		}
	case StorageMinio:
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
			return errors.New("minio endpoint and bucket are required")
		}
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Backend)
	}
	if c.MaxUploadSize <= 0 {
		return errors.New("max_upload_size must be positive")
	}
	return nil
}

func (c *MessagingConfig) Validate() error {
	if c.Enabled && c.URL == "" {
		return errors.New("url is required when messaging is enabled")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Level)
	}
	if c.Format != "json" && c.Format != "text" {
		return fmt.Errorf("invalid log format %q", c.Format)
	}
	return nil
}
