package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig
	DB         DatabaseConfig
	Redis      RedisConfig
	Session    SessionConfig
	Upload     UploadConfig
	Classifier ClassifierConfig
	RateLimit  RateLimitConfig
	Logger     LoggerConfig
}

// AppConfig holds configuration for the HTTP server
type AppConfig struct {
	Env                    string `mapstructure:"APP_ENV"`
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
	SwaggerFile            string `mapstructure:"SWAGGER_FILE"`
}

// DatabaseConfig holds configuration for the relational store
type DatabaseConfig struct {
	Driver          string `mapstructure:"DB_DRIVER"`
	Path            string `mapstructure:"DB_PATH"` // sqlite file
	Host            string `mapstructure:"DB_HOST"`
	Port            string `mapstructure:"DB_PORT"`
	User            string `mapstructure:"DB_USER"`
	Password        string `mapstructure:"DB_PASSWORD"`
	Name            string `mapstructure:"DB_NAME"`
	SSLMode         string `mapstructure:"DB_SSLMODE"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `mapstructure:"DB_CONN_MAX_LIFETIME_SECONDS"`
	ConnMaxIdleTime int    `mapstructure:"DB_CONN_MAX_IDLE_TIME_SECONDS"`
}

// RedisConfig holds configuration for the Redis connection
type RedisConfig struct {
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
	CacheTTL    int    `mapstructure:"REDIS_CACHE_TTL_SECONDS"`
}

// SessionConfig holds configuration for login sessions
type SessionConfig struct {
	CookieName string `mapstructure:"SESSION_COOKIE_NAME"`
	TTLSeconds int    `mapstructure:"SESSION_TTL_SECONDS"`
	Secure     bool   `mapstructure:"SESSION_SECURE"`
}

// UploadConfig holds configuration for stored uploads
type UploadConfig struct {
	Dir         string `mapstructure:"UPLOAD_DIR"`
	MaxMemoryMB int64  `mapstructure:"UPLOAD_MAX_MEMORY_MB"`
}

// ClassifierConfig holds configuration for the hosted vision model
type ClassifierConfig struct {
	CredentialsFile string  `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	ProjectID       string  `mapstructure:"CLASSIFIER_PROJECT_ID"`
	Location        string  `mapstructure:"CLASSIFIER_LOCATION"`
	Model           string  `mapstructure:"CLASSIFIER_MODEL"`
	DefaultScore    float64 `mapstructure:"CLASSIFIER_DEFAULT_SCORE"`
	TimeoutSeconds  int     `mapstructure:"CLASSIFIER_TIMEOUT_SECONDS"`
}

// RateLimitConfig holds configuration for the HTTP rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_RPS"`
	BurstCapacity     int     `mapstructure:"RATE_LIMIT_BURST"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads app.env from path, overlaid by environment variables.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config

	cfg.App.Env = v.GetString("APP_ENV")
	cfg.App.HTTPPort = v.GetString("HTTP_PORT")
	cfg.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")
	cfg.App.SwaggerFile = v.GetString("SWAGGER_FILE")

	cfg.DB.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	cfg.DB.Path = v.GetString("DB_PATH")
	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetString("DB_PORT")
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.Name = v.GetString("DB_NAME")
	cfg.DB.SSLMode = v.GetString("DB_SSLMODE")
	cfg.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	cfg.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	cfg.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME_SECONDS")
	cfg.DB.ConnMaxIdleTime = v.GetInt("DB_CONN_MAX_IDLE_TIME_SECONDS")

	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetString("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")
	cfg.Redis.CacheTTL = v.GetInt("REDIS_CACHE_TTL_SECONDS")

	cfg.Session.CookieName = v.GetString("SESSION_COOKIE_NAME")
	cfg.Session.TTLSeconds = v.GetInt("SESSION_TTL_SECONDS")
	cfg.Session.Secure = v.GetBool("SESSION_SECURE")

	cfg.Upload.Dir = v.GetString("UPLOAD_DIR")
	cfg.Upload.MaxMemoryMB = v.GetInt64("UPLOAD_MAX_MEMORY_MB")

	cfg.Classifier.CredentialsFile = v.GetString("GOOGLE_APPLICATION_CREDENTIALS")
	cfg.Classifier.ProjectID = v.GetString("CLASSIFIER_PROJECT_ID")
	cfg.Classifier.Location = v.GetString("CLASSIFIER_LOCATION")
	cfg.Classifier.Model = v.GetString("CLASSIFIER_MODEL")
	cfg.Classifier.DefaultScore = v.GetFloat64("CLASSIFIER_DEFAULT_SCORE")
	cfg.Classifier.TimeoutSeconds = v.GetInt("CLASSIFIER_TIMEOUT_SECONDS")

	cfg.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	cfg.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_RPS")
	cfg.RateLimit.BurstCapacity = v.GetInt("RATE_LIMIT_BURST")

	cfg.Logger.Level = v.GetString("LOG_LEVEL")
	cfg.Logger.Format = v.GetString("LOG_FORMAT")
	cfg.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	cfg.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	cfg.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	cfg.Logger.ServiceName = v.GetString("SERVICE_NAME")
	cfg.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 30)
	v.SetDefault("SWAGGER_FILE", "./api/swagger/classifier.swagger.json")

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "database.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "image_classifier")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SECONDS", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME_SECONDS", 60)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)
	v.SetDefault("REDIS_CACHE_TTL_SECONDS", 300)

	v.SetDefault("SESSION_COOKIE_NAME", "session")
	v.SetDefault("SESSION_TTL_SECONDS", 7*24*3600)
	v.SetDefault("SESSION_SECURE", false)

	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_MAX_MEMORY_MB", 32)

	v.SetDefault("GOOGLE_APPLICATION_CREDENTIALS", "server_auth.json")
	v.SetDefault("CLASSIFIER_PROJECT_ID", "")
	v.SetDefault("CLASSIFIER_LOCATION", "us-central1")
	v.SetDefault("CLASSIFIER_MODEL", "gemini-2.0-flash")
	v.SetDefault("CLASSIFIER_DEFAULT_SCORE", 10)
	v.SetDefault("CLASSIFIER_TIMEOUT_SECONDS", 60)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	// Logger defaults depend on the environment
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "image-classifier-service")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}

// Validate checks the configuration for values the service cannot start with.
// The classifier credentials file is deliberately not checked here: a missing
// file surfaces as a classification failure at request time.
func (c *Config) Validate() error {
	var err error

	if c.App.HTTPPort == "" {
		err = multierr.Append(err, errors.New("HTTP_PORT is required"))
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		err = multierr.Append(err, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be positive"))
	}

	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			err = multierr.Append(err, errors.New("DB_PATH is required for sqlite"))
		}
	case DriverPostgres:
		if c.DB.Host == "" || c.DB.Name == "" {
			err = multierr.Append(err, errors.New("DB_HOST and DB_NAME are required for postgres"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}

	if c.Redis.Host == "" || c.Redis.Port == "" {
		err = multierr.Append(err, errors.New("REDIS_HOST and REDIS_PORT are required"))
	}
	if c.Session.CookieName == "" {
		err = multierr.Append(err, errors.New("SESSION_COOKIE_NAME is required"))
	}
	if c.Session.TTLSeconds <= 0 {
		err = multierr.Append(err, errors.New("SESSION_TTL_SECONDS must be positive"))
	}
	if c.Upload.Dir == "" {
		err = multierr.Append(err, errors.New("UPLOAD_DIR is required"))
	}
	if c.Classifier.Model == "" {
		err = multierr.Append(err, errors.New("CLASSIFIER_MODEL is required"))
	}
	if c.Classifier.TimeoutSeconds <= 0 {
		err = multierr.Append(err, errors.New("CLASSIFIER_TIMEOUT_SECONDS must be positive"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstCapacity <= 0) {
		err = multierr.Append(err, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive when rate limiting is enabled"))
	}

	return err
}

// DSN returns the data source name for the configured driver
func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	}
	// foreign keys are off by default in sqlite; cascades need them
	return c.Path + "?_pragma=foreign_keys(1)"
}

// CredentialsPresent reports whether the classifier credentials file exists.
func (c *ClassifierConfig) CredentialsPresent() bool {
	if c.CredentialsFile == "" {
		return false
	}
	_, err := os.Stat(c.CredentialsFile)
	return err == nil
}

// Timeout returns the per-call classification timeout.
func (c *ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WriteTimeout returns the HTTP write timeout. An upload response is only
// written after classification, so it must outlast the classifier timeout.
func (c *Config) WriteTimeout() time.Duration {
	return c.Classifier.Timeout() + 10*time.Second
}
