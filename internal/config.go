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
	Server     ServerConfig     `mapstructure:"http_server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Security   SecurityConfig   `mapstructure:"security" validate:"required"`
	Gatekeeper GatekeeperConfig `mapstructure:"gatekeeper"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ServerConfig struct {
	Env               string        `mapstructure:"env"`
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RateLimitPerMin   int           `mapstructure:"rate_limit_per_minute"`
	LoginLimitPerMin  int           `mapstructure:"login_limit_per_minute"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration" validate:"required"`
	BCryptCost          int           `mapstructure:"bcrypt_cost" validate:"required,min=10,max=15"`
	CookieName          string        `mapstructure:"cookie_name"`
	CookieSecure        bool          `mapstructure:"cookie_secure"`
}

// GatekeeperConfig lists the path prefixes the edge gatekeeper classifies requests by.
type GatekeeperConfig struct {
	PublicPrefixes  []string `mapstructure:"public_prefixes"`
	PublicPages     []string `mapstructure:"public_pages"`
	BypassPrefixes  []string `mapstructure:"bypass_prefixes"`
	DashboardPrefix string   `mapstructure:"dashboard_prefix"`
	APIPrefix       string   `mapstructure:"api_prefix"`
	LoginPath       string   `mapstructure:"login_path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

const DefaultCookieName = "auth-token"

// DefaultGatekeeperConfig returns the route classification the application ships with.
func DefaultGatekeeperConfig() GatekeeperConfig {
	return GatekeeperConfig{
		PublicPrefixes: []string{
			"/static/",
			"/favicon.ico",
			"/robots.txt",
			"/api/auth/login",
			"/api/auth/register",
			"/api/auth/logout",
			"/api/health",
			"/api/ping",
			"/openapi.yml",
			"/swagger/",
		},
		PublicPages:     []string{"/", "/login", "/register"},
		BypassPrefixes:  []string{"/api/voice-analysis/"},
		DashboardPrefix: "/dashboard",
		APIPrefix:       "/api/",
		LoginPath:       "/login",
	}
}

// ----------------- DEFAULTS -----------------

// ApplyDefaults fills zero values left by a partial config file.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = 30 * time.Second
	}
	if c.Server.RateLimitPerMin <= 0 {
		c.Server.RateLimitPerMin = 300
	}
	if c.Server.LoginLimitPerMin <= 0 {
		c.Server.LoginLimitPerMin = 10
	}
	if c.Security.CookieName == "" {
		c.Security.CookieName = DefaultCookieName
	}
	if c.Security.AccessTokenDuration <= 0 {
		c.Security.AccessTokenDuration = 24 * time.Hour
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 12
	}

	def := DefaultGatekeeperConfig()
	if len(c.Gatekeeper.PublicPrefixes) == 0 {
		c.Gatekeeper.PublicPrefixes = def.PublicPrefixes
	}
	if len(c.Gatekeeper.PublicPages) == 0 {
		c.Gatekeeper.PublicPages = def.PublicPages
	}
	if len(c.Gatekeeper.BypassPrefixes) == 0 {
		c.Gatekeeper.BypassPrefixes = def.BypassPrefixes
	}
	if c.Gatekeeper.DashboardPrefix == "" {
		c.Gatekeeper.DashboardPrefix = def.DashboardPrefix
	}
	if c.Gatekeeper.APIPrefix == "" {
		c.Gatekeeper.APIPrefix = def.APIPrefix
	}
	if c.Gatekeeper.LoginPath == "" {
		c.Gatekeeper.LoginPath = def.LoginPath
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// ----------------- ENV -----------------

// LoadConfigFromEnv builds the configuration for container deployments.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Env:               getEnv("APP_ENV", "production"),
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", ""),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout:    getEnvAsDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second),
			RateLimitPerMin:   getEnvAsInt("RATE_LIMIT_PER_MINUTE", 300),
			LoginLimitPerMin:  getEnvAsInt("LOGIN_LIMIT_PER_MINUTE", 10),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Security: SecurityConfig{
			JWTSecret:           getEnv("JWT_SECRET", ""),
			AccessTokenDuration: getEnvAsDuration("ACCESS_TOKEN_DURATION", 24*time.Hour),
			BCryptCost:          getEnvAsInt("BCRYPT_COST", 12),
			CookieName:          getEnv("COOKIE_NAME", DefaultCookieName),
			CookieSecure:        getEnv("COOKIE_SECURE", "true") == "true",
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
	cfg.ApplyDefaults()
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

	if err := c.Gatekeeper.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("gatekeeper config: %v", err))
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
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt secret must be at least 32 characters")
	}
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 10 and 15")
	}
	return nil
}

func (c *GatekeeperConfig) Validate() error {
	if c.APIPrefix == "" || !strings.HasPrefix(c.APIPrefix, "/") {
		return errors.New("api_prefix must start with /")
	}
	if c.DashboardPrefix == "" || !strings.HasPrefix(c.DashboardPrefix, "/") {
		return errors.New("dashboard_prefix must start with /")
	}
	if c.LoginPath == "" {
		return errors.New("login_path is required")
	}
	return nil
}
