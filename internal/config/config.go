package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	DB          DBConfig          `mapstructure:"db"`
	OIDC        OIDCConfig        `mapstructure:"oidc"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Session     SessionConfig     `mapstructure:"session"`
	Log         LogConfig         `mapstructure:"log"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Translation TranslationConfig `mapstructure:"translation"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Media       MediaConfig       `mapstructure:"media"`
	Analytics   AnalyticsConfig   `mapstructure:"analytics"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port    string    `mapstructure:"port"`
	BaseURL string    `mapstructure:"base_url"`
	TLS     TLSConfig `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// DBConfig holds database-specific configuration.
// Driver is either "mysql" or "sqlite3".
type DBConfig struct {
	Driver         string `mapstructure:"driver"`
	DSN            string `mapstructure:"dsn"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// OIDCConfig holds OIDC client configuration.
type OIDCConfig struct {
	IssuerURL    string `mapstructure:"issuer_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// AuthConfig lists the accounts that receive the admin role at startup.
type AuthConfig struct {
	AdminEmails []string `mapstructure:"admin_emails"`
}

// SessionConfig holds session cookie configuration.
type SessionConfig struct {
	SecretKey string `mapstructure:"secretkey"`
	Lifetime  int    `mapstructure:"lifetime"` // hours
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// CacheConfig holds the SQLite cache configuration.
type CacheConfig struct {
	FilePath string        `mapstructure:"file_path"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// TranslationConfig configures the external machine translation provider.
type TranslationConfig struct {
	APIURL   string        `mapstructure:"api_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Pace     time.Duration `mapstructure:"pace"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// RedisConfig is optional; an empty URL disables the translation cache.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// MediaConfig configures where uploads are written and how they are served.
type MediaConfig struct {
	Dir            string `mapstructure:"dir"`
	PublicPath     string `mapstructure:"public_path"`
	MaxUploadMB    int64  `mapstructure:"max_upload_mb"`
	ThumbnailWidth int    `mapstructure:"thumbnail_width"`
}

// AnalyticsConfig configures the analytics retention job.
type AnalyticsConfig struct {
	RetentionDays int    `mapstructure:"retention_days"`
	Schedule      string `mapstructure:"schedule"`
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("db.driver", "mysql")
	viper.SetDefault("db.dsn", "portfolio:portfolio@tcp(localhost:3306)/portfolio?parseTime=true&multiStatements=true&clientFoundRows=true")
	viper.SetDefault("db.migrations_path", "migrations")
	viper.SetDefault("session.lifetime", 24)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("cache.file_path", "cache.db")
	viper.SetDefault("cache.ttl", 10*time.Minute)
	viper.SetDefault("translation.timeout", 15*time.Second)
	viper.SetDefault("translation.pace", 250*time.Millisecond)
	viper.SetDefault("translation.cache_ttl", 30*24*time.Hour)
	viper.SetDefault("media.dir", "uploads")
	viper.SetDefault("media.public_path", "/uploads")
	viper.SetDefault("media.max_upload_mb", 10)
	viper.SetDefault("media.thumbnail_width", 400)
	viper.SetDefault("analytics.retention_days", 365)
	viper.SetDefault("analytics.schedule", "0 3 * * *")

	// Set up viper to read from config file
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/portfolio-cms/")
	viper.AddConfigPath("$HOME/.portfolio-cms")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
		// Config file not found; proceed with defaults and env vars
	}

	// Set up viper to read from environment variables
	viper.SetEnvPrefix("PORTFOLIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unmarshal the config into the Config struct
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
