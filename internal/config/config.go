package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Listing      ListingConfig
	Logging      LoggingConfig
	GeminiAPIKey string
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	AutoSchema bool
}

// RedisConfig is optional; an empty Host disables token revocation.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiryMin int
}

type StorageConfig struct {
	Type      string
	Path      string
	PublicURL string
	S3Bucket  string
	S3Region  string
}

// ListingConfig holds the default page sizes of the listing endpoints.
type ListingConfig struct {
	ProfilesDefaultLimit int
	ProfilesMaxLimit     int
	FavouritesTopDefault int
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

	config := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetInt("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			DBName:     v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSL_MODE"),
			AutoSchema: v.GetBool("DB_AUTO_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret:    v.GetString("JWT_ACCESS_SECRET"),
			AccessExpiryMin: v.GetInt("JWT_ACCESS_EXPIRY_MIN"),
		},
		Storage: StorageConfig{
			Type:      strings.ToLower(v.GetString("STORAGE_TYPE")),
			Path:      v.GetString("STORAGE_PATH"),
			PublicURL: v.GetString("STORAGE_PUBLIC_URL"),
			S3Bucket:  v.GetString("S3_BUCKET"),
			S3Region:  v.GetString("S3_REGION"),
		},
		Listing: ListingConfig{
			ProfilesDefaultLimit: v.GetInt("PROFILES_DEFAULT_LIMIT"),
			ProfilesMaxLimit:     v.GetInt("PROFILES_MAX_LIMIT"),
			FavouritesTopDefault: v.GetInt("FAVOURITES_TOP_DEFAULT"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
	}

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
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_AUTO_SCHEMA", false)
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("JWT_ACCESS_EXPIRY_MIN", 120)
	v.SetDefault("STORAGE_TYPE", "local")
	v.SetDefault("STORAGE_PATH", "uploads")
	v.SetDefault("STORAGE_PUBLIC_URL", "/uploads")
	v.SetDefault("PROFILES_DEFAULT_LIMIT", 4)
	v.SetDefault("PROFILES_MAX_LIMIT", 50)
	v.SetDefault("FAVOURITES_TOP_DEFAULT", 20)
	v.SetDefault("LOG_LEVEL", "info")
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}
	if c.JWT.AccessExpiryMin <= 0 {
		return fmt.Errorf("JWT access expiry must be positive")
	}
	switch c.Storage.Type {
	case "local":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage path is required for local storage")
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.Listing.ProfilesDefaultLimit <= 0 || c.Listing.ProfilesMaxLimit < c.Listing.ProfilesDefaultLimit {
		return fmt.Errorf("profile listing limits are inconsistent")
	}
	if c.Listing.FavouritesTopDefault <= 0 {
		return fmt.Errorf("favourites top default must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Enabled reports whether Redis was configured
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
