package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	ServerPort string
	GinMode    string

	JWTSecret string
	JWTExpiry time.Duration

	StorageDir       string
	StoragePublicURL string
	MaxUploadBytes   int64

	CORSAllowedOrigins []string
	LogDevelopment     bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "todo_user")
	v.SetDefault("DB_PASSWORD", "todo_pass")
	v.SetDefault("DB_NAME", "todo_db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "todo.db")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("JWT_SECRET", "supersecretkey")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("STORAGE_DIR", "storage")
	v.SetDefault("STORAGE_PUBLIC_URL", "/storage")
	v.SetDefault("MAX_UPLOAD_MB", 5)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_DEVELOPMENT", true)

	cfg := &Config{
		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),
		SQLitePath: v.GetString("SQLITE_PATH"),

		ServerPort: v.GetString("SERVER_PORT"),
		GinMode:    v.GetString("GIN_MODE"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTExpiry: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,

		StorageDir:       v.GetString("STORAGE_DIR"),
		StoragePublicURL: strings.TrimRight(v.GetString("STORAGE_PUBLIC_URL"), "/"),
		MaxUploadBytes:   v.GetInt64("MAX_UPLOAD_MB") << 20,

		CORSAllowedOrigins: parseOrigins(v.GetString("CORS_ALLOWED_ORIGINS")),
		LogDevelopment:     v.GetBool("LOG_DEVELOPMENT"),
	}

	if cfg.GinMode == "release" && cfg.JWTSecret == "supersecretkey" {
		log.Println("⚠️  JWT_SECRET is the built-in default, set it in production")
	}

	return cfg
}

// PostgresDSN is the key/value DSN used by gorm's postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// MigrationURL is the URL form understood by golang-migrate's pgx/v5 driver.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(c.DBPassword),
		c.DBHost,
		c.DBPort,
		url.PathEscape(c.DBName),
		c.DBSSLMode,
	)
}

func parseOrigins(value string) []string {
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
