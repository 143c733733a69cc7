package config

import (
	"fmt"
	"strings"
	"time"

	"techdesk_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port           string
	AllowedOrigins []string
	DB             DBConfig
	JWT            JWTConfig
	Mirror         MirrorConfig
	SMTP           SMTPConfig
	LogLevel       string
	LogFormat      string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxOpen  int
	MaxIdle  int
	// AutoMigrate applies pending migrations before the pool is created.
	AutoMigrate bool
}

// DSN returns the lib/pq keyword/value connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// URL returns the postgres:// form used by the migration tool.
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type MirrorConfig struct {
	Dir             string
	RebuildOnStart  bool
	RebuildInterval time.Duration
}

type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	RatePerSec float64
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if raw := utils.Getenv("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		origins = nil
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &Config{
		Port:           utils.Getenv("PORT", "5000"),
		AllowedOrigins: origins,
		DB: DBConfig{
			Host:        utils.Getenv("DB_HOST", "localhost"),
			Port:        utils.Getenv("DB_PORT", "5432"),
			User:        utils.Getenv("DB_USER", "techdesk"),
			Password:    utils.Getenv("DB_PASSWORD", "techdesk"),
			Name:        utils.Getenv("DB_NAME", "techdesk"),
			SSLMode:     utils.Getenv("DB_SSLMODE", "disable"),
			MaxOpen:     utils.GetenvInt("DB_MAX_OPEN", 5),
			MaxIdle:     utils.GetenvInt("DB_MAX_IDLE", 2),
			AutoMigrate: utils.GetenvBool("DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret: utils.Getenv("JWT_SECRET", ""),
			TTL:    utils.GetenvDuration("JWT_TTL", utils.DefaultTokenTTL),
		},
		Mirror: MirrorConfig{
			Dir:             utils.Getenv("MIRROR_DIR", "db_mirror_txt"),
			RebuildOnStart:  utils.GetenvBool("MIRROR_REBUILD_ON_START", false),
			RebuildInterval: utils.GetenvDuration("MIRROR_REBUILD_INTERVAL", 0),
		},
		SMTP: SMTPConfig{
			Host:       utils.Getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:       utils.GetenvInt("SMTP_PORT", 587),
			User:       utils.Getenv("SMTP_USER", ""),
			Password:   utils.Getenv("SMTP_PASSWORD", ""),
			From:       utils.Getenv("SMTP_FROM", utils.Getenv("SMTP_USER", "")),
			RatePerSec: utils.GetenvFloat("SMTP_RATE_PER_SEC", 2),
		},
		LogLevel:  utils.Getenv("LOG_LEVEL", "info"),
		LogFormat: utils.Getenv("LOG_FORMAT", "console"),
	}
}
