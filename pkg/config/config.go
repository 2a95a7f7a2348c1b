package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Notifications NotificationsConfig
	Storage       StorageConfig
	Roles         RolesConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// NotificationsConfig tunes the pull-based delivery loop.
type NotificationsConfig struct {
	PollInterval    time.Duration
	UnreadCacheTTL  time.Duration
	EmitterRetries  int
	EmitterCapacity int
}

// StorageConfig controls the document/media object-storage collaborator.
type StorageConfig struct {
	BaseDir              string
	PublicBaseURL        string
	DocumentBucket       string
	MediaBucket          string
	MaxDocumentSizeBytes int64
	MaxMediaSizeBytes    int64
	AllowedDocumentMIMEs []string
	AllowedMediaMIMEs    []string
}

// RolesConfig provides the injectable email-pattern defaults used when a
// profile carries no asserted role.
type RolesConfig struct {
	AdminEmails      []string
	ProfessorEmails  []string
	ProfessorDomains []string
	CheckCooldown    time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Notifications = NotificationsConfig{
		PollInterval:    parseDuration(v.GetString("NOTIFICATIONS_POLL_INTERVAL"), 60*time.Second),
		UnreadCacheTTL:  parseDuration(v.GetString("NOTIFICATIONS_UNREAD_CACHE_TTL"), 60*time.Second),
		EmitterRetries:  v.GetInt("NOTIFICATIONS_EMITTER_RETRIES"),
		EmitterCapacity: v.GetInt("NOTIFICATIONS_EMITTER_CAPACITY"),
	}

	maxDocSize := v.GetInt64("STORAGE_MAX_DOCUMENT_SIZE")
	if maxDocSize <= 0 {
		maxDocSize = 50 * 1024 * 1024
	}
	maxMediaSize := v.GetInt64("STORAGE_MAX_MEDIA_SIZE")
	if maxMediaSize <= 0 {
		maxMediaSize = 100 * 1024 * 1024
	}
	cfg.Storage = StorageConfig{
		BaseDir:              v.GetString("STORAGE_BASE_DIR"),
		PublicBaseURL:        v.GetString("STORAGE_PUBLIC_BASE_URL"),
		DocumentBucket:       v.GetString("STORAGE_DOCUMENT_BUCKET"),
		MediaBucket:          v.GetString("STORAGE_MEDIA_BUCKET"),
		MaxDocumentSizeBytes: maxDocSize,
		MaxMediaSizeBytes:    maxMediaSize,
		AllowedDocumentMIMEs: splitAndTrim(v.GetString("STORAGE_ALLOWED_DOCUMENT_MIME_TYPES")),
		AllowedMediaMIMEs:    splitAndTrim(v.GetString("STORAGE_ALLOWED_MEDIA_MIME_TYPES")),
	}

	cfg.Roles = RolesConfig{
		AdminEmails:      splitAndTrim(v.GetString("ROLES_ADMIN_EMAILS")),
		ProfessorEmails:  splitAndTrim(v.GetString("ROLES_PROFESSOR_EMAILS")),
		ProfessorDomains: splitAndTrim(v.GetString("ROLES_PROFESSOR_DOMAINS")),
		CheckCooldown:    parseDuration(v.GetString("ROLES_CHECK_COOLDOWN"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "portal_academico")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("NOTIFICATIONS_POLL_INTERVAL", "60s")
	v.SetDefault("NOTIFICATIONS_UNREAD_CACHE_TTL", "60s")
	v.SetDefault("NOTIFICATIONS_EMITTER_RETRIES", 3)
	v.SetDefault("NOTIFICATIONS_EMITTER_CAPACITY", 64)

	v.SetDefault("STORAGE_BASE_DIR", "./storage")
	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/files")
	v.SetDefault("STORAGE_DOCUMENT_BUCKET", "documentos")
	v.SetDefault("STORAGE_MEDIA_BUCKET", "midias")
	v.SetDefault("STORAGE_MAX_DOCUMENT_SIZE", 50*1024*1024)
	v.SetDefault("STORAGE_MAX_MEDIA_SIZE", 100*1024*1024)
	v.SetDefault("STORAGE_ALLOWED_DOCUMENT_MIME_TYPES", "application/pdf,application/msword,application/vnd.openxmlformats-officedocument.wordprocessingml.document,application/vnd.ms-excel,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/vnd.ms-powerpoint,application/vnd.openxmlformats-officedocument.presentationml.presentation,text/plain")
	v.SetDefault("STORAGE_ALLOWED_MEDIA_MIME_TYPES", "image/jpeg,image/png,image/gif,image/webp,video/mp4,video/webm,audio/mpeg,audio/wav,audio/ogg")

	v.SetDefault("ROLES_ADMIN_EMAILS", "")
	v.SetDefault("ROLES_PROFESSOR_EMAILS", "")
	v.SetDefault("ROLES_PROFESSOR_DOMAINS", "")
	v.SetDefault("ROLES_CHECK_COOLDOWN", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
