package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Mapbox   MapboxConfig
	LLM      LLMConfig
	Media    MediaConfig
	Session  SessionConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	NarrationCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// AuthConfig - подпись токенов анонимных сессий
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

// StorageConfig - объектное хранилище для фотографий
type StorageConfig struct {
	BaseURL        string
	Bucket         string
	ServiceKey     string
	RequestTimeout int // seconds
}

type MapboxConfig struct {
	AccessToken    string
	BaseURL        string
	StyleURL       string
	WalkingProfile string
	Language       string
	RequestTimeout int // seconds
}

// LLMConfig - провайдер генерации текста для нарраций
type LLMConfig struct {
	Endpoint       string
	APIKey         string
	Model          string
	MaxTokens      int
	RequestTimeout int // seconds
}

type MediaConfig struct {
	MaxDimension int
	JPEGQuality  int
	MaxUploadMB  int
}

type SessionConfig struct {
	IdleTTL          time.Duration
	EvictionSchedule string
	NotificationTTL  time.Duration
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        viper.GetString("API_HOST"),
			Port:        viper.GetInt("API_PORT"),
			Env:         viper.GetString("API_ENV"),
			CORSOrigins: viper.GetString("API_CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			NarrationCacheTTL: time.Duration(viper.GetInt("NARRATION_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("AUTH_JWT_SECRET"),
			Issuer:    viper.GetString("AUTH_ISSUER"),
			TokenTTL:  time.Duration(viper.GetInt("AUTH_TOKEN_TTL")) * time.Second,
		},
		Storage: StorageConfig{
			BaseURL:        viper.GetString("STORAGE_BASE_URL"),
			Bucket:         viper.GetString("STORAGE_BUCKET"),
			ServiceKey:     viper.GetString("STORAGE_SERVICE_KEY"),
			RequestTimeout: viper.GetInt("STORAGE_REQUEST_TIMEOUT"),
		},
		Mapbox: MapboxConfig{
			AccessToken:    viper.GetString("MAPBOX_ACCESS_TOKEN"),
			BaseURL:        viper.GetString("MAPBOX_BASE_URL"),
			StyleURL:       viper.GetString("MAPBOX_STYLE_URL"),
			WalkingProfile: viper.GetString("MAPBOX_WALKING_PROFILE"),
			Language:       viper.GetString("MAPBOX_LANGUAGE"),
			RequestTimeout: viper.GetInt("MAPBOX_REQUEST_TIMEOUT"),
		},
		LLM: LLMConfig{
			Endpoint:       viper.GetString("LLM_ENDPOINT"),
			APIKey:         viper.GetString("LLM_API_KEY"),
			Model:          viper.GetString("LLM_MODEL"),
			MaxTokens:      viper.GetInt("LLM_MAX_TOKENS"),
			RequestTimeout: viper.GetInt("LLM_REQUEST_TIMEOUT"),
		},
		Media: MediaConfig{
			MaxDimension: viper.GetInt("MEDIA_MAX_DIMENSION"),
			JPEGQuality:  viper.GetInt("MEDIA_JPEG_QUALITY"),
			MaxUploadMB:  viper.GetInt("MEDIA_MAX_UPLOAD_MB"),
		},
		Session: SessionConfig{
			IdleTTL:          time.Duration(viper.GetInt("SESSION_IDLE_TTL")) * time.Second,
			EvictionSchedule: viper.GetString("SESSION_EVICTION_SCHEDULE"),
			NotificationTTL:  time.Duration(viper.GetInt("NOTIFICATION_TTL")) * time.Second,
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        viper.GetInt("WORKER_MAX_RETRIES"),
		},
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults - значения по умолчанию для незаданных параметров
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.CORSOrigins == "" {
		cfg.Server.CORSOrigins = "http://localhost:3000,http://localhost:5173"
	}
	if cfg.Cache.NarrationCacheTTL == 0 {
		cfg.Cache.NarrationCacheTTL = 24 * time.Hour
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "milan-history-map"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 30 * 24 * time.Hour
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "photos"
	}
	if cfg.Storage.RequestTimeout == 0 {
		cfg.Storage.RequestTimeout = 30
	}
	if cfg.Mapbox.BaseURL == "" {
		cfg.Mapbox.BaseURL = "https://api.mapbox.com"
	}
	if cfg.Mapbox.StyleURL == "" {
		cfg.Mapbox.StyleURL = "mapbox://styles/mapbox/streets-v12"
	}
	if cfg.Mapbox.WalkingProfile == "" {
		cfg.Mapbox.WalkingProfile = "mapbox/walking"
	}
	if cfg.Mapbox.Language == "" {
		cfg.Mapbox.Language = "it"
	}
	if cfg.Mapbox.RequestTimeout == 0 {
		cfg.Mapbox.RequestTimeout = 10
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 800
	}
	if cfg.LLM.RequestTimeout == 0 {
		cfg.LLM.RequestTimeout = 60
	}
	if cfg.Media.MaxDimension == 0 {
		cfg.Media.MaxDimension = 1920
	}
	if cfg.Media.JPEGQuality == 0 {
		cfg.Media.JPEGQuality = 82
	}
	if cfg.Media.MaxUploadMB == 0 {
		cfg.Media.MaxUploadMB = 20
	}
	if cfg.Session.IdleTTL == 0 {
		cfg.Session.IdleTTL = 2 * time.Hour
	}
	if cfg.Session.EvictionSchedule == "" {
		cfg.Session.EvictionSchedule = "@every 10m"
	}
	if cfg.Session.NotificationTTL == 0 {
		cfg.Session.NotificationTTL = 5 * time.Second
	}
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "narration-invalidation-workers"
	}
	if cfg.Worker.StreamReadTimeout == 0 {
		cfg.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
}

// ParseList splits a comma separated setting, dropping blanks.
func ParseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
