package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	MealDB      MealDBConfig     `mapstructure:"mealdb"`
	Governor    GovernorConfig   `mapstructure:"governor"`
	Suggestion  SuggestionConfig `mapstructure:"suggestion"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Storage     StorageConfig    `mapstructure:"storage"`
	UserStore   UserStoreConfig  `mapstructure:"user_store"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Image       ImageConfig      `mapstructure:"image"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// OpenRouterConfig OpenRouter 配置，食譜生成、聊天、推薦、圖片都走這裡
type OpenRouterConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"`
	ChatModel  string        `mapstructure:"chat_model"`
	ImageModel string        `mapstructure:"image_model"`
	MaxTokens  int           `mapstructure:"max_tokens"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// MealDBConfig TheMealDB 公開 API
type MealDBConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GovernorConfig AI 呼叫節流、冷卻、快取與逾時
type GovernorConfig struct {
	PrimaryTimeout   time.Duration `mapstructure:"primary_timeout"`
	FallbackTimeout  time.Duration `mapstructure:"fallback_timeout"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
	ThrottleInterval time.Duration `mapstructure:"throttle_interval"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	CallTimeout      time.Duration `mapstructure:"call_timeout"`
}

// SuggestionConfig 搜尋建議
type SuggestionConfig struct {
	MinLength int           `mapstructure:"min_length"`
	Cooldown  time.Duration `mapstructure:"cooldown"`
}

// DatabaseConfig 使用者食譜、聯絡表單、通知
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite | postgres
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig 食譜明細快取
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// CacheConfig 程序內快取（Redis 未啟用時使用）
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	MaxSize int           `mapstructure:"max_size"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// StorageConfig S3 相容物件儲存
type StorageConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// UserStoreConfig 以使用者 session 查詢的 user-content 服務
type UserStoreConfig struct {
	SessionBaseURL string        `mapstructure:"session_base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ImageConfig 上傳圖片限制
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

// LoadConfig 載入設定：預設值 < .env < 環境變數
func LoadConfig() (*Config, error) {
	// .env 可有可無
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"openrouter.api_key":          "OPENROUTER_API_KEY",
		"openrouter.model":            "OPENROUTER_MODEL",
		"openrouter.max_tokens":       "MODEL_MAX_TOKENS",
		"mealdb.base_url":             "MEALDB_BASE_URL",
		"database.driver":             "DATABASE_DRIVER",
		"database.dsn":                "DATABASE_DSN",
		"redis.enabled":               "REDIS_ENABLED",
		"redis.addr":                  "REDIS_ADDR",
		"redis.password":              "REDIS_PASSWORD",
		"storage.endpoint":            "STORAGE_ENDPOINT",
		"storage.access_key":          "STORAGE_ACCESS_KEY",
		"storage.secret_key":          "STORAGE_SECRET_KEY",
		"storage.bucket":              "STORAGE_BUCKET",
		"user_store.session_base_url": "USER_STORE_URL",
		"rate_limit.enabled":          "RATE_LIMIT_ENABLED",
		"rate_limit.requests":         "RATE_LIMIT_REQUESTS",
		"rate_limit.window":           "RATE_LIMIT_WINDOW",
		"dedup_window":                "DEDUP_WINDOW",
		"log_level":                   "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// OpenRouter 有金鑰即啟用
	if config.OpenRouter.APIKey != "" {
		config.OpenRouter.Enabled = true
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-finder")
	v.SetDefault("log_level", "info")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("server.max_body_bytes", 12<<20)

	v.SetDefault("openrouter.enabled", false)
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "google/gemini-flash-1.5")
	v.SetDefault("openrouter.chat_model", "google/gemini-pro-1.5")
	v.SetDefault("openrouter.image_model", "google/imagen-4.0-fast")
	v.SetDefault("openrouter.max_tokens", 2048)
	v.SetDefault("openrouter.timeout", "60s")

	v.SetDefault("mealdb.base_url", "https://www.themealdb.com/api/json/v1/1")
	v.SetDefault("mealdb.timeout", "10s")

	v.SetDefault("governor.primary_timeout", "4500ms")
	v.SetDefault("governor.fallback_timeout", "12s")
	v.SetDefault("governor.cooldown", "60s")
	v.SetDefault("governor.throttle_interval", "10s")
	v.SetDefault("governor.cache_ttl", "5m")
	v.SetDefault("governor.call_timeout", "60s")

	v.SetDefault("suggestion.min_length", 3)
	v.SetDefault("suggestion.cooldown", "60s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "recipes.db")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "6h")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "1h")

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.bucket", "recipe-images")
	v.SetDefault("storage.use_ssl", true)

	v.SetDefault("user_store.session_base_url", "")
	v.SetDefault("user_store.timeout", "5s")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB

	v.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	if config.MealDB.BaseURL == "" {
		return fmt.Errorf("mealdb base url is required")
	}

	g := config.Governor
	if g.PrimaryTimeout <= 0 || g.FallbackTimeout <= 0 {
		return fmt.Errorf("invalid governor timeouts")
	}
	if g.Cooldown <= 0 || g.CacheTTL <= 0 || g.CallTimeout <= 0 {
		return fmt.Errorf("invalid governor cooldown / cache ttl / call timeout")
	}
	if g.ThrottleInterval < 0 {
		return fmt.Errorf("invalid governor throttle interval")
	}

	switch config.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Cache.Enabled && (config.Cache.MaxSize <= 0 || config.Cache.TTL <= 0) {
		return fmt.Errorf("invalid cache size or ttl")
	}

	if config.Storage.Enabled && (config.Storage.Endpoint == "" || config.Storage.Bucket == "") {
		return fmt.Errorf("storage endpoint and bucket are required when storage is enabled")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}
