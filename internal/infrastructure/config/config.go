package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Generation backends
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderNone       = "none"
)

// Rate limit counter storage
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config application configuration
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	AI          AIConfig         `mapstructure:"ai"`
	Gemini      GeminiConfig     `mapstructure:"gemini"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	Paystack    PaystackConfig   `mapstructure:"paystack"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Static      StaticConfig     `mapstructure:"static"`
	LogLevel    string           `mapstructure:"log_level"`
	LogFile     string           `mapstructure:"log_file"`
	MaxBodySize int64            `mapstructure:"max_body_size"`
}

// AppConfig application settings
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// AIConfig selects the generation backend
type AIConfig struct {
	Provider string `mapstructure:"provider"`
}

// GeminiConfig Gemini settings. Models are tried in order at startup.
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Models      []string      `mapstructure:"models"`
	ProbeModels bool          `mapstructure:"probe_models"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// OpenRouterConfig OpenRouter settings
type OpenRouterConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	BaseURL   string        `mapstructure:"base_url"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// PaystackConfig payment gateway settings
type PaystackConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig per-client request budgets, e.g. "5 per minute"
type RateLimitConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	Storage       string   `mapstructure:"storage"`
	DefaultLimits []string `mapstructure:"default_limits"`
	RecipeLimits  []string `mapstructure:"recipe_limits"`
}

// RedisConfig Redis connection used for rate limit counters
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StaticConfig frontend bundle location; empty disables static serving
type StaticConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoadConfig loads configuration from .env, the environment and defaults
func LoadConfig() (*Config, error) {
	// .env is optional; the real environment wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"ai.provider":               "AI_PROVIDER",
		"gemini.api_key":            "GEMINI_API_KEY",
		"gemini.models":             "GEMINI_MODELS",
		"openrouter.api_key":        "OPENROUTER_API_KEY",
		"openrouter.model":          "OPENROUTER_MODEL",
		"openrouter.max_tokens":     "MODEL_MAX_TOKENS",
		"paystack.secret_key":       "PAYSTACK_SECRET_KEY",
		"paystack.base_url":         "PAYSTACK_BASE_URL",
		"rate_limit.enabled":        "RATE_LIMIT_ENABLED",
		"rate_limit.storage":        "RATE_LIMIT_STORAGE",
		"rate_limit.default_limits": "RATE_LIMIT_DEFAULT",
		"rate_limit.recipe_limits":  "RATE_LIMIT_RECIPES",
		"redis.addr":                "REDIS_ADDR",
		"redis.password":            "REDIS_PASSWORD",
		"static.dir":                "STATIC_DIR",
		"server.port":               "PORT",
		"log_level":                 "LOG_LEVEL",
		"log_file":                  "LOG_FILE",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger is not up yet
	fmt.Println("Loading configuration",
		"ai_provider:", v.GetString("ai.provider"),
		"gemini_api_key:", MaskAPIKey(v.GetString("gemini.api_key")),
		"paystack_secret_key:", MaskAPIKey(v.GetString("paystack.secret_key")),
	)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey shows only the first and last four characters of a key
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func setDefaults(v *viper.Viper) {
	// app
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "secure-recipe")

	// server
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")

	// generation backend
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("gemini.models", []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash"})
	v.SetDefault("gemini.probe_models", true)
	v.SetDefault("gemini.timeout", "60s")
	v.SetDefault("openrouter.model", "qwen/qwen2.5-vl-72b-instruct:free")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.max_tokens", 2048)
	v.SetDefault("openrouter.timeout", "60s")

	// payment gateway
	v.SetDefault("paystack.base_url", "https://api.paystack.co")
	v.SetDefault("paystack.timeout", "30s")

	// rate limiting
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.storage", StorageMemory)
	v.SetDefault("rate_limit.default_limits", []string{"200 per day", "50 per hour"})
	v.SetDefault("rate_limit.recipe_limits", []string{"5 per minute"})
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("static.dir", "../frontend")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("max_body_size", 1<<20) // 1MB
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.AI.Provider {
	case ProviderGemini, ProviderOpenRouter, ProviderNone:
	default:
		return fmt.Errorf("unknown ai provider %q", config.AI.Provider)
	}

	if config.MaxBodySize <= 0 {
		return fmt.Errorf("invalid max body size")
	}

	if config.RateLimit.Enabled {
		switch config.RateLimit.Storage {
		case StorageMemory:
		case StorageRedis:
			if config.Redis.Addr == "" {
				return fmt.Errorf("redis addr is required for redis rate limit storage")
			}
		default:
			return fmt.Errorf("unknown rate limit storage %q", config.RateLimit.Storage)
		}
		for _, raw := range append(append([]string{}, config.RateLimit.DefaultLimits...), config.RateLimit.RecipeLimits...) {
			if _, err := ParseLimit(raw); err != nil {
				return err
			}
		}
	}

	return nil
}

// Limit a request budget per time window
type Limit struct {
	Requests int
	Window   time.Duration
}

func (l Limit) String() string {
	return fmt.Sprintf("%d per %s", l.Requests, l.Window)
}

var limitUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// ParseLimit parses "5 per minute" or "5/minute"
func ParseLimit(raw string) (Limit, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	var count, unit string
	if i := strings.Index(s, "/"); i >= 0 {
		count, unit = s[:i], s[i+1:]
	} else {
		parts := strings.Fields(s)
		if len(parts) != 3 || parts[1] != "per" {
			return Limit{}, fmt.Errorf("invalid rate limit %q", raw)
		}
		count, unit = parts[0], parts[2]
	}

	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil || n <= 0 {
		return Limit{}, fmt.Errorf("invalid rate limit %q", raw)
	}
	unit = strings.TrimSuffix(strings.TrimSpace(unit), "s")
	window, ok := limitUnits[unit]
	if !ok {
		return Limit{}, fmt.Errorf("invalid rate limit unit in %q", raw)
	}
	return Limit{Requests: n, Window: window}, nil
}

// ParseLimits parses every entry of raw
func ParseLimits(raw []string) ([]Limit, error) {
	limits := make([]Limit, 0, len(raw))
	for _, r := range raw {
		l, err := ParseLimit(r)
		if err != nil {
			return nil, err
		}
		limits = append(limits, l)
	}
	return limits, nil
}
