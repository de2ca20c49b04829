package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

type Config struct {
	Port            int           `yaml:"port"`
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	BcryptCost      int           `yaml:"bcrypt_cost"`
	GeminiAPIKey    string        `yaml:"gemini_api_key"`
	GeminiModel     string        `yaml:"gemini_model"`
	GeminiBaseURL   string        `yaml:"gemini_base_url"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	DatabaseURL     string        `yaml:"database_url"`
	RedisURL        string        `yaml:"redis_url"`
	CORSOrigin      string        `yaml:"cors_origin"`
	StrictAuth      bool          `yaml:"strict_auth"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
}

func Default() Config {
	return Config{
		Port:            5000,
		TokenTTL:        time.Hour,
		BcryptCost:      10,
		GeminiModel:     "gemini-1.5-flash",
		GeminiBaseURL:   "https://generativelanguage.googleapis.com/v1beta",
		UpstreamTimeout: 30 * time.Second,
		CORSOrigin:      "http://localhost:3000",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load resolves the process configuration. Values come from defaults, then
// the YAML file named by CONFIG_FILE, then .env (which never overrides
// variables already present), then the environment.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p < 65536 {
			cfg.Port = p
		}
	}

	cfg.JWTSecret = firstNonEmpty(os.Getenv("JWT_SECRET"), cfg.JWTSecret)
	cfg.GeminiAPIKey = firstNonEmpty(os.Getenv("GEMINI_API_KEY"), cfg.GeminiAPIKey)
	cfg.GeminiModel = firstNonEmpty(os.Getenv("GEMINI_MODEL"), cfg.GeminiModel)
	cfg.GeminiBaseURL = firstNonEmpty(os.Getenv("GEMINI_BASE_URL"), cfg.GeminiBaseURL)
	cfg.DatabaseURL = firstNonEmpty(os.Getenv("DATABASE_URL"), cfg.DatabaseURL)
	cfg.RedisURL = firstNonEmpty(os.Getenv("REDIS_URL"), cfg.RedisURL)
	cfg.CORSOrigin = firstNonEmpty(os.Getenv("CORS_ORIGIN"), cfg.CORSOrigin)
	cfg.LogLevel = strings.ToLower(firstNonEmpty(os.Getenv("LOG_LEVEL"), cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(firstNonEmpty(os.Getenv("LOG_FORMAT"), cfg.LogFormat))

	cfg.TokenTTL = durationFromEnv("TOKEN_TTL", cfg.TokenTTL)
	cfg.UpstreamTimeout = durationFromEnv("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	cfg.BcryptCost = intFromEnv("BCRYPT_COST", cfg.BcryptCost)
	cfg.StrictAuth = boolFromEnv("STRICT_AUTH", cfg.StrictAuth)
}

// Validate reports configuration that must stop the process at startup.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL)
	}
	return nil
}

func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func intFromEnv(name string, defaultVal int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func boolFromEnv(name string, defaultVal bool) bool {
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func durationFromEnv(name string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}
