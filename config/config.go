package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры клиента и companion-сервера.
type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration

	RetryAttempts  int
	RetryBaseDelay time.Duration

	RateLimit float64
	RateBurst int

	ProbeTimeout time.Duration
	ProbeTTL     time.Duration

	TokenStoreDriver string
	TokenStoreDSN    string
	TokenStoreSecret string

	ServerPort         int
	CORSAllowedOrigins []string
	LogLevel           slog.Level

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// UploadsEnabled сообщает, что задана полная конфигурация R2.
func (c *Config) UploadsEnabled() bool {
	return c.R2AccountID != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:       strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000/api"), "/"),
		TokenStoreDriver: getEnv("TOKEN_STORE_DRIVER", "sqlite3"),
		TokenStoreDSN:    getEnv("TOKEN_STORE_DSN", "file:sportlink.db?_busy_timeout=5000"),
		TokenStoreSecret: os.Getenv("TOKEN_STORE_SECRET"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", cfg.APIBaseURL)
	}

	if cfg.TokenStoreSecret == "" {
		return nil, fmt.Errorf("TOKEN_STORE_SECRET environment variable is not set")
	}

	switch cfg.TokenStoreDriver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("TOKEN_STORE_DRIVER must be sqlite3 or postgres, got %q", cfg.TokenStoreDriver)
	}

	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.RetryBaseDelay, err = getDuration("RETRY_BASE_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.ProbeTimeout, err = getDuration("CONNECTIVITY_PROBE_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProbeTTL, err = getDuration("CONNECTIVITY_PROBE_TTL", 2*time.Second); err != nil {
		return nil, err
	}

	if cfg.RetryAttempts, err = getInt("RETRY_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.RetryAttempts < 1 {
		return nil, fmt.Errorf("RETRY_ATTEMPTS must be at least 1, got %d", cfg.RetryAttempts)
	}

	rateStr := getEnv("API_RATE_LIMIT", "10")
	cfg.RateLimit, err = strconv.ParseFloat(rateStr, 64)
	if err != nil || cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("invalid API_RATE_LIMIT environment variable: %q", rateStr)
	}
	if cfg.RateBurst, err = getInt("API_RATE_BURST", 20); err != nil {
		return nil, err
	}
	if cfg.RateBurst < 1 {
		return nil, fmt.Errorf("API_RATE_BURST must be positive, got %d", cfg.RateBurst)
	}

	if cfg.ServerPort, err = getInt("SERVER_PORT", 8081); err != nil {
		return nil, err
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}

	for _, origin := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	r2 := []string{cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2BucketName, cfg.R2PublicBaseURL}
	set := 0
	for _, v := range r2 {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != len(r2) {
		return nil, fmt.Errorf("incomplete R2 configuration: either set all R2_* variables or none")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}

// getDuration принимает "15s"/"500ms" или целое число секунд.
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d, nil
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid %s environment variable: %q", key, value)
}
