// Package config は環境変数からアプリケーション設定を読み込む。
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/SorynSolutions/soryn-order-tracker/internal/auth"
	"github.com/SorynSolutions/soryn-order-tracker/internal/logger"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database（空の場合はメモリストレージ）
	DatabaseURL string

	// Credentials
	AuthUsers          map[string]string // ユーザー名 → bcryptハッシュ
	AuthPlaintextUsers map[string]string // ユーザー名 → 平文パスワード

	// Session
	SessionDuration      time.Duration
	SessionSweepInterval time.Duration

	// Orders
	DisplayLocation *time.Location

	// Rate Limit（req/min）
	RateLimitGeneral int
	RateLimitLogin   int

	// Logging
	LogLevel slog.Level

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS（空の場合は同一オリジンのみ）
	CORSAllowedOrigin string
}

// UsesPlaintextCredentials は平文の資格情報テーブルを使うかどうかを返す。
// bcryptハッシュが設定されている場合はそちらを優先する。
func (c *Config) UsesPlaintextCredentials() bool {
	return len(c.AuthUsers) == 0 && len(c.AuthPlaintextUsers) > 0
}

// Load は環境変数からConfigを読み込む。
// 資格情報が1つも設定されていない場合や値が不正な場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	var err error
	cfg.AuthUsers, err = auth.ParseCredentials(os.Getenv("AUTH_USERS"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_USERS: %w", err)
	}
	cfg.AuthPlaintextUsers, err = auth.ParseCredentials(os.Getenv("AUTH_PLAINTEXT_USERS"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_PLAINTEXT_USERS: %w", err)
	}
	if len(cfg.AuthUsers) == 0 && len(cfg.AuthPlaintextUsers) == 0 {
		return nil, fmt.Errorf("required environment variables are not set: one of [AUTH_USERS AUTH_PLAINTEXT_USERS]")
	}

	tz := getEnvString("DISPLAY_TIMEZONE", "UTC")
	cfg.DisplayLocation, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", tz, err)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SessionDuration = getEnvDuration("SESSION_DURATION", 24*time.Hour)
	cfg.SessionSweepInterval = getEnvDuration("SESSION_SWEEP_INTERVAL", time.Hour)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitLogin = getEnvInt("RATE_LIMIT_LOGIN", 10)
	cfg.LogLevel = logger.ParseLevel(os.Getenv("LOG_LEVEL"))
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "")

	if cfg.SessionDuration <= 0 {
		return nil, fmt.Errorf("SESSION_DURATION must be positive, got %s", cfg.SessionDuration)
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
