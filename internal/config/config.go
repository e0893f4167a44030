package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultDirectusURL = "http://localhost:8055"
	DefaultAppURL      = "http://localhost:3000"
	DefaultEnvironment = "development"
	DefaultCMSTimeout  = 5 * time.Second
)

// AppConfig 汇总运行前端服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string        `validate:"required"`
	Port          string        `validate:"required,numeric"`
	DirectusURL   string        `validate:"required,http_url"`
	DirectusToken string
	AppURL        string        `validate:"required,http_url"`
	Environment   string        `validate:"required"`
	GinMode       string        `validate:"oneof=debug release test"`
	CMSTimeout    time.Duration `validate:"gt=0"`
	LogLevel      string        `validate:"oneof=debug info warn error"`
	SessionSecret string        `validate:"min=8"`
	SiteName      string
}

// IsProduction reports whether the runtime environment is production.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate rejects values that are present but unusable. Missing values
// never reach here: Load substitutes defaults for them.
func (c AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load 从 .env 与环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	// .env is optional; a missing file is the normal case in containers.
	_ = godotenv.Load()

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("directus_url", DefaultDirectusURL)
	v.SetDefault("directus_token", "")
	v.SetDefault("app_url", DefaultAppURL)
	v.SetDefault("environment", DefaultEnvironment)
	v.SetDefault("port", "3000")
	v.SetDefault("listen_addr", "")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("cms_timeout", DefaultCMSTimeout.String())
	v.SetDefault("log_level", "info")
	v.SetDefault("session_secret", "complai-dev-secret")
	v.SetDefault("site_name", "Complai")

	// The Next.js names are still set by the existing deployment manifests.
	_ = v.BindEnv("directus_url", "DIRECTUS_URL", "NEXT_PUBLIC_DIRECTUS_URL")
	_ = v.BindEnv("directus_token", "DIRECTUS_TOKEN")
	_ = v.BindEnv("app_url", "APP_URL", "NEXT_PUBLIC_APP_URL")
	_ = v.BindEnv("environment", "APP_ENV", "NODE_ENV")
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("listen_addr", "LISTEN_ADDR")
	_ = v.BindEnv("gin_mode", "GIN_MODE")
	_ = v.BindEnv("cms_timeout", "CMS_TIMEOUT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("session_secret", "SESSION_SECRET")
	_ = v.BindEnv("site_name", "SITE_NAME")

	return v
}

// FromViper resolves an AppConfig from an already populated viper instance.
func FromViper(v *viper.Viper) AppConfig {
	port := stringOr(v, "port", "3000")

	listenAddr := strings.TrimSpace(v.GetString("listen_addr"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	timeout := DefaultCMSTimeout
	if raw := strings.TrimSpace(v.GetString("cms_timeout")); raw != "" {
		timeout = parseTimeout(raw)
	}

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		DirectusURL:   strings.TrimRight(stringOr(v, "directus_url", DefaultDirectusURL), "/"),
		DirectusToken: strings.TrimSpace(v.GetString("directus_token")),
		AppURL:        strings.TrimRight(stringOr(v, "app_url", DefaultAppURL), "/"),
		Environment:   stringOr(v, "environment", DefaultEnvironment),
		GinMode:       strings.ToLower(stringOr(v, "gin_mode", "release")),
		CMSTimeout:    timeout,
		LogLevel:      strings.ToLower(stringOr(v, "log_level", "info")),
		SessionSecret: stringOr(v, "session_secret", "complai-dev-secret"),
		SiteName:      stringOr(v, "site_name", "Complai"),
	}
}

// parseTimeout accepts Go durations ("5s", "1500ms") and bare seconds ("5").
// Anything else yields zero so that Validate reports it.
func parseTimeout(raw string) time.Duration {
	if parsed, err := time.ParseDuration(raw); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

func stringOr(v *viper.Viper, key, fallback string) string {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return fallback
	}
	return value
}
