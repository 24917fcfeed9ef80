package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	AutoMigrate bool

	RedisURL      string
	RedisPassword string
	RedisDB       int

	JWTSecret    string
	TokenTTL     time.Duration // 登录令牌有效期
	CookieSecure bool

	LogFormat string
	LogLevel  string

	KafkaBrokers []string
	KafkaTopic   string

	RateLimit       int           // 登录/注册每个窗口允许的请求数
	RateLimitWindow time.Duration // 限流窗口

	AdminUserIDs           []string      // 可访问 /admin 接口的 user_id
	SettingsReloadInterval time.Duration // 功能开关定时刷新间隔，0 表示不刷新
}

// Load 加载配置：.env -> 环境变量 -> config.yaml（可选）-> 默认值
func Load() (*Config, error) {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // 配置文件可选

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "12h")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "social-graph-events")
	v.SetDefault("RATE_LIMIT", 20)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("ADMIN_USER_IDS", "")
	v.SetDefault("SETTINGS_RELOAD_INTERVAL", "1m")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Env:                    v.GetString("APP_ENV"),
		Port:                   v.GetString("PORT"),
		DatabaseURL:            v.GetString("DATABASE_URL"),
		AutoMigrate:            v.GetBool("AUTO_MIGRATE"),
		RedisURL:               v.GetString("REDIS_URL"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		RedisDB:                v.GetInt("REDIS_DB"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		TokenTTL:               parseDuration(v.GetString("TOKEN_TTL"), 12*time.Hour),
		CookieSecure:           v.GetBool("COOKIE_SECURE"),
		LogFormat:              v.GetString("LOG_FORMAT"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		KafkaBrokers:           splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:             v.GetString("KAFKA_TOPIC"),
		RateLimit:              v.GetInt("RATE_LIMIT"),
		RateLimitWindow:        parseDuration(v.GetString("RATE_LIMIT_WINDOW"), time.Minute),
		AdminUserIDs:           splitList(v.GetString("ADMIN_USER_IDS")),
		SettingsReloadInterval: parseDuration(v.GetString("SETTINGS_RELOAD_INTERVAL"), time.Minute),
	}
}

// Validate 校验必填项；生产环境额外要求强密钥
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
	} else if len(c.JWTSecret) < 32 {
		slog.Warn("JWT_SECRET is shorter than 32 characters")
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
