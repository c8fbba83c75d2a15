package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	Chat      ChatConfig
	Assistant AssistantConfig
	SMTP      SMTPConfig
	Redis     RedisConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	addr, err := normalizeAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	if cfg.Chat.MaxMessages < 1 {
		return nil, fmt.Errorf("invalid CHAT_MAX_MESSAGES value: %d", cfg.Chat.MaxMessages)
	}
	if cfg.Chat.TypingJitter < 0 {
		return nil, fmt.Errorf("invalid CHAT_TYPING_JITTER value: %s", cfg.Chat.TypingJitter)
	}

	return &cfg, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	ShutdownGrace  time.Duration `env:"SERVER_SHUTDOWN_GRACE" envDefault:"5s"`

	// Addr is derived from Port by Load.
	Addr string
}

// normalizeAddr 解析服务器监听地址。
func normalizeAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// ChatConfig tunes the widget timings.
type ChatConfig struct {
	MaxMessages      int           `env:"CHAT_MAX_MESSAGES" envDefault:"20"`
	TypingMin        time.Duration `env:"CHAT_TYPING_MIN" envDefault:"1s"`
	TypingJitter     time.Duration `env:"CHAT_TYPING_JITTER" envDefault:"500ms"`
	EffectDelay      time.Duration `env:"CHAT_EFFECT_DELAY" envDefault:"1s"`
	FollowUpDelay    time.Duration `env:"CHAT_FOLLOW_UP_DELAY" envDefault:"1500ms"`
	SubscriberBuffer int           `env:"CHAT_SUBSCRIBER_BUFFER" envDefault:"32"`
	RateWindow       time.Duration `env:"CHAT_RATE_WINDOW" envDefault:"1m"`
	RateMax          int           `env:"CHAT_RATE_MAX" envDefault:"30"`
}

// AssistantConfig overrides the seeded assistant profile.
type AssistantConfig struct {
	OwnerEmail string `env:"ASSISTANT_OWNER_EMAIL"`
	ResumePath string `env:"ASSISTANT_RESUME_PATH"`
	SoundURL   string `env:"ASSISTANT_SOUND_URL"`
}

// SMTPConfig 描述邮件中继配置，Host 为空时关闭。
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Pass     string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM"`
	FromName string `env:"SMTP_FROM_NAME" envDefault:"Portfolio Assistant"`
	UseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`
}

// Enabled 表示是否配置了 SMTP 主机。
func (c SMTPConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != ""
}

// RedisConfig 用于发送限流，Addr 为空时关闭。
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"json"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"10"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

type TelemetryConfig struct {
	Enabled        bool          `env:"OTEL_ENABLED" envDefault:"false"`
	Dir            string        `env:"OTEL_DIR" envDefault:"telemetry"`
	ExportInterval time.Duration `env:"OTEL_EXPORT_INTERVAL" envDefault:"30s"`
	ServiceVersion string        `env:"SERVICE_VERSION" envDefault:"dev"`
}
