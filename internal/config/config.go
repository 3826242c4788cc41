package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

type Config struct {
	Primary   Primary         `koanf:"primary"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Transport TransportConfig `koanf:"transport"`
	Gateways  GatewaysConfig  `koanf:"gateways"`
	Logger    LoggerConfig    `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// TransportConfig tunes the outbound HTTP layer shared by every gateway
// adapter. Cert and key paths are optional; set both to present a client
// certificate to processors that require one.
type TransportConfig struct {
	Timeout        time.Duration `koanf:"timeout"`
	ClientCertFile string        `koanf:"client_cert_file"`
	ClientKeyFile  string        `koanf:"client_key_file"`
}

// GatewaysConfig carries one credential block per processor. A block left
// empty keeps that processor out of the registry.
type GatewaysConfig struct {
	AuthorizeNet AuthorizeNetConfig `koanf:"authorizenet"`
	Innovative   InnovativeConfig   `koanf:"innovative"`
	PayPal       PayPalConfig       `koanf:"paypal"`
	Stripe       StripeConfig       `koanf:"stripe"`
}

type AuthorizeNetConfig struct {
	Login    string `koanf:"login"`
	TransKey string `koanf:"trans_key"`
	TestMode bool   `koanf:"test_mode"`
}

type InnovativeConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

type PayPalConfig struct {
	User      string `koanf:"user"`
	Password  string `koanf:"password"`
	Signature string `koanf:"signature"`
	TestMode  bool   `koanf:"test_mode"`
}

type StripeConfig struct {
	APIKey   string `koanf:"api_key"`
	Currency string `koanf:"currency"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

// NewLogger builds the process-wide structured logger at the configured
// level, defaulting to info when the level is absent or unrecognized.
func (c LoggerConfig) NewLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider("BRIDGE_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "BRIDGE_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
