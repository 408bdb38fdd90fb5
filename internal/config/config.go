// Package config は環境変数から設定を読み込みます。
//
// LIGHTBNB_ で始まる環境変数を koanf で構造体にマッピングし、
// validator で検証します。カレントディレクトリに .env があれば先に読み込みます。
//
//	LIGHTBNB_DB_HOST           -> db.host
//	LIGHTBNB_DB_MAXOPENCONNS   -> db.maxopenconns
//	LIGHTBNB_LOG_LEVEL         -> log.level
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/uma-arai/lightbnb/internal/repository"
)

const envPrefix = "LIGHTBNB_"

type Config struct {
	Env     string              `koanf:"env" validate:"required,oneof=local development staging production test"`
	DB      repository.DBConfig `koanf:"db" validate:"required"`
	Log     LogConfig           `koanf:"log"`
	Tracing TracingConfig       `koanf:"tracing"`
	SFN     struct {
		TaskToken string
	} `koanf:"-"`
	EnableTracing bool `koanf:"-"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
}

type TracingConfig struct {
	Enabled bool `koanf:"enabled"`
}

var defaults = map[string]any{
	"env":                "local",
	"db.host":            "localhost",
	"db.port":            5432,
	"db.name":            "lightbnb",
	"db.sslmode":         "disable",
	"db.maxopenconns":    25,
	"db.maxidleconns":    25,
	"db.connmaxlifetime": 5 * time.Minute,
	"db.querytimeout":    10 * time.Second,
	"log.level":          "info",
	"tracing.enabled":    false,
}

// Load は設定を読み込みます
func Load() (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 環境変数[AWS_XRAY_SDK_DISABLED]がtrueの場合は必ずトレースを無効にする
	if cfg.Tracing.Enabled && !sdkDisabled() {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "FALSE")
		cfg.EnableTracing = true
	} else {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "TRUE")
		cfg.EnableTracing = false
	}

	return cfg, nil
}

// envKey は LIGHTBNB_DB_HOST を db.host に変換します
// 最初の "_" だけをセクションの区切りとして扱います
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Check if SDK is disabled
func sdkDisabled() bool {
	disableKey := os.Getenv("AWS_XRAY_SDK_DISABLED")
	return strings.ToLower(disableKey) == "true"
}
