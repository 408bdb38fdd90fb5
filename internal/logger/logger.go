// Package logger は zerolog のロガーを構築します。
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "lightbnb"

// New はログレベルと実行環境に応じたロガーを返します
// local 環境では人が読みやすいコンソール形式、それ以外は JSON で出力します
func New(level, env string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if env == "local" {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(w, level, env)
}

// NewWithWriter は出力先を指定してロガーを返します
func NewWithWriter(w io.Writer, level, env string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("env", env).
		Logger()
}

// Nop は何も出力しないロガーを返します
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
