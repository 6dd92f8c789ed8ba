// Package logging define a interface de log estruturado usada pelo cliente.
// A implementação padrão envolve log/slog.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger é um logger estruturado, sensível a contexto.
//
// Os args variádicos são pares chave-valor, ex:
//
//	log.Debug(ctx, "dispatch failed", "action", action, "request_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With devolve um logger filho que sempre inclui os pares informados.
	With(args ...any) Logger
}

// Chaves padronizadas dos campos de log.
const (
	RequestIDKey = "request_id"
	ActionKey    = "action"
	VersionKey   = "api_version"
	SecureKey    = "secure"
	DurationKey  = "duration_ms"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

type Config struct {
	// Level: debug, info, warn, error. Padrão: info.
	Level  string
	Format Format
	// Output padrão: os.Stderr.
	Output io.Writer
}

// New monta um SlogLogger a partir da configuração.
func New(cfg Config) (*SlogLogger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch cfg.Format {
	case FormatText:
		h = slog.NewTextHandler(out, opts)
	case FormatJSON, "":
		h = slog.NewJSONHandler(out, opts)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}
	return NewSlogLogger(slog.New(h)), nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", s)
	}
}

// Nop descarta tudo.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
