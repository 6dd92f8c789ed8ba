package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_TextFormatRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "warn", Format: FormatText, Output: &buf})
	require.NoError(t, err)

	ctx := context.Background()
	log.Debug(ctx, "dbg")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn", "a", 1)
	log.Error(ctx, "err", "b", 2)

	out := buf.String()
	require.NotContains(t, out, "msg=dbg")
	require.NotContains(t, out, "msg=inf")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "a=1")
	require.Contains(t, out, "level=ERROR")
	require.Contains(t, out, "b=2")
}

func TestNew_JSONIsDefault(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Output: &buf})
	require.NoError(t, err)

	log.Debug(context.Background(), "hello", RequestIDKey, "abc")
	require.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
	require.Contains(t, buf.String(), `"request_id":"abc"`)
}

func TestNew_RejectsUnknownSettings(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)

	_, err = New(Config{Format: "xml"})
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	log.With(ActionKey, "rides/8384559").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{"msg=hello", "action=rides/8384559", "k=v"} {
		require.Contains(t, out, s)
	}
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.With("a", 1).Error(ctx, "y")
}
