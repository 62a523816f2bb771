package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		json     bool
		debug    bool
		encoding string
		level    zapcore.Level
	}{
		{name: "defaults", encoding: "console", level: zapcore.InfoLevel},
		{name: "json", json: true, encoding: "json", level: zapcore.InfoLevel},
		{name: "debug", debug: true, encoding: "console", level: zapcore.DebugLevel},
		{name: "json debug", json: true, debug: true, encoding: "json", level: zapcore.DebugLevel},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := newConfig(tc.json, tc.debug)

			if cfg.Encoding != tc.encoding {
				t.Fatalf("expected encoding %q, got %q", tc.encoding, cfg.Encoding)
			}
			if cfg.Level.Level() != tc.level {
				t.Fatalf("expected level %s, got %s", tc.level, cfg.Level.Level())
			}
			if cfg.EncoderConfig.MessageKey != "msg" {
				t.Fatalf("expected message key msg, got %q", cfg.EncoderConfig.MessageKey)
			}
		})
	}
}
