package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"genepri/internal/config"
)

func TestNewHonoursLevelAndVerbose(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.Log
		verbose bool
		want    zapcore.Level
	}{
		{"json info", config.Log{Level: "info", Format: "json"}, false, zapcore.InfoLevel},
		{"console warn", config.Log{Level: "warn", Format: "console"}, false, zapcore.WarnLevel},
		{"verbose wins", config.Log{Level: "error", Format: "json"}, true, zapcore.DebugLevel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(tc.cfg, tc.verbose)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if got := logger.Level(); got != tc.want {
				t.Fatalf("expected level %s, got %s", tc.want, got)
			}
		})
	}
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	if _, err := New(config.Log{Level: "info", Format: "logfmt"}, false); err == nil {
		t.Fatalf("expected format error")
	}
	if _, err := New(config.Log{Level: "loud", Format: "json"}, false); err == nil {
		t.Fatalf("expected level error")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected nop logger")
	}
}
