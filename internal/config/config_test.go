package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "CURVE_TOLERANCE", "MAX_SCALAR", "MINING_TIMEOUT", "TRUST_PROXY"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 1e-3, cfg.CurveTolerance)
	assert.Equal(t, 1000, cfg.MaxScalar)
	assert.Equal(t, 20*time.Second, cfg.MiningTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.False(t, cfg.TrustProxy)
}

func TestWriteTimeoutFollowsMiningTimeout(t *testing.T) {
	t.Setenv("MINING_TIMEOUT", "45s")
	cfg := Load()

	assert.Equal(t, 45*time.Second, cfg.MiningTimeout)
	assert.Equal(t, 45*time.Second+WriteMargin, cfg.WriteTimeout)
	assert.Greater(t, cfg.WriteTimeout, cfg.MiningTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CURVE_TOLERANCE", "0.01")
	t.Setenv("MAX_SCALAR", "50")
	t.Setenv("MINING_TIMEOUT", "3s")
	t.Setenv("TRUST_PROXY", "yes")
	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 0.01, cfg.CurveTolerance)
	assert.Equal(t, 50, cfg.MaxScalar)
	assert.Equal(t, 3*time.Second, cfg.MiningTimeout)
	assert.True(t, cfg.TrustProxy)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CURVE_TOLERANCE", "-1")
	t.Setenv("MAX_SCALAR", "lots")
	t.Setenv("MINING_TIMEOUT", "soon")
	t.Setenv("TRUST_PROXY", "maybe")
	cfg := Load()

	assert.Equal(t, 1e-3, cfg.CurveTolerance)
	assert.Equal(t, 1000, cfg.MaxScalar)
	assert.Equal(t, 20*time.Second, cfg.MiningTimeout)
	assert.False(t, cfg.TrustProxy)
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nope", slog.LevelInfo},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseLevel(tc.in), "parseLevel(%q)", tc.in)
	}
}
