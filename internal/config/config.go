// Package config loads service settings from environment variables, reading
// a local .env file first when one exists.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/smallyu/go-btc-visual/internal/crypto/curves"
	"github.com/smallyu/go-btc-visual/internal/mining"
)

// WriteMargin is how much longer than MiningTimeout a response may take to
// write.
const WriteMargin = 10 * time.Second

type Config struct {
	Addr     string
	LogLevel slog.Level

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// Curve demos
	CurveTolerance float64
	MaxScalar      int // largest k accepted for repeated-addition multiplication

	MaxMerkleLeaves int

	// Mining demo
	MiningMaxDifficulty int
	MiningYieldEvery    int
	MiningTimeout       time.Duration

	// Per-IP rate limit
	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool // take the client IP from X-Forwarded-For
}

func Load() *Config {
	// .env is optional
	_ = godotenv.Load()

	miningTimeout := getenvDurationDefault("MINING_TIMEOUT", 20*time.Second)

	// /api/mine may run for the whole mining timeout before it answers
	return &Config{
		Addr:                ":" + getenvDefault("PORT", "8080"),
		LogLevel:            parseLevel(getenvDefault("LOG_LEVEL", "INFO")),
		ReadHeaderTimeout:   5 * time.Second,
		ReadTimeout:         10 * time.Second,
		WriteTimeout:        miningTimeout + WriteMargin,
		IdleTimeout:         60 * time.Second,
		CurveTolerance:      getenvFloatDefault("CURVE_TOLERANCE", curves.DefaultTolerance),
		MaxScalar:           getenvIntDefault("MAX_SCALAR", 1000),
		MaxMerkleLeaves:     getenvIntDefault("MAX_MERKLE_LEAVES", 1024),
		MiningMaxDifficulty: getenvIntDefault("MINING_MAX_DIFFICULTY", mining.DefaultMaxDifficulty),
		MiningYieldEvery:    getenvIntDefault("MINING_YIELD_EVERY", mining.DefaultYieldEvery),
		MiningTimeout:       miningTimeout,
		RateLimitRPS:        getenvFloatDefault("RATE_LIMIT_RPS", 20),
		RateLimitBurst:      getenvIntDefault("RATE_LIMIT_BURST", 40),
		TrustProxy:          getenvBoolDefault("TRUST_PROXY", false),
	}
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvBoolDefault(k string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func getenvIntDefault(k string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k))); err == nil {
		return n
	}
	return def
}

func getenvFloatDefault(k string, def float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(k)), 64); err == nil && f > 0 {
		return f
	}
	return def
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(k))); err == nil && d > 0 {
		return d
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
