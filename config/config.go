package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DebugMode enables verbose diagnostics across the process.
var DebugMode bool

type Config struct {
	// RestEndpoint is the futures REST base, e.g. https://fapi.binance.com.
	RestEndpoint string
	// WsEndpoint is the futures stream base, e.g. wss://fstream.binance.com.
	WsEndpoint string
	// StreamSpeed is the diff-depth update interval: 100ms or 1000ms.
	StreamSpeed string
	// SnapshotLimit is the depth limit requested from the REST snapshot.
	SnapshotLimit int
	// MetricsAddr is the prometheus listen address; empty disables metrics.
	MetricsAddr string
	// LogLevel is a zerolog level name.
	LogLevel string
}

const (
	defaultRestEndpoint  = "https://fapi.binance.com"
	defaultWsEndpoint    = "wss://fstream.binance.com"
	defaultStreamSpeed   = "100ms"
	defaultSnapshotLimit = 1000
)

func Load() *Config {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	DebugMode = getEnvBool("DEBUG_MODE")

	cfg := &Config{
		RestEndpoint:  getEnv("BINANCE_REST_ENDPOINT", defaultRestEndpoint),
		WsEndpoint:    getEnv("BINANCE_WS_ENDPOINT", defaultWsEndpoint),
		StreamSpeed:   getEnv("BINANCE_STREAM_SPEED", defaultStreamSpeed),
		SnapshotLimit: getEnvInt("SNAPSHOT_DEPTH_LIMIT", defaultSnapshotLimit),
		MetricsAddr:   getEnv("METRICS_ADDR", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if cfg.StreamSpeed != "100ms" && cfg.StreamSpeed != "1000ms" {
		cfg.StreamSpeed = defaultStreamSpeed
	}
	if cfg.SnapshotLimit <= 0 {
		cfg.SnapshotLimit = defaultSnapshotLimit
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
