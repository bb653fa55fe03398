package config

import (
	"os"
	"strconv"
)

// Config holds all rigtrac configuration.
type Config struct {
	Scan ScanConfig
	View ViewConfig
	Log  LogConfig
}

// ScanConfig holds directory scan settings.
type ScanConfig struct {
	Workers int
	NoAlign bool
}

// ViewConfig holds parameters for typed accessors that depend on rig
// geometry rather than log content.
type ViewConfig struct {
	BallRadius    float64 // millimeters
	BarFrontAngle float64 // radians
}

// LogConfig holds diagnostics logging settings.
type LogConfig struct {
	Level string // "debug", "info", "warn", "error"
	JSON  bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Scan: ScanConfig{
			Workers: getenvInt("RIGTRAC_WORKERS", 4),
			NoAlign: getenvBool("RIGTRAC_NO_ALIGN", false),
		},
		View: ViewConfig{
			BallRadius:    getenvFloat("RIGTRAC_BALL_RADIUS", 3.0),
			BarFrontAngle: getenvFloat("RIGTRAC_BAR_FRONT_ANGLE", 0.0),
		},
		Log: LogConfig{
			Level: getenv("RIGTRAC_LOG_LEVEL", "info"),
			JSON:  getenvBool("RIGTRAC_LOG_JSON", false),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
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

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
