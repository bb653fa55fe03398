package config

import (
	"os"
	"testing"
)

var allKeys = []string{
	"RIGTRAC_WORKERS", "RIGTRAC_NO_ALIGN",
	"RIGTRAC_BALL_RADIUS", "RIGTRAC_BAR_FRONT_ANGLE",
	"RIGTRAC_LOG_LEVEL", "RIGTRAC_LOG_JSON",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Scan.Workers != 4 {
		t.Fatalf("expected default Workers=4, got %d", cfg.Scan.Workers)
	}
	if cfg.Scan.NoAlign {
		t.Fatal("expected default NoAlign=false")
	}
	if cfg.View.BallRadius != 3.0 {
		t.Fatalf("expected default BallRadius=3.0, got %v", cfg.View.BallRadius)
	}
	if cfg.View.BarFrontAngle != 0 {
		t.Fatalf("expected default BarFrontAngle=0, got %v", cfg.View.BarFrontAngle)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("expected default log level 'info', got %q", cfg.Log.Level)
	}
	if cfg.Log.JSON {
		t.Fatal("expected default JSON=false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIGTRAC_WORKERS", "8")
	t.Setenv("RIGTRAC_NO_ALIGN", "true")
	t.Setenv("RIGTRAC_BALL_RADIUS", "4.5")
	t.Setenv("RIGTRAC_LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Scan.Workers != 8 {
		t.Fatalf("expected Workers=8, got %d", cfg.Scan.Workers)
	}
	if !cfg.Scan.NoAlign {
		t.Fatal("expected NoAlign=true")
	}
	if cfg.View.BallRadius != 4.5 {
		t.Fatalf("expected BallRadius=4.5, got %v", cfg.View.BallRadius)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected log level 'debug', got %q", cfg.Log.Level)
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIGTRAC_WORKERS", "lots")
	t.Setenv("RIGTRAC_BALL_RADIUS", "big")
	t.Setenv("RIGTRAC_NO_ALIGN", "sometimes")

	cfg := Load()

	if cfg.Scan.Workers != 4 {
		t.Fatalf("expected fallback Workers=4, got %d", cfg.Scan.Workers)
	}
	if cfg.View.BallRadius != 3.0 {
		t.Fatalf("expected fallback BallRadius=3.0, got %v", cfg.View.BallRadius)
	}
	if cfg.Scan.NoAlign {
		t.Fatal("expected fallback NoAlign=false")
	}
}
