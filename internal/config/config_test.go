package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ITunesBaseURL != "http://itunes.apple.com/" {
		t.Fatalf("base url = %q", cfg.ITunesBaseURL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("timeout = %v", cfg.RequestTimeout)
	}
	if cfg.RenderFormat != RenderText {
		t.Fatalf("render format = %q", cfg.RenderFormat)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ID", " 872469884 ")
	t.Setenv("INITIAL_INDEX", "2")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("RENDER_FORMAT", "HTML")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppID != "872469884" {
		t.Fatalf("app id = %q", cfg.AppID)
	}
	if cfg.InitialIndex != 2 {
		t.Fatalf("initial index = %d", cfg.InitialIndex)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("timeout = %v", cfg.RequestTimeout)
	}
	if cfg.RenderFormat != RenderHTML {
		t.Fatalf("render format = %q", cfg.RenderFormat)
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

func TestNormalizeRejectsUnknownRenderFormat(t *testing.T) {
	cfg := Config{RequestTimeoutSeconds: 1, RenderFormat: "pdf"}
	if err := cfg.Normalize(); err == nil {
		t.Fatalf("expected error for unknown render format")
	}
}

func TestNormalizeRejectsNegativeIndex(t *testing.T) {
	cfg := Config{RequestTimeoutSeconds: 1, RenderFormat: RenderText, InitialIndex: -1}
	if err := cfg.Normalize(); err == nil {
		t.Fatalf("expected error for negative index")
	}
}
