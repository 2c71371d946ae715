package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://crm.example.com")

	cfg := FromEnv()

	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.PollInterval != 15*time.Second {
		t.Errorf("Expected poll interval 15s, got %s", cfg.PollInterval)
	}
	if cfg.RedisEnabled {
		t.Error("Expected redis to be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://crm.example.com")
	t.Setenv("ACCOUNT_ID", "4")
	t.Setenv("POLL_INTERVAL", "30")
	t.Setenv("NUDGE_DELAY", "250ms")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := FromEnv()

	if cfg.AccountID != 4 {
		t.Errorf("Expected account 4, got %d", cfg.AccountID)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("Expected poll interval 30s, got %s", cfg.PollInterval)
	}
	if cfg.NudgeDelay != 250*time.Millisecond {
		t.Errorf("Expected nudge delay 250ms, got %s", cfg.NudgeDelay)
	}
	if !cfg.RedisEnabled {
		t.Error("Expected redis to be enabled")
	}
	if cfg.RedisDB != 0 {
		t.Errorf("Expected invalid REDIS_DB to fall back to 0, got %d", cfg.RedisDB)
	}
}

func TestValidate_RequiresBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "")

	if err := FromEnv().Validate(); err == nil {
		t.Error("Expected error without BACKEND_URL")
	}
}
