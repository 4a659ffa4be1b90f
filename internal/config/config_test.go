package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionSize != 10 {
		t.Errorf("SessionSize = %d, want 10", cfg.SessionSize)
	}
	if cfg.DefaultList != "ocean-voyage" {
		t.Errorf("DefaultList = %q, want ocean-voyage", cfg.DefaultList)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SPELLQUEST_SESSION_SIZE", "20")
	t.Setenv("SPELLQUEST_DEFAULT_LIST", "night-sky")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionSize != 20 {
		t.Errorf("SessionSize = %d, want 20", cfg.SessionSize)
	}
	if cfg.DefaultList != "night-sky" {
		t.Errorf("DefaultList = %q, want night-sky", cfg.DefaultList)
	}
}

func TestLoadRejectsBadSessionSize(t *testing.T) {
	t.Setenv("SPELLQUEST_SESSION_SIZE", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for session size 0")
	}
}
