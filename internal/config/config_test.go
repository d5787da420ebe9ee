package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":3000" || cfg.DBPath != "chessington.db" || cfg.MatchInterval != time.Second {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("CHESSINGTON_ADDR", ":8080")
	t.Setenv("CHESSINGTON_DB", "")

	cfg, err := Load([]string{"-match-interval", "250ms"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "" || cfg.MatchInterval != 250*time.Millisecond {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadBadInterval(t *testing.T) {
	for _, v := range []string{"soon", "0s", "-1s"} {
		if _, err := Load([]string{"-match-interval", v}); err == nil {
			t.Fatalf("expected error for %q", v)
		}
	}
}
