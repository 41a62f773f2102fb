package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileIsNotFound(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}

	// Defaults still apply.
	if cfg.Session != "cc" || cfg.SocketName != "claude-code.sock" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.SendDelayMS != 800 {
		t.Fatalf("default send delay = %d, want 800", cfg.SendDelayMS)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
claude_bin = "/opt/claude"
tmux_session = "review"
interactive_send_delay_ms = 250
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.ClaudeBin != "/opt/claude" {
		t.Fatalf("ClaudeBin = %q", cfg.ClaudeBin)
	}
	if cfg.Session != "review" {
		t.Fatalf("Session = %q", cfg.Session)
	}
	if cfg.SendDelayMS != 250 {
		t.Fatalf("SendDelayMS = %d", cfg.SendDelayMS)
	}
	// Untouched keys keep their defaults.
	if cfg.SocketName != "claude-code.sock" {
		t.Fatalf("SocketName = %q, want default", cfg.SocketName)
	}
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("tmux_session = [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() = %v, want parse error", err)
	}
}

func TestPath_EnvOverride(t *testing.T) {
	getenv := func(key string) string {
		if key == "CCRUN_CONFIG" {
			return "/etc/ccrun.toml"
		}
		return ""
	}
	if got := Path(getenv); got != "/etc/ccrun.toml" {
		t.Fatalf("Path() = %q", got)
	}
}
