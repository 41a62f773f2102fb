package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}
	os.Stderr = w

	fn()

	_ = w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read stderr: %v", err)
	}
	_ = r.Close()

	return buf.String()
}

func TestFileConfig_MalformedFileWarnsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("tmux_session = [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CCRUN_CONFIG", path)

	output := captureStderr(t, func() {
		cfg := fileConfig()
		// Defaults still apply despite the parse failure.
		if cfg.Session != "cc" {
			t.Errorf("Session = %q, want default", cfg.Session)
		}
	})

	if !strings.Contains(output, "warning:") {
		t.Fatalf("stderr %q missing warning prefix", output)
	}
}

func TestFileConfig_MissingFileIsSilent(t *testing.T) {
	t.Setenv("CCRUN_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	output := captureStderr(t, func() {
		fileConfig()
	})

	if output != "" {
		t.Fatalf("stderr = %q, want silence for a missing config file", output)
	}
}
