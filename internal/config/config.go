// Package config loads ccrun's optional TOML config file. The file
// supplies defaults for the target binary and interactive tuning;
// command-line flags always win over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/clawdbot/ccrun/internal/constants"
)

// ErrNotFound indicates the config file does not exist. Callers treat
// this as "use built-in defaults".
var ErrNotFound = errors.New("config file not found")

// Config holds file-configurable defaults. Durations are milliseconds
// for SendDelayMS and whole seconds for WaitS, matching the CLI flags.
type Config struct {
	ClaudeBin   string `toml:"claude_bin"`
	Session     string `toml:"tmux_session"`
	SocketDir   string `toml:"tmux_socket_dir"`
	SocketName  string `toml:"tmux_socket_name"`
	WaitS       int    `toml:"interactive_wait_s"`
	SendDelayMS int    `toml:"interactive_send_delay_ms"`
}

// Default returns the built-in defaults applied before any file values.
func Default() Config {
	return Config{
		Session:     constants.DefaultSession,
		SocketName:  constants.DefaultSocketName,
		SendDelayMS: int(constants.DefaultSendDelay.Milliseconds()),
	}
}

// Path returns the config file location: $CCRUN_CONFIG when set, else
// ~/.ccrun/config.toml.
func Path(getenv func(string) string) string {
	if p := getenv("CCRUN_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ccrun", "config.toml")
}

// Load reads the config file at path, layered over Default. A missing
// file reports ErrNotFound; a malformed one is a real error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, ErrNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
