// Package claude describes one invocation of the Claude Code CLI: the
// run configuration, binary resolution, argument building, and the
// headless-vs-interactive mode heuristic.
package claude

import (
	"fmt"
	"os"
	"time"
)

// Mode selects how the target program is executed.
type Mode string

const (
	// ModeAuto picks interactive when the prompt looks like slash
	// commands, headless otherwise.
	ModeAuto Mode = "auto"

	// ModeHeadless runs one blocking invocation with inherited streams.
	ModeHeadless Mode = "headless"

	// ModeInteractive starts a detached tmux session and drives it.
	ModeInteractive Mode = "interactive"
)

// RunConfig is the immutable description of one ccrun invocation.
// It is built once by the command layer and read everywhere else.
//
// Continue and Resume may both be set; both are forwarded to the CLI
// without validation. Which one wins is the CLI's decision, not ours.
type RunConfig struct {
	// Bin is the explicit --claude-bin value. FileBin carries the
	// config-file default, which ranks below the environment override
	// when the binary is resolved.
	Bin     string
	FileBin string

	PermissionMode     string
	AllowedTools       string
	OutputFormat       string
	JSONSchema         string
	AppendSystemPrompt string
	SystemPrompt       string
	Continue           bool
	Resume             string
	Prompt             string
	Dir                string
	Extra              []string

	Mode Mode

	// Interactive tuning. SocketDir is the explicit flag value;
	// FileSocketDir is the config-file default, below the environment.
	Session       string
	SocketDir     string
	FileSocketDir string
	SocketName    string
	Wait          time.Duration
	SendDelay     time.Duration
}

// ResolveBinary determines the target executable from, in order: the
// explicit value, the environment override, the config-file default,
// and a PATH lookup of the default name. The inputs are explicit so
// resolution stays a pure function of its arguments.
func ResolveBinary(explicit, fromFile, envVar, fallback string, getenv func(string) string, lookPath func(string) (string, error)) string {
	if explicit != "" {
		return explicit
	}
	if env := getenv(envVar); env != "" {
		return env
	}
	if fromFile != "" {
		return fromFile
	}
	if found, err := lookPath(fallback); err == nil {
		return found
	}
	return fallback
}

// CheckBinary verifies the target executable resolves: it either exists
// on disk or is findable via the search path.
func CheckBinary(bin string, lookPath func(string) (string, error)) error {
	if _, err := os.Stat(bin); err == nil {
		return nil
	}
	if _, err := lookPath(bin); err == nil {
		return nil
	}
	return fmt.Errorf("claude binary not found: %s", bin)
}
