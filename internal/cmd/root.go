// Package cmd provides the CLI commands for the ccrun tool.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clawdbot/ccrun/internal/config"
	"github.com/clawdbot/ccrun/internal/session"
	"github.com/clawdbot/ccrun/internal/style"
	"github.com/clawdbot/ccrun/internal/tmux"
)

// Command groups for help output.
const (
	GroupRun     = "run"
	GroupSession = "session"
)

var (
	socketDirFlag  string
	socketNameFlag string
)

var rootCmd = &cobra.Command{
	Use:   "ccrun",
	Short: "Run Claude Code headless or drive it in a tmux session",
	Long: `ccrun launches the Claude Code CLI in one of two modes.

Headless mode runs a single blocking invocation and forwards the exit
status. Interactive mode starts Claude inside a detached tmux session on
a private socket, answers the folder-trust prompt, types the initial
prompt line by line, and leaves the session running for you to attach.

With --mode auto (the default), prompts containing slash commands like
/init select interactive mode; everything else runs headless.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRun, Title: "Running Claude:"},
		&cobra.Group{ID: GroupSession, Title: "Managing sessions:"},
	)
	rootCmd.PersistentFlags().StringVar(&socketDirFlag, "tmux-socket-dir", "", "Directory for tmux server sockets")
	rootCmd.PersistentFlags().StringVar(&socketNameFlag, "tmux-socket-name", "", "Tmux socket file name")
}

// exitError carries a specific process exit code through RunE. An empty
// message means the cause was already reported (e.g. the child wrote to
// stderr itself).
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.msg != "" {
				fmt.Fprintln(os.Stderr, ee.msg)
			}
			return ee.code
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// fileConfig loads the optional config file. A missing file is normal;
// a malformed one is reported once and otherwise ignored.
func fileConfig() config.Config {
	cfg, err := config.Load(config.Path(os.Getenv))
	if err != nil && !errors.Is(err, config.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "%s %v\n", style.Warning.Render("warning:"), err)
	}
	return cfg
}

// openTmux resolves the socket path from flags, config file, and
// environment, and returns a tmux handle for the session subcommands.
func openTmux() (*tmux.Tmux, error) {
	tmuxPath, err := exec.LookPath("tmux")
	if err != nil {
		return nil, &exitError{code: 2, msg: "tmux not found in PATH"}
	}

	fileCfg := fileConfig()

	dir := session.ResolveSocketDir(socketDirFlag, fileCfg.SocketDir, os.Getenv)

	name := socketNameFlag
	if name == "" {
		name = fileCfg.SocketName
	}

	return tmux.New(tmuxPath, filepath.Join(dir, name)), nil
}
