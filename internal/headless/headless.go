// Package headless runs Claude Code as a one-shot child process with
// inherited streams, forwarding its exit status verbatim.
package headless

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/kballard/go-shellquote"
)

// Runner executes one blocking invocation. LookPath and Exec are
// injectable for tests; zero values use the real implementations.
type Runner struct {
	LookPath func(file string) (string, error)
	Exec     func(argv []string, dir string) (int, error)
}

// New returns a Runner backed by the OS.
func New() *Runner {
	return &Runner{
		LookPath: exec.LookPath,
		Exec:     execInherited,
	}
}

// Run executes the argument vector and returns the child's exit status.
// When script(1) is available the command is wrapped so the child sees a
// pseudo-terminal: Claude changes buffering and progress output when it
// detects a non-interactive pipe. Without script (or on Windows) the
// argv runs directly. One blocking call, no timeout, no retry.
func (r *Runner) Run(argv []string, dir string) (int, error) {
	if runtime.GOOS == "windows" {
		return r.Exec(argv, dir)
	}

	scriptBin, err := r.LookPath("script")
	if err != nil {
		return r.Exec(argv, dir)
	}

	cmdStr := shellquote.Join(argv...)
	return r.Exec([]string{scriptBin, "-q", "-c", cmdStr, "/dev/null"}, dir)
}

// execInherited runs argv with inherited standard streams and extracts
// the exit code.
func execInherited(argv []string, dir string) (int, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("running %s: %w", argv[0], err)
	}
	return 0, nil
}
