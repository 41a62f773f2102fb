// Package tmux wraps the tmux binary for driving detached Claude Code
// sessions: lifecycle, literal keystroke injection, and pane capture.
// Every session lives on a dedicated server socket, so concurrent runs
// with distinct socket/name pairs never see each other.
package tmux

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrSessionNotFound marks tmux failures caused by a missing session or
// server. Callers that treat absence as a no-op (kill before create)
// check for it with errors.Is; every other tmux failure propagates.
var ErrSessionNotFound = errors.New("tmux: session not found")

// Runner executes one tmux command against a server socket and returns
// its stdout. The production implementation shells out; tests substitute
// a fake to drive lifecycle and injection deterministically.
type Runner interface {
	Run(args ...string) (string, error)
}

type execRunner struct {
	tmuxPath   string
	socketPath string
}

func (r *execRunner) Run(args ...string) (string, error) {
	full := append([]string{"-S", r.socketPath}, args...)
	cmd := exec.Command(r.tmuxPath, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &Error{
			Op:     args[0],
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.String(), nil
}

// Error is a tmux command failure, carrying stderr for diagnostics.
type Error struct {
	Op     string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("tmux %s failed: %v", e.Op, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is classifies "no such session" and "no server running" stderr as
// ErrSessionNotFound so absence can be swallowed without string checks
// at every call site.
func (e *Error) Is(target error) bool {
	if target != ErrSessionNotFound {
		return false
	}
	return strings.Contains(e.Stderr, "no server running") ||
		strings.Contains(e.Stderr, "can't find session") ||
		strings.Contains(e.Stderr, "no such session") ||
		strings.Contains(e.Stderr, "session not found")
}

// Tmux drives sessions on a single server socket.
type Tmux struct {
	runner     Runner
	socketPath string
}

// New returns a Tmux bound to the given tmux binary and socket path.
func New(tmuxPath, socketPath string) *Tmux {
	return &Tmux{
		runner:     &execRunner{tmuxPath: tmuxPath, socketPath: socketPath},
		socketPath: socketPath,
	}
}

// NewWithRunner substitutes the command runner. Used by tests.
func NewWithRunner(r Runner, socketPath string) *Tmux {
	return &Tmux{runner: r, socketPath: socketPath}
}

// SocketPath returns the server socket path this instance drives.
func (t *Tmux) SocketPath() string {
	return t.socketPath
}

// Target returns the pane address for a session. ccrun only ever drives
// window 0, pane 0.
func (t *Tmux) Target(session string) string {
	return session + ":0.0"
}

// KillSession terminates a session. A missing session (or no server on
// the socket yet) reports ErrSessionNotFound.
func (t *Tmux) KillSession(session string) error {
	_, err := t.runner.Run("kill-session", "-t", session)
	return err
}

// NewSession creates a detached named session with a single window.
func (t *Tmux) NewSession(session, window string) error {
	_, err := t.runner.Run("new-session", "-d", "-s", session, "-n", window)
	return err
}

// HasSession reports whether the named session exists on this socket.
func (t *Tmux) HasSession(session string) (bool, error) {
	_, err := t.runner.Run("has-session", "-t", session)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListSessions returns the names of all sessions on this socket. An
// absent server means no sessions, not an error.
func (t *Tmux) ListSessions() ([]string, error) {
	out, err := t.runner.Run("list-sessions", "-F", "#{session_name}")
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var sessions []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sessions = append(sessions, line)
		}
	}
	return sessions, nil
}

// SendText injects text into a pane verbatim. Literal mode (-l) keeps
// tmux from interpreting the text as key names, and the "--" guard keeps
// leading dashes from being parsed as flags. Sending text never submits
// it; pair with SendEnter.
func (t *Tmux) SendText(target, text string) error {
	_, err := t.runner.Run("send-keys", "-t", target, "-l", "--", text)
	return err
}

// SendEnter submits whatever is pending in the pane's input line.
func (t *Tmux) SendEnter(target string) error {
	_, err := t.runner.Run("send-keys", "-t", target, "Enter")
	return err
}

// CapturePane returns the last lines of pane text, joining wrapped lines
// so substring matches are not split across physical rows.
func (t *Tmux) CapturePane(target string, lines int) (string, error) {
	return t.runner.Run("capture-pane", "-p", "-J", "-t", target, "-S", fmt.Sprintf("-%d", lines))
}

// pasteSettle gives the pane time to absorb a literal injection before
// the Enter lands. Submitting too early loses the tail of the paste.
var pasteSettle = 500 * time.Millisecond

// NudgeSession delivers a message to a running session reliably: literal
// text, a pause for the paste to complete, then Enter as a separate
// command.
func (t *Tmux) NudgeSession(session, message string) error {
	target := t.Target(session)
	if err := t.SendText(target, message); err != nil {
		return err
	}
	time.Sleep(pasteSettle)
	return t.SendEnter(target)
}
