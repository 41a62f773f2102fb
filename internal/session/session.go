// Package session owns the interactive run: it creates an isolated tmux
// session, launches Claude Code inside it, handles the folder-trust
// prompt, delivers the initial prompt with pacing, and leaves the
// session running detached.
package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"

	"github.com/clawdbot/ccrun/internal/claude"
	"github.com/clawdbot/ccrun/internal/constants"
	"github.com/clawdbot/ccrun/internal/style"
	"github.com/clawdbot/ccrun/internal/tmux"
)

// ResolveSocketDir picks the tmux socket directory: the explicit flag
// value, else the environment override, else the config-file default,
// else a well-known directory under the temp root.
func ResolveSocketDir(explicit, fromFile string, getenv func(string) string) string {
	if explicit != "" {
		return explicit
	}
	if dir := getenv(constants.SocketDirEnvVar); dir != "" {
		return dir
	}
	if fromFile != "" {
		return fromFile
	}
	tmp := getenv("TMPDIR")
	if tmp == "" {
		tmp = "/tmp"
	}
	return filepath.Join(tmp, constants.SocketDirName)
}

// ResolveSessionName expands the "auto" session name into a unique one
// so concurrent runs never collide on the same socket/name pair.
func ResolveSessionName(name string) string {
	if name != "auto" {
		return name
	}
	return "cc-" + uuid.NewString()[:8]
}

// Manager runs one interactive session. Zero value is not usable; use New.
type Manager struct {
	// NewTmux builds the tmux handle once the socket path is known.
	// Tests substitute a handle backed by a fake runner.
	NewTmux func(socketPath string) *tmux.Tmux

	// Out receives the attach hints and the optional final snapshot.
	Out io.Writer

	// Sleep paces line injection and settle waits.
	Sleep func(time.Duration)

	// TrustTimeout bounds the folder-trust prompt poll.
	TrustTimeout time.Duration

	// Poller waits for expected pane text.
	Poller tmux.Poller
}

// New returns a Manager that shells out to the given tmux binary and
// writes hints to out.
func New(tmuxPath string, out io.Writer) *Manager {
	return &Manager{
		NewTmux:      func(socket string) *tmux.Tmux { return tmux.New(tmuxPath, socket) },
		Out:          out,
		Sleep:        time.Sleep,
		TrustTimeout: constants.TrustPromptTimeout,
	}
}

// Run starts Claude Code in a fresh detached tmux session and returns
// once setup is complete. The exit code reflects setup success only:
// the driven program keeps running after ccrun exits, and its own exit
// status is never observed here.
func (m *Manager) Run(cfg claude.RunConfig) error {
	socketDir := ResolveSocketDir(cfg.SocketDir, cfg.FileSocketDir, os.Getenv)
	if err := os.MkdirAll(socketDir, 0755); err != nil {
		return fmt.Errorf("creating socket directory: %w", err)
	}

	socketName := cfg.SocketName
	if socketName == "" {
		socketName = constants.DefaultSocketName
	}
	socketPath := filepath.Join(socketDir, socketName)

	sessionName := cfg.Session
	if sessionName == "" {
		sessionName = constants.DefaultSession
	}
	session := ResolveSessionName(sessionName)

	t := m.NewTmux(socketPath)
	target := t.Target(session)

	// A leftover session with the same name is superseded, never reused.
	// Absence is not an error.
	if err := t.KillSession(session); err != nil && !isNotFound(err) {
		return fmt.Errorf("killing stale session: %w", err)
	}

	if err := t.NewSession(session, "shell"); err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	cwd := cfg.Dir
	if cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			cwd = wd
		}
	}

	launch := fmt.Sprintf("cd %s && %s", shellquote.Join(cwd), shellquote.Join(claude.BuildInteractiveArgs(cfg)...))
	if err := t.SendText(target, launch); err != nil {
		return fmt.Errorf("sending launch command: %w", err)
	}
	if err := t.SendEnter(target); err != nil {
		return fmt.Errorf("submitting launch command: %w", err)
	}

	m.acknowledgeTrustPrompt(t, target)

	if cfg.Prompt != "" {
		if err := m.sendPromptLines(t, target, cfg.Prompt, cfg.SendDelay); err != nil {
			return err
		}
	}

	m.printHints(socketPath, session, target)

	if cfg.Wait > 0 {
		m.sleep(cfg.Wait)
		m.printSnapshot(t, target)
	}

	return nil
}

// acknowledgeTrustPrompt watches for Claude's folder-trust prompt and
// answers it with a single Enter. Best effort: the prompt only appears
// in directories Claude has not seen before, so a timeout is normal.
func (m *Manager) acknowledgeTrustPrompt(t *tmux.Tmux, target string) {
	capture := func() (string, error) {
		return t.CapturePane(target, constants.CaptureLines)
	}
	if !m.Poller.WaitForText(capture, constants.TrustPromptText, m.trustTimeout()) {
		return
	}
	if err := t.SendEnter(target); err != nil {
		return
	}
	m.sleep(constants.TrustPromptSettle)
}

// sendPromptLines delivers the initial prompt one non-blank line at a
// time: literal text, Enter, then the configured delay. Injection is
// strictly sequential; the delay keeps lines from outrunning Claude's
// redraw cadence.
func (m *Manager) sendPromptLines(t *tmux.Tmux, target, prompt string, delay time.Duration) error {
	if delay <= 0 {
		delay = constants.DefaultSendDelay
	}
	for _, line := range strings.Split(prompt, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := t.SendText(target, line); err != nil {
			return fmt.Errorf("sending prompt line: %w", err)
		}
		if err := t.SendEnter(target); err != nil {
			return fmt.Errorf("submitting prompt line: %w", err)
		}
		m.sleep(delay)
	}
	return nil
}

func (m *Manager) printHints(socketPath, session, target string) {
	fmt.Fprintf(m.Out, "%s Started interactive Claude Code in tmux\n", style.Success.Render("✓"))
	fmt.Fprintf(m.Out, "%s tmux -S %s attach -t %s\n", style.Dim.Render("Monitor: "), shellquote.Join(socketPath), shellquote.Join(session))
	fmt.Fprintf(m.Out, "%s tmux -S %s capture-pane -p -J -t %s -S -%d\n", style.Dim.Render("Snapshot:"), shellquote.Join(socketPath), shellquote.Join(target), constants.CaptureLines)
}

// printSnapshot emits one final pane capture. A failure here is ignored:
// the session is already up and the snapshot is informational.
func (m *Manager) printSnapshot(t *tmux.Tmux, target string) {
	content, err := t.CapturePane(target, constants.CaptureLines)
	if err != nil {
		fmt.Fprintf(m.Out, "%s\n", style.Dim.Render("(snapshot unavailable)"))
		return
	}
	fmt.Fprintf(m.Out, "\n%s\n\n%s\n", style.Bold.Render(fmt.Sprintf("--- tmux snapshot (last %d lines) ---", constants.CaptureLines)), content)
}

func (m *Manager) sleep(d time.Duration) {
	if m.Sleep != nil {
		m.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (m *Manager) trustTimeout() time.Duration {
	if m.TrustTimeout > 0 {
		return m.TrustTimeout
	}
	return constants.TrustPromptTimeout
}

func isNotFound(err error) bool {
	return errors.Is(err, tmux.ErrSessionNotFound)
}
