package session

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clawdbot/ccrun/internal/claude"
	"github.com/clawdbot/ccrun/internal/tmux"
)

// fakeRunner records tmux invocations and plays back canned behavior.
type fakeRunner struct {
	calls      [][]string
	captureOut string
	captureErr error
	killErr    error
	newErr     error
	sendErr    error
}

func (f *fakeRunner) Run(args ...string) (string, error) {
	f.calls = append(f.calls, append([]string(nil), args...))
	switch args[0] {
	case "kill-session":
		return "", f.killErr
	case "new-session":
		return "", f.newErr
	case "send-keys":
		return "", f.sendErr
	case "capture-pane":
		return f.captureOut, f.captureErr
	}
	return "", nil
}

func (f *fakeRunner) sendKeysCalls() [][]string {
	var out [][]string
	for _, c := range f.calls {
		if c[0] == "send-keys" {
			out = append(out, c)
		}
	}
	return out
}

func notFoundErr() error {
	return &tmux.Error{Op: "kill-session", Stderr: "can't find session: cc", Err: errors.New("exit status 1")}
}

func newTestManager(f *fakeRunner, out *bytes.Buffer) *Manager {
	return &Manager{
		NewTmux:      func(socket string) *tmux.Tmux { return tmux.NewWithRunner(f, socket) },
		Out:          out,
		Sleep:        func(time.Duration) {},
		TrustTimeout: 5 * time.Millisecond,
		Poller:       tmux.Poller{Interval: time.Millisecond},
	}
}

func baseConfig(t *testing.T) claude.RunConfig {
	t.Helper()
	return claude.RunConfig{
		Bin:        "claude",
		Session:    "cc",
		SocketDir:  t.TempDir(),
		SocketName: "cc.sock",
		Dir:        t.TempDir(),
	}
}

func TestResolveSocketDir(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		fromFile string
		env      map[string]string
		want     string
	}{
		{"explicit wins", "/var/ccrun", "/file/dir", map[string]string{"CCRUN_SOCKET_DIR": "/env/dir"}, "/var/ccrun"},
		{"env beats file", "", "/file/dir", map[string]string{"CCRUN_SOCKET_DIR": "/env/dir"}, "/env/dir"},
		{"file beats tmpdir", "", "/file/dir", map[string]string{"TMPDIR": "/custom/tmp"}, "/file/dir"},
		{"tmpdir fallback", "", "", map[string]string{"TMPDIR": "/custom/tmp"}, "/custom/tmp/ccrun-sockets"},
		{"tmp default", "", "", nil, "/tmp/ccrun-sockets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			if got := ResolveSocketDir(tt.explicit, tt.fromFile, getenv); got != tt.want {
				t.Fatalf("ResolveSocketDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveSessionName(t *testing.T) {
	if got := ResolveSessionName("cc"); got != "cc" {
		t.Fatalf("ResolveSessionName(cc) = %q, want passthrough", got)
	}

	a := ResolveSessionName("auto")
	b := ResolveSessionName("auto")
	if !strings.HasPrefix(a, "cc-") || len(a) != len("cc-")+8 {
		t.Fatalf("ResolveSessionName(auto) = %q, want cc- plus 8 chars", a)
	}
	if a == b {
		t.Fatalf("ResolveSessionName(auto) produced %q twice, want unique names", a)
	}
}

func TestRun_KillThenCreateThenLaunch(t *testing.T) {
	f := &fakeRunner{killErr: notFoundErr()}
	var buf bytes.Buffer
	m := newTestManager(f, &buf)

	cfg := baseConfig(t)
	if err := m.Run(cfg); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	if f.calls[0][0] != "kill-session" {
		t.Fatalf("first call = %v, want kill-session", f.calls[0])
	}
	if f.calls[1][0] != "new-session" {
		t.Fatalf("second call = %v, want new-session", f.calls[1])
	}

	sends := f.sendKeysCalls()
	if len(sends) < 2 {
		t.Fatalf("got %d send-keys calls, want launch pair", len(sends))
	}
	launch := sends[0][len(sends[0])-1]
	if !strings.Contains(launch, "cd ") || !strings.Contains(launch, "claude") {
		t.Fatalf("launch line = %q, want cd prefix and claude invocation", launch)
	}
	if sends[0][3] != "-l" {
		t.Fatalf("launch call = %v, want literal mode", sends[0])
	}
	if sends[1][len(sends[1])-1] != "Enter" {
		t.Fatalf("second send = %v, want separate Enter", sends[1])
	}
}

func TestRun_IdempotentRestart(t *testing.T) {
	// First run: no pre-existing session; second run: the kill succeeds.
	// Neither errors, and each run creates exactly one session.
	var buf bytes.Buffer

	first := &fakeRunner{killErr: notFoundErr()}
	if err := newTestManager(first, &buf).Run(baseConfig(t)); err != nil {
		t.Fatalf("first Run() = %v", err)
	}

	second := &fakeRunner{}
	if err := newTestManager(second, &buf).Run(baseConfig(t)); err != nil {
		t.Fatalf("second Run() = %v", err)
	}

	for _, f := range []*fakeRunner{first, second} {
		created := 0
		for _, c := range f.calls {
			if c[0] == "new-session" {
				created++
			}
		}
		if created != 1 {
			t.Fatalf("new-session called %d times, want 1", created)
		}
	}
}

func TestRun_KillFailurePropagates(t *testing.T) {
	f := &fakeRunner{killErr: &tmux.Error{Op: "kill-session", Stderr: "error connecting", Err: errors.New("exit status 1")}}
	var buf bytes.Buffer
	m := newTestManager(f, &buf)

	if err := m.Run(baseConfig(t)); err == nil {
		t.Fatal("Run() = nil, want error for non-NotFound kill failure")
	}
}

func TestRun_SessionCreateFailureIsFatal(t *testing.T) {
	f := &fakeRunner{killErr: notFoundErr(), newErr: errors.New("exit status 1")}
	var buf bytes.Buffer
	m := newTestManager(f, &buf)

	if err := m.Run(baseConfig(t)); err == nil {
		t.Fatal("Run() = nil, want error when session creation fails")
	}
}

func TestRun_PacedPromptLines(t *testing.T) {
	f := &fakeRunner{killErr: notFoundErr()}
	var buf bytes.Buffer
	m := newTestManager(f, &buf)
	m.Sleep = time.Sleep // real pacing for this test

	cfg := baseConfig(t)
	cfg.Prompt = "first line\n\nsecond line\nthird line"
	cfg.SendDelay = 100 * time.Millisecond

	start := time.Now()
	if err := m.Run(cfg); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
		t.Fatalf("Run() took %v, want >= 300ms for 3 paced lines", elapsed)
	}

	// After the launch pair: exactly 3 literal+Enter pairs, in order,
	// with the blank line dropped.
	sends := f.sendKeysCalls()[2:]
	wantLines := []string{"first line", "second line", "third line"}
	if len(sends) != 6 {
		t.Fatalf("got %d send-keys after launch, want 6", len(sends))
	}
	for i, line := range wantLines {
		lit := sends[2*i]
		enter := sends[2*i+1]
		if lit[3] != "-l" || lit[len(lit)-1] != line {
			t.Fatalf("injection %d = %v, want literal %q", i, lit, line)
		}
		if enter[len(enter)-1] != "Enter" {
			t.Fatalf("submission %d = %v, want Enter", i, enter)
		}
	}
}

func TestRun_TrustPromptAcknowledged(t *testing.T) {
	f := &fakeRunner{killErr: notFoundErr(), captureOut: "Do you trust this folder?"}
	var buf bytes.Buffer
	m := newTestManager(f, &buf)

	if err := m.Run(baseConfig(t)); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	// Launch Enter plus one acknowledgement Enter.
	enters := 0
	for _, c := range f.sendKeysCalls() {
		if c[len(c)-1] == "Enter" {
			enters++
		}
	}
	if enters != 2 {
		t.Fatalf("got %d Enter sends, want 2 (launch + trust ack)", enters)
	}
}

func TestRun_TrustPromptTimeoutIsNotAnError(t *testing.T) {
	f := &fakeRunner{killErr: notFoundErr(), captureOut: "ready"}
	var buf bytes.Buffer
	m := newTestManager(f, &buf)

	if err := m.Run(baseConfig(t)); err != nil {
		t.Fatalf("Run() = %v, want nil when trust prompt never appears", err)
	}
}

func TestRun_PrintsAttachHints(t *testing.T) {
	f := &fakeRunner{killErr: notFoundErr()}
	var buf bytes.Buffer
	m := newTestManager(f, &buf)

	cfg := baseConfig(t)
	if err := m.Run(cfg); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	out := buf.String()
	socketPath := filepath.Join(cfg.SocketDir, "cc.sock")
	for _, want := range []string{"attach", "capture-pane", socketPath, "cc:0.0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("hints output %q missing %q", out, want)
		}
	}
}

func TestRun_FinalSnapshotAfterWait(t *testing.T) {
	f := &fakeRunner{killErr: notFoundErr(), captureOut: "final screen state"}
	var buf bytes.Buffer
	m := newTestManager(f, &buf)

	cfg := baseConfig(t)
	cfg.Wait = time.Millisecond
	if err := m.Run(cfg); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	if !strings.Contains(buf.String(), "final screen state") {
		t.Fatalf("output %q missing final snapshot", buf.String())
	}
}

func TestRun_FinalSnapshotFailureIgnored(t *testing.T) {
	f := &fakeRunner{killErr: notFoundErr(), captureErr: errors.New("pane gone")}
	var buf bytes.Buffer
	m := newTestManager(f, &buf)

	cfg := baseConfig(t)
	cfg.Wait = time.Millisecond
	if err := m.Run(cfg); err != nil {
		t.Fatalf("Run() = %v, want nil when final capture fails", err)
	}
}
