package tmux

import (
	"strings"
	"time"

	"github.com/clawdbot/ccrun/internal/constants"
)

// CaptureFunc produces one snapshot of pane text.
type CaptureFunc func() (string, error)

// Poller repeatedly captures pane text until a substring appears or a
// deadline passes. Clock and sleep are injectable so tests run without
// real timers.
type Poller struct {
	Interval time.Duration
	Now      func() time.Time
	Sleep    func(time.Duration)
}

func (p Poller) interval() time.Duration {
	if p.Interval > 0 {
		return p.Interval
	}
	return constants.PollInterval
}

func (p Poller) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p Poller) sleep(d time.Duration) {
	if p.Sleep != nil {
		p.Sleep(d)
		return
	}
	time.Sleep(d)
}

// WaitForText polls capture until the needle appears, returning true on
// the first match and false once the timeout elapses. Capture errors
// count as "no match this round": the pane may not be ready on the first
// attempts, and that race is expected rather than fatal.
func (p Poller) WaitForText(capture CaptureFunc, needle string, timeout time.Duration) bool {
	deadline := p.now().Add(timeout)
	for p.now().Before(deadline) {
		if out, err := capture(); err == nil && strings.Contains(out, needle) {
			return true
		}
		p.sleep(p.interval())
	}
	return false
}

// WaitForText polls the pane for a substring using the default poller.
func (t *Tmux) WaitForText(target, needle string, timeout time.Duration) bool {
	return Poller{}.WaitForText(func() (string, error) {
		return t.CapturePane(target, constants.CaptureLines)
	}, needle, timeout)
}
