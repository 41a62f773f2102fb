// Package constants holds shared defaults and timing values for ccrun.
package constants

import "time"

// DefaultBinary is the target executable when no override is given.
const DefaultBinary = "claude"

// BinaryEnvVar overrides the target executable path.
const BinaryEnvVar = "CLAUDE_CODE_BIN"

// SocketDirEnvVar overrides the tmux socket directory.
const SocketDirEnvVar = "CCRUN_SOCKET_DIR"

// SocketDirName is the directory created under TMPDIR when no socket
// directory is configured.
const SocketDirName = "ccrun-sockets"

// DefaultSession is the tmux session name used when none is configured.
const DefaultSession = "cc"

// DefaultSocketName is the tmux socket file name.
const DefaultSocketName = "claude-code.sock"

// TrustPromptText is the substring Claude Code shows when asking for
// folder trust in a new working directory.
const TrustPromptText = "trust this folder"

// TrustPromptTimeout bounds how long we wait for the trust prompt.
const TrustPromptTimeout = 20 * time.Second

// TrustPromptSettle is the pause after acknowledging the trust prompt,
// giving the UI time to clear it before further input.
const TrustPromptSettle = 1 * time.Second

// DefaultSendDelay is the pause between injected prompt lines. Claude
// consumes input at its own redraw cadence; bursts get dropped.
const DefaultSendDelay = 800 * time.Millisecond

// PollInterval is the pause between pane captures while waiting for text.
const PollInterval = 500 * time.Millisecond

// CaptureLines is how much pane history a capture includes.
const CaptureLines = 200
