package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clawdbot/ccrun/internal/style"
)

var nudgeMessageFlag string

var nudgeCmd = &cobra.Command{
	Use:     "nudge <session> [message]",
	GroupID: GroupSession,
	Short:   "Send a message to a running session reliably",
	Long: `Send a message to a running Claude Code session.

Uses a reliable delivery pattern:
1. Sends the text in literal mode (-l flag)
2. Waits 500ms for the paste to complete
3. Sends Enter as a separate command

Sending text and Enter together gets dropped when Claude is mid-redraw.

Examples:
  ccrun nudge cc "continue with the next file"
  ccrun nudge cc -m "what's your status?"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runNudge,
}

func init() {
	rootCmd.AddCommand(nudgeCmd)
	nudgeCmd.Flags().StringVarP(&nudgeMessageFlag, "message", "m", "", "Message to send")
}

func runNudge(cmd *cobra.Command, args []string) error {
	session := args[0]

	var message string
	if nudgeMessageFlag != "" {
		message = nudgeMessageFlag
	} else if len(args) >= 2 {
		message = args[1]
	} else {
		return fmt.Errorf("message required: use -m flag or provide as second argument")
	}

	t, err := openTmux()
	if err != nil {
		return err
	}

	exists, err := t.HasSession(session)
	if err != nil {
		return fmt.Errorf("checking session: %w", err)
	}
	if !exists {
		return fmt.Errorf("session %q not found", session)
	}

	if err := t.NudgeSession(session, message); err != nil {
		return fmt.Errorf("nudging session: %w", err)
	}

	fmt.Printf("%s Nudged %s\n", style.Bold.Render("✓"), session)
	return nil
}
