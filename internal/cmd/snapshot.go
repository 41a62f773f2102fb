package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clawdbot/ccrun/internal/constants"
	"github.com/clawdbot/ccrun/internal/style"
)

var snapshotLines int

var snapshotCmd = &cobra.Command{
	Use:     "snapshot <session>",
	GroupID: GroupSession,
	Short:   "Print a pane capture from a running session",
	Long: `Capture and print the rendered screen of a session's pane.

Wrapped lines are joined, so long output lines stay intact.

Examples:
  ccrun snapshot cc
  ccrun snapshot cc --lines 50`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().IntVar(&snapshotLines, "lines", constants.CaptureLines, "Lines of history to capture")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	t, err := openTmux()
	if err != nil {
		return err
	}

	session := args[0]
	content, err := t.CapturePane(t.Target(session), snapshotLines)
	if err != nil {
		return fmt.Errorf("capturing pane: %w", err)
	}

	if style.StdoutIsTerminal() {
		fmt.Printf("%s\n\n", style.Bold.Render(fmt.Sprintf("--- %s (last %d lines) ---", session, snapshotLines)))
	}
	fmt.Print(content)
	return nil
}
