package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clawdbot/ccrun/internal/style"
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	GroupID: GroupSession,
	Short:   "List live sessions on the ccrun socket",
	Long: `List tmux sessions on the ccrun server socket.

Only sessions started through ccrun live on this socket, so the listing
never mixes with your regular tmux server.

Examples:
  ccrun sessions
  ccrun sessions --tmux-socket-dir /run/ccrun`,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	t, err := openTmux()
	if err != nil {
		return err
	}

	sessions, err := t.ListSessions()
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println(style.Dim.Render("No live sessions"))
		return nil
	}

	fmt.Printf("%s %s\n", style.Bold.Render("Socket:"), t.SocketPath())
	for _, s := range sessions {
		fmt.Printf("  %s %s\n", style.Success.Render("●"), s)
	}
	return nil
}
