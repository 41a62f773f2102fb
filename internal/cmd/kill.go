package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clawdbot/ccrun/internal/style"
	"github.com/clawdbot/ccrun/internal/tmux"
)

var killCmd = &cobra.Command{
	Use:     "kill <session>",
	GroupID: GroupSession,
	Short:   "Terminate a session",
	Long: `Terminate a session on the ccrun socket.

A session that does not exist is not an error; kill is idempotent.

Examples:
  ccrun kill cc`,
	Args: cobra.ExactArgs(1),
	RunE: runKill,
}

func init() {
	rootCmd.AddCommand(killCmd)
}

func runKill(cmd *cobra.Command, args []string) error {
	t, err := openTmux()
	if err != nil {
		return err
	}

	session := args[0]
	if err := t.KillSession(session); err != nil {
		if errors.Is(err, tmux.ErrSessionNotFound) {
			fmt.Printf("%s Session %s not running\n", style.Dim.Render("○"), session)
			return nil
		}
		return fmt.Errorf("killing session: %w", err)
	}

	fmt.Printf("%s Killed %s\n", style.Bold.Render("✓"), session)
	return nil
}
