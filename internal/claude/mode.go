package claude

import "strings"

// LooksLikeSlashCommands reports whether any line of the prompt, after
// stripping leading whitespace, begins with "/". Slash-style directives
// only make sense inside a live session.
func LooksLikeSlashCommands(prompt string) bool {
	if prompt == "" {
		return false
	}
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "/") {
			return true
		}
	}
	return false
}

// SelectMode resolves ModeAuto using the slash-command heuristic.
// Explicit headless or interactive overrides pass through unchanged.
func SelectMode(mode Mode, prompt string) Mode {
	if mode != ModeAuto {
		return mode
	}
	if LooksLikeSlashCommands(prompt) {
		return ModeInteractive
	}
	return ModeHeadless
}
