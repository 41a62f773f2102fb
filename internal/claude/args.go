package claude

// BuildArgs maps a RunConfig to the full claude argument vector for a
// headless invocation. Flags are appended only when the field is set,
// always in the same order. Building never fails and never validates
// flag compatibility.
func BuildArgs(cfg RunConfig) []string {
	args := []string{cfg.Bin}
	args = appendCommonArgs(args, cfg)
	if cfg.OutputFormat != "" {
		args = append(args, "--output-format", cfg.OutputFormat)
	}
	if cfg.JSONSchema != "" {
		args = append(args, "--json-schema", cfg.JSONSchema)
	}
	args = appendSessionArgs(args, cfg)
	if cfg.Prompt != "" {
		args = append(args, "-p", cfg.Prompt)
	}
	args = append(args, cfg.Extra...)
	return args
}

// BuildInteractiveArgs is the subset of BuildArgs appropriate for a
// long-lived interactive session. Output format and schema are headless
// concerns and the prompt is delivered as keystrokes, so none of them
// appear here.
func BuildInteractiveArgs(cfg RunConfig) []string {
	args := []string{cfg.Bin}
	args = appendCommonArgs(args, cfg)
	args = appendSessionArgs(args, cfg)
	args = append(args, cfg.Extra...)
	return args
}

func appendCommonArgs(args []string, cfg RunConfig) []string {
	if cfg.PermissionMode != "" {
		args = append(args, "--permission-mode", cfg.PermissionMode)
	}
	if cfg.AllowedTools != "" {
		args = append(args, "--allowedTools", cfg.AllowedTools)
	}
	return args
}

func appendSessionArgs(args []string, cfg RunConfig) []string {
	if cfg.AppendSystemPrompt != "" {
		args = append(args, "--append-system-prompt", cfg.AppendSystemPrompt)
	}
	if cfg.SystemPrompt != "" {
		args = append(args, "--system-prompt", cfg.SystemPrompt)
	}
	if cfg.Continue {
		args = append(args, "--continue")
	}
	if cfg.Resume != "" {
		args = append(args, "--resume", cfg.Resume)
	}
	return args
}
