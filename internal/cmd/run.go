package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/clawdbot/ccrun/internal/claude"
	"github.com/clawdbot/ccrun/internal/constants"
	"github.com/clawdbot/ccrun/internal/headless"
	"github.com/clawdbot/ccrun/internal/session"
)

var (
	runPrompt             string
	runMode               string
	runPermissionMode     string
	runAllowedTools       string
	runOutputFormat       string
	runJSONSchema         string
	runAppendSystemPrompt string
	runSystemPrompt       string
	runContinue           bool
	runResume             string
	runClaudeBin          string
	runCwd                string
	runSession            string
	runWaitS              int
	runSendDelayMS        int
)

var runCmd = &cobra.Command{
	Use:     "run [flags] [-- extra claude args...]",
	GroupID: GroupRun,
	Short:   "Run Claude Code headless or in a detached tmux session",
	Long: `Run the Claude Code CLI.

Headless runs block until Claude exits and forward its exit status.
When script(1) is available the child is given a pseudo-terminal so its
output formatting matches an interactive run.

Interactive runs create a fresh tmux session on a private socket, launch
Claude inside it, acknowledge the folder-trust prompt if one appears,
then type the prompt one line at a time with pacing. ccrun exits 0 once
setup succeeds; the session keeps running detached.

Examples:
  ccrun run -p "summarize this repo" --output-format json
  ccrun run -p "/init" --permission-mode acceptEdits
  ccrun run --mode interactive --tmux-session review -p "/review"
  ccrun run -p "fix the tests" -- --model claude-sonnet-4-5`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runPrompt, "prompt", "p", "", "Prompt text (multi-line allowed)")
	runCmd.Flags().StringVar(&runMode, "mode", "auto", "Execution mode: auto, headless, or interactive")
	runCmd.Flags().StringVar(&runPermissionMode, "permission-mode", "", "Claude permission mode")
	runCmd.Flags().StringVar(&runAllowedTools, "allowedTools", "", "Claude tool allow-list")
	runCmd.Flags().StringVar(&runOutputFormat, "output-format", "", "Output format: text, json, or stream-json")
	runCmd.Flags().StringVar(&runJSONSchema, "json-schema", "", "JSON schema reference")
	runCmd.Flags().StringVar(&runAppendSystemPrompt, "append-system-prompt", "", "Text appended to the system prompt")
	runCmd.Flags().StringVar(&runSystemPrompt, "system-prompt", "", "Replacement system prompt")
	runCmd.Flags().BoolVar(&runContinue, "continue", false, "Continue the latest conversation")
	runCmd.Flags().StringVar(&runResume, "resume", "", "Resume the conversation with this session ID")
	runCmd.Flags().StringVar(&runClaudeBin, "claude-bin", "", "Path to the claude binary")
	runCmd.Flags().StringVar(&runCwd, "cwd", "", "Working directory for Claude")
	runCmd.Flags().StringVar(&runSession, "tmux-session", "", "Tmux session name (\"auto\" generates a unique one)")
	runCmd.Flags().IntVar(&runWaitS, "interactive-wait-s", 0, "Seconds to wait before printing a final snapshot")
	runCmd.Flags().IntVar(&runSendDelayMS, "interactive-send-delay-ms", 0, "Delay between injected prompt lines")
}

// runDeps are the orchestrator's seams: environment, search path,
// platform, and the two runners. Production values come from realDeps;
// tests substitute fakes.
type runDeps struct {
	getenv      func(string) string
	lookPath    func(string) (string, error)
	goos        string
	headless    func(argv []string, dir string) (int, error)
	interactive func(cfg claude.RunConfig, tmuxPath string) error
}

func realDeps() runDeps {
	return runDeps{
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		goos:     runtime.GOOS,
		headless: func(argv []string, dir string) (int, error) {
			return headless.New().Run(argv, dir)
		},
		interactive: func(cfg claude.RunConfig, tmuxPath string) error {
			return session.New(tmuxPath, os.Stdout).Run(cfg)
		},
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd, args)
	if err != nil {
		return err
	}
	return orchestrate(cfg, realDeps())
}

// buildRunConfig merges flags over the config file over built-in
// defaults. A flag only wins when it was actually set.
func buildRunConfig(cmd *cobra.Command, args []string) (claude.RunConfig, error) {
	switch claude.Mode(runMode) {
	case claude.ModeAuto, claude.ModeHeadless, claude.ModeInteractive:
	default:
		return claude.RunConfig{}, fmt.Errorf("invalid --mode %q (want auto, headless, or interactive)", runMode)
	}

	fileCfg := fileConfig()

	// pflag already drops a literal "--" separator, but strip one
	// defensively in case the args arrived another way.
	extra := args
	if len(extra) > 0 && extra[0] == "--" {
		extra = extra[1:]
	}

	sessionName := runSession
	if sessionName == "" {
		sessionName = fileCfg.Session
	}
	socketName := socketNameFlag
	if socketName == "" {
		socketName = fileCfg.SocketName
	}

	waitS := runWaitS
	if !cmd.Flags().Changed("interactive-wait-s") && fileCfg.WaitS > 0 {
		waitS = fileCfg.WaitS
	}
	delayMS := runSendDelayMS
	if !cmd.Flags().Changed("interactive-send-delay-ms") && fileCfg.SendDelayMS > 0 {
		delayMS = fileCfg.SendDelayMS
	}

	// The binary and socket dir keep their config-file tier separate:
	// the environment override outranks the file, so folding the file
	// value into the explicit slot would invert the precedence.
	return claude.RunConfig{
		Bin:                runClaudeBin,
		FileBin:            fileCfg.ClaudeBin,
		PermissionMode:     runPermissionMode,
		AllowedTools:       runAllowedTools,
		OutputFormat:       runOutputFormat,
		JSONSchema:         runJSONSchema,
		AppendSystemPrompt: runAppendSystemPrompt,
		SystemPrompt:       runSystemPrompt,
		Continue:           runContinue,
		Resume:             runResume,
		Prompt:             runPrompt,
		Dir:                runCwd,
		Extra:              extra,
		Mode:               claude.Mode(runMode),
		Session:            sessionName,
		SocketDir:          socketDirFlag,
		FileSocketDir:      fileCfg.SocketDir,
		SocketName:         socketName,
		Wait:               time.Duration(waitS) * time.Second,
		SendDelay:          time.Duration(delayMS) * time.Millisecond,
	}, nil
}

// orchestrate checks preconditions, picks the mode, and dispatches.
// Precondition failures exit 2 before any process or session exists.
func orchestrate(cfg claude.RunConfig, deps runDeps) error {
	cfg.Bin = claude.ResolveBinary(cfg.Bin, cfg.FileBin, constants.BinaryEnvVar, constants.DefaultBinary, deps.getenv, deps.lookPath)
	if err := claude.CheckBinary(cfg.Bin, deps.lookPath); err != nil {
		return &exitError{code: 2, msg: err.Error()}
	}

	mode := claude.SelectMode(cfg.Mode, cfg.Prompt)

	if mode == claude.ModeInteractive {
		if deps.goos == "windows" {
			return &exitError{code: 2, msg: "interactive tmux mode is not supported on Windows"}
		}
		tmuxPath, err := deps.lookPath("tmux")
		if err != nil {
			return &exitError{code: 2, msg: "tmux not found in PATH"}
		}
		return deps.interactive(cfg, tmuxPath)
	}

	code, err := deps.headless(claude.BuildArgs(cfg), cfg.Dir)
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}
