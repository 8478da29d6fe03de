package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/antigravity-labs/controller/internal/config"
	"github.com/antigravity-labs/controller/internal/provider"
	"github.com/antigravity-labs/controller/internal/tool/executor"
	"github.com/mitchellh/mapstructure"
)

// RunCommandTool executes a shell command in a working directory, bounded by
// the configured timeout. On timeout the whole process group is killed.
type RunCommandTool struct {
	runner *executor.Runner
	cfg    *config.ToolsConfig
}

// NewRunCommandTool creates a RunCommandTool.
func NewRunCommandTool(runner *executor.Runner, cfg *config.ToolsConfig) *RunCommandTool {
	return &RunCommandTool{runner: runner, cfg: cfg}
}

func (t *RunCommandTool) Name() string { return "run_command" }

func (t *RunCommandTool) Description() string {
	return "Execute a shell command in the given working directory. " +
		"Use this for running tests, builds, linters, or other CLI tools. " +
		"The command will be terminated after a timeout."
}

func (t *RunCommandTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"command": {Type: "string", Description: "Shell command to execute"},
		"cwd":     {Type: "string", Description: "Working directory for the command"},
	}, "command", "cwd")
}

func (t *RunCommandTool) Dangerous() bool { return true }

func (t *RunCommandTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		Command string `mapstructure:"command"`
		Cwd     string `mapstructure:"cwd"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	timeoutSec := t.cfg.CommandTimeoutSeconds
	res, err := t.runner.RunShell(ctx, req.Command, req.Cwd, time.Duration(timeoutSec)*time.Second)
	if err != nil {
		if err == executor.ErrTimeout {
			return fmt.Sprintf("Command timed out after %ds: %s", timeoutSec, req.Command), nil
		}
		return fmt.Sprintf("Error executing command: %v", err), nil
	}

	stdout := strings.TrimSpace(res.Stdout)
	stderr := strings.TrimSpace(res.Stderr)
	if res.StdoutTruncated {
		stdout += "\n... (output truncated)"
	}
	if res.StderrTruncated {
		stderr += "\n... (stderr truncated)"
	}

	parts := []string{fmt.Sprintf("Exit code: %d", res.ExitCode)}
	if stdout != "" {
		parts = append(parts, "stdout:\n"+stdout)
	}
	if stderr != "" {
		parts = append(parts, "stderr:\n"+stderr)
	}

	return strings.Join(parts, "\n\n"), nil
}
