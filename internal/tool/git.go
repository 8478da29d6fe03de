package tool

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/antigravity-labs/controller/internal/config"
	"github.com/antigravity-labs/controller/internal/provider"
	"github.com/antigravity-labs/controller/internal/tool/executor"
	"github.com/mitchellh/mapstructure"
)

// GitRunner shells out to the git binary with a bounded timeout. All git
// tools share one instance.
type GitRunner struct {
	runner *executor.Runner
	cfg    *config.ToolsConfig
}

func NewGitRunner(runner *executor.Runner, cfg *config.ToolsConfig) *GitRunner {
	return &GitRunner{runner: runner, cfg: cfg}
}

// run executes git with the given arguments in repoPath. Timeouts and
// execution failures come back as Error strings, never as Go errors: the
// reasoning engine should see them and adjust.
func (g *GitRunner) run(ctx context.Context, repoPath string, timeout time.Duration, args ...string) (*executor.Result, string) {
	argv := append([]string{"git"}, args...)
	res, err := g.runner.Run(ctx, argv, repoPath, timeout)
	if err != nil {
		if err == executor.ErrTimeout {
			return nil, "Error: Command timed out"
		}
		return nil, fmt.Sprintf("Error: %v", err)
	}
	return res, ""
}

func (g *GitRunner) timeout() time.Duration {
	return time.Duration(g.cfg.GitTimeoutSeconds) * time.Second
}

// GitStatusTool shows the working tree status of a repository.
type GitStatusTool struct {
	git *GitRunner
}

// NewGitStatusTool creates a GitStatusTool.
func NewGitStatusTool(git *GitRunner) *GitStatusTool {
	return &GitStatusTool{git: git}
}

func (t *GitStatusTool) Name() string { return "git_status" }

func (t *GitStatusTool) Description() string {
	return "Show the git status of a repository (modified, staged, untracked files)."
}

func (t *GitStatusTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"repo_path": {Type: "string", Description: "Absolute path to the git repository"},
	}, "repo_path")
}

func (t *GitStatusTool) Dangerous() bool { return false }

func (t *GitStatusTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		RepoPath string `mapstructure:"repo_path"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	res, errMsg := t.git.run(ctx, req.RepoPath, t.git.timeout(), "status", "--short", "--branch")
	if errMsg != "" {
		return errMsg, nil
	}
	if res.ExitCode != 0 {
		return fmt.Sprintf("Error: %s", strings.TrimSpace(res.Stderr)), nil
	}
	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		return "Working tree is clean", nil
	}
	return out, nil
}

// GitDiffTool shows uncommitted changes, summary first, detail capped.
type GitDiffTool struct {
	git *GitRunner
}

// NewGitDiffTool creates a GitDiffTool.
func NewGitDiffTool(git *GitRunner) *GitDiffTool {
	return &GitDiffTool{git: git}
}

func (t *GitDiffTool) Name() string { return "git_diff" }

func (t *GitDiffTool) Description() string {
	return "Show the git diff of uncommitted changes in a repository."
}

func (t *GitDiffTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"repo_path": {Type: "string", Description: "Absolute path to the git repository"},
		"staged":    {Type: "boolean", Description: "Show staged changes only (default: false)"},
	}, "repo_path")
}

func (t *GitDiffTool) Dangerous() bool { return false }

func (t *GitDiffTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		RepoPath string `mapstructure:"repo_path"`
		Staged   bool   `mapstructure:"staged"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	statArgs := []string{"diff", "--stat"}
	if req.Staged {
		statArgs = append(statArgs, "--cached")
	}
	res, errMsg := t.git.run(ctx, req.RepoPath, t.git.timeout(), statArgs...)
	if errMsg != "" {
		return errMsg, nil
	}
	if res.ExitCode != 0 {
		return fmt.Sprintf("Error: %s", strings.TrimSpace(res.Stderr)), nil
	}
	summary := strings.TrimSpace(res.Stdout)
	if summary == "" {
		if req.Staged {
			return "No changes staged", nil
		}
		return "No changes", nil
	}

	detailArgs := []string{"diff"}
	if req.Staged {
		detailArgs = append(detailArgs, "--cached")
	}
	detail, errMsg := t.git.run(ctx, req.RepoPath, t.git.timeout(), detailArgs...)
	if errMsg != "" {
		return errMsg, nil
	}

	detailOut := detail.Stdout
	lines := strings.Split(detailOut, "\n")
	if max := t.git.cfg.MaxDiffLines; len(lines) > max {
		detailOut = strings.Join(lines[:max], "\n") + fmt.Sprintf("\n\n... (%d more lines)", len(lines)-max)
	}

	return fmt.Sprintf("Summary:\n%s\n\nDiff:\n%s", summary, strings.TrimSpace(detailOut)), nil
}

// GitLogTool shows recent commit history.
type GitLogTool struct {
	git *GitRunner
}

// NewGitLogTool creates a GitLogTool.
func NewGitLogTool(git *GitRunner) *GitLogTool {
	return &GitLogTool{git: git}
}

func (t *GitLogTool) Name() string { return "git_log" }

func (t *GitLogTool) Description() string {
	return "Show recent git commit history."
}

func (t *GitLogTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"repo_path": {Type: "string", Description: "Absolute path to the git repository"},
		"count":     {Type: "integer", Description: "Number of commits to show (default: 10, max: 30)"},
	}, "repo_path")
}

func (t *GitLogTool) Dangerous() bool { return false }

func (t *GitLogTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		RepoPath string `mapstructure:"repo_path"`
		Count    int    `mapstructure:"count"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	count := req.Count
	if count <= 0 {
		count = 10
	}
	if count > 30 {
		count = 30
	}

	res, errMsg := t.git.run(ctx, req.RepoPath, t.git.timeout(),
		"log", "-"+strconv.Itoa(count), "--oneline", "--decorate")
	if errMsg != "" {
		return errMsg, nil
	}
	if res.ExitCode != 0 {
		return fmt.Sprintf("Error: %s", strings.TrimSpace(res.Stderr)), nil
	}
	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		return "No commits yet", nil
	}
	return out, nil
}

// GitCommitTool stages all changes and creates a commit.
type GitCommitTool struct {
	git *GitRunner
}

// NewGitCommitTool creates a GitCommitTool.
func NewGitCommitTool(git *GitRunner) *GitCommitTool {
	return &GitCommitTool{git: git}
}

func (t *GitCommitTool) Name() string { return "git_commit" }

func (t *GitCommitTool) Description() string {
	return "Stage all changes and create a git commit with the given message."
}

func (t *GitCommitTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"repo_path": {Type: "string", Description: "Absolute path to the git repository"},
		"message":   {Type: "string", Description: "Commit message"},
	}, "repo_path", "message")
}

func (t *GitCommitTool) Dangerous() bool { return true }

func (t *GitCommitTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		RepoPath string `mapstructure:"repo_path"`
		Message  string `mapstructure:"message"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	res, errMsg := t.git.run(ctx, req.RepoPath, t.git.timeout(), "add", "-A")
	if errMsg != "" {
		return errMsg, nil
	}
	if res.ExitCode != 0 {
		return fmt.Sprintf("Error staging files: %s", strings.TrimSpace(res.Stderr)), nil
	}

	res, errMsg = t.git.run(ctx, req.RepoPath, t.git.timeout(), "commit", "-m", req.Message)
	if errMsg != "" {
		return errMsg, nil
	}
	if res.ExitCode != 0 {
		return fmt.Sprintf("Error committing: %s", strings.TrimSpace(res.Stderr)), nil
	}
	return strings.TrimSpace(res.Stdout), nil
}

// GitPushTool pushes committed changes to the remote.
type GitPushTool struct {
	git *GitRunner
}

// NewGitPushTool creates a GitPushTool.
func NewGitPushTool(git *GitRunner) *GitPushTool {
	return &GitPushTool{git: git}
}

func (t *GitPushTool) Name() string { return "git_push" }

func (t *GitPushTool) Description() string {
	return "Push committed changes to the remote repository."
}

func (t *GitPushTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"repo_path": {Type: "string", Description: "Absolute path to the git repository"},
	}, "repo_path")
}

func (t *GitPushTool) Dangerous() bool { return true }

func (t *GitPushTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		RepoPath string `mapstructure:"repo_path"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	timeout := time.Duration(t.git.cfg.GitPushTimeoutSeconds) * time.Second
	res, errMsg := t.git.run(ctx, req.RepoPath, timeout, "push")
	if errMsg != "" {
		return errMsg, nil
	}
	if res.ExitCode != 0 {
		return fmt.Sprintf("Error pushing: %s", strings.TrimSpace(res.Stderr)), nil
	}

	// git push reports progress on stderr, surface it as information.
	output := strings.TrimSpace(res.Stdout)
	if output == "" {
		output = strings.TrimSpace(res.Stderr)
	}
	if output == "" {
		return "Push successful", nil
	}
	return output, nil
}
