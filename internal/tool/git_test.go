package tool

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antigravity-labs/controller/internal/tool/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGitRunner() *GitRunner {
	cfg := testToolsConfig()
	return NewGitRunner(executor.NewRunner(cfg.MaxCommandOutputChars), cfg)
}

// initTestRepo creates a git repo with local identity so commits work in CI.
func initTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		require.NoError(t, cmd.Run(), "git %v", args)
	}
	return dir
}

func commitAll(t *testing.T, dir, message string) {
	t.Helper()
	for _, args := range [][]string{
		{"add", "-A"},
		{"commit", "-m", message},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		require.NoError(t, cmd.Run(), "git %v", args)
	}
}

func TestGitStatus_CleanTree(t *testing.T) {
	dir := initTestRepo(t)
	writeTestFile(t, dir, "a.txt", "hi\n")
	commitAll(t, dir, "initial")

	result, err := NewGitStatusTool(newTestGitRunner()).Execute(context.Background(),
		map[string]any{"repo_path": dir})
	require.NoError(t, err)
	// git status --branch always prints the branch header.
	assert.Contains(t, result, "##")
	assert.NotContains(t, result, "a.txt")
}

func TestGitStatus_UntrackedFile(t *testing.T) {
	dir := initTestRepo(t)
	writeTestFile(t, dir, "new.txt", "x\n")

	result, err := NewGitStatusTool(newTestGitRunner()).Execute(context.Background(),
		map[string]any{"repo_path": dir})
	require.NoError(t, err)
	assert.Contains(t, result, "?? new.txt")
}

func TestGitStatus_NotARepo(t *testing.T) {
	dir := t.TempDir()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	result, err := NewGitStatusTool(newTestGitRunner()).Execute(context.Background(),
		map[string]any{"repo_path": dir})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result, "Error:"), result)
}

func TestGitDiff_NoChanges(t *testing.T) {
	dir := initTestRepo(t)
	writeTestFile(t, dir, "a.txt", "hi\n")
	commitAll(t, dir, "initial")

	result, err := NewGitDiffTool(newTestGitRunner()).Execute(context.Background(),
		map[string]any{"repo_path": dir})
	require.NoError(t, err)
	assert.Equal(t, "No changes", result)
}

func TestGitDiff_ShowsModification(t *testing.T) {
	dir := initTestRepo(t)
	path := writeTestFile(t, dir, "a.txt", "old line\n")
	commitAll(t, dir, "initial")
	writeTestFile(t, dir, filepath.Base(path), "new line\n")

	result, err := NewGitDiffTool(newTestGitRunner()).Execute(context.Background(),
		map[string]any{"repo_path": dir})
	require.NoError(t, err)
	assert.Contains(t, result, "Summary:")
	assert.Contains(t, result, "Diff:")
	assert.Contains(t, result, "-old line")
	assert.Contains(t, result, "+new line")
}

func TestGitDiff_StagedEmpty(t *testing.T) {
	dir := initTestRepo(t)
	writeTestFile(t, dir, "a.txt", "hi\n")
	commitAll(t, dir, "initial")

	result, err := NewGitDiffTool(newTestGitRunner()).Execute(context.Background(),
		map[string]any{"repo_path": dir, "staged": true})
	require.NoError(t, err)
	assert.Equal(t, "No changes staged", result)
}

func TestGitLog_NoCommits(t *testing.T) {
	dir := initTestRepo(t)

	result, err := NewGitLogTool(newTestGitRunner()).Execute(context.Background(),
		map[string]any{"repo_path": dir})
	require.NoError(t, err)
	// A repo without commits makes git log fail; either outcome reads
	// as "nothing to show".
	if !strings.HasPrefix(result, "Error:") {
		assert.Equal(t, "No commits yet", result)
	}
}

func TestGitLog_ShowsCommits(t *testing.T) {
	dir := initTestRepo(t)
	writeTestFile(t, dir, "a.txt", "1\n")
	commitAll(t, dir, "first commit")
	writeTestFile(t, dir, "a.txt", "2\n")
	commitAll(t, dir, "second commit")

	result, err := NewGitLogTool(newTestGitRunner()).Execute(context.Background(),
		map[string]any{"repo_path": dir})
	require.NoError(t, err)
	assert.Contains(t, result, "first commit")
	assert.Contains(t, result, "second commit")
}

func TestGitCommit_StagesAndCommits(t *testing.T) {
	dir := initTestRepo(t)
	writeTestFile(t, dir, "a.txt", "content\n")

	result, err := NewGitCommitTool(newTestGitRunner()).Execute(context.Background(),
		map[string]any{"repo_path": dir, "message": "add a.txt"})
	require.NoError(t, err)
	assert.Contains(t, result, "add a.txt")

	status, err := NewGitStatusTool(newTestGitRunner()).Execute(context.Background(),
		map[string]any{"repo_path": dir})
	require.NoError(t, err)
	assert.NotContains(t, status, "a.txt")
}

func TestGitCommit_NothingToCommit(t *testing.T) {
	dir := initTestRepo(t)
	writeTestFile(t, dir, "a.txt", "x\n")
	commitAll(t, dir, "initial")

	result, err := NewGitCommitTool(newTestGitRunner()).Execute(context.Background(),
		map[string]any{"repo_path": dir, "message": "empty"})
	require.NoError(t, err)
	assert.Contains(t, result, "Error committing:")
}

func TestGitPush_NoRemote(t *testing.T) {
	dir := initTestRepo(t)
	writeTestFile(t, dir, "a.txt", "x\n")
	commitAll(t, dir, "initial")

	result, err := NewGitPushTool(newTestGitRunner()).Execute(context.Background(),
		map[string]any{"repo_path": dir})
	require.NoError(t, err)
	assert.Contains(t, result, "Error pushing:")
}

func TestGitTools_Danger(t *testing.T) {
	git := newTestGitRunner()
	assert.False(t, NewGitStatusTool(git).Dangerous())
	assert.False(t, NewGitDiffTool(git).Dangerous())
	assert.False(t, NewGitLogTool(git).Dangerous())
	assert.True(t, NewGitCommitTool(git).Dangerous())
	assert.True(t, NewGitPushTool(git).Dangerous())
}
