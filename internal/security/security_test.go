package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T, dirs ...string) *Gate {
	t.Helper()
	return NewGate(NewPolicy(dirs, nil, true))
}

func TestPathAllowed_InsideRoot(t *testing.T) {
	root := t.TempDir()
	gate := newTestGate(t, root)

	sub := filepath.Join(root, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))

	assert.True(t, gate.PathAllowed(root))
	assert.True(t, gate.PathAllowed(sub))
	assert.True(t, gate.PathAllowed(filepath.Join(sub, "main.go")))
}

func TestPathAllowed_OutsideRoot(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	gate := newTestGate(t, root)

	assert.False(t, gate.PathAllowed(other))
	assert.False(t, gate.PathAllowed(filepath.Join(other, "file.txt")))
	assert.False(t, gate.PathAllowed("/etc/passwd"))
}

func TestPathAllowed_SiblingPrefixNotConfused(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "work")
	sibling := filepath.Join(base, "workspace")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.Mkdir(sibling, 0o755))

	gate := newTestGate(t, root)
	assert.False(t, gate.PathAllowed(sibling))
	assert.False(t, gate.PathAllowed(filepath.Join(sibling, "file.txt")))
}

func TestPathAllowed_EquivalentSpellingsAgree(t *testing.T) {
	root := t.TempDir()
	gate := newTestGate(t, root)

	sub := filepath.Join(root, "dir")
	require.NoError(t, os.Mkdir(sub, 0o755))

	spellings := []string{
		sub,
		sub + string(filepath.Separator),
		filepath.Join(root, ".", "dir"),
		filepath.Join(root, "dir", "."),
	}
	for _, p := range spellings {
		assert.True(t, gate.PathAllowed(p), "spelling %q", p)
	}
}

func TestPathAllowed_NonExistentWriteTarget(t *testing.T) {
	root := t.TempDir()
	gate := newTestGate(t, root)

	// Write targets do not exist yet; they resolve through the
	// longest existing ancestor.
	assert.True(t, gate.PathAllowed(filepath.Join(root, "new", "deep", "file.txt")))
	assert.False(t, gate.PathAllowed(filepath.Join(t.TempDir(), "new", "file.txt")))
}

func TestPathAllowed_SymlinkEscapeDenied(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	gate := newTestGate(t, root)

	link := filepath.Join(root, "escape")
	require.NoError(t, os.Symlink(outside, link))

	assert.False(t, gate.PathAllowed(link))
	assert.False(t, gate.PathAllowed(filepath.Join(link, "file.txt")))
}

func TestUserAllowed(t *testing.T) {
	open := NewGate(NewPolicy(nil, nil, true))
	assert.True(t, open.UserAllowed("anyone"))

	restricted := NewGate(NewPolicy(nil, []string{"alice"}, true))
	assert.True(t, restricted.UserAllowed("alice"))
	assert.False(t, restricted.UserAllowed("bob"))
}

func TestNeedsConfirmation(t *testing.T) {
	gate := NewGate(NewPolicy(nil, nil, true))
	assert.True(t, gate.NeedsConfirmation("write_file"))
	assert.True(t, gate.NeedsConfirmation("run_command"))
	assert.True(t, gate.NeedsConfirmation("git_commit"))
	assert.True(t, gate.NeedsConfirmation("git_push"))
	assert.False(t, gate.NeedsConfirmation("read_file"))
	assert.False(t, gate.NeedsConfirmation("git_status"))

	relaxed := NewGate(NewPolicy(nil, nil, false))
	assert.False(t, relaxed.NeedsConfirmation("write_file"))
}

func TestValidateCall_AllowedPath(t *testing.T) {
	root := t.TempDir()
	gate := newTestGate(t, root)

	msg := gate.ValidateCall("read_file", map[string]any{"path": filepath.Join(root, "a.txt")})
	assert.Empty(t, msg)
}

func TestValidateCall_OutsidePath(t *testing.T) {
	root := t.TempDir()
	gate := newTestGate(t, root)

	msg := gate.ValidateCall("read_file", map[string]any{"path": "/etc/passwd"})
	assert.True(t, strings.HasPrefix(msg, "Access denied: '/etc/passwd' is outside allowed directories."), msg)
}

func TestValidateCall_ChecksAllPathKeys(t *testing.T) {
	root := t.TempDir()
	gate := newTestGate(t, root)

	for _, key := range []string{"path", "repo_path", "directory", "cwd"} {
		msg := gate.ValidateCall("run_command", map[string]any{key: "/etc"})
		assert.NotEmpty(t, msg, "key %s", key)
	}
}

func TestValidateCall_NonPathArgsIgnored(t *testing.T) {
	gate := newTestGate(t) // no roots: every path denied
	msg := gate.ValidateCall("run_command", map[string]any{"command": "ls /etc"})
	assert.Empty(t, msg)
}

func TestValidateCall_TraversalDetected(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	gate := newTestGate(t, root)

	// Resolves inside the root, but the raw argument still climbs.
	t.Chdir(sub)
	msg := gate.ValidateCall("read_file", map[string]any{"path": "../a.txt"})
	assert.Contains(t, msg, "path traversal detected")
}

func TestValidateCall_NonStringPathRejected(t *testing.T) {
	root := t.TempDir()
	gate := newTestGate(t, root)

	msg := gate.ValidateCall("read_file", map[string]any{"path": 42})
	assert.Contains(t, msg, "is not a path string")
}
