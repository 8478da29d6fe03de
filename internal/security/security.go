// Package security implements the permission gate: the directory allow-list,
// path-traversal rejection, user authorization, and the dangerous-tool set.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DangerousTools is the fixed set of tool names whose side effects require
// user confirmation.
var DangerousTools = map[string]bool{
	"write_file":  true,
	"run_command": true,
	"git_commit":  true,
	"git_push":    true,
}

// pathArgKeys are the argument names that conventionally carry paths.
var pathArgKeys = []string{"path", "repo_path", "directory", "cwd"}

// Policy is the read-only security configuration, built once at startup.
type Policy struct {
	// AllowedRoots are canonicalized absolute directories. A path passes
	// only if it resolves to one of these or a descendant.
	AllowedRoots []string

	// AllowedUsers restricts who may drive the agent. Empty means
	// single-operator mode: every id passes.
	AllowedUsers map[string]bool

	// RequireConfirmation gates dangerous tools behind confirmation.
	RequireConfirmation bool
}

// NewPolicy canonicalizes the configured allow-list roots. Roots that do not
// exist are kept in their cleaned absolute form so a later mkdir makes them
// effective without a restart.
func NewPolicy(allowedDirs []string, allowedUsers []string, requireConfirmation bool) *Policy {
	roots := make([]string, 0, len(allowedDirs))
	for _, dir := range allowedDirs {
		resolved, err := canonicalize(dir)
		if err != nil {
			resolved = filepath.Clean(dir)
		}
		roots = append(roots, resolved)
	}

	users := make(map[string]bool, len(allowedUsers))
	for _, id := range allowedUsers {
		users[id] = true
	}

	return &Policy{
		AllowedRoots:        roots,
		AllowedUsers:        users,
		RequireConfirmation: requireConfirmation,
	}
}

// Gate validates tool calls against a Policy. Safe for unsynchronized
// concurrent use; the Policy is immutable after startup.
type Gate struct {
	policy *Policy
}

// NewGate creates a Gate for the given policy.
func NewGate(policy *Policy) *Gate {
	return &Gate{policy: policy}
}

// PathAllowed checks whether a path resolves inside any allowed root.
// Symlinks are followed; any resolution failure is a deny, not a retry.
func (g *Gate) PathAllowed(path string) bool {
	resolved, err := canonicalize(path)
	if err != nil {
		return false
	}
	for _, root := range g.policy.AllowedRoots {
		if resolved == root || strings.HasPrefix(resolved, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// UserAllowed checks whether a user id is authorized. With no configured
// users every id passes (single-operator mode).
func (g *Gate) UserAllowed(id string) bool {
	if len(g.policy.AllowedUsers) == 0 {
		return true
	}
	return g.policy.AllowedUsers[id]
}

// NeedsConfirmation reports whether a tool operation requires user
// confirmation before execution.
func (g *Gate) NeedsConfirmation(toolName string) bool {
	if !g.policy.RequireConfirmation {
		return false
	}
	return DangerousTools[toolName]
}

// ValidateCall inspects the path-carrying arguments of a tool call and
// returns a descriptive error message for the first violation, or "" if the
// call is allowed.
//
// The traversal check runs on the lexically-cleaned raw string, before any
// symlink resolution, as a defense-in-depth layer independent of PathAllowed.
func (g *Gate) ValidateCall(toolName string, args map[string]any) string {
	for _, key := range pathArgKeys {
		raw, present := args[key]
		if !present {
			continue
		}
		p, ok := raw.(string)
		if !ok {
			return fmt.Sprintf("Access denied: argument %q of %s is not a path string", key, toolName)
		}

		if !g.PathAllowed(p) {
			return fmt.Sprintf("Access denied: '%s' is outside allowed directories. Allowed: %v",
				p, g.policy.AllowedRoots)
		}
		if strings.Contains(filepath.Clean(p), "..") {
			return fmt.Sprintf("Access denied: path traversal detected in '%s'", p)
		}
	}
	return ""
}

// canonicalize resolves a path to its canonical absolute form, following
// symlinks. Paths that do not exist yet (write targets) are resolved through
// their longest existing ancestor, with the non-existing remainder appended
// lexically.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)

	existing := abs
	var remainder []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			if len(remainder) == 0 {
				return resolved, nil
			}
			// Rebuild the non-existing tail, innermost first.
			for i := len(remainder) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, remainder[i])
			}
			return resolved, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			return "", err // walked off the root, give up
		}
		remainder = append(remainder, filepath.Base(existing))
		existing = parent
	}
}
