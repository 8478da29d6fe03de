package config

import (
	"fmt"
	"path/filepath"
)

// Validate checks the merged configuration for values that would break the
// agent at runtime. It is called by the Loader after merging the dotfile
// over defaults.
func (c *Config) Validate() error {
	if c.Agent.Model == "" {
		return fmt.Errorf("agent: model must not be empty")
	}
	if c.Agent.MaxToolRounds < 1 {
		return fmt.Errorf("agent: max_tool_rounds must be at least 1, got %d", c.Agent.MaxToolRounds)
	}
	if c.Agent.HistoryWindow < 2 {
		return fmt.Errorf("agent: history_window must be at least 2, got %d", c.Agent.HistoryWindow)
	}

	for _, dir := range c.Security.AllowedDirectories {
		if !filepath.IsAbs(dir) {
			return fmt.Errorf("security: allowed directory %q must be absolute", dir)
		}
	}
	if c.Security.ConfirmationTimeoutSeconds < 1 {
		return fmt.Errorf("security: confirmation_timeout_seconds must be at least 1, got %d", c.Security.ConfirmationTimeoutSeconds)
	}

	if c.Tools.CommandTimeoutSeconds < 1 {
		return fmt.Errorf("tools: command_timeout_seconds must be at least 1, got %d", c.Tools.CommandTimeoutSeconds)
	}
	if c.Tools.GitTimeoutSeconds < 1 {
		return fmt.Errorf("tools: git_timeout_seconds must be at least 1, got %d", c.Tools.GitTimeoutSeconds)
	}
	if c.Tools.MaxCommandOutputChars < 1 {
		return fmt.Errorf("tools: max_command_output_chars must be at least 1, got %d", c.Tools.MaxCommandOutputChars)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: port %d out of range", c.Server.Port)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", c.Log.Level)
	}

	return nil
}
