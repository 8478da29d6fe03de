package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_DefaultsAreValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty model", func(c *Config) { c.Agent.Model = "" }, "model"},
		{"zero rounds", func(c *Config) { c.Agent.MaxToolRounds = 0 }, "max_tool_rounds"},
		{"tiny window", func(c *Config) { c.Agent.HistoryWindow = 1 }, "history_window"},
		{"relative allowed dir", func(c *Config) { c.Security.AllowedDirectories = []string{"projects"} }, "absolute"},
		{"zero confirmation timeout", func(c *Config) { c.Security.ConfirmationTimeoutSeconds = 0 }, "confirmation_timeout"},
		{"zero command timeout", func(c *Config) { c.Tools.CommandTimeoutSeconds = 0 }, "command_timeout"},
		{"zero git timeout", func(c *Config) { c.Tools.GitTimeoutSeconds = 0 }, "git_timeout"},
		{"zero output cap", func(c *Config) { c.Tools.MaxCommandOutputChars = 0 }, "max_command_output"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "port"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "port"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_AbsoluteAllowedDirsPass(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Security.AllowedDirectories = []string{"/srv/projects", "/home/op/code"}
	assert.NoError(t, cfg.Validate())
}
