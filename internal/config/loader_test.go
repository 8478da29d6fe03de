package config

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFileSystem implements FileSystem for loader tests.
type MockFileSystem struct {
	HomeDir     string
	HomeDirErr  error
	Files       map[string][]byte
	ReadFileErr error
}

func (m *MockFileSystem) UserHomeDir() (string, error) {
	return m.HomeDir, m.HomeDirErr
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{HomeDir: "/home/user", Files: map[string][]byte{}}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", cfg.Agent.Model)
	assert.Equal(t, 10, cfg.Agent.MaxToolRounds)
	assert.Equal(t, 40, cfg.Agent.HistoryWindow)
	assert.True(t, cfg.Security.RequireConfirmation)
	assert.Equal(t, 60, cfg.Security.ConfirmationTimeoutSeconds)
	assert.Equal(t, 30, cfg.Tools.CommandTimeoutSeconds)
	assert.Equal(t, 3000, cfg.Tools.MaxCommandOutputChars)
	assert.Equal(t, 8420, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_HomeDirError_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{HomeDirErr: errors.New("no home")}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Agent.MaxToolRounds)
}

func TestLoad_PartialOverride_KeepsOtherDefaults(t *testing.T) {
	configJSON := `{
		"agent": {"model": "gemini-2.0-pro", "max_tool_rounds": 5},
		"security": {"allowed_directories": ["/srv/projects"]}
	}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/controller/config.json": []byte(configJSON),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-pro", cfg.Agent.Model)
	assert.Equal(t, 5, cfg.Agent.MaxToolRounds)
	assert.Equal(t, []string{"/srv/projects"}, cfg.Security.AllowedDirectories)
	// Untouched sections keep defaults.
	assert.Equal(t, 40, cfg.Agent.HistoryWindow)
	assert.Equal(t, 30, cfg.Tools.CommandTimeoutSeconds)
}

func TestLoad_MalformedJSON_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/controller/config.json": []byte("{not json"),
		},
	}
	_, err := NewLoaderWithFS(fs).Load()
	assert.Error(t, err)
}

func TestLoad_ReadError_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir:     "/home/user",
		ReadFileErr: os.ErrPermission,
	}
	_, err := NewLoaderWithFS(fs).Load()
	assert.Error(t, err)
}

func TestLoad_InvalidMergedConfig_ReturnsError(t *testing.T) {
	configJSON := `{"agent": {"max_tool_rounds": 0}}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/controller/config.json": []byte(configJSON),
		},
	}
	_, err := NewLoaderWithFS(fs).Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_tool_rounds")
}
