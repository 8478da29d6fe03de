package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Agent    AgentConfig    `json:"agent"`
	Security SecurityConfig `json:"security"`
	Tools    ToolsConfig    `json:"tools"`
	Server   ServerConfig   `json:"server"`
	Log      LogConfig      `json:"log"`
}

// AgentConfig controls the reasoning loop.
type AgentConfig struct {
	Model          string  `json:"model"`            // Default: "gemini-2.0-flash"
	MaxToolRounds  int     `json:"max_tool_rounds"`  // Default: 10
	HistoryWindow  int     `json:"history_window"`   // Default: 40 entries
	Temperature    float32 `json:"temperature"`      // Default: 0.3
	SystemPromptOn bool    `json:"system_prompt_on"` // Default: true
}

// SecurityConfig controls the permission gate and confirmation flow.
type SecurityConfig struct {
	// AllowedDirectories are absolute roots outside of which no path
	// argument may resolve. Empty means no filesystem access at all.
	AllowedDirectories []string `json:"allowed_directories"`

	// AllowedUserIDs restricts who may obtain API tokens.
	// Empty means single-operator mode: every id passes.
	AllowedUserIDs []string `json:"allowed_user_ids"`

	// RequireConfirmation gates dangerous tools behind a yes/no decision.
	RequireConfirmation bool `json:"require_confirmation"` // Default: true

	ConfirmationTimeoutSeconds int `json:"confirmation_timeout_seconds"` // Default: 60
}

// ToolsConfig holds per-capability caps and timeouts.
type ToolsConfig struct {
	// Command Execution
	CommandTimeoutSeconds int `json:"command_timeout_seconds"` // Default: 30
	MaxCommandOutputChars int `json:"max_command_output_chars"` // Default: 3000 (stdout and stderr independently)

	// Git
	GitTimeoutSeconds     int `json:"git_timeout_seconds"`      // Default: 15
	GitPushTimeoutSeconds int `json:"git_push_timeout_seconds"` // Default: 30
	MaxDiffLines          int `json:"max_diff_lines"`           // Default: 100

	// Directory Listing
	MaxListEntries int `json:"max_list_entries"` // Default: 200
	MaxListDepth   int `json:"max_list_depth"`   // Default: 4 (recursive mode)

	// Search
	MaxSearchResults int `json:"max_search_results"` // Default: 50

	// Project inspection
	DefaultTreeDepth int `json:"default_tree_depth"` // Default: 3
	MaxTreeLines     int `json:"max_tree_lines"`     // Default: 150
	MaxTodoResults   int `json:"max_todo_results"`   // Default: 50
}

// ServerConfig controls the REST/WebSocket status service.
type ServerConfig struct {
	Host               string  `json:"host"`                  // Default: "127.0.0.1"
	Port               int     `json:"port"`                  // Default: 8420
	AgentID            string  `json:"agent_id"`              // Default: "controller"
	JWTExpiryMinutes   int     `json:"jwt_expiry_minutes"`    // Default: 30
	RateLimitPerSecond float64 `json:"rate_limit_per_second"` // Default: 10
	RateLimitBurst     int     `json:"rate_limit_burst"`      // Default: 20
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `json:"level"` // Default: "info" (one of debug|info|warn|error)
	JSON  bool   `json:"json"`  // Default: false
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Model:          "gemini-2.0-flash",
			MaxToolRounds:  10,
			HistoryWindow:  40,
			Temperature:    0.3,
			SystemPromptOn: true,
		},
		Security: SecurityConfig{
			AllowedDirectories:         nil,
			AllowedUserIDs:             nil,
			RequireConfirmation:        true,
			ConfirmationTimeoutSeconds: 60,
		},
		Tools: ToolsConfig{
			CommandTimeoutSeconds: 30,
			MaxCommandOutputChars: 3000,
			GitTimeoutSeconds:     15,
			GitPushTimeoutSeconds: 30,
			MaxDiffLines:          100,
			MaxListEntries:        200,
			MaxListDepth:          4,
			MaxSearchResults:      50,
			DefaultTreeDepth:      3,
			MaxTreeLines:          150,
			MaxTodoResults:        50,
		},
		Server: ServerConfig{
			Host:               "127.0.0.1",
			Port:               8420,
			AgentID:            "controller",
			JWTExpiryMinutes:   30,
			RateLimitPerSecond: 10,
			RateLimitBurst:     20,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
