// Package main runs the controller, either as an interactive terminal
// console or as an HTTP server draining a persistent command queue.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/antigravity-labs/controller/internal/agent"
	"github.com/antigravity-labs/controller/internal/config"
	"github.com/antigravity-labs/controller/internal/console"
	"github.com/antigravity-labs/controller/internal/log"
	"github.com/antigravity-labs/controller/internal/provider/gemini"
	"github.com/antigravity-labs/controller/internal/security"
	"github.com/antigravity-labs/controller/internal/server"
	"github.com/antigravity-labs/controller/internal/store"
	"github.com/antigravity-labs/controller/internal/tool"
	"github.com/antigravity-labs/controller/internal/tool/executor"
	"google.golang.org/genai"
)

func main() {
	serve := flag.Bool("serve", false, "run the HTTP server instead of the interactive console")
	flag.Parse()

	if err := run(*serve); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(serve bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := log.New(log.Config{Level: log.ParseLevel(cfg.Log.Level), JSON: serve})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	registry := buildRegistry(cfg)
	gate := security.NewGate(security.NewPolicy(
		cfg.Security.AllowedDirectories,
		cfg.Security.AllowedUserIDs,
		cfg.Security.RequireConfirmation,
	))
	ag := agent.New(provider, registry, gate, cfg, logger)

	if serve {
		return runServer(ctx, cfg, ag, gate, logger)
	}
	return console.New(ag, cfg.Agent.Model).Run()
}

func newProvider(ctx context.Context, cfg *config.Config) (*gemini.Provider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return gemini.New(gemini.NewSDKClient(genaiClient), cfg.Agent.Model), nil
}

func buildRegistry(cfg *config.Config) *tool.Registry {
	runner := executor.NewRunner(cfg.Tools.MaxCommandOutputChars)
	git := tool.NewGitRunner(runner, &cfg.Tools)

	registry := tool.NewRegistry()
	registry.Register(tool.NewReadFileTool())
	registry.Register(tool.NewWriteFileTool())
	registry.Register(tool.NewListDirectoryTool(&cfg.Tools))
	registry.Register(tool.NewSearchInFilesTool(&cfg.Tools))
	registry.Register(tool.NewRunCommandTool(runner, &cfg.Tools))
	registry.Register(tool.NewGitStatusTool(git))
	registry.Register(tool.NewGitDiffTool(git))
	registry.Register(tool.NewGitLogTool(git))
	registry.Register(tool.NewGitCommitTool(git))
	registry.Register(tool.NewGitPushTool(git))
	registry.Register(tool.NewProjectStructureTool(&cfg.Tools))
	registry.Register(tool.NewFileInfoTool())
	registry.Register(tool.NewFindTodosTool(&cfg.Tools))
	return registry
}

func runServer(ctx context.Context, cfg *config.Config, ag *agent.Agent, gate *security.Gate, logger log.Logger) error {
	secret := os.Getenv("CONTROLLER_SECRET")
	if secret == "" {
		return fmt.Errorf("CONTROLLER_SECRET environment variable is required in serve mode")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to resolve home directory: %w", err)
	}
	queue, err := store.Open(filepath.Join(home, ".config", "controller", "commands.db"))
	if err != nil {
		return fmt.Errorf("failed to open command store: %w", err)
	}
	defer queue.Close()

	// Queued commands run unattended: dangerous tools get no
	// confirmation channel and proceed under the security gate alone,
	// and each command's one-shot session is cleared after it runs.
	srv, err := server.New(cfg.Server, secret, queue, ag, gate, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
