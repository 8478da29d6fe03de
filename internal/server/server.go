// Package server exposes the controller over HTTP: token auth, a
// persistent command queue, live status, and a websocket event feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/antigravity-labs/controller/internal/config"
	"github.com/antigravity-labs/controller/internal/log"
	"github.com/antigravity-labs/controller/internal/security"
	"github.com/antigravity-labs/controller/internal/store"
)

// Version is reported in status payloads.
const Version = "0.3.0"

// Processor handles a queued command and returns the agent's reply.
type Processor interface {
	ProcessCommand(ctx context.Context, cmd *store.Command) (string, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, cmd *store.Command) (string, error)

func (f ProcessorFunc) ProcessCommand(ctx context.Context, cmd *store.Command) (string, error) {
	return f(ctx, cmd)
}

// Server is the HTTP front end for the controller.
type Server struct {
	cfg       config.ServerConfig
	secret    string
	queue     *store.Store
	gate      *security.Gate
	hub       *Hub
	status    *statusTracker
	processor Processor
	limiter   *rateLimiter
	logger    log.Logger

	httpServer *http.Server
}

// New wires the server. secret is the shared secret used both for
// token issuance and JWT signing; the gate's user allow-list is
// enforced at token issuance.
func New(cfg config.ServerConfig, secret string, queue *store.Store, processor Processor, gate *security.Gate, logger log.Logger) (*Server, error) {
	if secret == "" {
		return nil, errors.New("server secret is required")
	}
	if queue == nil {
		return nil, errors.New("command store is required")
	}
	if gate == nil {
		return nil, errors.New("security gate is required")
	}

	s := &Server{
		cfg:       cfg,
		secret:    secret,
		queue:     queue,
		gate:      gate,
		hub:       NewHub(logger),
		status:    newStatusTracker(cfg.AgentID, Version),
		processor: processor,
		limiter:   newRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/token", s.handleAuthToken)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	protected := http.NewServeMux()
	protected.HandleFunc("GET /api/status", s.handleStatus)
	protected.HandleFunc("POST /api/commands", s.handleEnqueue)
	protected.HandleFunc("GET /api/commands", s.handleListCommands)
	protected.HandleFunc("GET /api/commands/{id}", s.handleGetCommand)
	protected.Handle("GET /ws", s.hub)
	mux.Handle("/api/", s.authMiddleware(protected))
	mux.Handle("/ws", s.authMiddleware(protected))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.rateLimitMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Run serves HTTP and processes queued commands until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go s.workerLoop(ctx)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.broadcastStatus(s.status.set(StateOffline, ""))
	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status.payload())
}

type enqueueRequest struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	Priority int    `json:"priority"`
}

type commandResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Content     string     `json:"content"`
	Priority    int        `json:"priority"`
	Status      string     `json:"status"`
	Result      string     `json:"result,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toCommandResponse(cmd *store.Command) commandResponse {
	return commandResponse{
		ID:          cmd.ID,
		Type:        cmd.Type,
		Content:     cmd.Content,
		Priority:    cmd.Priority,
		Status:      string(cmd.Status),
		Result:      cmd.Result,
		CreatedAt:   cmd.CreatedAt,
		UpdatedAt:   cmd.UpdatedAt,
		CompletedAt: cmd.CompletedAt,
	}
}

func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "content is required")
		return
	}
	if req.Type == "" {
		req.Type = "message"
	}

	cmd, err := s.queue.Enqueue(r.Context(), req.Type, req.Content, req.Priority)
	if err != nil {
		s.logger.Error("failed to enqueue command", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to enqueue command")
		return
	}
	s.logger.Info("command enqueued", "id", cmd.ID, "type", cmd.Type)
	writeJSON(w, http.StatusAccepted, toCommandResponse(cmd))
}

func (s *Server) handleGetCommand(w http.ResponseWriter, r *http.Request) {
	cmd, err := s.queue.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "command not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load command", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load command")
		return
	}
	writeJSON(w, http.StatusOK, toCommandResponse(cmd))
}

func (s *Server) handleListCommands(w http.ResponseWriter, r *http.Request) {
	cmds, err := s.queue.List(r.Context(), 50)
	if err != nil {
		s.logger.Error("failed to list commands", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list commands")
		return
	}
	out := make([]commandResponse, 0, len(cmds))
	for _, cmd := range cmds {
		out = append(out, toCommandResponse(cmd))
	}
	writeJSON(w, http.StatusOK, map[string]any{"commands": out})
}

func (s *Server) broadcastStatus(payload StatusPayload) {
	s.hub.Broadcast("agent_status", payload)
}
