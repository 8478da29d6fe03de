package server

import (
	"context"
	"errors"
	"time"

	"github.com/antigravity-labs/controller/internal/format"
	"github.com/antigravity-labs/controller/internal/store"
)

const pollInterval = 2 * time.Second

// maxBroadcastChars bounds result payloads pushed to websocket
// subscribers; the full result stays in the store.
const maxBroadcastChars = 4000

// workerLoop drains the command queue one command at a time, pushing
// status transitions and results to websocket subscribers.
func (s *Server) workerLoop(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		for {
			cmd, err := s.queue.NextPending(ctx)
			if errors.Is(err, store.ErrEmpty) {
				break
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Error("failed to poll command queue", "error", err)
				break
			}
			s.process(ctx, cmd)
			if ctx.Err() != nil {
				return
			}
		}
	}
}

func (s *Server) process(ctx context.Context, cmd *store.Command) {
	s.logger.Info("processing command", "id", cmd.ID, "type", cmd.Type)
	s.broadcastStatus(s.status.set(StateBusy, cmd.Content))

	result, err := s.processor.ProcessCommand(ctx, cmd)
	if err != nil {
		s.logger.Error("command failed", "id", cmd.ID, "error", err)
		if serr := s.queue.SetStatus(ctx, cmd.ID, store.StatusFailed, err.Error()); serr != nil {
			s.logger.Error("failed to record command failure", "id", cmd.ID, "error", serr)
		}
		s.hub.Broadcast("task_result", map[string]any{
			"command_id": cmd.ID,
			"status":     string(store.StatusFailed),
			"error":      format.Truncate(err.Error(), maxBroadcastChars, "..."),
		})
		s.broadcastStatus(s.status.set(StateError, ""))
		return
	}

	if serr := s.queue.SetStatus(ctx, cmd.ID, store.StatusCompleted, result); serr != nil {
		s.logger.Error("failed to record command result", "id", cmd.ID, "error", serr)
	}
	s.hub.Broadcast("task_result", map[string]any{
		"command_id": cmd.ID,
		"status":     string(store.StatusCompleted),
		"result":     format.Truncate(result, maxBroadcastChars, "..."),
	})
	s.broadcastStatus(s.status.set(StateIdle, ""))
}
