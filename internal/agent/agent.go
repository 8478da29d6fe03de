// Package agent implements the reasoning loop: send the conversation to the
// provider, execute whatever tool calls come back behind the permission gate
// and confirmation channel, append the results, and repeat until the model
// produces text or the round cap trips.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/antigravity-labs/controller/internal/config"
	"github.com/antigravity-labs/controller/internal/confirm"
	"github.com/antigravity-labs/controller/internal/log"
	"github.com/antigravity-labs/controller/internal/provider"
	"github.com/antigravity-labs/controller/internal/security"
	"github.com/antigravity-labs/controller/internal/store"
	"github.com/antigravity-labs/controller/internal/tool"
)

// roundLimitMessage is returned when the reasoning engine keeps requesting
// tools past the round cap.
const roundLimitMessage = "Reached maximum number of tool calls. Please try a simpler request."

// Agent orchestrates per-session conversations. One message per session is
// processed at a time; different sessions run concurrently and share nothing
// but the immutable configuration.
type Agent struct {
	provider provider.Provider
	registry *tool.Registry
	gate     *security.Gate
	cfg      *config.Config
	logger   log.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// session owns one conversation history. Its mutex serializes message
// processing for the session.
type session struct {
	mu      sync.Mutex
	history []provider.Message
}

// New creates an Agent.
func New(p provider.Provider, registry *tool.Registry, gate *security.Gate, cfg *config.Config, logger log.Logger) *Agent {
	return &Agent{
		provider: p,
		registry: registry,
		gate:     gate,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// ProcessMessage runs one user message through the reasoning loop and always
// returns a text response; failures below the loop surface as tool results,
// failures of the loop itself surface as an apology with the session history
// left intact so the next message can retry.
func (a *Agent) ProcessMessage(ctx context.Context, sessionID, userMessage string, confirmer confirm.Confirmer) string {
	sess := a.getSession(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.history = append(sess.history, provider.Message{
		Role:    "user",
		Content: userMessage,
	})
	sess.history = truncateHistory(sess.history, a.cfg.Agent.HistoryWindow)

	reply, err := a.runLoop(ctx, sess, confirmer)
	if err != nil {
		a.logger.Error("agent loop failed", "session", sessionID, "error", err)
		return fmt.Sprintf("An error occurred while processing your request: %v", err)
	}
	return reply
}

// ProcessCommand runs one queued command unattended: no confirmation
// channel is attached, and the one-shot session is cleared afterwards so
// completed commands hold no history.
func (a *Agent) ProcessCommand(ctx context.Context, cmd *store.Command) (string, error) {
	defer a.ClearHistory(cmd.ID)
	return a.ProcessMessage(ctx, cmd.ID, cmd.Content, nil), nil
}

// ClearHistory drops the conversation for a session.
func (a *Agent) ClearHistory(sessionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, sessionID)
}

// SessionCount reports how many sessions currently hold history.
func (a *Agent) SessionCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

func (a *Agent) getSession(sessionID string) *session {
	a.mu.Lock()
	defer a.mu.Unlock()
	sess, ok := a.sessions[sessionID]
	if !ok {
		sess = &session{}
		a.sessions[sessionID] = sess
	}
	return sess
}

// runLoop drives the rounds: generate, execute requested tools, append
// results, repeat. Bounded by the configured round cap; once it trips the
// engine is not called again.
func (a *Agent) runLoop(ctx context.Context, sess *session, confirmer confirm.Confirmer) (string, error) {
	req := &provider.GenerateRequest{
		Tools:       a.registry.Declarations(),
		Temperature: &a.cfg.Agent.Temperature,
	}
	if a.cfg.Agent.SystemPromptOn {
		req.SystemInstructions = systemPrompt
	}

	for round := 0; round < a.cfg.Agent.MaxToolRounds; round++ {
		req.History = sess.history

		resp, err := a.provider.Generate(ctx, req)
		if err != nil {
			return "", err
		}

		switch resp.Content.Type {
		case provider.ResponseTypeToolCall:
			calls := resp.Content.ToolCalls
			sess.history = append(sess.history, provider.Message{
				Role:      "model",
				ToolCalls: calls,
			})

			// Sequential execution keeps results correlated to the
			// order the calls were issued.
			results := make([]provider.ToolResult, 0, len(calls))
			for _, call := range calls {
				results = append(results, provider.ToolResult{
					ID:      call.ID,
					Name:    call.Name,
					Content: a.executeCall(ctx, call, confirmer),
				})
			}
			sess.history = append(sess.history, provider.Message{
				Role:        "function",
				ToolResults: results,
			})

		case provider.ResponseTypeRefusal:
			text := fmt.Sprintf("The model refused to respond: %s", resp.Content.RefusalReason)
			sess.history = append(sess.history, provider.Message{Role: "model", Content: text})
			return text, nil

		default:
			text := strings.Join(resp.Content.TextParts, "\n")
			if text == "" {
				text = "Done."
			}
			sess.history = append(sess.history, provider.Message{Role: "model", Content: text})
			return text, nil
		}
	}

	return roundLimitMessage, nil
}

// executeCall resolves, gates, confirms, and executes a single tool call.
// Every failure mode comes back as a result string; nothing a tool does can
// abort the round.
func (a *Agent) executeCall(ctx context.Context, call provider.ToolCall, confirmer confirm.Confirmer) string {
	t, ok := a.registry.Get(call.Name)
	if !ok {
		return fmt.Sprintf("Error: Unknown tool '%s'", call.Name)
	}

	if msg := a.gate.ValidateCall(call.Name, call.Args); msg != "" {
		return msg
	}

	if a.gate.NeedsConfirmation(call.Name) && confirmer != nil {
		timeout := time.Duration(a.cfg.Security.ConfirmationTimeoutSeconds) * time.Second
		approved, err := confirm.WithTimeout(confirmer, timeout).Confirm(ctx, confirm.Request{
			Tool:    call.Name,
			Summary: renderCall(call),
		})
		if err != nil {
			a.logger.Warn("confirmation failed", "tool", call.Name, "error", err)
		}
		if err != nil || !approved {
			return fmt.Sprintf("Operation '%s' was denied by user.", call.Name)
		}
	}

	a.logger.Info("executing tool", "tool", call.Name)
	result, err := t.Execute(ctx, call.Args)
	if err != nil {
		a.logger.Error("tool execution failed", "tool", call.Name, "error", err)
		return fmt.Sprintf("Error executing %s: %v", call.Name, err)
	}
	return result
}

// renderCall produces the human-readable summary shown in confirmation
// prompts: the tool name plus pretty-printed arguments.
func renderCall(call provider.ToolCall) string {
	args, err := json.MarshalIndent(call.Args, "", "  ")
	if err != nil {
		args = []byte(fmt.Sprintf("%v", call.Args))
	}
	return fmt.Sprintf("**%s**\n```json\n%s\n```", call.Name, args)
}

// truncateHistory bounds the conversation to the most recent window entries,
// dropping oldest first. The cut never strands a tool-result turn without
// its model turn: if the boundary falls inside a call/result pair the
// orphaned result is dropped too.
func truncateHistory(history []provider.Message, window int) []provider.Message {
	if len(history) <= window {
		return history
	}
	start := len(history) - window
	for start < len(history) && history[start].IsToolResult() {
		start++
	}
	return history[start:]
}
