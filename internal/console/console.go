// Package console provides the interactive terminal front end: a chat
// view, slash commands, and a confirmation popup for dangerous tools.
package console

import (
	"context"
	"sync/atomic"

	"github.com/antigravity-labs/controller/internal/confirm"
	tea "github.com/charmbracelet/bubbletea"
)

// Engine is the conversational backend the console drives.
type Engine interface {
	ProcessMessage(ctx context.Context, sessionID, message string, confirmer confirm.Confirmer) string
	ClearHistory(sessionID string)
}

const sessionID = "console"

// Console bridges the Bubble Tea program and the engine. It also
// implements confirm.Confirmer so dangerous tool calls surface as a
// popup in the UI.
type Console struct {
	program *tea.Program
	engine  Engine

	confirmSeq  atomic.Uint64
	confirmReq  chan confirmTicket
	confirmResp chan bool
	replyChan   chan string
	statusChan  chan statusUpdate
}

// confirmTicket pairs a confirmation request with a sequence number so
// the UI can tell an expiry notice apart from a later request.
type confirmTicket struct {
	req confirm.Request
	seq uint64
}

type statusUpdate struct {
	phase   string
	message string
}

// New creates the console around an engine. modelName appears in the
// status bar.
func New(engine Engine, modelName string) *Console {
	c := &Console{
		engine:      engine,
		confirmReq:  make(chan confirmTicket),
		confirmResp: make(chan bool),
		replyChan:   make(chan string, 10),
		statusChan:  make(chan statusUpdate, 10),
	}
	model := newModel(c, modelName)
	c.program = tea.NewProgram(model, tea.WithAltScreen())
	return c
}

// Run blocks until the user quits.
func (c *Console) Run() error {
	_, err := c.program.Run()
	return err
}

// Confirm shows the y/n popup and waits for the decision. Context
// expiry counts as denial and dismisses the popup.
func (c *Console) Confirm(ctx context.Context, req confirm.Request) (bool, error) {
	ticket := confirmTicket{req: req, seq: c.confirmSeq.Add(1)}
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case c.confirmReq <- ticket:
	}
	select {
	case <-ctx.Done():
		// Nobody is listening for the operator's answer anymore;
		// tell the UI to drop the popup.
		c.program.Send(confirmExpiredMsg{seq: ticket.seq})
		return false, ctx.Err()
	case approved := <-c.confirmResp:
		return approved, nil
	}
}

// submit runs one message through the engine off the UI goroutine.
func (c *Console) submit(input string) {
	go func() {
		c.status("busy", "Thinking")
		reply := c.engine.ProcessMessage(context.Background(), sessionID, input, c)
		c.status("ready", "")
		c.replyChan <- reply
	}()
}

func (c *Console) clearHistory() {
	c.engine.ClearHistory(sessionID)
}

func (c *Console) status(phase, message string) {
	select {
	case c.statusChan <- statusUpdate{phase: phase, message: message}:
	default:
	}
}
