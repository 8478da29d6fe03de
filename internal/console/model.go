package console

import (
	"fmt"
	"strings"

	"github.com/antigravity-labs/controller/internal/confirm"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type chatMessage struct {
	role    string
	content string
}

type model struct {
	console   *Console
	modelName string
	renderer  *markdownRenderer

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	messages       []chatMessage
	pendingConfirm *confirm.Request
	pendingSeq     uint64
	statusPhase    string
	statusMessage  string
	waiting        bool
	width          int
	height         int
}

// Bubble Tea messages bridging the console channels.
type confirmRequestMsg confirmTicket
type confirmExpiredMsg struct{ seq uint64 }
type replyMsg string
type statusMsg statusUpdate

func newModel(c *Console, modelName string) model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		console:   c,
		modelName: modelName,
		renderer:  newMarkdownRenderer(80),
		input:     ti,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		listenForConfirm(m.console.confirmReq),
		listenForReplies(m.console.replyChan),
		listenForStatus(m.console.statusChan),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 6
		m.renderer.updateWidth(msg.Width - 4)
		m.updateViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case confirmRequestMsg:
		req := msg.req
		m.pendingConfirm = &req
		m.pendingSeq = msg.seq
		return m, listenForConfirm(m.console.confirmReq)

	case confirmExpiredMsg:
		// The waiter already treated the request as denied; a keypress
		// for it would be discarded, so drop the popup.
		if m.pendingConfirm != nil && msg.seq == m.pendingSeq {
			m.pendingConfirm = nil
		}
		return m, nil

	case replyMsg:
		m.waiting = false
		m.messages = append(m.messages, chatMessage{role: "assistant", content: string(msg)})
		m.updateViewport()
		return m, listenForReplies(m.console.replyChan)

	case statusMsg:
		m.statusPhase = msg.phase
		m.statusMessage = msg.message
		return m, listenForStatus(m.console.statusChan)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pendingConfirm != nil {
		switch msg.String() {
		case "y", "Y":
			m.answerConfirm(true)
		case "n", "N", "esc":
			m.answerConfirm(false)
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		input := strings.TrimSpace(m.input.Value())
		if input == "" || m.waiting {
			return m, nil
		}
		if strings.HasPrefix(input, "/") {
			return m.handleCommand(input)
		}

		m.messages = append(m.messages, chatMessage{role: "user", content: input})
		m.updateViewport()
		m.input.SetValue("")
		m.waiting = true
		m.console.submit(input)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleCommand(input string) (model, tea.Cmd) {
	m.input.SetValue("")

	switch strings.Fields(input)[0] {
	case "/quit":
		return m, tea.Quit
	case "/clear":
		m.console.clearHistory()
		m.messages = nil
		m.updateViewport()
	case "/status":
		m.messages = append(m.messages, chatMessage{
			role:    "assistant",
			content: fmt.Sprintf("Model: %s\nMessages this session: %d", m.modelName, len(m.messages)),
		})
		m.updateViewport()
	case "/help":
		m.messages = append(m.messages, chatMessage{
			role: "assistant",
			content: "Available commands:\n" +
				"- /clear - Clear conversation history\n" +
				"- /status - Show session info\n" +
				"- /help - Show this help\n" +
				"- /quit - Exit",
		})
		m.updateViewport()
	default:
		m.messages = append(m.messages, chatMessage{
			role:    "assistant",
			content: fmt.Sprintf("Unknown command: %s (try /help)", input),
		})
		m.updateViewport()
	}
	return m, nil
}

// answerConfirm delivers the decision without blocking: the waiter may
// already have timed out and stopped listening.
func (m *model) answerConfirm(approved bool) {
	select {
	case m.console.confirmResp <- approved:
	default:
	}
	m.pendingConfirm = nil
}

func (m *model) updateViewport() {
	var lines []string
	for _, msg := range m.messages {
		if msg.role == "user" {
			lines = append(lines, userMessageStyle.Render("You: "+msg.content))
		} else {
			lines = append(lines, m.renderer.render(msg.content))
		}
		lines = append(lines, "")
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

func listenForConfirm(ch <-chan confirmTicket) tea.Cmd {
	return func() tea.Msg {
		return confirmRequestMsg(<-ch)
	}
}

func listenForReplies(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return replyMsg(<-ch)
	}
}

func listenForStatus(ch <-chan statusUpdate) tea.Cmd {
	return func() tea.Msg {
		return statusMsg(<-ch)
	}
}
