package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m model) View() string {
	if m.pendingConfirm != nil {
		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			m.renderConfirmPopup(),
		)
	}

	sections := []string{
		m.renderChat(),
		inputStyle.Render(m.input.View()),
		m.renderStatus(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) renderChat() string {
	if len(m.messages) == 0 {
		return "No messages yet. Type a message to start."
	}
	return m.viewport.View()
}

func (m model) renderStatus() string {
	left := statusStyle.Render("Ready")
	if m.statusPhase == "busy" {
		left = statusBusyStyle.Render(fmt.Sprintf("%s %s...", m.spinner.View(), m.statusMessage))
	}

	right := ""
	if m.modelName != "" {
		right = statusStyle.Render(m.modelName)
	}
	if right != "" {
		return fmt.Sprintf("%s  %s", left, right)
	}
	return left
}

func (m model) renderConfirmPopup() string {
	req := m.pendingConfirm

	var lines []string
	lines = append(lines, confirmTitleStyle.Render("Confirm dangerous operation"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Tool: %s", req.Tool))
	if req.Summary != "" {
		lines = append(lines, "")
		lines = append(lines, req.Summary)
	}
	lines = append(lines, "")
	lines = append(lines, helpStyle.Render("y: Allow  n/esc: Deny"))

	return confirmBoxStyle.Render(strings.Join(lines, "\n"))
}
