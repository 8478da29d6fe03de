package console

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("212")
	colorDanger  = lipgloss.Color("203")
	colorDim     = lipgloss.Color("241")

	userMessageStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	statusBusyStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorDanger).
			Padding(1, 2)

	confirmTitleStyle = lipgloss.NewStyle().
				Foreground(colorDanger).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Faint(true)
)
