package main

import "github.com/charmbracelet/lipgloss"

// Broadcast palette on a dark theme.
var (
	Primary    = lipgloss.Color("#FF6B35")
	Secondary  = lipgloss.Color("#1E88E5")
	Warning    = lipgloss.Color("#FFB74D")
	Text       = lipgloss.Color("#E0E0E0")
	TextBright = lipgloss.Color("#FFFFFF")
	Muted      = lipgloss.Color("#90A4AE")
	LiveGreen  = lipgloss.Color("#66BB6A")
	PanelBg    = lipgloss.Color("#161B26")
	HeaderBg   = lipgloss.Color("#1C2128")
	BorderDark = lipgloss.Color("#30363D")
	OnAir      = lipgloss.Color("#FF1744")
	Standby    = lipgloss.Color("#FFC107")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(TextBright).
			Background(HeaderBg).
			Padding(0, 2).
			Bold(true).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)

	// ReadoutStyle renders the running timecode itself.
	ReadoutStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(Primary).
			Foreground(TextBright).
			Bold(true).
			Padding(1, 4).
			Align(lipgloss.Center)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDark).
			Foreground(Text).
			Padding(0, 2)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Width(12)

	ValueStyle = lipgloss.NewStyle().
			Foreground(TextBright)

	LiveStyle = lipgloss.NewStyle().
			Foreground(OnAir).
			Bold(true)

	PausedStyle = lipgloss.NewStyle().
			Foreground(Standby).
			Bold(true)

	FieldStyle = lipgloss.NewStyle().
			Foreground(LiveGreen).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)

// StatusIcon renders the transport state.
func StatusIcon(paused bool) string {
	if paused {
		return PausedStyle.Render("|| PAUSED")
	}
	return LiveStyle.Render("● RUNNING")
}
