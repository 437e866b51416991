package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zsiec/smpte/pkg/timecode"
)

type tickMsg time.Time

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// model advances a timecode one counter step per nominal frame (or field)
// period. The wall clock only paces the display; it is never used to
// correct the counter.
type model struct {
	tc        *timecode.Timecode
	start     uint32
	period    time.Duration
	withField bool
	paused    bool
	width     int
	quitting  bool
}

func newModel(tc *timecode.Timecode, withField bool) *model {
	return &model{
		tc:        tc,
		start:     tc.Counter(),
		period:    tc.Rate().FrameDuration(tc.IsDropFrame()),
		withField: withField,
	}
}

// Init implements tea.Model
func (m *model) Init() tea.Cmd {
	return tickEvery(m.period)
}

// Update implements tea.Model
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case " ", "space":
			m.paused = !m.paused
		case "n":
			if m.paused {
				m.tc.Increment()
			}
		case "r":
			m.reset()
		}
		return m, nil

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		if !m.paused {
			m.tc.Increment()
		}
		return m, tickEvery(m.period)
	}

	return m, nil
}

func (m *model) reset() {
	tc, err := timecode.FromCounter(m.tc.FPS(), m.tc.IsDropFrame(), m.start)
	if err != nil {
		return
	}
	tc.SetUserBits(m.tc.UserBits())
	m.tc = tc
}

// View implements tea.Model
func (m *model) View() string {
	if m.quitting {
		return ""
	}

	mode := "non-drop"
	if m.tc.IsDropFrame() {
		mode = "drop-frame"
	}
	header := HeaderStyle.Render(fmt.Sprintf("SMPTE TIMECODE  %d fps %s", m.tc.FPS(), mode))

	readout := ReadoutStyle.Render(m.tc.Format(m.withField))

	flags := m.tc.Flags()
	var flagText []string
	if flags.Has(timecode.FlagDropFrame) {
		flagText = append(flagText, "DF")
	}
	if flags.Has(timecode.FlagFieldMark) {
		flagText = append(flagText, FieldStyle.Render("F2"))
	}
	if len(flagText) == 0 {
		flagText = append(flagText, MutedStyle.Render("none"))
	}

	rows := []string{
		row("Status", StatusIcon(m.paused)),
		row("Counter", fmt.Sprintf("%d", m.tc.Counter())),
		row("BCD", fmt.Sprintf("0x%08x", m.tc.BCD())),
		row("User bits", fmt.Sprintf("0x%08x", m.tc.UserBits())),
		row("Flags", strings.Join(flagText, " ")),
		row("Elapsed", m.tc.Duration().Truncate(time.Millisecond).String()),
		row("Step", m.period.String()),
	}
	info := PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	help := MutedStyle.Render(fmt.Sprintf("%s pause  %s step  %s reset  %s quit",
		HelpKeyStyle.Render("space"), HelpKeyStyle.Render("n"),
		HelpKeyStyle.Render("r"), HelpKeyStyle.Render("q")))

	return lipgloss.JoinVertical(lipgloss.Center, header, readout, info, help) + "\n"
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), ValueStyle.Render(value))
}
