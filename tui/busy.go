package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BusyDoneMsg tells the busy view the operation finished.
type BusyDoneMsg struct{}

// BusyModel is a spinner with elapsed time, used for long waits like the
// RageMP updater run or waiting for the game process to appear.
type BusyModel struct {
	text     string
	spin     spinner.Model
	started  time.Time
	Quitting bool

	styles busyStyles
}

type busyStyles struct {
	text     lipgloss.Style
	duration lipgloss.Style
	help     lipgloss.Style
}

func newBusyStyles() busyStyles {
	return busyStyles{
		text:     LabelStyle().Bold(false),
		duration: DurationStyle(),
		help:     HelpStyle(),
	}
}

func NewBusyModel(text string) BusyModel {
	InitCommonStyles(os.Stdout)
	return BusyModel{
		text:    text,
		spin:    NewPrimarySpinner(),
		started: time.Now(),
		styles:  newBusyStyles(),
	}
}

func (m BusyModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m BusyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BusyDoneMsg:
		m.Quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m BusyModel) View() string {
	if m.Quitting {
		return ""
	}
	elapsed := time.Since(m.started).Round(time.Second)
	line := m.spin.View() + " " + m.styles.text.Render(m.text) +
		" " + m.styles.duration.Render(fmt.Sprintf("(%s)", elapsed))
	return line + "\n" + m.styles.help.Render("Press 'Q' to cancel\n")
}
