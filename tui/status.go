package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusSnapshot is one poll of the machine state rendered by the watch
// view.
type StatusSnapshot struct {
	MachineName string
	Version     string
	IPStatus    string
	ExternalIP  string
	GameRunning bool
	RageRunning bool
	Supervisor  bool

	// LatestVersion is empty when the update check was skipped or failed.
	UpdateAvailable bool
	LatestVersion   string

	Err error
}

// StatusPoller produces a fresh snapshot. It runs off the UI goroutine.
type StatusPoller func() StatusSnapshot

type statusTickMsg time.Time

type snapshotMsg StatusSnapshot

// StatusModel renders a live machine status view, refreshing every two
// seconds until the user quits.
type StatusModel struct {
	poll     StatusPoller
	spin     spinner.Model
	snap     StatusSnapshot
	haveSnap bool
	Quitting bool
}

func NewStatusModel(poll StatusPoller) StatusModel {
	InitCommonStyles(os.Stdout)
	return StatusModel{
		poll: poll,
		spin: NewPrimarySpinner(),
	}
}

func (m StatusModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetch(), statusTick())
}

func statusTick() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

func (m StatusModel) fetch() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(m.poll())
	}
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
	case statusTickMsg:
		return m, tea.Batch(m.fetch(), statusTick())
	case snapshotMsg:
		m.snap = StatusSnapshot(msg)
		m.haveSnap = true
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m StatusModel) View() string {
	if m.Quitting {
		return ""
	}
	if !m.haveSnap {
		return m.spin.View() + " " + LabelStyle().Bold(false).Render("Checking machine status...") + "\n"
	}

	var b strings.Builder
	b.WriteString(PrimaryTitleStyle().Render("virtbot status") + "\n\n")
	writeStatusRow(&b, "Machine", m.snap.MachineName)
	writeStatusRow(&b, "Version", m.snap.Version)
	writeStatusRow(&b, "Update", renderUpdate(m.snap.UpdateAvailable, m.snap.LatestVersion))
	writeStatusRow(&b, "External IP", m.snap.ExternalIP)
	writeStatusRow(&b, "IP status", renderIPStatus(m.snap.IPStatus))
	writeStatusRow(&b, "Supervisor", renderBool(m.snap.Supervisor, "running", "stopped"))
	writeStatusRow(&b, "RageMP", renderBool(m.snap.RageRunning, "running", "not running"))
	writeStatusRow(&b, "GTA5", renderBool(m.snap.GameRunning, "running", "not running"))
	if m.snap.Err != nil {
		b.WriteString("\n" + RenderError(m.snap.Err) + "\n")
	}
	b.WriteString("\n" + HelpStyle().Render("Refreshes every 2s. Press 'Q' to quit.") + "\n")
	return b.String()
}

func writeStatusRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s %s\n", LabelStyle().Render(fmt.Sprintf("%-12s", label)), value)
}

func renderBool(v bool, yes, no string) string {
	if v {
		return SuccessStyle().Render(yes)
	}
	return SubtleTextStyle().Render(no)
}

func renderUpdate(available bool, latest string) string {
	if available {
		return WarningStyle().Render(latest + " available")
	}
	if latest == "" {
		return SubtleTextStyle().Render("unknown")
	}
	return SuccessStyle().Render("up to date")
}

func renderIPStatus(status string) string {
	switch status {
	case "allowed":
		return SuccessStyle().Render("allowed")
	case "blocked":
		return ErrorStyle().Render("blocked")
	case "no_internet":
		return WarningStyle().Render("no internet")
	default:
		return SubtleTextStyle().Render(status)
	}
}
