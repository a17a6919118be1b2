package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"evctl/internal/color"
	"evctl/internal/fleet"
	"evctl/pkg/logging"
)

// fleetPanelRows caps each fleet panel at a fixed number of content lines so
// the log panel keeps a predictable height. Extra rows collapse into a
// "… and N more" line.
const fleetPanelRows = 10

// View renders the whole dashboard.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "starting dashboard..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	fleetRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderServicesPanel(),
		m.renderWorkersPanel(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		fleetRow,
		m.renderLogPanel(),
		m.renderStatusBar(),
	)
}

func (m *Model) renderHeader() string {
	title := fmt.Sprintf("evctl watch: %s", m.cfg.Compose.ProjectName)
	return color.HeaderStyle.Width(m.width).Render(title)
}

func (m *Model) fleetPanelWidth() int {
	w := m.width/2 - 1
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) renderServicesPanel() string {
	contentW := m.fleetPanelWidth() - color.PanelStyle.GetHorizontalFrameSize()

	lines := []string{color.PanelTitleStyle.Render("Services")}
	if len(m.snapshot.Services) == 0 {
		lines = append(lines, color.MutedStyle.Render("none configured"))
	}
	for i, svc := range m.snapshot.Services {
		if i >= fleetPanelRows-2 {
			lines = append(lines, color.MutedStyle.Render(fmt.Sprintf("… and %d more", len(m.snapshot.Services)-i)))
			break
		}
		lines = append(lines, serviceLine(svc, contentW))
	}

	return color.PanelStyle.Width(m.fleetPanelWidth()).Height(fleetPanelRows).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) renderWorkersPanel() string {
	contentW := m.fleetPanelWidth() - color.PanelStyle.GetHorizontalFrameSize()

	title := fmt.Sprintf("Charge points %d/%d", m.snapshot.RunningWorkers(), m.snapshot.EnrolledWorkers())
	lines := []string{color.PanelTitleStyle.Render(title)}
	if len(m.snapshot.Workers) == 0 {
		lines = append(lines, color.MutedStyle.Render("none enrolled or running"))
	}
	for i, wk := range m.snapshot.Workers {
		if i >= fleetPanelRows-2 {
			lines = append(lines, color.MutedStyle.Render(fmt.Sprintf("… and %d more", len(m.snapshot.Workers)-i)))
			break
		}
		lines = append(lines, workerLine(wk, contentW))
	}

	return color.PanelStyle.Width(m.fleetPanelWidth()).Height(fleetPanelRows).
		Render(strings.Join(lines, "\n"))
}

func serviceLine(svc fleet.ServiceState, width int) string {
	return stateIcon(svc.Running) + " " + annotatedLine(svc.Name, "("+svc.Tier+")", width-2)
}

func workerLine(wk fleet.WorkerState, width int) string {
	name := wk.Name
	if wk.Port > 0 {
		name += fmt.Sprintf(" :%d", wk.Port)
	}
	var note string
	if !wk.Enrolled {
		note = "(stray)"
	}
	return stateIcon(wk.Running) + " " + annotatedLine(name, note, width-2)
}

// annotatedLine truncates on the plain text, where the width math is right,
// and dims the note only when it survived whole.
func annotatedLine(name, note string, width int) string {
	plain := name
	if note != "" {
		plain += " " + note
	}
	if runewidth.StringWidth(plain) > width {
		return runewidth.Truncate(plain, width, "…")
	}
	if note != "" {
		return name + " " + color.MutedStyle.Render(note)
	}
	return name
}

func stateIcon(running bool) string {
	if running {
		return color.RunningStyle.Render("▶")
	}
	return color.StoppedStyle.Render("■")
}

func (m *Model) renderLogPanel() string {
	title := color.PanelTitleStyle.Render("Activity")
	body := lipgloss.JoinVertical(lipgloss.Left, title, m.logView.View())
	return color.PanelStyle.Width(m.width - 2).Render(body)
}

// logPanelSize returns the viewport dimensions that make the whole layout
// fit the terminal: header, fleet panels and status bar take the rest.
func (m *Model) logPanelSize() (w, h int) {
	w = m.width - 2 - color.PanelStyle.GetHorizontalFrameSize()
	if w < 10 {
		w = 10
	}
	// header(1) + fleet panels(rows+2) + log border and title(3) + status(1)
	h = m.height - 1 - (fleetPanelRows + 2) - 3 - 1
	if h < 3 {
		h = 3
	}
	return w, h
}

func viewportWithSize(w, h int) viewport.Model {
	return viewport.New(w, h)
}

func (m *Model) renderLogLines() string {
	if len(m.logs) == 0 {
		return color.MutedStyle.Render("waiting for activity")
	}

	w := m.logView.Width
	if w <= 0 {
		w, _ = m.logPanelSize()
	}

	lines := make([]string, 0, len(m.logs))
	for _, entry := range m.logs {
		lines = append(lines, renderLogLine(entry, w))
	}
	return strings.Join(lines, "\n")
}

func renderLogLine(entry logging.LogEntry, width int) string {
	msg := entry.Message
	if entry.Err != nil {
		msg += ": " + entry.Err.Error()
	}
	plain := fmt.Sprintf("%s [%s] %s", entry.Timestamp.Format("15:04:05"), entry.Subsystem, msg)
	plain = runewidth.Truncate(plain, width, "…")

	switch entry.Level {
	case logging.LevelWarn:
		return color.LogWarnStyle.Render(plain)
	case logging.LevelError:
		return color.LogErrorStyle.Render(plain)
	case logging.LevelDebug:
		return color.LogDebugStyle.Render(plain)
	default:
		return color.LogInfoStyle.Render(plain)
	}
}

func (m *Model) renderStatusBar() string {
	state, bg := m.overallState()

	right := m.shortHelpText()
	if !m.lastReconcileAt.IsZero() {
		right = fmt.Sprintf("last reconcile %s (%s) | %s",
			m.lastReconcileAt.Format("15:04:05"), m.lastReconcile.String(), right)
	}

	rightStr := color.StatusBarTextStyle.Background(bg).Render(right)
	leftW := m.width - lipgloss.Width(rightStr)
	if leftW < 0 {
		leftW = 0
	}
	leftStr := color.StatusBarTextStyle.Background(bg).Width(leftW).Render(state)

	return color.StatusBarBaseStyle.Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, leftStr, rightStr))
}

// overallState folds the snapshot and reconcile state into the one line the
// status bar shows, with a background to match.
func (m *Model) overallState() (string, lipgloss.AdaptiveColor) {
	switch {
	case m.reconciling:
		return m.spinner.View() + "reconciling charge points", color.StatusBarInfoBg
	case m.snapErr != nil:
		return "⚠ " + m.snapErr.Error(), color.StatusBarErrorBg
	case m.reconcileErr != nil:
		return "⚠ reconcile failed: " + m.reconcileErr.Error(), color.StatusBarErrorBg
	case m.snapshot.Healthy():
		return "✔ fleet healthy", color.StatusBarSuccessBg
	default:
		return "● fleet degraded", color.StatusBarWarningBg
	}
}

func (m *Model) shortHelpText() string {
	parts := make([]string, 0, 3)
	for _, b := range m.keys.ShortHelp() {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return strings.Join(parts, " | ")
}

func (m *Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(color.PanelTitleStyle.Render("Keybindings"))
	sb.WriteString("\n\n")
	for _, column := range m.keys.FullHelp() {
		for _, b := range column {
			sb.WriteString(fmt.Sprintf("  %-12s %s\n", b.Help().Key, b.Help().Desc))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(color.MutedStyle.Render("press h to close"))

	box := color.PanelStyle.Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
