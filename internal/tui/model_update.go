package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"evctl/internal/color"
	"evctl/pkg/logging"
)

// Init starts the poll loop and the channel readers.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.snapshotCmd(), tickCmd()}
	if m.logChannel != nil {
		cmds = append(cmds, logReaderCmd(m.logChannel))
	}
	if m.regEvents != nil {
		cmds = append(cmds, registryReaderCmd(m.regEvents))
	}
	return tea.Batch(cmds...)
}

// Update is the event loop. Every message mutates the model here and
// nowhere else.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeLogView()
		m.ready = true
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.snapshotCmd(), tickCmd())

	case snapshotMsg:
		m.snapshot, m.snapErr = msg.Snap, msg.Err
		return m, nil

	case registryChangedMsg:
		cmds := []tea.Cmd{registryReaderCmd(m.regEvents)}
		if !m.reconciling {
			m.reconciling = true
			cmds = append(cmds, m.reconcileCmd(), m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case reconcileDoneMsg:
		m.reconciling = false
		m.reconcileErr = msg.Err
		if msg.Err == nil {
			m.lastReconcile = msg.Result
			m.lastReconcileAt = time.Now()
		}
		return m, m.snapshotCmd()

	case logEntryMsg:
		m.appendLog(logging.LogEntry(msg))
		return m, logReaderCmd(m.logChannel)

	case logChannelClosedMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.reconciling {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.ToggleDark):
		m.darkMode = !m.darkMode
		color.Initialize(m.darkMode)
		return m, nil

	case key.Matches(msg, m.keys.Reconcile):
		if m.reconciling {
			return m, nil
		}
		m.reconciling = true
		return m, tea.Batch(m.reconcileCmd(), m.spinner.Tick)
	}

	// Unbound keys scroll the log panel.
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m *Model) appendLog(entry logging.LogEntry) {
	m.logs = append(m.logs, entry)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
	if m.ready {
		atBottom := m.logView.AtBottom()
		m.logView.SetContent(m.renderLogLines())
		if atBottom {
			m.logView.GotoBottom()
		}
	}
}

func (m *Model) resizeLogView() {
	w, h := m.logPanelSize()
	if !m.ready {
		m.logView = viewportWithSize(w, h)
	} else {
		m.logView.Width = w
		m.logView.Height = h
	}
	m.logView.SetContent(m.renderLogLines())
	m.logView.GotoBottom()
}
