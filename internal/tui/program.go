package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"evctl/internal/config"
	"evctl/internal/containerizer"
	"evctl/pkg/logging"
)

// NewProgram wires the dashboard model into a Bubble Tea program running in
// the alternate screen.
func NewProgram(
	rt containerizer.Runtime,
	cfg config.EvctlConfig,
	logChannel <-chan logging.LogEntry,
	registryEvents <-chan struct{},
) *tea.Program {
	m := NewModel(rt, cfg, logChannel, registryEvents)
	return tea.NewProgram(m, tea.WithAltScreen())
}
