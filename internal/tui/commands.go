package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"evctl/internal/fleet"
	"evctl/internal/registry"
	"evctl/pkg/logging"
)

const (
	snapshotTimeout  = 10 * time.Second
	reconcileTimeout = 2 * time.Minute
)

// tickCmd schedules the next fleet poll.
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// snapshotCmd observes the fleet off the event loop.
func (m *Model) snapshotCmd() tea.Cmd {
	rt, cfg := m.runtime, m.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()

		snap, err := fleet.Observe(ctx, rt, cfg)
		return snapshotMsg{Snap: snap, Err: err}
	}
}

// reconcileCmd loads the registry and runs one reconciliation pass.
func (m *Model) reconcileCmd() tea.Cmd {
	rec, path := m.rec, m.cfg.Registry.Path
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()

		workers, err := registry.Load(path)
		if err != nil {
			return reconcileDoneMsg{Err: err}
		}
		return reconcileDoneMsg{Result: rec.Reconcile(ctx, workers)}
	}
}

// logReaderCmd forwards the next entry from the logging channel. Update
// re-issues it after every entry, keeping exactly one reader pending.
func logReaderCmd(ch <-chan logging.LogEntry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return logChannelClosedMsg{}
		}
		return logEntryMsg(entry)
	}
}

// registryReaderCmd forwards the next registry change signal.
func registryReaderCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return registryChangedMsg{}
	}
}
