// Package tui implements the watch dashboard: a live terminal view of the
// charging fleet that keeps the worker set reconciled while it runs.
//
// # Architecture
//
// The dashboard is a single Bubble Tea model split across files the way the
// rest of the codebase splits responsibilities:
//
//   - model_types.go: the Model, its messages and construction
//   - model_update.go: Init and Update, the event loop
//   - model_view.go: View, pure rendering
//   - commands.go: the tea.Cmd constructors that do the actual work
//   - keymap.go: keybindings and their help text
//   - program.go: wiring the model into a tea.Program
//
// # Data flow
//
// Three sources feed the model: a poll tick that snapshots the fleet, a
// filesystem watcher on the registry file that triggers reconciliation, and
// the logging channel that streams structured entries into the log panel.
// All of them arrive as messages; the model itself never blocks.
package tui
