// Package color provides terminal color theming for evctl.
//
// It centralizes the lipgloss styles the watch dashboard renders with, so
// every view draws from one palette instead of declaring its own colors.
//
// # Theme System
//
// Styles are organized into semantic categories:
//   - Layout: app frame, header, panels
//   - Status bar: backgrounds keyed by overall fleet state
//   - Log lines: one style per level
//   - Fleet state: running, stopped, degraded, muted
//
// Every color is a lipgloss.AdaptiveColor with a light and a dark variant;
// Initialize fixes which variant renders for the life of the process.
//
// # Usage Example
//
//	color.Initialize(true) // dark terminal
//	fmt.Println(color.RunningStyle.Render("▶ central"))
//	fmt.Println(color.StoppedStyle.Render("■ frontend"))
//
// # Thread Safety
//
// The style variables are written once at package init and only read after
// that. Initialize must run before the first render, not concurrently with
// it.
package color
