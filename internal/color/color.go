package color

import (
	"github.com/charmbracelet/lipgloss"
)

// Initialize fixes the background assumption for the whole process. The
// dashboard calls it once before any style renders; flipping it later only
// affects styles rendered afterwards.
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}

// Layout styles shared by the dashboard views.
var (
	AppStyle = lipgloss.NewStyle().Margin(0, 0)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
			Background(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#303030"}).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#0000CC", Dark: "#58A6FF"}).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"})
)

// Status bar backgrounds keyed by overall fleet state.
var (
	StatusBarSuccessBg = lipgloss.AdaptiveColor{Light: "#C8E6C9", Dark: "#1B5E20"}
	StatusBarInfoBg    = lipgloss.AdaptiveColor{Light: "#BBDEFB", Dark: "#0D47A1"}
	StatusBarWarningBg = lipgloss.AdaptiveColor{Light: "#FFE0B2", Dark: "#E65100"}
	StatusBarErrorBg   = lipgloss.AdaptiveColor{Light: "#FFCDD2", Dark: "#B71C1C"}
	StatusBarDefaultBg = lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#333333"}

	StatusBarBaseStyle = lipgloss.NewStyle()
	StatusBarTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
				Padding(0, 1)
)

// Log line styles by level.
var (
	LogInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#E0E0E0"})
	LogWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A07000", Dark: "#FFD066"}).Bold(true)
	LogErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B30000", Dark: "#FF6B6B"}).Bold(true)
	LogDebugStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#909090"}).Italic(true)
)

// Fleet state styles for service and worker rows.
var (
	RunningStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#006600", Dark: "#8AE234"}).Bold(true)
	StoppedStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B30000", Dark: "#FF6B6B"}).Bold(true)
	DegradedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A07000", Dark: "#FFD066"}).Bold(true)
	MutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#909090"})
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B30000", Dark: "#FF6B6B"})
)
