package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared by every styled renderer in this package. Kept adaptive:
// these are terminal-profile-relative colors, not fixed hex values, so
// they read fine on both light and dark backgrounds.
var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "27", Dark: "75"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "130", Dark: "214"}
	ColorPass   = lipgloss.AdaptiveColor{Light: "28", Dark: "35"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "246", Dark: "240"}
)
