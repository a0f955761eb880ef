// Package style holds the palette and glyphs shared by the terminal outputs.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Accent = lipgloss.Color("#E48632")
	Muted  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Blue   = lipgloss.Color("#3B82F6")
)

// Glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Cached  = "~"
	Dot     = "●"
)

// TaskName renders a task label the way every renderer prints it.
func TaskName(name string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(Accent).Render(name)
}
